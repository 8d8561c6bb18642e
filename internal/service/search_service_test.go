package service

import (
	"context"
	"testing"

	"hikari/internal/models"
	"hikari/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchServiceFallbackBeforeBuild(t *testing.T) {
	var gotKeyword string
	repo := &showRepoStub{
		searchByKeywordFn: func(ctx context.Context, keyword string, limit int) ([]models.Show, error) {
			gotKeyword = keyword
			return []models.Show{{ID: "s1", Title: "Attack on Titan"}}, nil
		},
	}
	svc := NewSearchService(search.NewIndex(), repo, 0)

	records, err := svc.Search(context.Background(), "  Attack on Titan  ", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s1", records[0].ID)
	assert.Equal(t, "attack", gotKeyword, "fallback queries the first canonicalized term")
}

func TestSearchServiceUsesIndexOnceBuilt(t *testing.T) {
	repo := &showRepoStub{
		searchByKeywordFn: func(ctx context.Context, keyword string, limit int) ([]models.Show, error) {
			t.Fatal("keyword fallback must not run once the index is built")
			return nil, nil
		},
	}
	idx := search.NewIndex()
	require.NoError(t, idx.Rebuild([]search.Record{
		{ID: "s1", Title: "Vinland Saga"},
		{ID: "s2", Title: "Frieren"},
	}))
	svc := NewSearchService(idx, repo, 0)

	records, err := svc.Search(context.Background(), "vinland", 10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s1", records[0].ID)
}

func TestSearchServiceBlankQuery(t *testing.T) {
	svc := NewSearchService(search.NewIndex(), &showRepoStub{}, 0)

	_, err := svc.Search(context.Background(), "   ", 10)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}
