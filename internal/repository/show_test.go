package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"hikari/internal/keywords"
	"hikari/internal/models"
	"hikari/internal/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeShow(title string, createdAt time.Time) *models.Show {
	return &models.Show{
		ID:        uuid.NewString(),
		Title:     title,
		Type:      models.ShowTypeTV,
		CreatedAt: createdAt,
	}
}

func TestShowRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewShowRepository(db)
	ctx := context.Background()

	t.Run("CreateStoresKeywords", func(t *testing.T) {
		show := makeShow("Attack on Titan", time.Now())
		err := repo.Create(ctx, show, keywords.Generate(show.Title))
		require.NoError(t, err)

		var stored []models.ShowKeyword
		require.NoError(t, db.Where("show_id = ?", show.ID).Find(&stored).Error)
		assert.NotEmpty(t, stored)

		kws := make([]string, len(stored))
		for i, k := range stored {
			kws[i] = k.Keyword
		}
		assert.Contains(t, kws, "attack")
		assert.Contains(t, kws, "tit")
	})

	t.Run("GetByIDNotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.NewString())
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("UpdateReplacesKeywords", func(t *testing.T) {
		show := makeShow("Old Title", time.Now())
		require.NoError(t, repo.Create(ctx, show, keywords.Generate(show.Title)))

		show.Title = "Naruto"
		require.NoError(t, repo.Update(ctx, show, keywords.Generate(show.Title)))

		found, err := repo.SearchByKeyword(ctx, "nar", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, show.ID, found[0].ID)

		stale, err := repo.SearchByKeyword(ctx, "old", 10)
		require.NoError(t, err)
		assert.Empty(t, stale)
	})

	t.Run("IncrementViewCount", func(t *testing.T) {
		show := makeShow("Counted", time.Now())
		require.NoError(t, repo.Create(ctx, show, nil))

		require.NoError(t, repo.IncrementViewCount(ctx, show.ID))
		require.NoError(t, repo.IncrementViewCount(ctx, show.ID))

		got, err := repo.GetByID(ctx, show.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ViewCount)
	})

	t.Run("IncrementViewCountMissingShow", func(t *testing.T) {
		err := repo.IncrementViewCount(ctx, uuid.NewString())
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("UpdateCounters", func(t *testing.T) {
		show := makeShow("Countered", time.Now())
		require.NoError(t, repo.Create(ctx, show, nil))

		require.NoError(t, repo.UpdateCounters(ctx, show.ID, 12.5, 13))

		got, err := repo.GetByID(ctx, show.ID)
		require.NoError(t, err)
		assert.Equal(t, 12.5, got.LatestEpisodeNumber)
		assert.Equal(t, int64(13), got.EpisodeCount)
		assert.False(t, got.CountersUpdatedAt.IsZero())
	})
}

func TestShowRepositoryListPage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewShowRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		show := makeShow(fmt.Sprintf("Show %d", i), base.Add(time.Duration(i)*time.Hour))
		require.NoError(t, repo.Create(ctx, show, nil))
	}

	// Newest first, two per page.
	page1, cur1, err := repo.ListPage(ctx, ShowFilter{}, pagination.None, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "Show 4", page1[0].Title)
	assert.Equal(t, "Show 3", page1[1].Title)
	require.NotEqual(t, pagination.None, cur1)

	page2, cur2, err := repo.ListPage(ctx, ShowFilter{}, cur1, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "Show 2", page2[0].Title)
	assert.Equal(t, "Show 1", page2[1].Title)

	page3, _, err := repo.ListPage(ctx, ShowFilter{}, cur2, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "Show 0", page3[0].Title)

	t.Run("InvalidCursor", func(t *testing.T) {
		_, _, err := repo.ListPage(ctx, ShowFilter{}, pagination.Cursor("not base64 json"), 2)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
	})
}

func TestShowRepositoryListPageFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewShowRepository(db)
	ctx := context.Background()

	action := models.Tag{Name: "Action", Slug: "action"}
	require.NoError(t, db.Create(&action).Error)

	tagged := makeShow("Tagged", time.Now())
	tagged.Tags = []models.Tag{action}
	tagged.IsCompleted = true
	require.NoError(t, repo.Create(ctx, tagged, nil))

	plain := makeShow("Plain", time.Now().Add(time.Minute))
	require.NoError(t, repo.Create(ctx, plain, nil))

	byTag, _, err := repo.ListPage(ctx, ShowFilter{TagSlug: "action"}, pagination.None, 10)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, tagged.ID, byTag[0].ID)

	completed, _, err := repo.ListPage(ctx, ShowFilter{CompletedOnly: true}, pagination.None, 10)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, tagged.ID, completed[0].ID)
}
