package service

import (
	"context"
	"testing"
	"time"

	"hikari/internal/cache"
	"hikari/internal/models"
	"hikari/internal/pagination"
	"hikari/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// showRepoStub is a stub for repository.ShowRepository.
type showRepoStub struct {
	getByIDFn         func(ctx context.Context, id string) (*models.Show, error)
	searchByKeywordFn func(ctx context.Context, keyword string, limit int) ([]models.Show, error)
	latestEpisodesFn  func(ctx context.Context, showIDs []string) (map[string]float64, error)
	incrementFn       func(ctx context.Context, id string) error
}

func (s *showRepoStub) Create(ctx context.Context, show *models.Show, keywords []string) error {
	return nil
}

func (s *showRepoStub) GetByID(ctx context.Context, id string) (*models.Show, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, id)
	}
	return nil, models.NewNotFoundError("Show", id)
}

func (s *showRepoStub) Update(ctx context.Context, show *models.Show, keywords []string) error {
	return nil
}

func (s *showRepoStub) ListPage(ctx context.Context, filter repository.ShowFilter, after pagination.Cursor, limit int) ([]models.Show, pagination.Cursor, error) {
	return nil, "", nil
}

func (s *showRepoStub) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]models.Show, error) {
	if s.searchByKeywordFn != nil {
		return s.searchByKeywordFn(ctx, keyword, limit)
	}
	return nil, nil
}

func (s *showRepoStub) LatestEpisodes(ctx context.Context, showIDs []string) (map[string]float64, error) {
	if s.latestEpisodesFn != nil {
		return s.latestEpisodesFn(ctx, showIDs)
	}
	return map[string]float64{}, nil
}

func (s *showRepoStub) UpdateCounters(ctx context.Context, id string, latest float64, count int64) error {
	return nil
}

func (s *showRepoStub) IncrementViewCount(ctx context.Context, id string) error {
	if s.incrementFn != nil {
		return s.incrementFn(ctx, id)
	}
	return nil
}

func (s *showRepoStub) Count(ctx context.Context) (int64, error) { return 0, nil }

func TestViewServiceThrottlesRepeatViews(t *testing.T) {
	var increments []string
	repo := &showRepoStub{
		incrementFn: func(ctx context.Context, id string) error {
			increments = append(increments, id)
			return nil
		},
	}
	svc := NewViewService(repo, cache.NewCooldown(nil), 30*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.RegisterView(ctx, "show-1", "u:42"))
	require.NoError(t, svc.RegisterView(ctx, "show-1", "u:42"))
	require.NoError(t, svc.RegisterView(ctx, "show-1", "u:42"))
	assert.Equal(t, []string{"show-1"}, increments, "repeat views inside the window count once")

	// A different viewer or a different show is a separate window.
	require.NoError(t, svc.RegisterView(ctx, "show-1", "u:43"))
	require.NoError(t, svc.RegisterView(ctx, "show-2", "u:42"))
	assert.Equal(t, []string{"show-1", "show-1", "show-2"}, increments)
}

func TestViewServiceWindowExpiry(t *testing.T) {
	count := 0
	repo := &showRepoStub{
		incrementFn: func(ctx context.Context, id string) error {
			count++
			return nil
		},
	}
	svc := NewViewService(repo, cache.NewCooldown(nil), 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, svc.RegisterView(ctx, "show-1", "ip:10.0.0.1"))
	require.NoError(t, svc.RegisterView(ctx, "show-1", "ip:10.0.0.1"))
	assert.Equal(t, 1, count)

	time.Sleep(30 * time.Millisecond)
	require.NoError(t, svc.RegisterView(ctx, "show-1", "ip:10.0.0.1"))
	assert.Equal(t, 2, count)
}

func TestViewServiceRequiresViewerKey(t *testing.T) {
	repo := &showRepoStub{}
	svc := NewViewService(repo, cache.NewCooldown(nil), 0)

	err := svc.RegisterView(context.Background(), "show-1", "")
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}
