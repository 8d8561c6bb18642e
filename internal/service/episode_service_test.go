package service

import (
	"context"
	"testing"

	"hikari/internal/database"
	"hikari/internal/models"
	"hikari/internal/repository"
	"hikari/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// catalogFixture wires the show and episode services against a fresh
// in-memory database, the way the server composes them.
type catalogFixture struct {
	db       *gorm.DB
	shows    *ShowService
	episodes *EpisodeService
	showRepo repository.ShowRepository
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)

	showRepo := repository.NewShowRepository(db)
	episodeRepo := repository.NewEpisodeRepository(db)
	bookmarkRepo := repository.NewBookmarkRepository(db)
	tagRepo := repository.NewTagRepository(db)
	deleter := repository.NewBatchDeleter(db, 0)
	index := search.NewIndex()

	shows := NewShowService(showRepo, episodeRepo, bookmarkRepo, tagRepo, deleter, index)
	episodes := NewEpisodeService(episodeRepo, showRepo, deleter, shows)
	return &catalogFixture{db: db, shows: shows, episodes: episodes, showRepo: showRepo}
}

func (f *catalogFixture) createShow(t *testing.T, title string) *models.Show {
	t.Helper()
	show, err := f.shows.CreateShow(context.Background(), CreateShowInput{Title: title})
	require.NoError(t, err)
	return show
}

func (f *catalogFixture) counters(t *testing.T, showID string) (float64, int64) {
	t.Helper()
	show, err := f.showRepo.GetByID(context.Background(), showID)
	require.NoError(t, err)
	return show.LatestEpisodeNumber, show.EpisodeCount
}

func TestEpisodeServiceCountersTrackMutations(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	show := f.createShow(t, "Steins;Gate")

	var created []*models.Episode
	for _, n := range []float64{1, 2, 3} {
		ep, err := f.episodes.CreateEpisode(ctx, CreateEpisodeInput{
			ShowID: show.ID, Number: n, VideoURL: "https://cdn.example.com/ep.m3u8",
		})
		require.NoError(t, err)
		created = append(created, ep)
	}

	latest, count := f.counters(t, show.ID)
	assert.Equal(t, 3.0, latest)
	assert.Equal(t, int64(3), count)

	// Deleting the newest episode rolls the latest number back.
	require.NoError(t, f.episodes.DeleteEpisode(ctx, created[2].ID))
	latest, count = f.counters(t, show.ID)
	assert.Equal(t, 2.0, latest)
	assert.Equal(t, int64(2), count)

	// Deleting everything zeroes both counters.
	require.NoError(t, f.episodes.DeleteEpisode(ctx, created[0].ID))
	require.NoError(t, f.episodes.DeleteEpisode(ctx, created[1].ID))
	latest, count = f.counters(t, show.ID)
	assert.Equal(t, 0.0, latest)
	assert.Equal(t, int64(0), count)
}

func TestEpisodeServiceDuplicateNumberRejected(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	show := f.createShow(t, "Monogatari")

	_, err := f.episodes.CreateEpisode(ctx, CreateEpisodeInput{
		ShowID: show.ID, Number: 1, VideoURL: "v",
	})
	require.NoError(t, err)

	_, err = f.episodes.CreateEpisode(ctx, CreateEpisodeInput{
		ShowID: show.ID, Number: 1, VideoURL: "v",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	// Fractional numbering around the duplicate is fine.
	_, err = f.episodes.CreateEpisode(ctx, CreateEpisodeInput{
		ShowID: show.ID, Number: 1.5, VideoURL: "v",
	})
	require.NoError(t, err)

	latest, count := f.counters(t, show.ID)
	assert.Equal(t, 1.5, latest)
	assert.Equal(t, int64(2), count)
}

func TestEpisodeServiceUpdateRenumber(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	show := f.createShow(t, "Hunter x Hunter")

	epOne, err := f.episodes.CreateEpisode(ctx, CreateEpisodeInput{
		ShowID: show.ID, Number: 1, VideoURL: "v",
	})
	require.NoError(t, err)
	_, err = f.episodes.CreateEpisode(ctx, CreateEpisodeInput{
		ShowID: show.ID, Number: 2, VideoURL: "v",
	})
	require.NoError(t, err)

	// Renumbering onto an occupied slot is rejected.
	_, err = f.episodes.UpdateEpisode(ctx, UpdateEpisodeInput{
		EpisodeID: epOne.ID, Number: 2, VideoURL: "v",
	})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeConflict, appErr.Code)

	// Keeping its own number is not a conflict.
	updated, err := f.episodes.UpdateEpisode(ctx, UpdateEpisodeInput{
		EpisodeID: epOne.ID, Number: 1, Title: "Departure", VideoURL: "v",
	})
	require.NoError(t, err)
	assert.Equal(t, "Departure", updated.Title)

	// Renumbering past the end moves the latest counter.
	_, err = f.episodes.UpdateEpisode(ctx, UpdateEpisodeInput{
		EpisodeID: epOne.ID, Number: 5, VideoURL: "v",
	})
	require.NoError(t, err)
	latest, count := f.counters(t, show.ID)
	assert.Equal(t, 5.0, latest)
	assert.Equal(t, int64(2), count)
}

func TestShowServiceDeleteCascades(t *testing.T) {
	f := newCatalogFixture(t)
	ctx := context.Background()
	show := f.createShow(t, "Bleach")

	for _, n := range []float64{1, 2, 3} {
		_, err := f.episodes.CreateEpisode(ctx, CreateEpisodeInput{
			ShowID: show.ID, Number: n, VideoURL: "v",
		})
		require.NoError(t, err)
	}

	require.NoError(t, f.shows.DeleteShow(ctx, show.ID))

	_, err := f.shows.GetShow(ctx, show.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)

	var n int64
	require.NoError(t, f.db.Model(&models.Episode{}).Where("show_id = ?", show.ID).Count(&n).Error)
	assert.Zero(t, n)
}
