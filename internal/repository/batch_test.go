package repository

import (
	"context"
	"testing"
	"time"

	"hikari/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBatchDeleterShowCascade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	show := makeShow("Doomed", time.Now())
	require.NoError(t, db.Create(show).Error)
	keeper := makeShow("Keeper", time.Now())
	require.NoError(t, db.Create(keeper).Error)

	// Enough episodes to force multiple chunks.
	episodes := make([]models.Episode, 1000)
	for i := range episodes {
		episodes[i] = models.Episode{
			ID:       uuid.NewString(),
			ShowID:   show.ID,
			Number:   float64(i + 1),
			VideoURL: "https://cdn.example.com/ep.m3u8",
		}
	}
	require.NoError(t, db.CreateInBatches(&episodes, 200).Error)
	require.NoError(t, db.Create(&models.Episode{
		ID: uuid.NewString(), ShowID: keeper.ID, Number: 1, VideoURL: "v",
	}).Error)

	require.NoError(t, db.Create(&models.Report{
		ID: uuid.NewString(), ShowID: show.ID, EpisodeID: episodes[0].ID, Reason: "broken",
	}).Error)
	require.NoError(t, db.Create(&models.Comment{
		ID: uuid.NewString(), ShowID: show.ID, Type: models.CommentTypeShow, Text: "hi", UserID: 1,
	}).Error)
	require.NoError(t, db.Create(&models.Bookmark{UserID: 1, ShowID: show.ID, Title: show.Title}).Error)
	require.NoError(t, db.Create(&models.ViewHistory{UserID: 1, ShowID: show.ID}).Error)
	require.NoError(t, db.Create(&models.ShowKeyword{ShowID: show.ID, Keyword: "doo"}).Error)
	require.NoError(t, db.Create(&models.Banner{
		ID: uuid.NewString(), Title: "promo", ImageURL: "img", ShowID: show.ID,
	}).Error)

	deleter := NewBatchDeleter(db, 400)
	require.NoError(t, deleter.DeleteShowCascade(ctx, show.ID))

	for _, child := range []struct {
		name  string
		model any
	}{
		{"episodes", &models.Episode{}},
		{"reports", &models.Report{}},
		{"comments", &models.Comment{}},
		{"bookmarks", &models.Bookmark{}},
		{"history", &models.ViewHistory{}},
		{"keywords", &models.ShowKeyword{}},
		{"banners", &models.Banner{}},
	} {
		var n int64
		require.NoError(t, db.Model(child.model).Where("show_id = ?", show.ID).Count(&n).Error)
		assert.Zero(t, n, "leftover rows in %s", child.name)
	}

	var gone int64
	require.NoError(t, db.Model(&models.Show{}).Where("id = ?", show.ID).Count(&gone).Error)
	assert.Zero(t, gone)

	// Unrelated rows survive.
	var kept int64
	require.NoError(t, db.Model(&models.Episode{}).Where("show_id = ?", keeper.ID).Count(&kept).Error)
	assert.Equal(t, int64(1), kept)
}

func TestBatchDeleterChunkBoundaries(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	show := makeShow("Chunked", time.Now())
	require.NoError(t, db.Create(show).Error)

	episodes := make([]models.Episode, 1000)
	for i := range episodes {
		episodes[i] = models.Episode{
			ID:       uuid.NewString(),
			ShowID:   show.ID,
			Number:   float64(i + 1),
			VideoURL: "v",
		}
	}
	require.NoError(t, db.CreateInBatches(&episodes, 200).Error)

	var statements int
	require.NoError(t, db.Callback().Delete().After("gorm:delete").
		Register("count_delete_statements", func(*gorm.DB) { statements++ }))
	t.Cleanup(func() {
		_ = db.Callback().Delete().Remove("count_delete_statements")
	})

	deleter := NewBatchDeleter(db, 400)
	total, err := deleter.deleteChunked(ctx, &models.Episode{}, "id", "show_id = ?", show.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)
	// 400 + 400 + 200: the short final chunk ends the loop.
	assert.Equal(t, 3, statements)

	var remaining int64
	require.NoError(t, db.Model(&models.Episode{}).Where("show_id = ?", show.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)
}

func TestBatchDeleterEpisodeCascade(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	show := makeShow("Host", time.Now())
	require.NoError(t, db.Create(show).Error)
	ep := makeEpisode(show.ID, 1)
	require.NoError(t, db.Create(ep).Error)
	require.NoError(t, db.Create(&models.Report{
		ID: uuid.NewString(), ShowID: show.ID, EpisodeID: ep.ID, Reason: "stutter",
	}).Error)
	require.NoError(t, db.Create(&models.Comment{
		ID: uuid.NewString(), ShowID: show.ID, EpisodeID: ep.ID,
		Type: models.CommentTypeEpisode, Text: "rip", UserID: 1,
	}).Error)

	deleter := NewBatchDeleter(db, 0)
	require.NoError(t, deleter.DeleteEpisodeCascade(ctx, ep.ID))

	var n int64
	require.NoError(t, db.Model(&models.Report{}).Where("episode_id = ?", ep.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Comment{}).Where("episode_id = ?", ep.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Episode{}).Where("id = ?", ep.ID).Count(&n).Error)
	assert.Zero(t, n)

	err := deleter.DeleteEpisodeCascade(ctx, ep.ID)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}
