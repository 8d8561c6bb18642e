package repository

import (
	"context"
	"testing"
	"time"

	"hikari/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookmarkRepositoryUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookmarkRepository(db)
	ctx := context.Background()

	showID := uuid.NewString()
	first := &models.Bookmark{
		UserID: 7, ShowID: showID, Title: "Before", LatestEpisodeNumber: 3,
		SavedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	// Saving again replaces the snapshot instead of failing on the PK.
	second := &models.Bookmark{
		UserID: 7, ShowID: showID, Title: "After", LatestEpisodeNumber: 4,
		SavedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	list, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "After", list[0].Title)
	assert.Equal(t, 4.0, list[0].LatestEpisodeNumber)

	exists, err := repo.Exists(ctx, 7, showID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, 7, showID))
	exists, err = repo.Exists(ctx, 7, showID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBookmarkRepositoryRefreshSnapshot(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookmarkRepository(db)
	ctx := context.Background()

	showID := uuid.NewString()
	for _, uid := range []uint{1, 2} {
		require.NoError(t, repo.Upsert(ctx, &models.Bookmark{
			UserID: uid, ShowID: showID, Title: "Old", SavedAt: time.Now(),
		}))
	}
	require.NoError(t, repo.Upsert(ctx, &models.Bookmark{
		UserID: 1, ShowID: uuid.NewString(), Title: "Other", SavedAt: time.Now(),
	}))

	require.NoError(t, repo.RefreshSnapshot(ctx, showID, "New", "thumb.jpg", "Action", 12))

	for _, uid := range []uint{1, 2} {
		list, err := repo.ListByUser(ctx, uid)
		require.NoError(t, err)
		for _, b := range list {
			if b.ShowID == showID {
				assert.Equal(t, "New", b.Title)
				assert.Equal(t, 12.0, b.LatestEpisodeNumber)
			} else {
				assert.Equal(t, "Other", b.Title)
			}
		}
	}
}

func TestHistoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHistoryRepository(db)
	ctx := context.Background()

	showID := uuid.NewString()
	epOne := uuid.NewString()
	epTwo := uuid.NewString()

	require.NoError(t, repo.Upsert(ctx, &models.ViewHistory{
		UserID: 3, ShowID: showID,
		LastWatchedEpisodeID: epOne, LastWatchedEpisodeNumber: 1,
		WatchedAt: time.Now(),
	}))
	require.NoError(t, repo.Upsert(ctx, &models.ViewHistory{
		UserID: 3, ShowID: showID,
		LastWatchedEpisodeID: epTwo, LastWatchedEpisodeNumber: 2,
		WatchedAt: time.Now(),
	}))

	m, err := repo.MapByUser(ctx, 3)
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Equal(t, epTwo, m[showID].LastWatchedEpisodeID)
	assert.Equal(t, 2.0, m[showID].LastWatchedEpisodeNumber)
}
