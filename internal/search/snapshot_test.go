package search

import (
	"context"
	"testing"
	"time"

	"hikari/internal/cache"
	"hikari/internal/database"
	"hikari/internal/models"
	"hikari/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRecordsCachesWithConfiguredTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.InitRedis(mr.Addr())

	db, err := database.ConnectTest()
	require.NoError(t, err)
	repo := repository.NewShowRepository(db)

	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.Show{
		ID: uuid.NewString(), Title: "Mushishi", LatestEpisodeNumber: 26, EpisodeCount: 26,
	}, nil))

	records, err := LoadRecords(ctx, repo, 6*time.Hour, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mushishi", records[0].Title)

	// The snapshot carries the caller's TTL, not the package default.
	require.True(t, mr.Exists(cache.SearchSnapshotKey))
	assert.Equal(t, 6*time.Hour, mr.TTL(cache.SearchSnapshotKey))

	// A second load is served from the snapshot even after the catalog
	// changes underneath it.
	require.NoError(t, repo.Create(ctx, &models.Show{
		ID: uuid.NewString(), Title: "Another", LatestEpisodeNumber: 1,
	}, nil))
	records, err = LoadRecords(ctx, repo, 6*time.Hour, false)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
