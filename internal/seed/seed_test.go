package seed

import (
	"testing"

	"hikari/internal/database"
	"hikari/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	return db
}

func TestTagsIdempotent(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, Tags(db))
	require.NoError(t, Tags(db))

	var count int64
	require.NoError(t, db.Model(&models.Tag{}).Count(&count).Error)
	assert.Equal(t, int64(len(BuiltInTags)), count)

	var tag models.Tag
	require.NoError(t, db.Where("slug = ?", "slice-of-life").First(&tag).Error)
	assert.Equal(t, "Slice of Life", tag.Name)
}

func TestSeederRun(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumShows: 6, NumViewers: 4}))

	var shows, episodes, keywords, users, bookmarks, history int64
	require.NoError(t, db.Model(&models.Show{}).Count(&shows).Error)
	require.NoError(t, db.Model(&models.Episode{}).Count(&episodes).Error)
	require.NoError(t, db.Model(&models.ShowKeyword{}).Count(&keywords).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Bookmark{}).Count(&bookmarks).Error)
	require.NoError(t, db.Model(&models.ViewHistory{}).Count(&history).Error)

	assert.Equal(t, int64(6), shows)
	assert.Equal(t, int64(4), users)
	assert.NotZero(t, episodes)
	assert.NotZero(t, keywords, "seeded shows carry search keywords")
	assert.NotZero(t, bookmarks)
	assert.Equal(t, bookmarks, history, "every seeded bookmark has a history row")

	// Counters match the episodes actually created.
	var sample models.Show
	require.NoError(t, db.First(&sample).Error)
	var n int64
	require.NoError(t, db.Model(&models.Episode{}).Where("show_id = ?", sample.ID).Count(&n).Error)
	assert.Equal(t, n, sample.EpisodeCount)
	assert.Equal(t, float64(n), sample.LatestEpisodeNumber)
}

func TestSeederClearAll(t *testing.T) {
	db := setupTestDB(t)
	s := NewSeeder(db)

	require.NoError(t, s.Run(Options{NumShows: 3, NumViewers: 2}))
	require.NoError(t, s.ClearAll())

	var shows, users int64
	require.NoError(t, db.Model(&models.Show{}).Count(&shows).Error)
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, shows)
	assert.Zero(t, users)
}
