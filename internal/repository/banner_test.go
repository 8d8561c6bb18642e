package repository

import (
	"context"
	"testing"

	"hikari/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBanner(title string, order int, active bool) *models.Banner {
	return &models.Banner{
		ID:       uuid.NewString(),
		Title:    title,
		ImageURL: "https://cdn.example.com/banner.jpg",
		Order:    order,
		IsActive: active,
	}
}

func TestBannerRepositoryReorder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBannerRepository(db)
	ctx := context.Background()

	a := makeBanner("A", 0, true)
	b := makeBanner("B", 1, true)
	c := makeBanner("C", 2, true)
	hidden := makeBanner("Hidden", 3, false)
	for _, banner := range []*models.Banner{a, b, c, hidden} {
		require.NoError(t, repo.Create(ctx, banner))
	}

	// Move C first; A and B follow; the unlisted banner lands after them.
	require.NoError(t, repo.Reorder(ctx, []string{c.ID, a.ID, b.ID}))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"C", "A", "B", "Hidden"}, []string{
		all[0].Title, all[1].Title, all[2].Title, all[3].Title,
	})

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "C", active[0].Title)

	t.Run("UnknownIDRollsBack", func(t *testing.T) {
		err := repo.Reorder(ctx, []string{a.ID, uuid.NewString()})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)

		// Order unchanged after the failed reorder.
		all, err := repo.ListAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, "C", all[0].Title)
	})
}
