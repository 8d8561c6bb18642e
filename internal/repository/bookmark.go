package repository

import (
	"context"

	"hikari/internal/models"
	"hikari/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookmarkRepository defines the interface for bookmark data operations
type BookmarkRepository interface {
	Upsert(ctx context.Context, bookmark *models.Bookmark) error
	Delete(ctx context.Context, userID uint, showID string) error
	ListByUser(ctx context.Context, userID uint) ([]models.Bookmark, error)
	Exists(ctx context.Context, userID uint, showID string) (bool, error)
	RefreshSnapshot(ctx context.Context, showID, title, thumbnailURL, tagNames string, latest float64) error
}

type bookmarkRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *gorm.DB) BookmarkRepository {
	return &bookmarkRepository{
		db:  db,
		log: observability.NewRepoLogger("bookmarks"),
	}
}

func (r *bookmarkRepository) Upsert(ctx context.Context, bookmark *models.Bookmark) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "show_id"}},
		UpdateAll: true,
	}).Create(bookmark).Error
	if err != nil {
		r.log.LogError(ctx, err, "upsert")
		return wrapDBError(err)
	}
	return nil
}

func (r *bookmarkRepository) Delete(ctx context.Context, userID uint, showID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND show_id = ?", userID, showID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Bookmark", showID)
	}
	return nil
}

func (r *bookmarkRepository) ListByUser(ctx context.Context, userID uint) ([]models.Bookmark, error) {
	var bookmarks []models.Bookmark
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("saved_at DESC").
		Find(&bookmarks).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return bookmarks, nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, userID uint, showID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("user_id = ? AND show_id = ?", userID, showID).
		Count(&n).Error
	if err != nil {
		return false, wrapDBError(err)
	}
	return n > 0, nil
}

// RefreshSnapshot pushes updated show fields into every bookmark of that show
// so saved lists do not go stale when the show is edited.
func (r *bookmarkRepository) RefreshSnapshot(ctx context.Context, showID, title, thumbnailURL, tagNames string, latest float64) error {
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).
		Where("show_id = ?", showID).
		Updates(map[string]any{
			"title":                 title,
			"thumbnail_url":         thumbnailURL,
			"tag_names":             tagNames,
			"latest_episode_number": latest,
		}).Error
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}
