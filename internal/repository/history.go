package repository

import (
	"context"

	"hikari/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// HistoryRepository defines the interface for view history data operations
type HistoryRepository interface {
	Upsert(ctx context.Context, entry *models.ViewHistory) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.ViewHistory, error)
	MapByUser(ctx context.Context, userID uint) (map[string]models.ViewHistory, error)
	Delete(ctx context.Context, userID uint, showID string) error
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new view history repository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Upsert(ctx context.Context, entry *models.ViewHistory) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "show_id"}},
		UpdateAll: true,
	}).Create(entry).Error
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *historyRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.ViewHistory, error) {
	var entries []models.ViewHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("watched_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return entries, nil
}

// MapByUser returns the user's history keyed by show ID, the shape the
// notification delta computation consumes.
func (r *historyRepository) MapByUser(ctx context.Context, userID uint) (map[string]models.ViewHistory, error) {
	var entries []models.ViewHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&entries).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	m := make(map[string]models.ViewHistory, len(entries))
	for _, e := range entries {
		m[e.ShowID] = e
	}
	return m, nil
}

func (r *historyRepository) Delete(ctx context.Context, userID uint, showID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND show_id = ?", userID, showID).
		Delete(&models.ViewHistory{})
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("History entry", showID)
	}
	return nil
}
