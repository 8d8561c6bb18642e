package repository

import (
	"context"

	"hikari/internal/models"

	"gorm.io/gorm"
)

// ClientLogRepository stores error reports posted by the frontend.
type ClientLogRepository interface {
	Create(ctx context.Context, entry *models.ClientLog) error
	List(ctx context.Context, limit int) ([]models.ClientLog, error)
}

type clientLogRepository struct {
	db *gorm.DB
}

// NewClientLogRepository creates a new client log repository
func NewClientLogRepository(db *gorm.DB) ClientLogRepository {
	return &clientLogRepository{db: db}
}

func (r *clientLogRepository) Create(ctx context.Context, entry *models.ClientLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *clientLogRepository) List(ctx context.Context, limit int) ([]models.ClientLog, error) {
	var entries []models.ClientLog
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return entries, nil
}
