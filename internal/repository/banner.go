package repository

import (
	"context"
	"errors"

	"hikari/internal/cache"
	"hikari/internal/models"
	"hikari/internal/observability"

	"gorm.io/gorm"
)

// BannerRepository defines the interface for banner data operations
type BannerRepository interface {
	Create(ctx context.Context, banner *models.Banner) error
	GetByID(ctx context.Context, id string) (*models.Banner, error)
	Update(ctx context.Context, banner *models.Banner) error
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]models.Banner, error)
	ListAll(ctx context.Context) ([]models.Banner, error)
	Reorder(ctx context.Context, orderedIDs []string) error
}

type bannerRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewBannerRepository creates a new banner repository
func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{
		db:  db,
		log: observability.NewRepoLogger("banners"),
	}
}

func (r *bannerRepository) Create(ctx context.Context, banner *models.Banner) error {
	if err := r.db.WithContext(ctx).Create(banner).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "create", map[string]any{"banner_id": banner.ID})
	cache.InvalidateBanners(ctx)
	return nil
}

func (r *bannerRepository) GetByID(ctx context.Context, id string) (*models.Banner, error) {
	var banner models.Banner
	if err := r.db.WithContext(ctx).First(&banner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Banner", id)
		}
		return nil, wrapDBError(err)
	}
	return &banner, nil
}

func (r *bannerRepository) Update(ctx context.Context, banner *models.Banner) error {
	if err := r.db.WithContext(ctx).Save(banner).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "update", map[string]any{"banner_id": banner.ID})
	cache.InvalidateBanners(ctx)
	return nil
}

func (r *bannerRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Banner{}, "id = ?", id)
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Banner", id)
	}
	r.log.LogMutation(ctx, "delete", map[string]any{"banner_id": id})
	cache.InvalidateBanners(ctx)
	return nil
}

func (r *bannerRepository) ListActive(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	err := cache.Aside(ctx, cache.BannerListKey, &banners, cache.ListTTL, func() error {
		return r.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("display_order ASC").
			Find(&banners).Error
	})
	if err != nil {
		return nil, wrapDBError(err)
	}
	return banners, nil
}

func (r *bannerRepository) ListAll(ctx context.Context) ([]models.Banner, error) {
	var banners []models.Banner
	if err := r.db.WithContext(ctx).Order("display_order ASC").Find(&banners).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return banners, nil
}

// Reorder rewrites display_order contiguously in the given sequence. IDs not
// listed keep their old positions after the listed ones, so a partial reorder
// from a stale admin view cannot leave duplicate slots.
func (r *bannerRepository) Reorder(ctx context.Context, orderedIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&models.Banner{}).Where("id = ?", id).
				UpdateColumn("display_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return models.NewNotFoundError("Banner", id)
			}
		}
		return tx.Model(&models.Banner{}).Where("id NOT IN ?", orderedIDs).
			UpdateColumn("display_order", gorm.Expr("display_order + ?", len(orderedIDs))).Error
	})
	if err != nil {
		r.log.LogError(ctx, err, "reorder")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "reorder", map[string]any{"count": len(orderedIDs)})
	cache.InvalidateBanners(ctx)
	return nil
}
