// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"hikari/internal/cache"
	"hikari/internal/models"
	"hikari/internal/observability"
	"hikari/internal/pagination"

	"gorm.io/gorm"
)

// ShowFilter narrows a show listing.
type ShowFilter struct {
	TagSlug       string
	CompletedOnly bool
}

// showCursor is the keyset marker for show listings (created_at DESC, id DESC).
type showCursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"id"`
}

// ShowRepository defines the interface for show data operations
type ShowRepository interface {
	Create(ctx context.Context, show *models.Show, keywords []string) error
	GetByID(ctx context.Context, id string) (*models.Show, error)
	Update(ctx context.Context, show *models.Show, keywords []string) error
	ListPage(ctx context.Context, filter ShowFilter, after pagination.Cursor, limit int) ([]models.Show, pagination.Cursor, error)
	SearchByKeyword(ctx context.Context, keyword string, limit int) ([]models.Show, error)
	LatestEpisodes(ctx context.Context, showIDs []string) (map[string]float64, error)
	UpdateCounters(ctx context.Context, id string, latest float64, count int64) error
	IncrementViewCount(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type showRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewShowRepository creates a new show repository
func NewShowRepository(db *gorm.DB) ShowRepository {
	return &showRepository{
		db:      db,
		log:     observability.NewRepoLogger("shows"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *showRepository) Create(ctx context.Context, show *models.Show, kws []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(show).Error; err != nil {
			return err
		}
		return replaceKeywords(tx, show.ID, kws)
	})
	if err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "create", map[string]any{"show_id": show.ID})
	cache.InvalidateShow(ctx, show.ID)
	return nil
}

func (r *showRepository) GetByID(ctx context.Context, id string) (*models.Show, error) {
	defer r.metrics.TrackQuery("get", "shows")()

	var show models.Show
	err := cache.Aside(ctx, cache.ShowKey(id), &show, cache.ShowTTL, func() error {
		return r.db.WithContext(ctx).Preload("Tags").First(&show, "id = ?", id).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewNotFoundError("Show", id)
		}
		return nil, wrapDBError(err)
	}
	return &show, nil
}

func (r *showRepository) Update(ctx context.Context, show *models.Show, kws []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(show).Error; err != nil {
			return err
		}
		if err := tx.Model(show).Association("Tags").Replace(show.Tags); err != nil {
			return err
		}
		return replaceKeywords(tx, show.ID, kws)
	})
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "update", map[string]any{"show_id": show.ID})
	cache.InvalidateShow(ctx, show.ID)
	return nil
}

func replaceKeywords(tx *gorm.DB, showID string, kws []string) error {
	if kws == nil {
		return nil
	}
	if err := tx.Where("show_id = ?", showID).Delete(&models.ShowKeyword{}).Error; err != nil {
		return err
	}
	if len(kws) == 0 {
		return nil
	}
	rows := make([]models.ShowKeyword, len(kws))
	for i, k := range kws {
		rows[i] = models.ShowKeyword{ShowID: showID, Keyword: k}
	}
	return tx.Create(&rows).Error
}

func (r *showRepository) ListPage(ctx context.Context, filter ShowFilter, after pagination.Cursor, limit int) ([]models.Show, pagination.Cursor, error) {
	defer r.metrics.TrackQuery("list", "shows")()

	q := r.db.WithContext(ctx).Model(&models.Show{}).Preload("Tags")
	if filter.TagSlug != "" {
		q = q.Joins("JOIN show_tags ON show_tags.show_id = shows.id").
			Joins("JOIN tags ON tags.id = show_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)
	}
	if filter.CompletedOnly {
		q = q.Where("shows.is_completed = ?", true)
	}
	if after != pagination.None {
		var c showCursor
		if err := pagination.Decode(after, &c); err != nil {
			return nil, pagination.None, models.NewValidationError("Invalid cursor")
		}
		q = q.Where("(shows.created_at, shows.id) < (?, ?)", c.CreatedAt, c.ID)
	}

	var shows []models.Show
	if err := q.Order("shows.created_at DESC, shows.id DESC").Limit(limit).Find(&shows).Error; err != nil {
		return nil, pagination.None, wrapDBError(err)
	}
	if len(shows) == 0 {
		return shows, pagination.None, nil
	}
	last := shows[len(shows)-1]
	cur, err := pagination.Encode(showCursor{CreatedAt: last.CreatedAt, ID: last.ID})
	if err != nil {
		return nil, pagination.None, err
	}
	return shows, cur, nil
}

func (r *showRepository) SearchByKeyword(ctx context.Context, keyword string, limit int) ([]models.Show, error) {
	defer r.metrics.TrackQuery("search", "shows")()

	var shows []models.Show
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Joins("JOIN show_keywords ON show_keywords.show_id = shows.id").
		Where("show_keywords.keyword = ?", keyword).
		Order("shows.created_at DESC").
		Limit(limit).
		Find(&shows).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return shows, nil
}

// LatestEpisodes returns the current latest-episode counter for each of the
// given shows. IDs with no matching show are absent from the result.
func (r *showRepository) LatestEpisodes(ctx context.Context, showIDs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(showIDs))
	if len(showIDs) == 0 {
		return out, nil
	}
	defer r.metrics.TrackQuery("latest_episodes", "shows")()

	var rows []struct {
		ID                  string
		LatestEpisodeNumber float64
	}
	err := r.db.WithContext(ctx).Model(&models.Show{}).
		Select("id", "latest_episode_number").
		Where("id IN ?", showIDs).
		Find(&rows).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	for _, row := range rows {
		out[row.ID] = row.LatestEpisodeNumber
	}
	return out, nil
}

func (r *showRepository) UpdateCounters(ctx context.Context, id string, latest float64, count int64) error {
	err := r.db.WithContext(ctx).Model(&models.Show{}).Where("id = ?", id).Updates(map[string]any{
		"latest_episode_number": latest,
		"episode_count":         count,
		"counters_updated_at":   time.Now(),
	}).Error
	if err != nil {
		r.log.LogError(ctx, err, "update_counters")
		return wrapDBError(err)
	}
	cache.InvalidateShow(ctx, id)
	return nil
}

func (r *showRepository) IncrementViewCount(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Model(&models.Show{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Show", id)
	}
	cache.Invalidate(ctx, cache.ShowKey(id))
	return nil
}

func (r *showRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Show{}).Count(&n).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}
