package repository

import (
	"context"
	"errors"
	"time"

	"hikari/internal/models"
	"hikari/internal/observability"
	"hikari/internal/pagination"

	"gorm.io/gorm"
)

// episodeCursor is the keyset marker for episode listings (number ASC, id ASC).
type episodeCursor struct {
	Number float64 `json:"n"`
	ID     string  `json:"id"`
}

// EpisodeRepository defines the interface for episode data operations
type EpisodeRepository interface {
	Create(ctx context.Context, episode *models.Episode) error
	GetByID(ctx context.Context, id string) (*models.Episode, error)
	Update(ctx context.Context, episode *models.Episode) error
	Delete(ctx context.Context, id string) error
	ListByShow(ctx context.Context, showID string) ([]models.Episode, error)
	ListPage(ctx context.Context, showID string, after pagination.Cursor, limit int) ([]models.Episode, pagination.Cursor, error)
	ExistsByShowAndNumber(ctx context.Context, showID string, number float64, excludeID string) (bool, error)
	MaxNumber(ctx context.Context, showID string) (float64, bool, error)
	CountByShow(ctx context.Context, showID string) (int64, error)
	SetStatus(ctx context.Context, id, status string) error
	Count(ctx context.Context) (int64, error)
}

type episodeRepository struct {
	db      *gorm.DB
	log     *observability.RepoLogger
	metrics *observability.DatabaseMetrics
}

// NewEpisodeRepository creates a new episode repository
func NewEpisodeRepository(db *gorm.DB) EpisodeRepository {
	return &episodeRepository{
		db:      db,
		log:     observability.NewRepoLogger("episodes"),
		metrics: observability.NewDatabaseMetrics(),
	}
}

func (r *episodeRepository) Create(ctx context.Context, episode *models.Episode) error {
	if err := r.db.WithContext(ctx).Create(episode).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "create", map[string]any{
		"episode_id": episode.ID,
		"show_id":    episode.ShowID,
		"number":     episode.Number,
	})
	return nil
}

func (r *episodeRepository) GetByID(ctx context.Context, id string) (*models.Episode, error) {
	defer r.metrics.TrackQuery("get", "episodes")()

	var episode models.Episode
	if err := r.db.WithContext(ctx).First(&episode, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Episode", id)
		}
		return nil, wrapDBError(err)
	}
	return &episode, nil
}

func (r *episodeRepository) Update(ctx context.Context, episode *models.Episode) error {
	if err := r.db.WithContext(ctx).Save(episode).Error; err != nil {
		r.log.LogError(ctx, err, "update")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "update", map[string]any{"episode_id": episode.ID})
	return nil
}

func (r *episodeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Episode{}, "id = ?", id)
	if res.Error != nil {
		r.log.LogError(ctx, res.Error, "delete")
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Episode", id)
	}
	r.log.LogMutation(ctx, "delete", map[string]any{"episode_id": id})
	return nil
}

func (r *episodeRepository) ListByShow(ctx context.Context, showID string) ([]models.Episode, error) {
	defer r.metrics.TrackQuery("list", "episodes")()

	var episodes []models.Episode
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Order("number ASC, id ASC").
		Find(&episodes).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return episodes, nil
}

func (r *episodeRepository) ListPage(ctx context.Context, showID string, after pagination.Cursor, limit int) ([]models.Episode, pagination.Cursor, error) {
	defer r.metrics.TrackQuery("list", "episodes")()

	q := r.db.WithContext(ctx).Where("show_id = ?", showID)
	if after != pagination.None {
		var c episodeCursor
		if err := pagination.Decode(after, &c); err != nil {
			return nil, pagination.None, models.NewValidationError("Invalid cursor")
		}
		q = q.Where("(number, id) > (?, ?)", c.Number, c.ID)
	}

	var episodes []models.Episode
	if err := q.Order("number ASC, id ASC").Limit(limit).Find(&episodes).Error; err != nil {
		return nil, pagination.None, wrapDBError(err)
	}
	if len(episodes) == 0 {
		return episodes, pagination.None, nil
	}
	last := episodes[len(episodes)-1]
	cur, err := pagination.Encode(episodeCursor{Number: last.Number, ID: last.ID})
	if err != nil {
		return nil, pagination.None, err
	}
	return episodes, cur, nil
}

func (r *episodeRepository) ExistsByShowAndNumber(ctx context.Context, showID string, number float64, excludeID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("show_id = ? AND number = ?", showID, number)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, wrapDBError(err)
	}
	return n > 0, nil
}

// MaxNumber returns the highest episode number for a show. The bool is false
// when the show has no episodes.
func (r *episodeRepository) MaxNumber(ctx context.Context, showID string) (float64, bool, error) {
	defer r.metrics.TrackQuery("max_number", "episodes")()

	var episode models.Episode
	err := r.db.WithContext(ctx).
		Where("show_id = ?", showID).
		Order("number DESC").
		Limit(1).
		Take(&episode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, wrapDBError(err)
	}
	return episode.Number, true, nil
}

func (r *episodeRepository) CountByShow(ctx context.Context, showID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Episode{}).
		Where("show_id = ?", showID).
		Count(&n).Error
	if err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}

func (r *episodeRepository) SetStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Episode{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Episode", id)
	}
	r.log.LogMutation(ctx, "set_status", map[string]any{"episode_id": id, "status": status})
	return nil
}

func (r *episodeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Episode{}).Count(&n).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}
