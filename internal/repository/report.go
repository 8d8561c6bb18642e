package repository

import (
	"context"
	"errors"

	"hikari/internal/models"
	"hikari/internal/observability"

	"gorm.io/gorm"
)

// ReportRepository defines the interface for report data operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, limit int) ([]models.Report, error)
	Delete(ctx context.Context, id string) error
	DeleteByEpisode(ctx context.Context, episodeID string) error
	Count(ctx context.Context) (int64, error)
}

type reportRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{
		db:  db,
		log: observability.NewRepoLogger("reports"),
	}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return wrapDBError(err)
	}
	r.log.LogMutation(ctx, "create", map[string]any{
		"report_id":  report.ID,
		"episode_id": report.EpisodeID,
	})
	return nil
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", id)
		}
		return nil, wrapDBError(err)
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, limit int) ([]models.Report, error) {
	var reports []models.Report
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return reports, nil
}

func (r *reportRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Report{}, "id = ?", id)
	if res.Error != nil {
		return wrapDBError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Report", id)
	}
	r.log.LogMutation(ctx, "delete", map[string]any{"report_id": id})
	return nil
}

// DeleteByEpisode clears all reports for an episode, used when an admin marks
// the episode fixed.
func (r *reportRepository) DeleteByEpisode(ctx context.Context, episodeID string) error {
	err := r.db.WithContext(ctx).Where("episode_id = ?", episodeID).Delete(&models.Report{}).Error
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (r *reportRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&n).Error; err != nil {
		return 0, wrapDBError(err)
	}
	return n, nil
}
