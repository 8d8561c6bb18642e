package service

import (
	"context"
	"errors"
	"strings"

	"hikari/internal/models"
	"hikari/internal/observability"
	"hikari/internal/repository"

	"github.com/google/uuid"
)

type ReportService struct {
	reportRepo  repository.ReportRepository
	episodeRepo repository.EpisodeRepository
	log         *observability.Logger
}

type CreateReportInput struct {
	EpisodeID string
	Reason    string
}

func NewReportService(reportRepo repository.ReportRepository, episodeRepo repository.EpisodeRepository) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		episodeRepo: episodeRepo,
		log:         observability.GlobalLogger,
	}
}

// CreateReport files a broken-episode report and flags the episode so the
// player can warn subsequent viewers.
func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	episode, err := s.episodeRepo.GetByID(ctx, in.EpisodeID)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:        uuid.NewString(),
		ShowID:    episode.ShowID,
		EpisodeID: episode.ID,
		Reason:    strings.TrimSpace(in.Reason),
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	if episode.Status == models.EpisodeStatusNormal {
		if err := s.episodeRepo.SetStatus(ctx, episode.ID, models.EpisodeStatusUserReported); err != nil {
			s.log.WarnContext(ctx, "failed to flag reported episode", "episode_id", episode.ID, "error", err)
		}
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.reportRepo.List(ctx, limit)
}

// ResolveReport closes a report. When fixed is true the episode returns to
// normal and its remaining reports are cleared; otherwise the episode is
// marked broken and left visible to admins.
func (s *ReportService) ResolveReport(ctx context.Context, reportID string, fixed bool) error {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return err
	}

	if fixed {
		if err := s.episodeRepo.SetStatus(ctx, report.EpisodeID, models.EpisodeStatusNormal); err != nil {
			var appErr *models.AppError
			// The episode may have been deleted since the report was filed.
			if !(errors.As(err, &appErr) && appErr.Code == models.CodeNotFound) {
				return err
			}
		}
		return s.reportRepo.DeleteByEpisode(ctx, report.EpisodeID)
	}

	if err := s.episodeRepo.SetStatus(ctx, report.EpisodeID, models.EpisodeStatusBroken); err != nil {
		return err
	}
	return s.reportRepo.Delete(ctx, reportID)
}
