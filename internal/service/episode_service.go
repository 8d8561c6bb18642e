package service

import (
	"context"
	"strings"

	"hikari/internal/models"
	"hikari/internal/observability"
	"hikari/internal/pagination"
	"hikari/internal/repository"

	"github.com/google/uuid"
)

type EpisodeService struct {
	episodeRepo repository.EpisodeRepository
	showRepo    repository.ShowRepository
	deleter     *repository.BatchDeleter
	shows       *ShowService
	log         *observability.Logger
}

type CreateEpisodeInput struct {
	ShowID   string
	Number   float64
	Title    string
	VideoURL string
}

type UpdateEpisodeInput struct {
	EpisodeID string
	Number    float64
	Title     string
	VideoURL  string
	Status    string
}

func NewEpisodeService(
	episodeRepo repository.EpisodeRepository,
	showRepo repository.ShowRepository,
	deleter *repository.BatchDeleter,
	shows *ShowService,
) *EpisodeService {
	return &EpisodeService{
		episodeRepo: episodeRepo,
		showRepo:    showRepo,
		deleter:     deleter,
		shows:       shows,
		log:         observability.GlobalLogger,
	}
}

func (s *EpisodeService) CreateEpisode(ctx context.Context, in CreateEpisodeInput) (*models.Episode, error) {
	if in.Number <= 0 {
		return nil, models.NewValidationError("Episode number must be positive")
	}
	if strings.TrimSpace(in.VideoURL) == "" {
		return nil, models.NewValidationError("Video URL is required")
	}
	if _, err := s.showRepo.GetByID(ctx, in.ShowID); err != nil {
		return nil, err
	}

	// No DB uniqueness constraint on (show, number); the check-then-write
	// window is accepted because episodes are admin-entered one at a time.
	exists, err := s.episodeRepo.ExistsByShowAndNumber(ctx, in.ShowID, in.Number, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("Episode number already exists for this show")
	}

	episode := &models.Episode{
		ID:       uuid.NewString(),
		ShowID:   in.ShowID,
		Number:   in.Number,
		Title:    strings.TrimSpace(in.Title),
		VideoURL: strings.TrimSpace(in.VideoURL),
		Status:   models.EpisodeStatusNormal,
	}
	if err := s.episodeRepo.Create(ctx, episode); err != nil {
		return nil, err
	}

	s.recompute(ctx, in.ShowID)
	return episode, nil
}

func (s *EpisodeService) UpdateEpisode(ctx context.Context, in UpdateEpisodeInput) (*models.Episode, error) {
	episode, err := s.episodeRepo.GetByID(ctx, in.EpisodeID)
	if err != nil {
		return nil, err
	}
	if in.Number <= 0 {
		return nil, models.NewValidationError("Episode number must be positive")
	}

	if in.Number != episode.Number {
		exists, err := s.episodeRepo.ExistsByShowAndNumber(ctx, episode.ShowID, in.Number, episode.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, models.NewConflictError("Episode number already exists for this show")
		}
	}

	episode.Number = in.Number
	episode.Title = strings.TrimSpace(in.Title)
	if in.VideoURL != "" {
		episode.VideoURL = strings.TrimSpace(in.VideoURL)
	}
	if in.Status != "" {
		episode.Status = in.Status
	}
	if err := s.episodeRepo.Update(ctx, episode); err != nil {
		return nil, err
	}

	s.recompute(ctx, episode.ShowID)
	return episode, nil
}

func (s *EpisodeService) DeleteEpisode(ctx context.Context, id string) error {
	episode, err := s.episodeRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.deleter.DeleteEpisodeCascade(ctx, id); err != nil {
		return err
	}
	s.recompute(ctx, episode.ShowID)
	return nil
}

func (s *EpisodeService) GetEpisode(ctx context.Context, id string) (*models.Episode, error) {
	return s.episodeRepo.GetByID(ctx, id)
}

func (s *EpisodeService) ListEpisodes(ctx context.Context, showID string) ([]models.Episode, error) {
	if _, err := s.showRepo.GetByID(ctx, showID); err != nil {
		return nil, err
	}
	return s.episodeRepo.ListByShow(ctx, showID)
}

func (s *EpisodeService) ListEpisodesPage(ctx context.Context, showID string, cursor pagination.Cursor, limit int) ([]models.Episode, pagination.Cursor, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.episodeRepo.ListPage(ctx, showID, cursor, limit)
}

// recompute refreshes the owning show's denormalized counters. Failures are
// logged and swallowed: the episode write already succeeded, and the next
// episode mutation repairs the counters.
func (s *EpisodeService) recompute(ctx context.Context, showID string) {
	if err := s.shows.RecomputeCounters(ctx, showID); err != nil {
		s.log.WarnContext(ctx, "counter recompute failed", "show_id", showID, "error", err)
	}
}
