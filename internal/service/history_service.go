package service

import (
	"context"
	"time"

	"hikari/internal/models"
	"hikari/internal/repository"
)

type HistoryService struct {
	historyRepo repository.HistoryRepository
	showRepo    repository.ShowRepository
	episodeRepo repository.EpisodeRepository
}

func NewHistoryService(
	historyRepo repository.HistoryRepository,
	showRepo repository.ShowRepository,
	episodeRepo repository.EpisodeRepository,
) *HistoryService {
	return &HistoryService{
		historyRepo: historyRepo,
		showRepo:    showRepo,
		episodeRepo: episodeRepo,
	}
}

// RecordProgress upserts the user's last-watched episode for a show. Called
// by the player whenever playback switches episodes.
func (s *HistoryService) RecordProgress(ctx context.Context, userID uint, episodeID string) (*models.ViewHistory, error) {
	episode, err := s.episodeRepo.GetByID(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	show, err := s.showRepo.GetByID(ctx, episode.ShowID)
	if err != nil {
		return nil, err
	}

	entry := &models.ViewHistory{
		UserID:                   userID,
		ShowID:                   show.ID,
		LastWatchedEpisodeID:     episode.ID,
		LastWatchedEpisodeNumber: episode.Number,
		Title:                    show.Title,
		ThumbnailURL:             show.ThumbnailURL,
		WatchedAt:                time.Now(),
	}
	if err := s.historyRepo.Upsert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *HistoryService) ListHistory(ctx context.Context, userID uint, limit int) ([]models.ViewHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.historyRepo.ListByUser(ctx, userID, limit)
}

func (s *HistoryService) DeleteEntry(ctx context.Context, userID uint, showID string) error {
	return s.historyRepo.Delete(ctx, userID, showID)
}
