package service

import (
	"context"
	"strings"
	"time"

	"hikari/internal/models"
	"hikari/internal/repository"
)

type BookmarkService struct {
	bookmarkRepo repository.BookmarkRepository
	showRepo     repository.ShowRepository
}

func NewBookmarkService(bookmarkRepo repository.BookmarkRepository, showRepo repository.ShowRepository) *BookmarkService {
	return &BookmarkService{bookmarkRepo: bookmarkRepo, showRepo: showRepo}
}

// AddBookmark saves a show for the user, snapshotting the fields the saved
// list renders from.
func (s *BookmarkService) AddBookmark(ctx context.Context, userID uint, showID string) (*models.Bookmark, error) {
	show, err := s.showRepo.GetByID(ctx, showID)
	if err != nil {
		return nil, err
	}

	tagNames := make([]string, len(show.Tags))
	for i, t := range show.Tags {
		tagNames[i] = t.Name
	}
	bookmark := &models.Bookmark{
		UserID:              userID,
		ShowID:              show.ID,
		Title:               show.Title,
		ThumbnailURL:        show.ThumbnailURL,
		TagNames:            strings.Join(tagNames, ", "),
		LatestEpisodeNumber: show.LatestEpisodeNumber,
		SavedAt:             time.Now(),
	}
	if err := s.bookmarkRepo.Upsert(ctx, bookmark); err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (s *BookmarkService) RemoveBookmark(ctx context.Context, userID uint, showID string) error {
	return s.bookmarkRepo.Delete(ctx, userID, showID)
}

func (s *BookmarkService) ListBookmarks(ctx context.Context, userID uint) ([]models.Bookmark, error) {
	return s.bookmarkRepo.ListByUser(ctx, userID)
}

func (s *BookmarkService) IsBookmarked(ctx context.Context, userID uint, showID string) (bool, error) {
	return s.bookmarkRepo.Exists(ctx, userID, showID)
}
