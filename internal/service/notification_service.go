package service

import (
	"context"
	"sort"
	"strconv"

	"hikari/internal/cache"
	"hikari/internal/repository"
)

// NotificationItem is one "new episode" entry for a user: a bookmarked show
// whose latest episode is past what the user last watched.
type NotificationItem struct {
	Key           string  `json:"key"`
	ShowID        string  `json:"showId"`
	Title         string  `json:"title"`
	ThumbnailURL  string  `json:"thumbnailUrl,omitempty"`
	LatestEpisode float64 `json:"latestEpisode"`
	LastWatched   float64 `json:"lastWatched"`
	Read          bool    `json:"read"`
}

// NotificationService derives notifications on read instead of storing them:
// the delta between a user's bookmarks and their view history IS the
// notification list. Read state is the only thing persisted, as a capped
// per-user set of notification keys.
type NotificationService struct {
	bookmarkRepo repository.BookmarkRepository
	historyRepo  repository.HistoryRepository
	showRepo     repository.ShowRepository
	readSet      *cache.ReadSet
}

func NewNotificationService(
	bookmarkRepo repository.BookmarkRepository,
	historyRepo repository.HistoryRepository,
	showRepo repository.ShowRepository,
	readSet *cache.ReadSet,
) *NotificationService {
	return &NotificationService{
		bookmarkRepo: bookmarkRepo,
		historyRepo:  historyRepo,
		showRepo:     showRepo,
		readSet:      readSet,
	}
}

// notificationKey identifies one (show, episode) pair. The episode number is
// rendered without trailing zeros so 5 and 5.0 collapse to the same key.
func notificationKey(showID string, episode float64) string {
	return showID + "_ep" + strconv.FormatFloat(episode, 'f', -1, 64)
}

// List computes the user's notifications. A bookmarked show with no history
// row counts as unwatched, so any episode at all produces an entry.
func (s *NotificationService) List(ctx context.Context, userID uint) ([]NotificationItem, error) {
	bookmarks, err := s.bookmarkRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	history, err := s.historyRepo.MapByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The bookmark row carries a display snapshot, but its episode counter can
	// lag behind newly published episodes. The delta must come from the shows'
	// current counters or a fresh episode never surfaces.
	showIDs := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		showIDs[i] = b.ShowID
	}
	latest, err := s.showRepo.LatestEpisodes(ctx, showIDs)
	if err != nil {
		return nil, err
	}

	readKey := cache.NotifReadKey(userID)
	items := make([]NotificationItem, 0, len(bookmarks))
	for _, b := range bookmarks {
		current, ok := latest[b.ShowID]
		if !ok || current <= 0 {
			continue
		}
		watched := history[b.ShowID].LastWatchedEpisodeNumber
		if current <= watched {
			continue
		}
		key := notificationKey(b.ShowID, current)
		read, err := s.readSet.Contains(ctx, readKey, key)
		if err != nil {
			read = false
		}
		items = append(items, NotificationItem{
			Key:           key,
			ShowID:        b.ShowID,
			Title:         b.Title,
			ThumbnailURL:  b.ThumbnailURL,
			LatestEpisode: current,
			LastWatched:   watched,
			Read:          read,
		})
	}

	// Unread first, then by title for a stable order.
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Read != items[j].Read {
			return !items[i].Read
		}
		return items[i].Title < items[j].Title
	})
	return items, nil
}

// UnreadCount returns how many current notifications the user has not read.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int, error) {
	items, err := s.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, it := range items {
		if !it.Read {
			n++
		}
	}
	return n, nil
}

// MarkRead records one notification key as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID uint, key string) error {
	return s.readSet.Add(ctx, cache.NotifReadKey(userID), key)
}

// MarkAllRead records every currently visible notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	items, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(items))
	for _, it := range items {
		if !it.Read {
			keys = append(keys, it.Key)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return s.readSet.Add(ctx, cache.NotifReadKey(userID), keys...)
}
