package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ShowKeyPrefix         = "show:%s"
	ShowListKey           = "shows:firstpage"
	BannerListKey         = "banners:active"
	NotifReadKeyPrefix    = "notifread:%d"
	ViewThrottleKeyPrefix = "viewthrottle:%s:%s"

	// SearchSnapshotKey is version-tagged: bump the suffix whenever the
	// snapshot record shape changes so stale cached snapshots are ignored.
	SearchSnapshotKey = "search:snapshot:v2"
)

const (
	ShowTTL           = 30 * time.Minute
	ListTTL           = 5 * time.Minute
	SearchSnapshotTTL = 24 * time.Hour
	ViewThrottleTTL   = 30 * time.Minute
)

func ShowKey(showID string) string {
	return fmt.Sprintf(ShowKeyPrefix, showID)
}

func NotifReadKey(userID uint) string {
	return fmt.Sprintf(NotifReadKeyPrefix, userID)
}

func ViewThrottleKey(showID, viewerKey string) string {
	return fmt.Sprintf(ViewThrottleKeyPrefix, showID, viewerKey)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateShow(ctx context.Context, showID string) {
	Invalidate(ctx, ShowKey(showID))
	Invalidate(ctx, ShowListKey)
}

func InvalidateBanners(ctx context.Context) {
	Invalidate(ctx, BannerListKey)
}

// InvalidateSearchSnapshot drops the cached catalog snapshot so the next index
// rebuild refetches from the database.
func InvalidateSearchSnapshot(ctx context.Context) {
	Invalidate(ctx, SearchSnapshotKey)
}
