package models

import "time"

// ViewHistory records the last episode a user watched per show. Upserted every
// time playback switches episodes.
type ViewHistory struct {
	UserID                   uint      `gorm:"primaryKey" json:"userId"`
	ShowID                   string    `gorm:"primaryKey;size:36" json:"showId"`
	LastWatchedEpisodeID     string    `gorm:"size:36" json:"lastWatchedEpisodeId"`
	LastWatchedEpisodeNumber float64   `json:"lastWatchedEpisodeNumber"`
	Title                    string    `json:"title"`
	ThumbnailURL             string    `json:"thumbnailUrl,omitempty"`
	WatchedAt                time.Time `json:"watchedAt"`
}
