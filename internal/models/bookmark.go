package models

import "time"

// Bookmark is a per-user saved show with a denormalized snapshot of the show
// fields needed to render the bookmark list without joining shows.
type Bookmark struct {
	UserID              uint      `gorm:"primaryKey" json:"userId"`
	ShowID              string    `gorm:"primaryKey;size:36" json:"showId"`
	Title               string    `json:"title"`
	ThumbnailURL        string    `json:"thumbnailUrl,omitempty"`
	TagNames            string    `json:"tagNames,omitempty"`
	LatestEpisodeNumber float64   `json:"latestEpisodeNumber"`
	SavedAt             time.Time `json:"savedAt"`
}
