// Package models defines the database models and shared error types for the application.
package models

import "time"

// Show statuses for the catalog "type" field.
const (
	ShowTypeTV    = "tv"
	ShowTypeMovie = "movie"
	ShowTypeOVA   = "ova"
)

// Show is a series in the catalog. LatestEpisodeNumber and EpisodeCount are
// denormalized aggregates over the show's episodes; they are recomputed after
// every episode mutation and may lag briefly in between (see service.ShowService).
type Show struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	Title               string    `gorm:"not null;index" json:"title"`
	AltTitle            string    `json:"altTitle,omitempty"`
	Description         string    `gorm:"type:text" json:"description,omitempty"`
	ThumbnailURL        string    `json:"thumbnailUrl,omitempty"`
	Studio              string    `json:"studio,omitempty"`
	Year                int       `json:"year,omitempty"`
	Rating              float64   `json:"rating,omitempty"`
	Type                string    `gorm:"default:tv" json:"type"`
	Tags                []Tag     `gorm:"many2many:show_tags" json:"tags,omitempty"`
	IsCompleted         bool      `json:"isCompleted"`
	ViewCount           int64     `json:"viewCount"`
	LatestEpisodeNumber float64   `json:"latestEpisodeNumber"`
	EpisodeCount        int64     `json:"episodeCount"`
	CountersUpdatedAt   time.Time `json:"countersUpdatedAt"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// ShowKeyword is one precomputed prefix of the show title, stored to support
// exact server-side prefix search without a full-text engine.
type ShowKeyword struct {
	ShowID  string `gorm:"primaryKey;size:36;index" json:"showId"`
	Keyword string `gorm:"primaryKey;size:20;index" json:"keyword"`
}
