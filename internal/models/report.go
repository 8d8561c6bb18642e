package models

import "time"

// Report is a viewer flag on a broken episode. Creating one flips the episode
// status to user_reported.
type Report struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ShowID    string    `gorm:"size:36;not null;index" json:"showId"`
	EpisodeID string    `gorm:"size:36;not null;index" json:"episodeId"`
	Reason    string    `gorm:"type:text" json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}
