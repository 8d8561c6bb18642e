package models

import "time"

// Comment types.
const (
	CommentTypeShow    = "show"
	CommentTypeEpisode = "episode"
)

// Comment is attached to a show or, when EpisodeID is set, to one episode.
// UserName and UserPhoto are denormalized at write time so lists render without
// a join against users.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ShowID    string    `gorm:"size:36;not null;index" json:"showId"`
	EpisodeID string    `gorm:"size:36;index" json:"episodeId,omitempty"`
	Type      string    `gorm:"default:show" json:"type"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	UserName  string    `json:"userName"`
	UserPhoto string    `json:"userPhoto,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
