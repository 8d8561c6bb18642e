package models

import "time"

// Episode statuses.
const (
	EpisodeStatusNormal       = "normal"
	EpisodeStatusBroken       = "broken"
	EpisodeStatusUserReported = "user_reported"
)

// Episode belongs to a Show. Number is a float so fractional numbering
// ("5.5" recap episodes) works; the (ShowID, Number) pair is kept unique by an
// explicit existence check in the episode service, not by a DB constraint.
type Episode struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ShowID    string    `gorm:"size:36;not null;index" json:"showId"`
	Number    float64   `gorm:"not null;index" json:"number"`
	Title     string    `json:"title,omitempty"`
	VideoURL  string    `gorm:"not null" json:"videoUrl"`
	Status    string    `gorm:"default:normal" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
