package models

import "time"

// ClientLog is a best-effort error report posted by the frontend's page-wide
// fallback handler. Writes are fire-and-forget; a failed insert is swallowed.
type ClientLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"default:error" json:"level"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Source    string    `json:"source,omitempty"`
	UserID    uint      `gorm:"index" json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
