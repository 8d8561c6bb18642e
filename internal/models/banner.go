package models

import "time"

// Banner is a home-page carousel entry. Order values are rewritten contiguously
// on every reorder operation but not globally enforced.
type Banner struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	ImageURL  string    `gorm:"not null" json:"imageUrl"`
	LinkURL   string    `json:"linkUrl,omitempty"`
	Order     int       `gorm:"column:display_order;index" json:"order"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
	ShowID    string    `gorm:"size:36;index" json:"showId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
