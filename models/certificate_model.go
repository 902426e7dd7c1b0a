package models

import (
	"time"
)

// Certificate carries the superset of both certificate layouts: name,
// description and category, or title, provider and date.
type Certificate struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:255" json:"name"`
	Title       string     `gorm:"size:255" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Provider    string     `gorm:"size:255;index" json:"provider"`
	Category    string     `gorm:"size:255;index" json:"category"`
	Date        *Date      `gorm:"type:date;index" json:"date"`
	Link        string     `gorm:"type:text" json:"link"`
	Image       string     `gorm:"type:text;not null" json:"image"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
