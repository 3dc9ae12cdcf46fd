package domain

import (
	"time" // Timestamps

	"gorm.io/datatypes" // Date-only column type
)

// Blog Model
type Blog struct {
	ID        uint           `gorm:"primaryKey"`         // Primary key
	Title     string         `gorm:"size:255;not null"`  // Blog title
	Author    string         `gorm:"size:255;not null"`  // Author name
	Date      datatypes.Date `gorm:"not null"`           // Publication date
	Text      string         `gorm:"type:text;not null"` // Body text
	Image     *string        `gorm:"size:512"`           // Optional image reference
	CreatedAt time.Time      `gorm:"autoCreateTime"`     // Creation timestamp
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`     // Update timestamp
}
