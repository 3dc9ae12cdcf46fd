package domain

import (
	"time" // Timestamps

	"gorm.io/datatypes" // JSON column type
)

// BillingPlan Model
type BillingPlan struct {
	ID        uint           `gorm:"primaryKey" json:"id"`          // Primary key
	Name      string         `gorm:"size:191;not null" json:"name"` // Plan name
	Price     float64        `gorm:"not null" json:"price"`         // Price in major currency units
	Duration  int            `gorm:"not null" json:"duration"`      // Billing period in days
	Features  datatypes.JSON `json:"features"`                      // Unstructured feature set
	CreatedAt time.Time      `json:"createdAt"`                     // Creation timestamp
	UpdatedAt time.Time      `json:"updatedAt"`                     // Update timestamp
}
