package domain

import "time"

// Credential providers
const (
	ProviderEmail  = "email"  // Local password account
	ProviderGoogle = "google" // Account created through Google sign-in
)

// DefaultBillingPlanID is assigned to every new user
const DefaultBillingPlanID uint = 1

// User Model
type User struct {
	ID                 uint         `gorm:"primaryKey"`                     // Primary key
	Username           string       `gorm:"size:191;uniqueIndex;not null"`  // Unique username
	Name               *string      `gorm:"size:191"`                       // Optional display name
	Email              string       `gorm:"size:191;uniqueIndex;not null"`  // Unique email
	Password           string       `gorm:"not null"`                       // Hashed password
	IsVerified         bool         `gorm:"not null;default:false"`         // Email verification flag
	Provider           string       `gorm:"size:20;not null;default:email"` // Provider: email or google
	GoogleID           *string      `gorm:"size:191;uniqueIndex"`           // Google subject id, optional
	AccessToken        *string      `gorm:"size:512;uniqueIndex"`           // Google access token, optional
	BillingPlanID      uint         `gorm:"not null;default:1"`             // Foreign key to BillingPlan
	BillingPlan        *BillingPlan `gorm:"constraint:OnUpdate:CASCADE;"`   // Belongs-to relationship with BillingPlan
	VerificationSentAt *time.Time   `gorm:"index"`                          // Set once the verification mail went out
	CreatedAt          time.Time    `gorm:"autoCreateTime"`                 // Creation timestamp
	UpdatedAt          time.Time    `gorm:"autoUpdateTime"`                 // Update timestamp
}
