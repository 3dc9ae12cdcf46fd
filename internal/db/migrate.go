package db

import (
	"saas_backend/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging
	"gorm.io/datatypes"          // JSON column values
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Upsert clauses
)

// DefaultPlans is the seeded billing plan catalog
var DefaultPlans = []domain.BillingPlan{
	{ID: 1, Name: "Basic", Price: 20, Duration: 30, Features: datatypes.JSON(`{"bulkDelete": true, "maxItemsPerRun": 1000}`)},
	{ID: 2, Name: "Pro", Price: 40, Duration: 30, Features: datatypes.JSON(`{"bulkDelete": true, "maxItemsPerRun": 10000, "scheduled": true}`)},
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.BillingPlan{}, &domain.User{}, &domain.Blog{}); err != nil {
		return err // Migration failed
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// SeedPlans inserts the default billing plans, leaving existing rows untouched
func SeedPlans(db *gorm.DB) error {
	plans := make([]domain.BillingPlan, len(DefaultPlans)) // Copy so callers keep pristine defaults
	copy(plans, DefaultPlans)
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&plans).Error; err != nil {
		return err // Seeding failed
	}
	logrus.WithField("plans", len(plans)).Info("Billing plans seeded.") // Log seeding
	return nil
}
