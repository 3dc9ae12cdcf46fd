package main

import (
	"saas_backend/internal/config" // Custom import path (Config)
	"saas_backend/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for migration
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	gdb, err := db.Open(cfg) // Connect to the configured database
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err) // Migration failed
	}
	if err := db.SeedPlans(gdb); err != nil {
		logrus.Fatalf("failed to seed billing plans: %v", err) // Seeding failed
	}
}
