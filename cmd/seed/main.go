package main

import (
	"flag" // Command line flags
	"os"   // Environment

	"blog_system/internal/config" // Custom import path (Config)
	"blog_system/internal/db"     // Custom import path (Database)

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Main entry point for seeding fake data
func main() {
	users := flag.Int("users", 5, "number of fake users, each with one post")
	seed := flag.Uint64("seed", 0, "faker seed, 0 for random")
	flag.Parse()

	cfg := config.LoadConfig() // Load configuration
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("%v", err)
	}
	err = db.Seed(gdb, db.SeedOptions{
		Users:         *users,
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		Seed:          *seed,
	})
	if err != nil {
		logrus.Fatalf("seed failed: %v", err)
	}
}
