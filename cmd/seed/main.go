package main

import (
	"log"

	"github.com/pmoroz/filmrate/internal/config"
	"github.com/pmoroz/filmrate/internal/db"
)

// Standalone seeder: populates the configured database with demo
// users, films, friendships, likes, and reviews.
func main() {
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to init db: %v", err)
	}

	if err := db.SeedTestData(database); err != nil {
		log.Fatalf("failed to seed: %v", err)
	}

	log.Println("seed complete")
}
