package main

import (
	"log"

	"github.com/emreb/cinematch/internal/config"
	"github.com/emreb/cinematch/internal/db"
)

// Seeds the development database with a demo catalog, users and likes.
func main() {
	cfg := config.New()

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Fatalf("failed to connect DB: %v", err)
	}

	if err := db.SeedTestData(database); err != nil {
		log.Fatalf("failed to seed data: %v", err)
	}

	log.Println("Seeding complete.")
}
