// Command seed populates the database with a demo catalog and audience.
package main

import (
	"flag"
	"log"

	"hikari/internal/config"
	"hikari/internal/database"
	"hikari/internal/seed"
)

func main() {
	numShows := flag.Int("shows", 20, "Number of shows to create")
	numViewers := flag.Int("viewers", 25, "Number of viewer accounts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Printf("Seeding: %d shows, %d viewers, clean=%v", *numShows, *numViewers, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}
	if err := s.Run(seed.Options{NumShows: *numShows, NumViewers: *numViewers}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("Seeding complete")
}
