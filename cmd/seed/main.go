// Command main runs the database seeder for the petition app.
package main

import (
	"flag"
	"log"

	"petition/internal/config"
	"petition/internal/database"
	"petition/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	signedRatio := flag.Float64("signed", 0.6, "Fraction of users that sign the petition")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, signed=%.0f%%, clean=%v\n", *numUsers, *signedRatio*100, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(database.DB, seed.Options{
		NumUsers:    *numUsers,
		SignedRatio: *signedRatio,
		ShouldClean: *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All test users have the password: password123")
}
