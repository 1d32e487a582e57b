// Command seed populates a development database with demo data.
package main

import (
	"flag"
	"log"

	"aura/internal/bootstrap"
	"aura/internal/config"
	"aura/internal/observability"
	"aura/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "number of demo users to create")
	numPosts := flag.Int("posts", 100, "number of demo posts to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	observability.InitLogger(cfg.LogLevel)

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	if err := seed.Seed(db, seed.Options{NumUsers: *numUsers, NumPosts: *numPosts}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
