// Command admin provisions admin dashboard accounts.
package main

import (
	"flag"
	"log"

	"aura/internal/bootstrap"
	"aura/internal/config"
	"aura/internal/observability"
)

func main() {
	username := flag.String("username", "", "admin username")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("usage: admin -username <name> -email <email> -password <password>")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.LogLevel)

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	admin, created, err := bootstrap.EnsureAdminUser(db, *username, *email, *password)
	if err != nil {
		log.Fatalf("Failed to provision admin user: %v", err)
	}
	if created {
		log.Printf("Created admin user %q (ID %d)", admin.Username, admin.ID)
	} else {
		log.Printf("Admin user %q already exists (ID %d)", admin.Username, admin.ID)
	}
}
