package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/bbyte-app/backend/internal/config"
	"github.com/bbyte-app/backend/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := config.Load()

	log.Println("Connecting to database...")
	if err := database.Initialize(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	log.Println("Running migrations...")
	if err := database.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Println("All migrations completed")
}
