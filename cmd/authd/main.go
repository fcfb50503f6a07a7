package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/mundocomputo/authd/internal/auth/app"
)

func main() {
	// Optional .env for local development; real deployments set the
	// environment directly.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			log.Printf("failed to load .env: %v", err)
		}
	}

	cfg := app.LoadConfig()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
