package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/vidflow/backend/internal/router"
	"github.com/vidflow/backend/pkg/config"
	"github.com/vidflow/backend/pkg/logger"
	"github.com/vidflow/backend/pkg/media"
	"github.com/vidflow/backend/validators"
)

func main() {
	// Load environment variables from .env before anything reads them
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	// Initialize media store
	mediaStore, err := media.NewStore(cfg.MediaDir)
	if err != nil {
		log.Fatalf("Failed to initialize media store: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator
	e.Validator = validators.NewValidator()

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, db.Postgres, mediaStore, cfg); err != nil {
		log.Fatalf("Failed to setup routes: %v", err)
	}

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
