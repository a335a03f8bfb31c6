package main

import (
	"fmt"
	"os"

	"tally/internal/config"
	"tally/internal/handlers"
	"tally/internal/logger"
	"tally/internal/store"
	"tally/internal/validator"
)

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Open the ledger document. This seeds a fresh document on first run
	// and applies migrations before any request is served.
	st, err := store.Open(appConfig.DataFile)
	if err != nil {
		return fmt.Errorf("failed to open ledger store: %w", err)
	}

	validator.Register()
	router := handlers.NewRouter(st)

	log.Infof("Starting Tally backend server on port %s", appConfig.Port)
	log.Infof("Ledger document at %s", appConfig.DataFile)
	return router.Run(":" + appConfig.Port)
}
