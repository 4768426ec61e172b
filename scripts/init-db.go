package main

import (
	"context"
	"errors"
	"os"
	"time"

	"restaurant_web/internal/config"
	"restaurant_web/internal/database"
	"restaurant_web/internal/logging"
	"restaurant_web/internal/migrations"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/services"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Initialize(cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	userService := services.NewUserService(repository.NewUserRepository(db), cfg.WhatsAppCountryCode, logger)
	settingsService := services.NewSettingsService(repository.NewSettingsRepository(db), nil, 0, logger)

	if err := migrations.RunMigrations(ctx, userService, settingsService, cfg.AdminEmail, cfg.AdminPassword, logger); err != nil {
		logger.WithError(err).Fatal("Failed to create default data")
	}

	seed, err := migrations.LoadSeed(cfg.SeedFile)
	if errors.Is(err, os.ErrNotExist) {
		logger.WithField("seed_file", cfg.SeedFile).Info("No seed file, skipping menu seed")
		return
	}
	if err != nil {
		logger.WithError(err).Fatal("Failed to load seed file")
	}
	if _, err := migrations.ApplySeed(ctx, db, seed, logger); err != nil {
		logger.WithError(err).Fatal("Failed to apply seed")
	}

	logger.Info("Database initialization completed")
}
