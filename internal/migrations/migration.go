package migrations

import (
	"context"
	"fmt"

	"restaurant_web/internal/services"

	"github.com/sirupsen/logrus"
)

// RunMigrations creates the default data every deployment needs: the first
// ADMIN account and the settings singleton.
func RunMigrations(ctx context.Context, users services.UserService, settings services.SettingsService, adminEmail, adminPassword string, logger *logrus.Logger) error {
	logger.Info("Creating default data...")

	created, err := users.EnsureAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	if created {
		logger.WithField("email", adminEmail).Warn("Default admin user created, change its password")
	} else {
		logger.Debug("Admin user already exists")
	}

	if _, err := settings.Resolve(ctx); err != nil {
		return fmt.Errorf("failed to initialise restaurant settings: %w", err)
	}

	logger.Info("Default data ready")
	return nil
}
