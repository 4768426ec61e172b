package repository

import (
	"context"

	"restaurant_web/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	// Get returns gorm.ErrRecordNotFound until the singleton exists.
	Get(ctx context.Context) (*models.RestaurantSettings, error)
	// CreateIfMissing inserts the singleton unless a concurrent caller already did.
	CreateIfMissing(ctx context.Context, settings *models.RestaurantSettings) error
	Save(ctx context.Context, settings *models.RestaurantSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (*models.RestaurantSettings, error) {
	var settings models.RestaurantSettings
	err := r.db.WithContext(ctx).First(&settings, models.SettingsID).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *settingsRepository) CreateIfMissing(ctx context.Context, settings *models.RestaurantSettings) error {
	settings.ID = models.SettingsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(settings).Error
}

func (r *settingsRepository) Save(ctx context.Context, settings *models.RestaurantSettings) error {
	settings.ID = models.SettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}
