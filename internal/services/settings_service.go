package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_web/internal/models"
	"restaurant_web/internal/redis"
	"restaurant_web/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const settingsCacheKey = "settings"

// Cache is the JSON cache used for read-mostly aggregates.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type SettingsService interface {
	// Resolve returns the normalised settings, creating and repairing the
	// stored row as needed.
	Resolve(ctx context.Context) (*models.RestaurantSettings, error)
	Update(ctx context.Context, req UpdateSettingsRequest) (*models.RestaurantSettings, error)
	Public(ctx context.Context) (*PublicSettings, error)
}

type UpdateSettingsRequest struct {
	OpeningTime           *string              `json:"openingTime" validate:"omitempty,clock"`
	ClosingTime           *string              `json:"closingTime" validate:"omitempty,clock"`
	WorkingHours          []models.DayHours    `json:"workingHours"`
	DisplayHours          *models.DisplayHours `json:"displayHours"`
	AllowCancelPaid       *bool                `json:"allowCancelPaid"`
	AllowCancelInProgress *bool                `json:"allowCancelInProgress"`
	CancellationFee       *float64             `json:"cancellationFee" validate:"omitempty,gte=0,lte=1000"`
}

type CancellationPolicy struct {
	AllowCancelPaid       bool    `json:"allowCancelPaid"`
	AllowCancelInProgress bool    `json:"allowCancelInProgress"`
	CancellationFee       float64 `json:"cancellationFee"`
	WindowMinutes         int     `json:"windowMinutes"`
}

type PublicSettings struct {
	WorkingHours []models.DayHours   `json:"workingHours"`
	DisplayHours models.DisplayHours `json:"displayHours"`
	Cancellation CancellationPolicy  `json:"cancellation"`
}

type settingsService struct {
	repo     repository.SettingsRepository
	cache    Cache
	cacheTTL time.Duration
	logger   *logrus.Logger
}

// NewSettingsService builds the resolver. cache may be nil.
func NewSettingsService(repo repository.SettingsRepository, cache Cache, cacheTTL time.Duration, logger *logrus.Logger) SettingsService {
	return &settingsService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

func (s *settingsService) Resolve(ctx context.Context) (*models.RestaurantSettings, error) {
	if s.cache != nil {
		var cached models.RestaurantSettings
		err := s.cache.GetJSON(ctx, settingsCacheKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.WithError(err).Warn("Settings cache read failed")
		}
	}

	raw, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	normalized, changed := NormalizeSettings(*raw)
	if err := s.persistIfChanged(ctx, &normalized, changed); err != nil {
		return nil, err
	}

	s.store(ctx, &normalized)
	return &normalized, nil
}

func (s *settingsService) load(ctx context.Context) (*models.RestaurantSettings, error) {
	raw, err := s.repo.Get(ctx)
	if err == nil {
		return raw, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Internal("failed to load settings", err)
	}

	if err := s.repo.CreateIfMissing(ctx, DefaultSettings()); err != nil {
		return nil, Internal("failed to create settings", err)
	}
	s.logger.Info("Created default restaurant settings")

	raw, err = s.repo.Get(ctx)
	if err != nil {
		return nil, Internal("failed to load settings", err)
	}
	return raw, nil
}

// persistIfChanged is the write-on-read repair. Concurrent repairs write the
// same content, so the last writer winning is harmless.
func (s *settingsService) persistIfChanged(ctx context.Context, settings *models.RestaurantSettings, changed bool) error {
	if !changed {
		return nil
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return Internal("failed to repair settings", err)
	}
	s.logger.Debug("Persisted normalised restaurant settings")
	return nil
}

func (s *settingsService) store(ctx context.Context, settings *models.RestaurantSettings) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, settingsCacheKey, settings, s.cacheTTL); err != nil {
		s.logger.WithError(err).Warn("Settings cache write failed")
	}
}

func (s *settingsService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, settingsCacheKey); err != nil {
		s.logger.WithError(err).Warn("Settings cache invalidation failed")
	}
}

func (s *settingsService) Update(ctx context.Context, req UpdateSettingsRequest) (*models.RestaurantSettings, error) {
	fields := validateStruct(req)
	for i, entry := range req.WorkingHours {
		if !isWeekDay(entry.Day) {
			fields = mergeFields(fields, map[string]string{fmt.Sprintf("workingHours[%d].day", i): "must be a day of the week"})
		}
		if _, ok := normalizeClock(entry.OpeningTime); !ok && !entry.Closed {
			fields = mergeFields(fields, map[string]string{fmt.Sprintf("workingHours[%d].openingTime", i): "must be a time in HH:MM format"})
		}
		if _, ok := normalizeClock(entry.ClosingTime); !ok && !entry.Closed {
			fields = mergeFields(fields, map[string]string{fmt.Sprintf("workingHours[%d].closingTime", i): "must be a time in HH:MM format"})
		}
	}
	if len(fields) > 0 {
		return nil, NewValidationError("invalid settings", fields)
	}

	s.invalidate(ctx)
	current, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if req.OpeningTime != nil {
		current.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		current.ClosingTime = *req.ClosingTime
	}
	if req.WorkingHours != nil {
		current.WorkingHours = req.WorkingHours
	}
	if req.DisplayHours != nil {
		current.DisplayHours = *req.DisplayHours
	}
	if req.AllowCancelPaid != nil {
		current.AllowCancelPaid = *req.AllowCancelPaid
	}
	if req.AllowCancelInProgress != nil {
		current.AllowCancelInProgress = *req.AllowCancelInProgress
	}
	if req.CancellationFee != nil {
		current.CancellationFee = models.RoundMoney(*req.CancellationFee)
	}

	normalized, _ := NormalizeSettings(*current)
	if err := s.repo.Save(ctx, &normalized); err != nil {
		return nil, Internal("failed to save settings", err)
	}
	s.invalidate(ctx)

	s.logger.WithFields(logrus.Fields{
		"allow_cancel_paid":        normalized.AllowCancelPaid,
		"allow_cancel_in_progress": normalized.AllowCancelInProgress,
		"cancellation_fee":         normalized.CancellationFee,
	}).Info("Restaurant settings updated")
	return &normalized, nil
}

func (s *settingsService) Public(ctx context.Context) (*PublicSettings, error) {
	settings, err := s.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return &PublicSettings{
		WorkingHours: settings.WorkingHours,
		DisplayHours: settings.DisplayHours,
		Cancellation: CancellationPolicy{
			AllowCancelPaid:       settings.AllowCancelPaid,
			AllowCancelInProgress: settings.AllowCancelInProgress,
			CancellationFee:       settings.CancellationFee,
			WindowMinutes:         int(CancellationWindow / time.Minute),
		},
	}, nil
}

func isWeekDay(day string) bool {
	for _, d := range models.WeekDays {
		if strings.EqualFold(strings.TrimSpace(day), d) {
			return true
		}
	}
	return false
}
