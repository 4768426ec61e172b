package services

import (
	"fmt"
	"reflect"
	"strings"

	"restaurant_web/internal/models"
)

const (
	DefaultOpeningTime = "08:00"
	DefaultClosingTime = "23:00"
)

// DefaultSettings is the singleton created on first read.
func DefaultSettings() *models.RestaurantSettings {
	return &models.RestaurantSettings{
		ID:          models.SettingsID,
		OpeningTime: DefaultOpeningTime,
		ClosingTime: DefaultClosingTime,
	}
}

// NormalizeSettings fills in every derived field of raw: fallback times, one
// working-hours entry per weekday in Sunday..Saturday order, and the display
// strings. It reports whether the result differs from raw. Normalising an
// already normalised value is a no-op.
func NormalizeSettings(raw models.RestaurantSettings) (models.RestaurantSettings, bool) {
	out := raw

	out.OpeningTime = clockOr(raw.OpeningTime, DefaultOpeningTime)
	out.ClosingTime = clockOr(raw.ClosingTime, DefaultClosingTime)

	stored := make(map[string]models.DayHours, len(raw.WorkingHours))
	for _, entry := range raw.WorkingHours {
		key := strings.ToLower(strings.TrimSpace(entry.Day))
		if _, dup := stored[key]; !dup {
			stored[key] = entry
		}
	}

	out.WorkingHours = make([]models.DayHours, 0, len(models.WeekDays))
	for _, day := range models.WeekDays {
		entry, ok := stored[strings.ToLower(day)]
		if !ok {
			out.WorkingHours = append(out.WorkingHours, models.DayHours{
				Day:         day,
				OpeningTime: out.OpeningTime,
				ClosingTime: out.ClosingTime,
			})
			continue
		}
		out.WorkingHours = append(out.WorkingHours, models.DayHours{
			Day:         day,
			OpeningTime: clockOr(entry.OpeningTime, out.OpeningTime),
			ClosingTime: clockOr(entry.ClosingTime, out.ClosingTime),
			Closed:      entry.Closed,
		})
	}

	out.DisplayHours = models.DisplayHours{
		Weekdays: textOr(raw.DisplayHours.Weekdays, fmt.Sprintf("Sunday – Thursday: %s – %s", out.OpeningTime, out.ClosingTime)),
		Friday:   textOr(raw.DisplayHours.Friday, fmt.Sprintf("Friday: %s – %s", out.OpeningTime, out.ClosingTime)),
		Saturday: textOr(raw.DisplayHours.Saturday, fmt.Sprintf("Saturday: %s – %s", out.OpeningTime, out.ClosingTime)),
	}

	if out.CancellationFee < 0 {
		out.CancellationFee = 0
	}

	changed := out.OpeningTime != raw.OpeningTime ||
		out.ClosingTime != raw.ClosingTime ||
		out.DisplayHours != raw.DisplayHours ||
		out.CancellationFee != raw.CancellationFee ||
		!reflect.DeepEqual(out.WorkingHours, raw.WorkingHours)
	return out, changed
}

func clockOr(value, fallback string) string {
	if normalized, ok := normalizeClock(value); ok {
		return normalized
	}
	return fallback
}

func textOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

// IsOpenAt reports whether hh:mm falls inside the day's working hours.
// A closing time at or before the opening time means the day runs past midnight.
func IsOpenAt(hours models.DayHours, clock string) bool {
	if hours.Closed {
		return false
	}
	if hours.ClosingTime > hours.OpeningTime {
		return clock >= hours.OpeningTime && clock < hours.ClosingTime
	}
	return clock >= hours.OpeningTime || clock < hours.ClosingTime
}
