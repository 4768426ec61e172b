package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_web/internal/events"
	"restaurant_web/internal/models"
	"restaurant_web/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CreateReservationRequest struct {
	Name   string `json:"name" validate:"required,max=120"`
	Phone  string `json:"phone" validate:"required,min=6,max=32"`
	Email  string `json:"email" validate:"omitempty,email,max=200"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Time   string `json:"time" validate:"required,clock"`
	Guests int    `json:"guests" validate:"required,min=1,max=20"`
	Notes  string `json:"notes" validate:"max=1000"`
}

type ReservationTracking struct {
	Reference string                   `json:"reference"`
	Status    models.ReservationStatus `json:"status"`
	Date      string                   `json:"date"`
	Time      string                   `json:"time"`
	Guests    int                      `json:"guests"`
}

type ReservationService interface {
	Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error)
	GetByID(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, int64, error)
	Upcoming(ctx context.Context, limit int) ([]models.Reservation, error)
	Track(ctx context.Context, reference string) (*ReservationTracking, error)
	UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus, actor string) (*models.Reservation, error)
	CancelByReference(ctx context.Context, reference, phone string, now time.Time) (*CancellationResult, error)
	Delete(ctx context.Context, id uint, actor string) error
}

type reservationService struct {
	repo       repository.ReservationRepository
	settings   SettingsService
	references *ReferenceGenerator
	publisher  events.Publisher
	notifier   Notifier
	location   *time.Location
	logger     *logrus.Logger
	now        func() time.Time
}

func NewReservationService(
	repo repository.ReservationRepository,
	settings SettingsService,
	publisher events.Publisher,
	notifier Notifier,
	location *time.Location,
	logger *logrus.Logger,
) ReservationService {
	if location == nil {
		location = time.UTC
	}
	return &reservationService{
		repo:       repo,
		settings:   settings,
		references: NewReferenceGenerator(ReservationReferencePrefix),
		publisher:  publisher,
		notifier:   notifier,
		location:   location,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *reservationService) Create(ctx context.Context, req CreateReservationRequest) (*models.Reservation, error) {
	if fields := validateStruct(req); len(fields) > 0 {
		return nil, NewValidationError("invalid reservation", fields)
	}

	clock, _ := normalizeClock(req.Time)
	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+clock, s.location)
	if err != nil {
		return nil, NewValidationError("invalid reservation", map[string]string{"date": "must be a date in YYYY-MM-DD format"})
	}
	now := s.now()
	if !scheduledAt.After(now) {
		return nil, NewValidationError("reservation must be in the future", map[string]string{"date": "must be in the future"})
	}

	settings, err := s.settings.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	hours, ok := settings.HoursFor(scheduledAt.Weekday())
	if !ok || hours.Closed {
		return nil, NewValidationError(fmt.Sprintf("restaurant is closed on %s", scheduledAt.Weekday()), map[string]string{"date": "restaurant is closed on this day"})
	}
	if !IsOpenAt(hours, clock) {
		return nil, NewValidationError("outside working hours", map[string]string{
			"time": fmt.Sprintf("must be between %s and %s", hours.OpeningTime, hours.ClosingTime),
		})
	}

	var reservation *models.Reservation
	for attempt := 1; ; attempt++ {
		reservation = &models.Reservation{
			Reference:   s.references.Next(now),
			Name:        sanitizeText(req.Name),
			Phone:       strings.TrimSpace(req.Phone),
			Email:       strings.ToLower(strings.TrimSpace(req.Email)),
			Date:        req.Date,
			Time:        clock,
			Guests:      req.Guests,
			Notes:       sanitizeText(req.Notes),
			Status:      models.ReservationPending,
			ScheduledAt: scheduledAt,
		}
		err = s.repo.Create(ctx, reservation)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < referenceAttempts {
			continue
		}
		return nil, Internal("failed to create reservation", err)
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"reference":      reservation.Reference,
		"scheduled_at":   reservation.ScheduledAt,
		"guests":         reservation.Guests,
	}).Info("Reservation created")

	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type:      events.ReservationCreated,
		EntityID:  reservation.ID,
		Reference: reservation.Reference,
		Status:    string(reservation.Status),
		Data:      reservation,
	})
	s.notifier.Notify(reservation.Phone, reservationCreatedMessage(reservation))
	s.notifier.NotifyStaff(staffReservationMessage(reservation))

	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, id uint) (*models.Reservation, error) {
	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "reservation")
	}
	return reservation, nil
}

func (s *reservationService) getByReference(ctx context.Context, reference string) (*models.Reservation, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, NewValidationError("reference required", map[string]string{"reference": "is required"})
	}
	reservation, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, lookupError(err, "reservation")
	}
	return reservation, nil
}

func (s *reservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, NewValidationError("invalid status", map[string]string{"status": "must be one of PENDING, CONFIRMED, CANCELLED, NO_SHOW"})
	}
	reservations, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, Internal("failed to list reservations", err)
	}
	return reservations, total, nil
}

func (s *reservationService) Upcoming(ctx context.Context, limit int) ([]models.Reservation, error) {
	reservations, err := s.repo.Upcoming(ctx, s.now(), limit)
	if err != nil {
		return nil, Internal("failed to list reservations", err)
	}
	return reservations, nil
}

func (s *reservationService) Track(ctx context.Context, reference string) (*ReservationTracking, error) {
	reservation, err := s.getByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return &ReservationTracking{
		Reference: reservation.Reference,
		Status:    reservation.Status,
		Date:      reservation.Date,
		Time:      reservation.Time,
		Guests:    reservation.Guests,
	}, nil
}

func (s *reservationService) UpdateStatus(ctx context.Context, id uint, status models.ReservationStatus, actor string) (*models.Reservation, error) {
	if !status.Valid() {
		return nil, NewValidationError("invalid status", map[string]string{"status": "must be one of PENDING, CONFIRMED, CANCELLED, NO_SHOW"})
	}
	reservation, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := reservation.Status

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, lookupError(err, "reservation")
	}
	reservation.Status = status

	s.logger.WithFields(logrus.Fields{
		"reservation_id": id,
		"reference":      reservation.Reference,
		"from":           previous,
		"to":             status,
		"actor":          actor,
	}).Info("Reservation status updated")

	if previous != status {
		publishEvent(ctx, s.publisher, s.logger, events.Event{
			Type:           events.ReservationStatusChanged,
			EntityID:       id,
			Reference:      reservation.Reference,
			Status:         string(status),
			PreviousStatus: string(previous),
			Actor:          actor,
		})
		if status != models.ReservationNoShow {
			s.notifier.Notify(reservation.Phone, reservationStatusMessage(reservation))
		}
	}
	return reservation, nil
}

func (s *reservationService) CancelByReference(ctx context.Context, reference, phone string, now time.Time) (*CancellationResult, error) {
	reservation, err := s.getByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := EvaluateReservationCancellation(reservation, strings.TrimSpace(phone), now); err != nil {
		return nil, err
	}

	ok, err := s.repo.UpdateStatusIf(ctx, reservation.ID, reservation.Status, models.ReservationCancelled)
	if err != nil {
		return nil, Internal("failed to cancel reservation", err)
	}
	if !ok {
		current, err := s.GetByID(ctx, reservation.ID)
		if err != nil {
			return nil, err
		}
		if current.Status == models.ReservationCancelled {
			return nil, Conflict("already cancelled")
		}
		return nil, Conflict(fmt.Sprintf("reservation status changed to %s, try again", current.Status))
	}

	s.logger.WithField("reference", reservation.Reference).Info("Reservation cancelled by customer")
	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type:           events.ReservationCancelled,
		EntityID:       reservation.ID,
		Reference:      reservation.Reference,
		Status:         string(models.ReservationCancelled),
		PreviousStatus: string(reservation.Status),
		Actor:          "customer",
	})
	reservation.Status = models.ReservationCancelled
	s.notifier.NotifyStaff(fmt.Sprintf("Reservation %s (%s %s) was cancelled by the customer.", reservation.Reference, reservation.Date, reservation.Time))

	return &CancellationResult{Cancelled: true}, nil
}

func (s *reservationService) Delete(ctx context.Context, id uint, actor string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "reservation")
	}
	s.logger.WithFields(logrus.Fields{"reservation_id": id, "actor": actor}).Info("Reservation deleted")
	return nil
}
