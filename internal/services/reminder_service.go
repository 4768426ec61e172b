package services

import (
	"context"
	"time"

	"restaurant_web/internal/repository"

	"github.com/sirupsen/logrus"
)

// ReminderService messages guests shortly before their reservation.
type ReminderService interface {
	// ProcessDue sends a reminder for every active reservation starting
	// within the lead time after now. Each reservation is reminded once.
	ProcessDue(ctx context.Context, now time.Time) (int, error)
	// Run calls ProcessDue every interval until ctx is done.
	Run(ctx context.Context, interval time.Duration)
}

type reminderService struct {
	repo     repository.ReservationRepository
	notifier Notifier
	lead     time.Duration
	logger   *logrus.Logger
	now      func() time.Time
}

func NewReminderService(repo repository.ReservationRepository, notifier Notifier, lead time.Duration, logger *logrus.Logger) ReminderService {
	if lead <= 0 {
		lead = 2 * time.Hour
	}
	return &reminderService{repo: repo, notifier: notifier, lead: lead, logger: logger, now: time.Now}
}

func (s *reminderService) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.DueForReminder(ctx, now, now.Add(s.lead))
	if err != nil {
		return 0, Internal("failed to load due reservations", err)
	}

	sent := 0
	for i := range due {
		reservation := &due[i]
		// Claim first so two instances never remind the same guest.
		claimed, err := s.repo.MarkReminded(ctx, reservation.ID, now)
		if err != nil {
			s.logger.WithError(err).WithField("reservation_id", reservation.ID).Error("Failed to mark reservation reminded")
			continue
		}
		if !claimed {
			continue
		}
		s.notifier.Notify(reservation.Phone, reservationReminderMessage(reservation))
		sent++
	}

	if sent > 0 {
		s.logger.WithField("count", sent).Info("Reservation reminders sent")
	}
	return sent, nil
}

func (s *reminderService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := s.ProcessDue(ctx, s.now()); err != nil {
			s.logger.WithError(err).Error("Reminder run failed")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
