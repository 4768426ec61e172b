package services

import (
	"context"
	"time"

	"restaurant_web/internal/events"

	"github.com/sirupsen/logrus"
)

// publishEvent emits event and logs delivery failures; it never fails the caller.
func publishEvent(ctx context.Context, publisher events.Publisher, logger *logrus.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"event_type": event.Type,
			"reference":  event.Reference,
		}).Warn("Failed to publish event")
	}
}
