package events

import (
	"context"
	"errors"
	"time"
)

const (
	OrderCreated             = "order.created"
	OrderStatusChanged       = "order.status_changed"
	OrderCancelled           = "order.cancelled"
	OrderDeleted             = "order.deleted"
	ReservationCreated       = "reservation.created"
	ReservationStatusChanged = "reservation.status_changed"
	ReservationCancelled     = "reservation.cancelled"
	ContactReceived          = "contact.received"
)

// Event is a domain event emitted after a successful write.
type Event struct {
	Type           string      `json:"type"`
	EntityID       uint        `json:"entityId"`
	Reference      string      `json:"reference,omitempty"`
	Status         string      `json:"status,omitempty"`
	PreviousStatus string      `json:"previousStatus,omitempty"`
	Actor          string      `json:"actor,omitempty"`
	OccurredAt     time.Time   `json:"occurredAt"`
	Data           interface{} `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

// Noop discards every event.
func Noop() Publisher { return noopPublisher{} }

type multiPublisher []Publisher

// Multi publishes to every publisher and joins their errors.
func Multi(publishers ...Publisher) Publisher {
	var out multiPublisher
	for _, p := range publishers {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (m multiPublisher) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
