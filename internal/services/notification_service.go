package services

import (
	"context"
	"sync"
	"time"

	"restaurant_web/internal/circuitbreaker"

	"github.com/sirupsen/logrus"
)

// Notifier delivers fire-and-forget text messages. Failures are logged and
// never reach the caller.
type Notifier interface {
	Notify(phone, message string)
	NotifyStaff(message string)
}

// MessageSender is the outbound transport, implemented by whatsapp.Client.
type MessageSender interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

type NotificationService struct {
	sender     MessageSender
	breaker    *circuitbreaker.CircuitBreaker
	staffPhone string
	timeout    time.Duration
	logger     *logrus.Logger
	wg         sync.WaitGroup
}

// NewNotificationService returns a notifier backed by sender. A nil sender
// turns every notification into a debug log line.
func NewNotificationService(sender MessageSender, breaker *circuitbreaker.CircuitBreaker, staffPhone string, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		sender:     sender,
		breaker:    breaker,
		staffPhone: staffPhone,
		timeout:    15 * time.Second,
		logger:     logger,
	}
}

func (n *NotificationService) Notify(phone, message string) {
	if phone == "" || message == "" {
		return
	}
	if n.sender == nil {
		n.logger.WithField("phone", phone).Debug("Notification skipped, no sender configured")
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()

		send := func() error { return n.sender.SendTextMessage(ctx, phone, message) }
		var err error
		if n.breaker != nil {
			err = n.breaker.Execute(send)
		} else {
			err = send()
		}
		if err != nil {
			n.logger.WithError(err).WithField("phone", phone).Warn("Failed to deliver notification")
			return
		}
		n.logger.WithField("phone", phone).Debug("Notification delivered")
	}()
}

func (n *NotificationService) NotifyStaff(message string) {
	n.Notify(n.staffPhone, message)
}

// Wait blocks until in-flight notifications finish.
func (n *NotificationService) Wait() {
	n.wg.Wait()
}
