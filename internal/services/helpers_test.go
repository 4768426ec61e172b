package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurant_web/internal/events"
	"restaurant_web/internal/repository"
	"restaurant_web/internal/testutil"

	"gorm.io/gorm"
)

type sentMessage struct {
	Phone   string
	Message string
}

type recordingNotifier struct {
	mu       sync.Mutex
	customer []sentMessage
	staff    []string
}

func (n *recordingNotifier) Notify(phone, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.customer = append(n.customer, sentMessage{Phone: phone, Message: message})
}

func (n *recordingNotifier) NotifyStaff(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.staff = append(n.staff, message)
}

func (n *recordingNotifier) customerCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.customer)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// testEnv wires the order and reservation services to a private SQLite
// database with a fixed clock.
type testEnv struct {
	db           *gorm.DB
	now          time.Time
	settings     SettingsService
	orders       *orderService
	reservations *reservationService
	notifier     *recordingNotifier
	publisher    *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	logger := testutil.Logger()

	env := &testEnv{
		db:        db,
		now:       time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC),
		notifier:  &recordingNotifier{},
		publisher: &recordingPublisher{},
	}
	clock := func() time.Time { return env.now }

	env.settings = NewSettingsService(repository.NewSettingsRepository(db), nil, 0, logger)
	env.orders = NewOrderService(repository.NewOrderRepository(db), env.settings, env.publisher, env.notifier, logger).(*orderService)
	env.orders.now = clock
	env.reservations = NewReservationService(repository.NewReservationRepository(db), env.settings, env.publisher, env.notifier, time.UTC, logger).(*reservationService)
	env.reservations.now = clock
	return env
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }
