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

const referenceAttempts = 3

type OrderService interface {
	Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetByReference(ctx context.Context, reference string) (*models.Order, error)
	List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error)
	Track(ctx context.Context, reference string) (*OrderTracking, error)
	// UpdateStatus is the staff transition: any status may be set at any time.
	UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, actor string) (*models.Order, error)
	// CancelByReference is the customer self-service cancellation.
	CancelByReference(ctx context.Context, reference, phone string, now time.Time) (*CancellationResult, error)
	Delete(ctx context.Context, id uint, actor string) error
}

type OrderTracking struct {
	Reference string              `json:"reference"`
	Status    models.OrderStatus  `json:"status"`
	OrderType models.DeliveryType `json:"orderType"`
	Address   *string             `json:"address,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
}

type orderService struct {
	orderRepo  repository.OrderRepository
	settings   SettingsService
	references *ReferenceGenerator
	publisher  events.Publisher
	notifier   Notifier
	logger     *logrus.Logger
	now        func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	settings SettingsService,
	publisher events.Publisher,
	notifier Notifier,
	logger *logrus.Logger,
) OrderService {
	return &orderService{
		orderRepo:  orderRepo,
		settings:   settings,
		references: NewReferenceGenerator(OrderReferencePrefix),
		publisher:  publisher,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *orderService) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	draft, err := ValidateOrder(req)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	for attempt := 1; ; attempt++ {
		order = draft.Order(s.references.Next(s.now()))
		err = s.orderRepo.Create(ctx, order)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < referenceAttempts {
			s.logger.WithField("reference", order.Reference).Warn("Order reference collision, retrying")
			continue
		}
		return nil, Internal("failed to create order", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":      order.ID,
		"reference":     order.Reference,
		"delivery_type": order.DeliveryType,
		"total":         order.TotalPrice,
	}).Info("Order created")

	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type:      events.OrderCreated,
		EntityID:  order.ID,
		Reference: order.Reference,
		Status:    string(order.Status),
		Data:      order,
	})
	s.notifier.Notify(order.Phone, orderCreatedMessage(order))
	s.notifier.NotifyStaff(staffOrderMessage(order))

	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "order")
	}
	return order, nil
}

func (s *orderService) GetByReference(ctx context.Context, reference string) (*models.Order, error) {
	reference = strings.ToUpper(strings.TrimSpace(reference))
	if reference == "" {
		return nil, NewValidationError("reference required", map[string]string{"reference": "is required"})
	}
	order, err := s.orderRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, lookupError(err, "order")
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, NewValidationError("invalid status", map[string]string{"status": "must be one of NEW, IN_PROGRESS, COMPLETED, CANCELLED"})
	}
	orders, total, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, Internal("failed to list orders", err)
	}
	return orders, total, nil
}

func (s *orderService) Track(ctx context.Context, reference string) (*OrderTracking, error) {
	order, err := s.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	return &OrderTracking{
		Reference: order.Reference,
		Status:    order.Status,
		OrderType: order.DeliveryType,
		Address:   order.Address,
		CreatedAt: order.CreatedAt,
	}, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uint, status models.OrderStatus, actor string) (*models.Order, error) {
	if !status.Valid() {
		return nil, NewValidationError("invalid status", map[string]string{"status": "must be one of NEW, IN_PROGRESS, COMPLETED, CANCELLED"})
	}

	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status

	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, lookupError(err, "order")
	}
	order.Status = status

	s.logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"reference": order.Reference,
		"from":      previous,
		"to":        status,
		"actor":     actor,
	}).Info("Order status updated")

	if previous != status {
		publishEvent(ctx, s.publisher, s.logger, events.Event{
			Type:           events.OrderStatusChanged,
			EntityID:       order.ID,
			Reference:      order.Reference,
			Status:         string(status),
			PreviousStatus: string(previous),
			Actor:          actor,
		})
		s.notifier.Notify(order.Phone, orderStatusMessage(order))
	}
	return order, nil
}

func (s *orderService) CancelByReference(ctx context.Context, reference, phone string, now time.Time) (*CancellationResult, error) {
	order, err := s.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if err := checkOrderOpen(order); err != nil {
		return nil, err
	}
	if phone = strings.TrimSpace(phone); phone != "" && !phoneMatches(phone, order.Phone) {
		return nil, Forbidden("phone does not match")
	}

	settings, err := s.settings.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if err := EvaluateCancellation(order, settings, now); err != nil {
		return nil, err
	}

	ok, err := s.orderRepo.UpdateStatusIf(ctx, order.ID, order.Status, models.OrderCancelled)
	if err != nil {
		return nil, Internal("failed to cancel order", err)
	}
	if !ok {
		return nil, s.lostCancellation(ctx, order.ID)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"reference": order.Reference,
		"from":      order.Status,
	}).Info("Order cancelled by customer")

	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type:           events.OrderCancelled,
		EntityID:       order.ID,
		Reference:      order.Reference,
		Status:         string(models.OrderCancelled),
		PreviousStatus: string(order.Status),
		Actor:          "customer",
	})
	order.Status = models.OrderCancelled
	s.notifier.Notify(order.Phone, orderStatusMessage(order))
	s.notifier.NotifyStaff(staffOrderCancelledMessage(order))

	return cancellationResult(settings), nil
}

// lostCancellation explains a conditional update that matched no row: the
// order changed between the read and the write.
func (s *orderService) lostCancellation(ctx context.Context, id uint) error {
	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return lookupError(err, "order")
	}
	switch current.Status {
	case models.OrderCancelled:
		return Conflict("already cancelled")
	case models.OrderCompleted:
		return Conflict("already completed")
	default:
		return Conflict(fmt.Sprintf("order status changed to %s, try again", current.Status))
	}
}

func (s *orderService) Delete(ctx context.Context, id uint, actor string) error {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.orderRepo.Delete(ctx, id); err != nil {
		return lookupError(err, "order")
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":  id,
		"reference": order.Reference,
		"actor":     actor,
	}).Info("Order deleted")

	publishEvent(ctx, s.publisher, s.logger, events.Event{
		Type:      events.OrderDeleted,
		EntityID:  id,
		Reference: order.Reference,
		Actor:     actor,
	})
	return nil
}
