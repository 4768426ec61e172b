package services

import (
	"fmt"
	"math"
	"strings"

	"restaurant_web/internal/models"
)

type OrderItemInput struct {
	MenuItemID uint    `json:"id"`
	Name       string  `json:"name" validate:"required,max=200"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

type CreateOrderRequest struct {
	Name         string              `json:"name" validate:"required,max=120"`
	Phone        string              `json:"phone" validate:"required,min=6,max=32"`
	DeliveryType models.DeliveryType `json:"deliveryType" validate:"required,oneof=DELIVERY PICKUP"`
	Address      *string             `json:"address"`
	Notes        string              `json:"notes" validate:"max=1000"`
	Items        []OrderItemInput    `json:"items" validate:"dive"`
	PaidOnline   bool                `json:"paidOnline"`
}

// OrderDraft is a validated order ready to be persisted.
type OrderDraft struct {
	CustomerName string
	Phone        string
	DeliveryType models.DeliveryType
	Address      *string
	Notes        string
	Items        []models.OrderItem
	TotalPrice   float64
	PaidOnline   bool
}

// ValidateOrder checks req and returns the normalised draft. It has no side
// effects. Pickup orders never carry an address; delivery addresses are trimmed.
func ValidateOrder(req CreateOrderRequest) (*OrderDraft, error) {
	fields := validateStruct(req)
	message := ""

	var address *string
	if req.DeliveryType == models.DeliveryTypeDelivery {
		trimmed := ""
		if req.Address != nil {
			trimmed = sanitizeText(*req.Address)
		}
		if trimmed == "" {
			fields = mergeFields(fields, map[string]string{"address": "is required for delivery orders"})
			message = "address required"
		}
		address = &trimmed
	}

	if len(req.Items) == 0 {
		fields = mergeFields(fields, map[string]string{"items": "at least one item is required"})
		if message == "" {
			message = "items required"
		}
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := 0.0
	for i, in := range req.Items {
		if in.Quantity < 1 {
			fields = mergeFields(fields, map[string]string{fmt.Sprintf("items[%d].quantity", i): "must be at least 1"})
		}
		if in.Price < 0 || math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
			fields = mergeFields(fields, map[string]string{fmt.Sprintf("items[%d].price", i): "must be a non-negative number"})
		}
		item := models.OrderItem{
			MenuItemID: in.MenuItemID,
			Name:       strings.TrimSpace(in.Name),
			Price:      in.Price,
			Quantity:   in.Quantity,
		}
		total += item.Subtotal()
		items = append(items, item)
	}

	if len(fields) > 0 {
		if message == "" {
			message = "invalid order"
		}
		return nil, NewValidationError(message, fields)
	}

	return &OrderDraft{
		CustomerName: sanitizeText(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		DeliveryType: req.DeliveryType,
		Address:      address,
		Notes:        sanitizeText(req.Notes),
		Items:        items,
		TotalPrice:   models.RoundMoney(total),
		PaidOnline:   req.PaidOnline,
	}, nil
}

// Order builds the NEW order persisted for this draft.
func (d *OrderDraft) Order(reference string) *models.Order {
	items := make([]models.OrderItem, len(d.Items))
	copy(items, d.Items)
	return &models.Order{
		Reference:    reference,
		CustomerName: d.CustomerName,
		Phone:        d.Phone,
		DeliveryType: d.DeliveryType,
		Address:      d.Address,
		Notes:        d.Notes,
		Items:        items,
		TotalPrice:   d.TotalPrice,
		PaidOnline:   d.PaidOnline,
		Status:       models.OrderNew,
	}
}
