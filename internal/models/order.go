package models

import (
	"time"
)

type Order struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	Reference    string       `json:"reference" gorm:"size:40;uniqueIndex;not null"`
	CustomerName string       `json:"customerName" gorm:"not null"`
	Phone        string       `json:"phone" gorm:"size:32;index;not null"`
	DeliveryType DeliveryType `json:"deliveryType" gorm:"size:16;not null"`
	Address      *string      `json:"address"`
	Notes        string       `json:"notes" gorm:"type:text"`
	Items        []OrderItem  `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalPrice   float64      `json:"totalPrice" gorm:"not null"`
	PaidOnline   bool         `json:"paidOnline"`
	Status       OrderStatus  `json:"status" gorm:"size:16;index;not null"`
	CreatedAt    time.Time    `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "DELIVERY"
	DeliveryTypePickup   DeliveryType = "PICKUP"
)

func (t DeliveryType) Valid() bool {
	return t == DeliveryTypeDelivery || t == DeliveryTypePickup
}

type OrderStatus string

const (
	OrderNew        OrderStatus = "NEW"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCancelled  OrderStatus = "CANCELLED"
)

// OrderStatuses lists every order state in lifecycle order.
var OrderStatuses = []OrderStatus{OrderNew, OrderInProgress, OrderCompleted, OrderCancelled}

func (s OrderStatus) Valid() bool {
	for _, status := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Terminal reports whether no customer-side transition may leave this state.
func (s OrderStatus) Terminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}
