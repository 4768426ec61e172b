package models

import (
	"math"
	"time"
)

// OrderItem is a line item. Name and price are snapshots taken when the order was placed.
type OrderItem struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	OrderID    uint      `json:"orderId" gorm:"index;not null"`
	MenuItemID uint      `json:"menuItemId" gorm:"index"`
	Name       string    `json:"name" gorm:"not null"`
	Price      float64   `json:"price" gorm:"not null"`
	Quantity   int       `json:"quantity" gorm:"not null"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (i OrderItem) Subtotal() float64 {
	return RoundMoney(i.Price * float64(i.Quantity))
}

// RoundMoney rounds to cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
