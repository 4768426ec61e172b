package repository

import (
	"context"

	"restaurant_web/internal/models"

	"gorm.io/gorm"
)

// ItemSales aggregates sold quantities per menu item over non-cancelled orders.
type ItemSales struct {
	MenuItemID uint    `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

type OrderItemRepository interface {
	GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error)
	TopItems(ctx context.Context, limit int) ([]ItemSales, error)
}

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	var orderItems []models.OrderItem
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&orderItems).Error
	if err != nil {
		return nil, err
	}
	return orderItems, nil
}

func (r *orderItemRepository) TopItems(ctx context.Context, limit int) ([]ItemSales, error) {
	if limit <= 0 {
		limit = 5
	}

	var sales []ItemSales
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.menu_item_id AS menu_item_id, order_items.name AS name, SUM(order_items.quantity) AS quantity, SUM(order_items.price * order_items.quantity) AS revenue").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderCancelled).
		Group("order_items.menu_item_id, order_items.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&sales).Error
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Revenue = models.RoundMoney(sales[i].Revenue)
	}
	return sales, nil
}
