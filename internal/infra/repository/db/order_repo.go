package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type IOrderRepository interface {
	CreateOrder(ctx context.Context, order *model.Order) error
	// GetOrderByID returns (nil, nil) when the order does not exist.
	GetOrderByID(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
}

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(conn *gorm.DB) *OrderRepo {
	return &OrderRepo{db: conn}
}

// CreateOrder - 創建訂單，OrderItems 一併寫入
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Create(order).Error
}

func (s *OrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("line_no")
		}).
		First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("OrderItems", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("line_no")
		}).
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error
	return orders, err
}

var _ IOrderRepository = (*OrderRepo)(nil)
