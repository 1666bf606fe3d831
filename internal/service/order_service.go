package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/keylock"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrUserNotFound  = errors.New("user not found")
	ErrOrderNotFound = errors.New("order is not exist")
)

type IOrderService interface {
	// CreateOrder converts the user's cart into a pending order. Persisting
	// the order, consuming stock and emptying the cart happen in one
	// transaction: on any failure the cart is untouched and no order exists.
	CreateOrder(ctx context.Context, userID uint) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error)
}

type OrderService struct {
	store       db.IStore
	cartService ICartService
	userLock    *keylock.UserLock
	producer    producer.IOrderEventProducer
	logger      zerolog.Logger
}

// NewOrderService takes the same UserLock as the cart service so a checkout
// and a cart mutation for one user cannot interleave.
func NewOrderService(store db.IStore, cartService ICartService, userLock *keylock.UserLock, orderProducer producer.IOrderEventProducer, logger zerolog.Logger) *OrderService {
	return &OrderService{
		store:       store,
		cartService: cartService,
		userLock:    userLock,
		producer:    orderProducer,
		logger:      logger,
	}
}

func (o *OrderService) CreateOrder(ctx context.Context, userID uint) (*model.Order, error) {
	o.userLock.Lock(userID)
	defer o.userLock.Unlock(userID)

	cart, err := o.cartService.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	user, err := o.store.Users().GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	order, err := o.buildOrder(ctx, userID, cart)
	if err != nil {
		return nil, err
	}

	err = o.store.ExecTx(ctx, func(tx db.IStore) error {
		if err := tx.Orders().CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		// The cart's ledger reservations become durable here.
		for _, item := range cart.Items {
			if err := tx.Products().DeductStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("deduct stock for product %s: %w", item.ProductID, err)
			}
		}
		// Repository-level clear: the reservations were just consumed, they
		// must not flow back through ClearCart's release path.
		if err := tx.CartItems().DeleteByUser(ctx, userID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, db.ErrProductStockNotEnough) {
			return nil, ErrInsufficientStock
		}
		if errors.Is(err, db.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	o.publishOrderCreated(ctx, order)
	return order, nil
}

// buildOrder snapshots the cart lines in insertion order. Unit price and line
// amount come from the cart line, not the live catalog.
func (o *OrderService) buildOrder(ctx context.Context, userID uint, cart *model.Cart) (*model.Order, error) {
	amount := decimal.NewFromInt(0)
	orderID := uuid.NewString()

	orderItems := make([]model.OrderItem, 0, len(cart.Items))
	for i, item := range cart.Items {
		product, err := o.store.Products().GetProductByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product info: %w", err)
		}
		productName := item.ProductID
		if product != nil {
			productName = product.Name
		}

		orderItems = append(orderItems, model.OrderItem{
			OrderID:     orderID,
			ProductID:   item.ProductID,
			LineNo:      uint(i + 1),
			ProductName: productName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
		amount = amount.Add(item.Amount)
	}

	return &model.Order{
		OrderID:    orderID,
		UserID:     userID,
		OrderItems: orderItems,
		Amount:     amount,
		OrderDate:  time.Now().UTC(),
		State:      model.OrderStatusPending,
	}, nil
}

// publishOrderCreated is best effort. The order is already durable; a broker
// failure is logged, never surfaced to the caller.
func (o *OrderService) publishOrderCreated(ctx context.Context, order *model.Order) {
	if o.producer == nil {
		return
	}
	if err := o.producer.ProduceOrderCreatedEvent(ctx, order); err != nil {
		o.logger.Error().Err(err).Str("order_id", order.OrderID).
			Msg("failed to publish order created event")
	}
}

func (o *OrderService) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := o.store.Orders().GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (o *OrderService) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	return o.store.Orders().GetOrdersByUserID(ctx, userID)
}

var _ IOrderService = (*OrderService)(nil)
