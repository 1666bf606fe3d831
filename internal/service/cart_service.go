package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/keylock"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be positive")
	ErrProductNotFound   = errors.New("product not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type ICartService interface {
	// AddItem sums the quantity onto an existing line or creates a new one.
	// The whole line is re-priced at the current catalog price.
	AddItem(ctx context.Context, userID uint, productID string, quantity int) error
	// UpdateItem replaces the line's quantity. A non-positive quantity is
	// rejected, not treated as removal.
	UpdateItem(ctx context.Context, userID uint, productID string, newQuantity int) error
	// RemoveItem deletes the line and returns its reservation. An absent line
	// is reported as ErrCartItemNotFound so callers can map 404 vs 204.
	RemoveItem(ctx context.Context, userID uint, productID string) error
	GetCart(ctx context.Context, userID uint) (*model.Cart, error)
	ClearCart(ctx context.Context, userID uint) error
}

// CartService owns cart line mutation. Every mutation holds the user's lock,
// so quantity and amount always move together, and every quantity change goes
// through the stock ledger first.
type CartService struct {
	store    db.IStore
	stock    redis_repo.IStockLedger
	userLock *keylock.UserLock
	logger   zerolog.Logger
}

func NewCartService(store db.IStore, stock redis_repo.IStockLedger, userLock *keylock.UserLock, logger zerolog.Logger) *CartService {
	return &CartService{
		store:    store,
		stock:    stock,
		userLock: userLock,
		logger:   logger,
	}
}

func (s *CartService) AddItem(ctx context.Context, userID uint, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	s.userLock.Lock(userID)
	defer s.userLock.Unlock(userID)

	product, err := s.store.Products().GetProductByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := s.reserve(ctx, productID, quantity); err != nil {
		return err
	}

	existing, err := s.store.CartItems().GetItem(ctx, userID, productID)
	if err != nil {
		s.rollbackReservation(ctx, productID, quantity)
		return fmt.Errorf("get cart item: %w", err)
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  newQuantity,
		UnitPrice: product.Price,
		Amount:    product.Price.Mul(decimal.NewFromInt(int64(newQuantity))),
	}
	if err := s.store.CartItems().UpsertItem(ctx, item); err != nil {
		s.rollbackReservation(ctx, productID, quantity)
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (s *CartService) UpdateItem(ctx context.Context, userID uint, productID string, newQuantity int) error {
	if newQuantity <= 0 {
		return ErrInvalidQuantity
	}

	s.userLock.Lock(userID)
	defer s.userLock.Unlock(userID)

	product, err := s.store.Products().GetProductByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	existing, err := s.store.CartItems().GetItem(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("get cart item: %w", err)
	}
	if existing == nil {
		return ErrCartItemNotFound
	}

	delta := newQuantity - existing.Quantity
	switch {
	case delta > 0:
		if err := s.reserve(ctx, productID, delta); err != nil {
			return err
		}
	case delta < 0:
		if err := s.stock.Release(ctx, productID, -delta); err != nil {
			return fmt.Errorf("release stock: %w", err)
		}
	}

	item := &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  newQuantity,
		UnitPrice: product.Price,
		Amount:    product.Price.Mul(decimal.NewFromInt(int64(newQuantity))),
	}
	if err := s.store.CartItems().UpsertItem(ctx, item); err != nil {
		// put the ledger back the way it was
		switch {
		case delta > 0:
			s.rollbackReservation(ctx, productID, delta)
		case delta < 0:
			if rerr := s.stock.Reserve(ctx, productID, -delta); rerr != nil {
				s.logger.Error().Err(rerr).Str("product_id", productID).
					Msg("failed to re-reserve stock after update rollback")
			}
		}
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID uint, productID string) error {
	s.userLock.Lock(userID)
	defer s.userLock.Unlock(userID)

	existing, err := s.store.CartItems().GetItem(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("get cart item: %w", err)
	}
	if existing == nil {
		return ErrCartItemNotFound
	}

	found, err := s.store.CartItems().DeleteItem(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if !found {
		return ErrCartItemNotFound
	}

	if err := s.stock.Release(ctx, productID, existing.Quantity); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).
			Msg("failed to release stock for removed cart item")
	}
	return nil
}

// GetCart never fails on an unknown user, it just returns an empty cart.
func (s *CartService) GetCart(ctx context.Context, userID uint) (*model.Cart, error) {
	items, err := s.store.CartItems().GetItemsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}

	amount := decimal.NewFromInt(0)
	for _, item := range items {
		amount = amount.Add(item.Amount)
	}
	return &model.Cart{
		UserID: userID,
		Items:  items,
		Amount: amount,
	}, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID uint) error {
	s.userLock.Lock(userID)
	defer s.userLock.Unlock(userID)

	items, err := s.store.CartItems().GetItemsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get cart items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	if err := s.store.CartItems().DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	for _, item := range items {
		if err := s.stock.Release(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error().Err(err).Str("product_id", item.ProductID).
				Msg("failed to release stock while clearing cart")
		}
	}
	return nil
}

// reserve maps ledger errors onto the service taxonomy.
func (s *CartService) reserve(ctx context.Context, productID string, quantity int) error {
	err := s.stock.Reserve(ctx, productID, quantity)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis_repo.ErrStockNotEnough):
		return ErrInsufficientStock
	case errors.Is(err, redis_repo.ErrProductNotFound):
		return ErrProductNotFound
	default:
		return fmt.Errorf("reserve stock: %w", err)
	}
}

func (s *CartService) rollbackReservation(ctx context.Context, productID string, quantity int) {
	if err := s.stock.Release(ctx, productID, quantity); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID).
			Msg("failed to roll back stock reservation")
	}
}

var _ ICartService = (*CartService)(nil)
