package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

type ICartRepository interface {
	// UpsertItem writes the line keyed by (user_id, product_id).
	UpsertItem(ctx context.Context, item *model.CartItem) error
	// GetItem returns (nil, nil) when the line does not exist.
	GetItem(ctx context.Context, userID uint, productID string) (*model.CartItem, error)
	// GetItemsByUser returns the user's lines in insertion order.
	GetItemsByUser(ctx context.Context, userID uint) ([]model.CartItem, error)
	// DeleteItem reports whether a line was actually deleted.
	DeleteItem(ctx context.Context, userID uint, productID string) (bool, error)
	DeleteByUser(ctx context.Context, userID uint) error
}

type CartRepo struct {
	db *gorm.DB
}

func NewCartRepo(conn *gorm.DB) *CartRepo {
	return &CartRepo{db: conn}
}

func (s *CartRepo) UpsertItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "amount", "updated_at"}),
	}).Create(item).Error
}

func (s *CartRepo) GetItem(ctx context.Context, userID uint, productID string) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartRepo) GetItemsByUser(ctx context.Context, userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, product_id").
		Find(&items).Error
	return items, err
}

func (s *CartRepo) DeleteItem(ctx context.Context, userID uint, productID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (s *CartRepo) DeleteByUser(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartItem{}).Error
}

var _ ICartRepository = (*CartRepo)(nil)
