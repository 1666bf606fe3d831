package db

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductStockNotEnough 商品庫存不足
	ErrProductStockNotEnough = errors.New("product stock not enough")
)

type IProductRepository interface {
	// SaveProduct is an upsert keyed by product_id.
	SaveProduct(ctx context.Context, product *model.Product) error
	// GetProductByID returns (nil, nil) when the product does not exist.
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetAllProducts(ctx context.Context) ([]model.Product, error)
	// DeductStock decrements stock only when the remainder stays non-negative.
	DeductStock(ctx context.Context, productID string, quantity int) error
	AddStock(ctx context.Context, productID string, quantity int) error
}

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(conn *gorm.DB) *ProductRepo {
	return &ProductRepo{db: conn}
}

func (s *ProductRepo) SaveProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "stock", "category", "description", "updated_at"}),
	}).Create(product).Error
}

func (s *ProductRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *ProductRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("product_id").Find(&products).Error
	return products, err
}

// DeductStock guards the decrement in SQL so concurrent checkouts cannot drive
// stock negative.
func (s *ProductRepo) DeductStock(ctx context.Context, productID string, quantity int) error {
	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		product, err := s.GetProductByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		return ErrProductStockNotEnough
	}
	return nil
}

func (s *ProductRepo) AddStock(ctx context.Context, productID string, quantity int) error {
	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("product_id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

var _ IProductRepository = (*ProductRepo)(nil)
