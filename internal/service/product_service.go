package service

import (
	"context"
	"fmt"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
)

type IProductService interface {
	// SaveProduct upserts the catalog entry. On creation the stock ledger is
	// seeded with Product.Stock; on re-save the ledger counter is moved by the
	// stock delta so outstanding cart reservations survive catalog edits.
	SaveProduct(ctx context.Context, product *model.Product) error
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
}

type ProductService struct {
	store db.IStore
	stock redis_repo.IStockLedger
}

func NewProductService(store db.IStore, stock redis_repo.IStockLedger) *ProductService {
	return &ProductService{store: store, stock: stock}
}

func (p *ProductService) SaveProduct(ctx context.Context, product *model.Product) error {
	existing, err := p.store.Products().GetProductByID(ctx, product.ProductID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}

	if err := p.store.Products().SaveProduct(ctx, product); err != nil {
		return fmt.Errorf("save product: %w", err)
	}

	if existing == nil {
		if err := p.stock.InitProductStock(ctx, product.ProductID, product.Stock); err != nil {
			return fmt.Errorf("init product stock: %w", err)
		}
		return nil
	}

	// A re-save must not reset the counter under outstanding reservations:
	// re-seed only a missing counter, then move it by the stock delta.
	if err := p.stock.EnsureProductStock(ctx, product.ProductID, existing.Stock); err != nil {
		return fmt.Errorf("ensure product stock: %w", err)
	}
	if delta := int(product.Stock) - int(existing.Stock); delta != 0 {
		if err := p.stock.AdjustStock(ctx, product.ProductID, delta); err != nil {
			return fmt.Errorf("adjust product stock: %w", err)
		}
	}
	return nil
}

func (p *ProductService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := p.store.Products().GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (p *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	return p.store.Products().GetAllProducts(ctx)
}

var _ IProductService = (*ProductService)(nil)
