package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
)

// IStore aggregates the per-entity repositories. ExecTx hands the callback a
// store bound to one transaction, so a sequence of repository calls commits or
// rolls back as a unit.
type IStore interface {
	Users() IUserRepository
	Products() IProductRepository
	CartItems() ICartRepository
	Orders() IOrderRepository
	ExecTx(ctx context.Context, fn func(IStore) error) error
}

type DbDao struct {
	db *gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{db: conn}
}

func (d *DbDao) Users() IUserRepository {
	return NewUserRepo(d.db)
}

func (d *DbDao) Products() IProductRepository {
	return NewProductRepo(d.db)
}

func (d *DbDao) CartItems() ICartRepository {
	return NewCartRepo(d.db)
}

func (d *DbDao) Orders() IOrderRepository {
	return NewOrderRepo(d.db)
}

// ExecTx rolls back on error or panic, commits otherwise. Nested calls reuse
// the surrounding transaction (gorm savepoints).
func (d *DbDao) ExecTx(ctx context.Context, fn func(IStore) error) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewDbDao(tx))
	})
}

// InitMigrate creates or updates the schema. Idempotent.
func (d *DbDao) InitMigrate() error {
	return d.db.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	)
}

var _ IStore = (*DbDao)(nil)
