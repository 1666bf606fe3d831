package redis_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type StockRepoError error

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound StockRepoError = errors.New("product not found")
	// ErrStockNotEnough 可售庫存不足
	ErrStockNotEnough StockRepoError = errors.New("product stock not enough")
)

// IStockLedger owns the available-to-promise counter per product. Reserve and
// Release are the only ways cart mutations touch stock; both are atomic on the
// Redis side, so a check-then-act race between two callers cannot oversell.
type IStockLedger interface {
	// InitProductStock seeds the counter, usually from Product.Stock. It
	// overwrites an existing counter, so it is for product creation only.
	InitProductStock(ctx context.Context, productID string, stock uint) error

	// EnsureProductStock seeds the counter only when it is absent, leaving a
	// live counter (and its outstanding reservations) untouched.
	EnsureProductStock(ctx context.Context, productID string, stock uint) error

	// AdjustStock moves the counter by delta, e.g. when the durable stock of
	// an existing product is changed.
	AdjustStock(ctx context.Context, productID string, delta int) error

	// GetAvailableStock 取得目前可售數量
	GetAvailableStock(ctx context.Context, productID string) (int, error)

	// Reserve holds quantity against the available count. On shortfall it
	// returns ErrStockNotEnough and leaves the counter untouched.
	Reserve(ctx context.Context, productID string, quantity int) error

	// Release returns a prior reservation to the available count.
	Release(ctx context.Context, productID string, quantity int) error

	// DropProductStock removes the counter entirely.
	DropProductStock(ctx context.Context, productID string) error
}

/*	redis 專注商品可售庫存
	結構:
	product:{id}:atp { stock: 100 }	*/

type StockRedisRepo struct {
	stockCache *redis.Client
}

func NewStockRepo(stockCache *redis.Client) *StockRedisRepo {
	return &StockRedisRepo{stockCache: stockCache}
}

func generateStockKey(productID string) string {
	return fmt.Sprintf("product:%s:atp", productID)
}

func (s *StockRedisRepo) InitProductStock(ctx context.Context, productID string, stock uint) error {
	redisKey := generateStockKey(productID)
	return s.stockCache.HSet(ctx, redisKey, "stock", stock).Err()
}

func (s *StockRedisRepo) EnsureProductStock(ctx context.Context, productID string, stock uint) error {
	redisKey := generateStockKey(productID)
	return s.stockCache.HSetNX(ctx, redisKey, "stock", stock).Err()
}

// AdjustStock 調整可售庫存（正負皆可）
func (s *StockRedisRepo) AdjustStock(ctx context.Context, productID string, delta int) error {
	redisKey := generateStockKey(productID)

	const adjustScript = `
	local key = KEYS[1]
	local delta = tonumber(ARGV[1])
	local field = ARGV[2]

	if redis.call('EXISTS', key) == 0 then
		return false
	end

	return redis.call('HINCRBY', key, field, delta)
	`

	err := s.stockCache.Eval(ctx, adjustScript, []string{redisKey}, delta, "stock").Err()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%w: product with id %s not found", ErrProductNotFound, productID)
	}
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	return nil
}

func (s *StockRedisRepo) GetAvailableStock(ctx context.Context, productID string) (int, error) {
	redisKey := generateStockKey(productID)
	stock, err := s.stockCache.HGet(ctx, redisKey, "stock").Int()
	if err == redis.Nil {
		return 0, fmt.Errorf("%w: product with id %s not found", ErrProductNotFound, productID)
	}
	if err != nil {
		return 0, err
	}
	return stock, nil
}

// Reserve 原子性扣減可售庫存
/*
	錯誤:
		- ErrProductNotFound: 商品不存在
		- ErrStockNotEnough: 可售庫存不足
		- err: 其他錯誤
*/
func (s *StockRedisRepo) Reserve(ctx context.Context, productID string, quantity int) error {
	redisKey := generateStockKey(productID)

	const reserveScript = `
	local key = KEYS[1]
	local quantity = tonumber(ARGV[1])
	local field = ARGV[2]

	if redis.call('EXISTS', key) == 0 then
		return -1
	end

	local current_stock = redis.call('HGET', key, field)
	if not current_stock then
		return -1
	end

	current_stock = tonumber(current_stock)

	if current_stock < quantity then
		return -2
	end

	return redis.call('HINCRBY', key, field, -quantity)
	`

	result, err := s.stockCache.Eval(ctx, reserveScript, []string{redisKey}, quantity, "stock").Result()
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	resultInt, ok := result.(int64)
	if !ok {
		return fmt.Errorf("unexpected result type: %T", result)
	}

	switch {
	case resultInt == -1:
		return fmt.Errorf("%w: product with id %s not found", ErrProductNotFound, productID)
	case resultInt == -2:
		return fmt.Errorf("%w: product with id %s stock not enough", ErrStockNotEnough, productID)
	default:
		return nil
	}
}

// Release 歸還預留數量
func (s *StockRedisRepo) Release(ctx context.Context, productID string, quantity int) error {
	redisKey := generateStockKey(productID)

	const releaseScript = `
	local key = KEYS[1]
	local quantity = tonumber(ARGV[1])
	local field = ARGV[2]

	if redis.call('EXISTS', key) == 0 then
		return -1
	end

	return redis.call('HINCRBY', key, field, quantity)
	`

	result, err := s.stockCache.Eval(ctx, releaseScript, []string{redisKey}, quantity, "stock").Result()
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}

	resultInt, ok := result.(int64)
	if !ok {
		return fmt.Errorf("unexpected result type: %T", result)
	}

	if resultInt == -1 {
		return fmt.Errorf("%w: product with id %s not found", ErrProductNotFound, productID)
	}
	return nil
}

func (s *StockRedisRepo) DropProductStock(ctx context.Context, productID string) error {
	redisKey := generateStockKey(productID)
	return s.stockCache.Del(ctx, redisKey).Err()
}

var _ IStockLedger = (*StockRedisRepo)(nil)
