package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
)

var errInjected = errors.New("injected failure")

// fakeStore is an in-memory db.IStore. ExecTx snapshots state before the
// callback and restores it on error, mirroring the rollback semantics the
// gorm store provides.
type fakeStore struct {
	mu sync.Mutex

	users      map[uint]*model.User
	products   map[string]*model.Product
	cartItems  map[string]*model.CartItem
	cartOrder  []string
	orders     map[string]*model.Order
	nextUserID uint

	failUpsertItem   bool
	failCreateOrder  bool
	failDeleteByUser bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uint]*model.User),
		products:   make(map[string]*model.Product),
		cartItems:  make(map[string]*model.CartItem),
		orders:     make(map[string]*model.Order),
		nextUserID: 1,
	}
}

func cartKey(userID uint, productID string) string {
	return fmt.Sprintf("%d|%s", userID, productID)
}

func (f *fakeStore) Users() db.IUserRepository       { return (*fakeUserRepo)(f) }
func (f *fakeStore) Products() db.IProductRepository { return (*fakeProductRepo)(f) }
func (f *fakeStore) CartItems() db.ICartRepository   { return (*fakeCartRepo)(f) }
func (f *fakeStore) Orders() db.IOrderRepository     { return (*fakeOrderRepo)(f) }

func (f *fakeStore) ExecTx(ctx context.Context, fn func(db.IStore) error) error {
	f.mu.Lock()
	snapshot := f.snapshotLocked()
	f.mu.Unlock()

	if err := fn(f); err != nil {
		f.mu.Lock()
		f.restoreLocked(snapshot)
		f.mu.Unlock()
		return err
	}
	return nil
}

type storeSnapshot struct {
	products  map[string]*model.Product
	cartItems map[string]*model.CartItem
	cartOrder []string
	orders    map[string]*model.Order
}

func (f *fakeStore) snapshotLocked() storeSnapshot {
	s := storeSnapshot{
		products:  make(map[string]*model.Product, len(f.products)),
		cartItems: make(map[string]*model.CartItem, len(f.cartItems)),
		cartOrder: append([]string(nil), f.cartOrder...),
		orders:    make(map[string]*model.Order, len(f.orders)),
	}
	for k, v := range f.products {
		cp := *v
		s.products[k] = &cp
	}
	for k, v := range f.cartItems {
		cp := *v
		s.cartItems[k] = &cp
	}
	for k, v := range f.orders {
		cp := *v
		s.orders[k] = &cp
	}
	return s
}

func (f *fakeStore) restoreLocked(s storeSnapshot) {
	f.products = s.products
	f.cartItems = s.cartItems
	f.cartOrder = s.cartOrder
	f.orders = s.orders
}

type fakeUserRepo fakeStore

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserEmail == user.UserEmail {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	user.UserID = s.nextUserID
	s.nextUserID++
	cp := *user
	s.users[user.UserID] = &cp
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id uint) (*model.User, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.UserEmail == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *model.User) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.UserID] = &cp
	return nil
}

type fakeProductRepo fakeStore

func (f *fakeProductRepo) SaveProduct(ctx context.Context, product *model.Product) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *product
	s.products[product.ProductID] = &cp
	return nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]model.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, *p)
	}
	return products, nil
}

func (f *fakeProductRepo) DeductStock(ctx context.Context, productID string, quantity int) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return db.ErrProductNotFound
	}
	if int(p.Stock) < quantity {
		return db.ErrProductStockNotEnough
	}
	p.Stock -= uint(quantity)
	return nil
}

func (f *fakeProductRepo) AddStock(ctx context.Context, productID string, quantity int) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return db.ErrProductNotFound
	}
	p.Stock += uint(quantity)
	return nil
}

type fakeCartRepo fakeStore

func (f *fakeCartRepo) UpsertItem(ctx context.Context, item *model.CartItem) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failUpsertItem {
		return errInjected
	}
	key := cartKey(item.UserID, item.ProductID)
	if _, ok := s.cartItems[key]; !ok {
		s.cartOrder = append(s.cartOrder, key)
	}
	cp := *item
	s.cartItems[key] = &cp
	return nil
}

func (f *fakeCartRepo) GetItem(ctx context.Context, userID uint, productID string) (*model.CartItem, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.cartItems[cartKey(userID, productID)]
	if !ok {
		return nil, nil
	}
	cp := *item
	return &cp, nil
}

func (f *fakeCartRepo) GetItemsByUser(ctx context.Context, userID uint) ([]model.CartItem, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []model.CartItem
	for _, key := range s.cartOrder {
		item, ok := s.cartItems[key]
		if ok && item.UserID == userID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (f *fakeCartRepo) DeleteItem(ctx context.Context, userID uint, productID string) (bool, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	key := cartKey(userID, productID)
	if _, ok := s.cartItems[key]; !ok {
		return false, nil
	}
	delete(s.cartItems, key)
	return true, nil
}

func (f *fakeCartRepo) DeleteByUser(ctx context.Context, userID uint) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDeleteByUser {
		return errInjected
	}
	for key, item := range s.cartItems {
		if item.UserID == userID {
			delete(s.cartItems, key)
		}
	}
	return nil
}

type fakeOrderRepo fakeStore

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateOrder {
		return errInjected
	}
	cp := *order
	cp.OrderItems = append([]model.OrderItem(nil), order.OrderItems...)
	s.orders[order.OrderID] = &cp
	return nil
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, orderID string) (*model.Order, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.OrderItems = append([]model.OrderItem(nil), o.OrderItems...)
	return &cp, nil
}

func (f *fakeOrderRepo) GetOrdersByUserID(ctx context.Context, userID uint) ([]model.Order, error) {
	s := (*fakeStore)(f)
	s.mu.Lock()
	defer s.mu.Unlock()
	var orders []model.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			cp := *o
			cp.OrderItems = append([]model.OrderItem(nil), o.OrderItems...)
			orders = append(orders, cp)
		}
	}
	return orders, nil
}

var _ db.IStore = (*fakeStore)(nil)

// memStockLedger implements the ledger contract in memory with the same
// atomicity guarantees the Redis Lua scripts give.
type memStockLedger struct {
	mu  sync.Mutex
	atp map[string]int
}

func newMemStockLedger() *memStockLedger {
	return &memStockLedger{atp: make(map[string]int)}
}

func (m *memStockLedger) InitProductStock(ctx context.Context, productID string, stock uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.atp[productID] = int(stock)
	return nil
}

func (m *memStockLedger) EnsureProductStock(ctx context.Context, productID string, stock uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.atp[productID]; !ok {
		m.atp[productID] = int(stock)
	}
	return nil
}

func (m *memStockLedger) AdjustStock(ctx context.Context, productID string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stock, ok := m.atp[productID]
	if !ok {
		return fmt.Errorf("%w: product with id %s not found", redis_repo.ErrProductNotFound, productID)
	}
	m.atp[productID] = stock + delta
	return nil
}

func (m *memStockLedger) GetAvailableStock(ctx context.Context, productID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stock, ok := m.atp[productID]
	if !ok {
		return 0, redis_repo.ErrProductNotFound
	}
	return stock, nil
}

func (m *memStockLedger) Reserve(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stock, ok := m.atp[productID]
	if !ok {
		return fmt.Errorf("%w: product with id %s not found", redis_repo.ErrProductNotFound, productID)
	}
	if stock < quantity {
		return fmt.Errorf("%w: product with id %s stock not enough", redis_repo.ErrStockNotEnough, productID)
	}
	m.atp[productID] = stock - quantity
	return nil
}

func (m *memStockLedger) Release(ctx context.Context, productID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stock, ok := m.atp[productID]
	if !ok {
		return fmt.Errorf("%w: product with id %s not found", redis_repo.ErrProductNotFound, productID)
	}
	m.atp[productID] = stock + quantity
	return nil
}

func (m *memStockLedger) DropProductStock(ctx context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.atp, productID)
	return nil
}

var _ redis_repo.IStockLedger = (*memStockLedger)(nil)

// fakeOrderProducer records what would have gone to Kafka.
type fakeOrderProducer struct {
	mu     sync.Mutex
	orders []*model.Order
	fail   bool
}

func (p *fakeOrderProducer) ProduceOrderCreatedEvent(ctx context.Context, order *model.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errInjected
	}
	p.orders = append(p.orders, order)
	return nil
}

func (p *fakeOrderProducer) Close() error { return nil }
