package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/keylock"
)

var _ producer.IOrderEventProducer = (*fakeOrderProducer)(nil)

type OrderServiceTestSuite struct {
	suite.Suite
	store        *fakeStore
	stock        *memStockLedger
	producer     *fakeOrderProducer
	cartService  *CartService
	orderService *OrderService
	userID       uint
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.store = newFakeStore()
	suite.stock = newMemStockLedger()
	suite.producer = &fakeOrderProducer{}
	userLock := keylock.NewUserLock()
	suite.cartService = NewCartService(suite.store, suite.stock, userLock, zerolog.Nop())
	suite.orderService = NewOrderService(suite.store, suite.cartService, userLock, suite.producer, zerolog.Nop())

	user := &model.User{UserName: "alice", UserEmail: "alice@example.com"}
	require.NoError(suite.T(), suite.store.Users().CreateUser(context.Background(), user))
	suite.userID = user.UserID
}

func (suite *OrderServiceTestSuite) seedProduct(productID, name, price string, stock uint) {
	ctx := context.Background()
	p := &model.Product{
		ProductID: productID,
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
	}
	require.NoError(suite.T(), suite.store.Products().SaveProduct(ctx, p))
	require.NoError(suite.T(), suite.stock.InitProductStock(ctx, productID, stock))
}

// two lines totalling 50: the order snapshots them, the cart empties, the
// durable stock drops and an event goes out.
func (suite *OrderServiceTestSuite) TestCreateOrder() {
	ctx := context.Background()
	suite.seedProduct("p1", "widget", "10.00", 10)
	suite.seedProduct("p2", "gadget", "15.00", 10)

	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p1", 2))
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p2", 2))

	order, err := suite.orderService.CreateOrder(ctx, suite.userID)
	require.NoError(suite.T(), err)

	assert.NotEmpty(suite.T(), order.OrderID)
	assert.Equal(suite.T(), suite.userID, order.UserID)
	assert.Equal(suite.T(), model.OrderStatusPending, order.State)
	assert.True(suite.T(), order.Amount.Equal(decimal.RequireFromString("50.00")))

	require.Len(suite.T(), order.OrderItems, 2)
	assert.Equal(suite.T(), "p1", order.OrderItems[0].ProductID)
	assert.Equal(suite.T(), uint(1), order.OrderItems[0].LineNo)
	assert.Equal(suite.T(), "widget", order.OrderItems[0].ProductName)
	assert.Equal(suite.T(), "p2", order.OrderItems[1].ProductID)
	assert.Equal(suite.T(), uint(2), order.OrderItems[1].LineNo)

	cart, err := suite.cartService.GetCart(ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), cart.Items)

	// durable stock consumed the reservations
	for _, productID := range []string{"p1", "p2"} {
		product, err := suite.store.Products().GetProductByID(ctx, productID)
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), uint(8), product.Stock)
	}

	saved, err := suite.orderService.GetOrder(ctx, order.OrderID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), saved.Amount.Equal(order.Amount))

	require.Len(suite.T(), suite.producer.orders, 1)
	assert.Equal(suite.T(), order.OrderID, suite.producer.orders[0].OrderID)
}

func (suite *OrderServiceTestSuite) TestCreateOrderEmptyCart() {
	order, err := suite.orderService.CreateOrder(context.Background(), suite.userID)
	assert.ErrorIs(suite.T(), err, ErrEmptyCart)
	assert.Nil(suite.T(), order)
	assert.Empty(suite.T(), suite.store.orders)
}

func (suite *OrderServiceTestSuite) TestCreateOrderUnknownUser() {
	ctx := context.Background()
	suite.seedProduct("p1", "widget", "10.00", 10)
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, 42, "p1", 1))

	order, err := suite.orderService.CreateOrder(ctx, 42)
	assert.ErrorIs(suite.T(), err, ErrUserNotFound)
	assert.Nil(suite.T(), order)

	// cart untouched
	cart, err := suite.cartService.GetCart(ctx, 42)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), cart.Items, 1)
}

// persistence failure rolls everything back: cart intact, no order, no event
func (suite *OrderServiceTestSuite) TestCreateOrderPersistenceFailure() {
	ctx := context.Background()
	suite.seedProduct("p1", "widget", "10.00", 10)
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p1", 3))

	suite.store.failCreateOrder = true

	order, err := suite.orderService.CreateOrder(ctx, suite.userID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), order)

	cart, err := suite.cartService.GetCart(ctx, suite.userID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), cart.Items, 1)
	assert.Equal(suite.T(), 3, cart.Items[0].Quantity)

	product, err := suite.store.Products().GetProductByID(ctx, "p1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), uint(10), product.Stock)

	assert.Empty(suite.T(), suite.store.orders)
	assert.Empty(suite.T(), suite.producer.orders)
}

func (suite *OrderServiceTestSuite) TestCreateOrderClearFailureRollsBack() {
	ctx := context.Background()
	suite.seedProduct("p1", "widget", "10.00", 10)
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p1", 3))

	suite.store.failDeleteByUser = true

	order, err := suite.orderService.CreateOrder(ctx, suite.userID)
	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), order)

	// order write happened inside the tx, so the rollback removed it
	assert.Empty(suite.T(), suite.store.orders)

	cart, err := suite.cartService.GetCart(ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), cart.Items, 1)

	product, err := suite.store.Products().GetProductByID(ctx, "p1")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), uint(10), product.Stock)
}

func (suite *OrderServiceTestSuite) TestCreateOrderStockDriftRollsBack() {
	ctx := context.Background()
	suite.seedProduct("p1", "widget", "10.00", 10)
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p1", 3))

	// durable stock drifted below the reserved amount
	product, err := suite.store.Products().GetProductByID(ctx, "p1")
	require.NoError(suite.T(), err)
	product.Stock = 1
	require.NoError(suite.T(), suite.store.Products().SaveProduct(ctx, product))

	order, err := suite.orderService.CreateOrder(ctx, suite.userID)
	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
	assert.Nil(suite.T(), order)
	assert.Empty(suite.T(), suite.store.orders)

	cart, err := suite.cartService.GetCart(ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), cart.Items, 1)
}

// a later catalog price change must not leak into the snapshot
func (suite *OrderServiceTestSuite) TestOrderAmountFrozenAtCartPrices() {
	ctx := context.Background()
	suite.seedProduct("p1", "widget", "10.00", 10)
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p1", 2))

	product, err := suite.store.Products().GetProductByID(ctx, "p1")
	require.NoError(suite.T(), err)
	product.Price = decimal.RequireFromString("99.00")
	require.NoError(suite.T(), suite.store.Products().SaveProduct(ctx, product))

	order, err := suite.orderService.CreateOrder(ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), order.Amount.Equal(decimal.RequireFromString("20.00")))
	assert.True(suite.T(), order.OrderItems[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
}

func (suite *OrderServiceTestSuite) TestProducerFailureDoesNotFailCheckout() {
	ctx := context.Background()
	suite.seedProduct("p1", "widget", "10.00", 10)
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p1", 1))

	suite.producer.fail = true

	order, err := suite.orderService.CreateOrder(ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), order)
	assert.Len(suite.T(), suite.store.orders, 1)
}

func (suite *OrderServiceTestSuite) TestGetOrder() {
	ctx := context.Background()
	_, err := suite.orderService.GetOrder(ctx, "missing")
	assert.ErrorIs(suite.T(), err, ErrOrderNotFound)

	suite.seedProduct("p1", "widget", "10.00", 10)
	require.NoError(suite.T(), suite.cartService.AddItem(ctx, suite.userID, "p1", 1))
	created, err := suite.orderService.CreateOrder(ctx, suite.userID)
	require.NoError(suite.T(), err)

	orders, err := suite.orderService.GetOrdersByUserID(ctx, suite.userID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), orders, 1)
	assert.Equal(suite.T(), created.OrderID, orders[0].OrderID)
}
