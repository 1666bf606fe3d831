package appcontext

import (
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/RoyceAzure/lab/storefront/internal/auth"
	"github.com/RoyceAzure/lab/storefront/internal/config"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db"
	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/redis_repo"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/keylock"
	"github.com/RoyceAzure/lab/storefront/internal/service"
)

// ApplicationContext is the process-wide state, constructed once at startup
// and passed by handle. Nothing here is a package-level singleton; teardown is
// Close plus dropping the handle.
type ApplicationContext struct {
	Cf          *config.Config
	DbDao       *db.DbDao
	RedisClient *redis.Client
	StockLedger redis_repo.IStockLedger
	TokenStore  *auth.TokenStore
	Verifier    auth.ICredentialVerifier
	UserLock    *keylock.UserLock

	OrderProducer producer.IOrderEventProducer

	CartService    service.ICartService
	OrderService   service.IOrderService
	ProductService service.IProductService
	AuthService    service.IAuthService

	Logger zerolog.Logger
}

func NewApplicationContext(cf *config.Config, logger zerolog.Logger) (*ApplicationContext, error) {
	app := &ApplicationContext{
		Cf:     cf,
		Logger: logger,
	}
	if err := app.init(); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *ApplicationContext) init() error {
	conn, err := db.GetDbConn(app.Cf.DbName, app.Cf.DbHost, app.Cf.DbPort, app.Cf.DbUser, app.Cf.DbPas)
	if err != nil {
		return err
	}
	app.DbDao = db.NewDbDao(conn)
	if err := app.DbDao.InitMigrate(); err != nil {
		return err
	}

	app.RedisClient = redis.NewClient(&redis.Options{
		Addr:     app.Cf.RedisAddr,
		Password: app.Cf.RedisPassword,
		DB:       app.Cf.RedisDB,
	})
	app.StockLedger = redis_repo.NewStockRepo(app.RedisClient)

	app.TokenStore = auth.NewTokenStore()
	app.Verifier = auth.NewBcryptVerifier()
	app.UserLock = keylock.NewUserLock()

	if brokers := app.Cf.Brokers(); len(brokers) > 0 {
		app.OrderProducer = producer.NewOrderEventProducer(brokers, app.Cf.KafkaOrderTopic)
	}

	app.CartService = service.NewCartService(app.DbDao, app.StockLedger, app.UserLock, app.Logger)
	app.OrderService = service.NewOrderService(app.DbDao, app.CartService, app.UserLock, app.OrderProducer, app.Logger)
	app.ProductService = service.NewProductService(app.DbDao, app.StockLedger)
	app.AuthService = service.NewAuthService(app.DbDao, app.TokenStore, app.Verifier)

	return nil
}

func (app *ApplicationContext) Close() error {
	if app.OrderProducer != nil {
		if err := app.OrderProducer.Close(); err != nil {
			app.Logger.Error().Err(err).Msg("failed to close order producer")
		}
	}
	if app.RedisClient != nil {
		return app.RedisClient.Close()
	}
	return nil
}
