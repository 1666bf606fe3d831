package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/RoyceAzure/lab/storefront/internal/api"
	"github.com/RoyceAzure/lab/storefront/internal/api/handler"
	"github.com/RoyceAzure/lab/storefront/internal/api/router"
	"github.com/RoyceAzure/lab/storefront/internal/appcontext"
	"github.com/RoyceAzure/lab/storefront/internal/config"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("module", "storefront").Logger()

	cf, err := config.Load(".env")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	applyLogLevel(logger, cf.LogLevel)

	// hot-reload the log level on config file changes
	config.Watch(".env", func(next *config.Config) {
		applyLogLevel(logger, next.LogLevel)
	})

	app, err := appcontext.NewApplicationContext(cf, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init application context")
	}
	defer app.Close()

	server := api.NewServer(
		handler.NewAuthHandler(app.AuthService),
		handler.NewCartHandler(app.CartService),
		handler.NewOrderHandler(app.OrderService),
		handler.NewProductHandler(app.ProductService),
	)

	httpServer := &http.Server{
		Addr:    ":" + cf.ServerPort,
		Handler: router.SetupRouter(server, app.TokenStore, app.DbDao.Users(), logger),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("port", cf.ServerPort).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server stopped unexpectedly")
	}
	logger.Info().Msg("server stopped")
}

func applyLogLevel(logger zerolog.Logger, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		logger.Warn().Str("level", level).Msg("invalid log level, keeping current")
		return
	}
	zerolog.SetGlobalLevel(lvl)
	logger.Info().Str("level", lvl.String()).Msg("log level set")
}
