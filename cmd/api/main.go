package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autopartes/internal/auth"
	"autopartes/internal/cart"
	"autopartes/internal/catalog"
	"autopartes/internal/config"
	"autopartes/internal/database"
	"autopartes/internal/handler"
	"autopartes/internal/middleware"
	"autopartes/internal/payment"
	"autopartes/internal/repository"
	"autopartes/internal/router"
	"autopartes/internal/service"
	"autopartes/internal/session"
	"autopartes/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting autopartes API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	sessions, err := newSessionStore(ctx, cfg.Session, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}
	defer sessions.Close()

	gateway, err := payment.New(cfg.Payment, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize payment gateway: %w", err)
	}

	// Object storage for product images and catalogue feeds, S3 with local fallback
	store := storage.New(ctx, cfg.Storage, logger)

	// Initialize repositories
	tx := repository.NewTransactor(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	solicitudRepo := repository.NewSolicitudRepository(pool, logger)
	transactionRepo := repository.NewTransactionRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	wholesaleCartRepo := repository.NewWholesaleCartRepository(pool, logger)
	wholesaleOrderRepo := repository.NewWholesaleOrderRepository(pool, logger)

	wholesale := cart.NewWholesale(wholesaleCartRepo, wholesaleOrderRepo, gateway, cfg.Payment.WholesaleReturnURL, logger)
	unsubscribe := wholesale.Subscribe(func(u cart.Update) {
		logger.Debug().
			Str("uid", u.UserID).
			Int("item_count", len(u.Items)).
			Float64("total", u.Totals.Total).
			Msg("wholesale cart updated")
	})
	defer unsubscribe()

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize services
	solicitudService := service.NewSolicitudService(tx, solicitudRepo, userRepo, logger)
	authService := service.NewAuthService(userRepo, solicitudService, sessions, tokens, cfg.Auth, logger)
	productService := service.NewProductService(productRepo, store, catalog.NewImporter(store, productRepo, logger), logger)
	cartService := service.NewCartService(productRepo, sessions, wholesale, logger)
	paymentService := service.NewPaymentService(gateway, transactionRepo, orderRepo, wholesaleOrderRepo, cfg.Payment.ReturnURL, logger)

	authMiddleware := middleware.NewAuth(sessions, tokens, userRepo, solicitudService, cfg.Session, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authService, authMiddleware, logger),
		Cart:      handler.NewCartHandler(cartService, authMiddleware, logger),
		Product:   handler.NewProductHandler(productService, cfg.Storage.MaxUploadMB, logger),
		Solicitud: handler.NewSolicitudHandler(solicitudService, logger),
		Payment:   handler.NewPaymentHandler(paymentService, logger),
	}

	// Initialize router
	mux := router.New(handlers, authMiddleware, cfg.CORS, cfg.Storage.LocalDir, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("payment_mode", cfg.Payment.Mode).
			Str("session_backend", cfg.Session.Backend).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newSessionStore returns the Redis store when configured, otherwise the
// in-process store.
func newSessionStore(ctx context.Context, cfg config.SessionConfig, logger zerolog.Logger) (session.Store, error) {
	if cfg.Backend != "redis" {
		logger.Info().Msg("using in-memory session store")
		return session.NewMemoryStore(cfg.TTL), nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	return session.NewRedisStore(ctx, rdb, cfg.TTL, logger)
}
