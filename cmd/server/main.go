package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/vendora/internal"
	"github.com/dukerupert/vendora/internal/address"
	"github.com/dukerupert/vendora/internal/auth"
	"github.com/dukerupert/vendora/internal/bootstrap"
	"github.com/dukerupert/vendora/internal/cookie"
	"github.com/dukerupert/vendora/internal/coupon"
	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/handler/admin"
	"github.com/dukerupert/vendora/internal/handler/storefront"
	"github.com/dukerupert/vendora/internal/middleware"
	"github.com/dukerupert/vendora/internal/postgres"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/repository/memstore"
	"github.com/dukerupert/vendora/internal/router"
	"github.com/dukerupert/vendora/internal/routes"
	"github.com/dukerupert/vendora/internal/service"
	"github.com/dukerupert/vendora/internal/shipping"
	"github.com/dukerupert/vendora/internal/tax"
	"github.com/dukerupert/vendora/internal/telemetry"
	"github.com/dukerupert/vendora/internal/worker"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "vendora"

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return err
	}
	defer flushSentry()

	// ==========================================================================
	// Storage
	// ==========================================================================

	store, healthCheck, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := bootstrap.EnsureAdmin(ctx, store, &bootstrap.AdminConfig{
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
		Name:     cfg.Admin.Name,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// ==========================================================================
	// Metrics
	// ==========================================================================

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics(namespace, registry)
	businessMetrics := telemetry.NewBusinessMetrics(namespace, registry)

	// ==========================================================================
	// Order events
	// ==========================================================================

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATSUrl != "" {
		logger.Info("Connecting to NATS...", "url", cfg.NATSUrl)
		bus, err := events.ConnectNATS(cfg.NATSUrl, logger)
		if err != nil {
			return err
		}
		defer bus.Close()
		publisher = bus

		w := worker.NewWorker(bus, store, businessMetrics, worker.Config{
			LowStockThreshold: cfg.Store.LowStockThreshold,
		}, logger)
		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("worker stopped", "error", err)
			}
		}()
	} else {
		logger.Info("NATS_URL not set, order events are not published")
	}

	// ==========================================================================
	// Services
	// ==========================================================================

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}
	taxCalculator, err := tax.NewCalculator(cfg.Store.TaxRate)
	if err != nil {
		return fmt.Errorf("failed to initialize tax calculator: %w", err)
	}
	shippingProvider := shipping.NewStandardProvider(cfg.Store.FlatShippingFee, cfg.Store.FreeShippingThreshold)
	coupons := coupon.NewDefaultEvaluator()

	userService := postgres.NewUserService(store, tokens, businessMetrics)
	productService := postgres.NewProductService(store)
	cartService := service.NewCartService(store, coupons, businessMetrics)
	checkoutService := service.NewCheckoutService(
		store,
		coupons,
		shippingProvider,
		taxCalculator,
		address.NewBasicValidator(),
		publisher,
		businessMetrics,
		logger,
		service.CheckoutConfig{OrderNumberPrefix: cfg.Store.OrderNumberPrefix},
	)
	orderService := service.NewOrderService(store, publisher, businessMetrics, logger, service.OrderConfig{
		CancellationWindow: cfg.Store.CancellationWindow,
	})

	// ==========================================================================
	// Middleware and routes
	// ==========================================================================

	securityConfig := middleware.DefaultSecurityHeadersConfig()
	if cfg.Env == "dev" {
		securityConfig.HSTSMaxAge = 0 // Disable HSTS in development
	}

	defaultRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer defaultRateLimiter.Stop()
	authRateLimiter := middleware.NewRateLimiter(middleware.StrictRateLimiterConfig())
	defer authRateLimiter.Stop()

	r := router.New(
		telemetry.SentryMiddleware(),
		router.Recovery(logger),
		middleware.RequestID,
		middleware.SecurityHeaders(securityConfig),
		router.CORS(router.CORSConfig{
			AllowedOrigins:   cfg.HTTP.AllowedOrigins,
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.MaxBodySize(middleware.DefaultMaxBodySize),
		defaultRateLimiter.Middleware,
		middleware.WithUser(userService),
		middleware.WithRequestLogger(logger),
		httpMetrics.Middleware,
	)

	routes.RegisterSystemRoutes(r, routes.SystemDeps{
		HealthCheck:    healthCheck,
		MetricsHandler: httpMetrics.Handler(),
	})
	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		AuthHandler:     storefront.NewAuthHandler(userService, cookie.NewConfig(cfg.HTTP.CookieDomain, cfg.HTTP.CookieSecure)),
		ProductHandler:  storefront.NewProductHandler(productService),
		CartHandler:     storefront.NewCartHandler(cartService),
		CheckoutHandler: storefront.NewCheckoutHandler(checkoutService, cfg.Store.Currency),
		OrderHandler:    storefront.NewOrderHandler(orderService),
		AuthRateLimit:   authRateLimiter.Middleware,
	})
	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		OrderHandler:     admin.NewOrderHandler(orderService),
		ProductHandler:   admin.NewProductHandler(productService),
		DashboardHandler: admin.NewDashboardHandler(orderService),
		UserHandler:      admin.NewUserHandler(userService),
	})
	logger.Debug("routes registered", "count", len(r.Routes()), "routes", r.Routes())

	// ==========================================================================
	// Serve
	// ==========================================================================

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// openStore connects the configured persistence backend. For postgres it
// runs pending migrations first.
func openStore(ctx context.Context, cfg *internal.Config, logger *slog.Logger) (repository.Store, func(context.Context) error, func(), error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memstore.New(), nil, func() {}, nil
	}

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, nil, nil, fmt.Errorf("database ping failed: %w", err)
	}
	logger.Info("Database connection established")

	if err := internal.RunMigrations(ctx, sqlDB, logger); err != nil {
		return nil, nil, nil, fmt.Errorf("migration failed: %w", err)
	}

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	return repository.NewStore(pool), pool.Ping, pool.Close, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
