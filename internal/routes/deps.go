package routes

import (
	"context"
	"net/http"

	"github.com/dukerupert/vendora/internal/handler/admin"
	"github.com/dukerupert/vendora/internal/handler/storefront"
	"github.com/dukerupert/vendora/internal/router"
)

// SystemDeps contains dependencies for operational routes
type SystemDeps struct {
	// HealthCheck reports whether the store is reachable. Nil means always healthy.
	HealthCheck func(ctx context.Context) error

	// MetricsHandler serves the Prometheus registry. Nil disables /metrics.
	MetricsHandler http.Handler
}

// StorefrontDeps contains dependencies for customer-facing API routes
type StorefrontDeps struct {
	AuthHandler     *storefront.AuthHandler
	ProductHandler  *storefront.ProductHandler
	CartHandler     *storefront.CartHandler
	CheckoutHandler *storefront.CheckoutHandler
	OrderHandler    *storefront.OrderHandler

	// AuthRateLimit guards register and login. Nil disables it.
	AuthRateLimit router.Middleware
}

// AdminDeps contains dependencies for back-office API routes
type AdminDeps struct {
	OrderHandler     *admin.OrderHandler
	ProductHandler   *admin.ProductHandler
	DashboardHandler *admin.DashboardHandler
	UserHandler      *admin.UserHandler
}
