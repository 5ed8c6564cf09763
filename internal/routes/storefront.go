package routes

import (
	"github.com/dukerupert/vendora/internal/middleware"
	"github.com/dukerupert/vendora/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing API routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// Authentication
	var limited []router.Middleware
	if deps.AuthRateLimit != nil {
		limited = append(limited, deps.AuthRateLimit)
	}
	r.Post("/api/auth/register", deps.AuthHandler.Register, limited...)
	r.Post("/api/auth/login", deps.AuthHandler.Login, limited...)

	// Catalog
	r.Get("/api/products", deps.ProductHandler.List)
	r.Get("/api/products/categories/all", deps.ProductHandler.Categories)
	r.Get("/api/products/{id}", deps.ProductHandler.Show)

	// Everything below requires a signed-in user
	user := r.Group(middleware.RequireAuth)

	user.Post("/api/auth/logout", deps.AuthHandler.Logout)
	user.Get("/api/auth/me", deps.AuthHandler.Me)

	// Cart
	user.Get("/api/cart", deps.CartHandler.View)
	user.Post("/api/cart", deps.CartHandler.Add)
	user.Delete("/api/cart", deps.CartHandler.Clear)
	user.Post("/api/cart/coupon", deps.CartHandler.ApplyCoupon)
	user.Delete("/api/cart/coupon", deps.CartHandler.ClearCoupon)
	user.Patch("/api/cart/{productId}", deps.CartHandler.Update)
	user.Delete("/api/cart/{productId}", deps.CartHandler.Remove)

	// Checkout
	user.Get("/api/checkout/quote", deps.CheckoutHandler.Quote)
	user.Get("/api/checkout/payment-options", deps.CheckoutHandler.PaymentOptions)
	user.Post("/api/checkout", deps.CheckoutHandler.Submit)

	// Orders
	user.Get("/api/orders/mine", deps.OrderHandler.Mine)
	user.Get("/api/orders/{id}", deps.OrderHandler.Show)
	user.Patch("/api/orders/{id}/cancel", deps.OrderHandler.Cancel)
}
