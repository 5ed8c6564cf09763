package routes

import (
	"github.com/dukerupert/vendora/internal/middleware"
	"github.com/dukerupert/vendora/internal/router"
)

// RegisterAdminRoutes registers all back-office API routes.
// All routes are protected by admin authentication middleware.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin)

	// Dashboard
	admin.Get("/api/admin/stats", deps.DashboardHandler.Stats)
	admin.Get("/api/admin/analytics", deps.DashboardHandler.Analytics)
	admin.Get("/api/admin/sales-report", deps.DashboardHandler.SalesReport)

	// Order management
	admin.Get("/api/admin/orders", deps.OrderHandler.List)
	admin.Patch("/api/admin/orders/{id}/status", deps.OrderHandler.UpdateStatus)
	admin.Patch("/api/admin/orders/{id}/payment", deps.OrderHandler.UpdatePayment)
	admin.Patch("/api/admin/orders/{id}/tracking", deps.OrderHandler.UpdateTracking)
	admin.Patch("/api/admin/orders/{id}/note", deps.OrderHandler.AddNote)

	// Product management
	admin.Get("/api/admin/products", deps.ProductHandler.List)
	admin.Post("/api/admin/products", deps.ProductHandler.Create)
	admin.Put("/api/admin/products/{id}", deps.ProductHandler.Update)
	admin.Delete("/api/admin/products/{id}", deps.ProductHandler.Delete)
	admin.Patch("/api/admin/products/{id}/stock", deps.ProductHandler.AdjustStock)

	// Accounts
	admin.Get("/api/admin/users", deps.UserHandler.List)
	admin.Patch("/api/admin/users/{id}/role", deps.UserHandler.UpdateRole)
}
