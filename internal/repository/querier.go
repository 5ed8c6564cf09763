package repository

import (
	"context"

	"github.com/google/uuid"
)

// Querier is the storage contract shared by the PostgreSQL queries and the
// in-memory store.
type Querier interface {
	// Products
	GetProduct(ctx context.Context, id uuid.UUID) (Product, error)
	ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error)
	CountProducts(ctx context.Context, arg ListProductsParams) (int64, error)
	ListProductCategories(ctx context.Context, status string) ([]string, error)
	ListLowStockProducts(ctx context.Context, threshold int32) ([]Product, error)
	CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error)
	UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error)
	// DecrementStock subtracts quantity only if at least quantity units are
	// in stock. Zero rows affected means the product is missing or short.
	DecrementStock(ctx context.Context, arg StockChangeParams) (int64, error)
	IncrementStock(ctx context.Context, arg StockChangeParams) (int64, error)

	// Carts
	GetCart(ctx context.Context, userID uuid.UUID) (Cart, error)
	// GetCartForUpdate locks the cart row until the transaction ends.
	GetCartForUpdate(ctx context.Context, userID uuid.UUID) (Cart, error)
	UpsertCart(ctx context.Context, arg UpsertCartParams) (Cart, error)

	// Orders
	CreateOrder(ctx context.Context, arg Order) (Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error)
	UpdateOrderState(ctx context.Context, arg UpdateOrderStateParams) (Order, error)
	ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error)
	CountOrders(ctx context.Context, arg ListOrdersParams) (int64, error)
	GetOrderStats(ctx context.Context, arg GetOrderStatsParams) (OrderStatsRow, error)
	CountOrdersByStatus(ctx context.Context) ([]StatusCount, error)
	CountOrdersByPaymentStatus(ctx context.Context) ([]StatusCount, error)
	// NextOrderSequence atomically increments and returns the counter for period.
	NextOrderSequence(ctx context.Context, period string) (int64, error)

	// Analytics over paid orders
	SalesByPeriod(ctx context.Context, arg SalesByPeriodParams) ([]SalesBucket, error)
	TopSellingProducts(ctx context.Context, limit int32) ([]TopProductRow, error)
	GetCustomerStats(ctx context.Context) (CustomerStatsRow, error)

	// Users
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error)
	CountUsers(ctx context.Context, arg ListUsersParams) (int64, error)
	UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) (User, error)
}

var _ Querier = (*Queries)(nil)
