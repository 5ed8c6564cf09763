package memstore

import (
	"context"

	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
)

func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (repository.Product, error) {
	return run(s, func(q *querier) (repository.Product, error) { return q.GetProduct(ctx, id) })
}

func (s *Store) ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]repository.Product, error) {
	return run(s, func(q *querier) ([]repository.Product, error) { return q.ListProducts(ctx, arg) })
}

func (s *Store) CountProducts(ctx context.Context, arg repository.ListProductsParams) (int64, error) {
	return run(s, func(q *querier) (int64, error) { return q.CountProducts(ctx, arg) })
}

func (s *Store) ListProductCategories(ctx context.Context, status string) ([]string, error) {
	return run(s, func(q *querier) ([]string, error) { return q.ListProductCategories(ctx, status) })
}

func (s *Store) ListLowStockProducts(ctx context.Context, threshold int32) ([]repository.Product, error) {
	return run(s, func(q *querier) ([]repository.Product, error) { return q.ListLowStockProducts(ctx, threshold) })
}

func (s *Store) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	return run(s, func(q *querier) (repository.Product, error) { return q.CreateProduct(ctx, arg) })
}

func (s *Store) UpdateProduct(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error) {
	return run(s, func(q *querier) (repository.Product, error) { return q.UpdateProduct(ctx, arg) })
}

func (s *Store) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	return run(s, func(q *querier) (int64, error) { return q.DeleteProduct(ctx, id) })
}

func (s *Store) DecrementStock(ctx context.Context, arg repository.StockChangeParams) (int64, error) {
	return run(s, func(q *querier) (int64, error) { return q.DecrementStock(ctx, arg) })
}

func (s *Store) IncrementStock(ctx context.Context, arg repository.StockChangeParams) (int64, error) {
	return run(s, func(q *querier) (int64, error) { return q.IncrementStock(ctx, arg) })
}

func (s *Store) GetCart(ctx context.Context, userID uuid.UUID) (repository.Cart, error) {
	return run(s, func(q *querier) (repository.Cart, error) { return q.GetCart(ctx, userID) })
}

func (s *Store) GetCartForUpdate(ctx context.Context, userID uuid.UUID) (repository.Cart, error) {
	return run(s, func(q *querier) (repository.Cart, error) { return q.GetCartForUpdate(ctx, userID) })
}

func (s *Store) UpsertCart(ctx context.Context, arg repository.UpsertCartParams) (repository.Cart, error) {
	return run(s, func(q *querier) (repository.Cart, error) { return q.UpsertCart(ctx, arg) })
}

func (s *Store) CreateOrder(ctx context.Context, arg repository.Order) (repository.Order, error) {
	return run(s, func(q *querier) (repository.Order, error) { return q.CreateOrder(ctx, arg) })
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (repository.Order, error) {
	return run(s, func(q *querier) (repository.Order, error) { return q.GetOrder(ctx, id) })
}

func (s *Store) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (repository.Order, error) {
	return run(s, func(q *querier) (repository.Order, error) { return q.GetOrderForUpdate(ctx, id) })
}

func (s *Store) UpdateOrderState(ctx context.Context, arg repository.UpdateOrderStateParams) (repository.Order, error) {
	return run(s, func(q *querier) (repository.Order, error) { return q.UpdateOrderState(ctx, arg) })
}

func (s *Store) ListOrders(ctx context.Context, arg repository.ListOrdersParams) ([]repository.Order, error) {
	return run(s, func(q *querier) ([]repository.Order, error) { return q.ListOrders(ctx, arg) })
}

func (s *Store) CountOrders(ctx context.Context, arg repository.ListOrdersParams) (int64, error) {
	return run(s, func(q *querier) (int64, error) { return q.CountOrders(ctx, arg) })
}

func (s *Store) GetOrderStats(ctx context.Context, arg repository.GetOrderStatsParams) (repository.OrderStatsRow, error) {
	return run(s, func(q *querier) (repository.OrderStatsRow, error) { return q.GetOrderStats(ctx, arg) })
}

func (s *Store) CountOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return run(s, func(q *querier) ([]repository.StatusCount, error) { return q.CountOrdersByStatus(ctx) })
}

func (s *Store) CountOrdersByPaymentStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return run(s, func(q *querier) ([]repository.StatusCount, error) { return q.CountOrdersByPaymentStatus(ctx) })
}

func (s *Store) NextOrderSequence(ctx context.Context, period string) (int64, error) {
	return run(s, func(q *querier) (int64, error) { return q.NextOrderSequence(ctx, period) })
}

func (s *Store) SalesByPeriod(ctx context.Context, arg repository.SalesByPeriodParams) ([]repository.SalesBucket, error) {
	return run(s, func(q *querier) ([]repository.SalesBucket, error) { return q.SalesByPeriod(ctx, arg) })
}

func (s *Store) TopSellingProducts(ctx context.Context, limit int32) ([]repository.TopProductRow, error) {
	return run(s, func(q *querier) ([]repository.TopProductRow, error) { return q.TopSellingProducts(ctx, limit) })
}

func (s *Store) GetCustomerStats(ctx context.Context) (repository.CustomerStatsRow, error) {
	return run(s, func(q *querier) (repository.CustomerStatsRow, error) { return q.GetCustomerStats(ctx) })
}

func (s *Store) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	return run(s, func(q *querier) (repository.User, error) { return q.CreateUser(ctx, arg) })
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	return run(s, func(q *querier) (repository.User, error) { return q.GetUserByEmail(ctx, email) })
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (repository.User, error) {
	return run(s, func(q *querier) (repository.User, error) { return q.GetUserByID(ctx, id) })
}

func (s *Store) ListUsers(ctx context.Context, arg repository.ListUsersParams) ([]repository.User, error) {
	return run(s, func(q *querier) ([]repository.User, error) { return q.ListUsers(ctx, arg) })
}

func (s *Store) CountUsers(ctx context.Context, arg repository.ListUsersParams) (int64, error) {
	return run(s, func(q *querier) (int64, error) { return q.CountUsers(ctx, arg) })
}

func (s *Store) UpdateUserRole(ctx context.Context, arg repository.UpdateUserRoleParams) (repository.User, error) {
	return run(s, func(q *querier) (repository.User, error) { return q.UpdateUserRole(ctx, arg) })
}

