package memstore

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// querier applies statements to a state without locking. The owning Store
// holds the lock for its lifetime.
type querier struct {
	st  *state
	now func() time.Time
}

var _ repository.Querier = (*querier)(nil)

// --- products ---

func (q *querier) GetProduct(ctx context.Context, id uuid.UUID) (repository.Product, error) {
	p, ok := q.st.products[id]
	if !ok {
		return repository.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func matchProduct(p repository.Product, arg repository.ListProductsParams) bool {
	if arg.Category != "" && p.Category != arg.Category {
		return false
	}
	if arg.Status != "" && p.Status != arg.Status {
		return false
	}
	if arg.Search != "" && !containsFold(p.Name, arg.Search) && !containsFold(p.Description, arg.Search) {
		return false
	}
	if arg.MinPrice.Valid && p.Price.LessThan(arg.MinPrice.Decimal) {
		return false
	}
	if arg.MaxPrice.Valid && p.Price.GreaterThan(arg.MaxPrice.Decimal) {
		return false
	}
	return true
}

// compareProducts orders a and b on the sort key alone, ascending.
func compareProducts(a, b repository.Product, sortBy string) int {
	switch sortBy {
	case repository.ProductSortPrice:
		return a.Price.Cmp(b.Price)
	case repository.ProductSortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (q *querier) filterProducts(arg repository.ListProductsParams) []repository.Product {
	var out []repository.Product
	for _, p := range q.st.products {
		if matchProduct(p, arg) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		c := compareProducts(out[i], out[j], arg.SortBy)
		if !arg.SortAsc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

func (q *querier) ListProductCategories(ctx context.Context, status string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range q.st.products {
		if p.Category == "" || seen[p.Category] || (status != "" && p.Status != status) {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (q *querier) ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]repository.Product, error) {
	return page(q.filterProducts(arg), arg.Limit, arg.Offset), nil
}

func (q *querier) CountProducts(ctx context.Context, arg repository.ListProductsParams) (int64, error) {
	return int64(len(q.filterProducts(arg))), nil
}

func (q *querier) ListLowStockProducts(ctx context.Context, threshold int32) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range q.st.products {
		if p.TrackStock && p.Stock < threshold {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (q *querier) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (repository.Product, error) {
	if _, exists := q.st.products[arg.ID]; exists {
		return repository.Product{}, repository.ErrUniqueViolation
	}
	now := q.now()
	p := repository.Product{
		ID:          arg.ID,
		Name:        arg.Name,
		Description: arg.Description,
		Category:    arg.Category,
		Price:       arg.Price,
		Stock:       arg.Stock,
		TrackStock:  arg.TrackStock,
		Status:      arg.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	q.st.products[p.ID] = p
	return p, nil
}

func (q *querier) UpdateProduct(ctx context.Context, arg repository.UpdateProductParams) (repository.Product, error) {
	p, ok := q.st.products[arg.ID]
	if !ok {
		return repository.Product{}, repository.ErrNotFound
	}
	p.Name = arg.Name
	p.Description = arg.Description
	p.Category = arg.Category
	p.Price = arg.Price
	p.Stock = arg.Stock
	p.TrackStock = arg.TrackStock
	p.Status = arg.Status
	p.UpdatedAt = q.now()
	q.st.products[p.ID] = p
	return p, nil
}

func (q *querier) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	if _, ok := q.st.products[id]; !ok {
		return 0, nil
	}
	delete(q.st.products, id)
	return 1, nil
}

func (q *querier) DecrementStock(ctx context.Context, arg repository.StockChangeParams) (int64, error) {
	p, ok := q.st.products[arg.ID]
	if !ok || p.Stock < arg.Quantity {
		return 0, nil
	}
	p.Stock -= arg.Quantity
	p.UpdatedAt = q.now()
	q.st.products[p.ID] = p
	return 1, nil
}

func (q *querier) IncrementStock(ctx context.Context, arg repository.StockChangeParams) (int64, error) {
	p, ok := q.st.products[arg.ID]
	if !ok {
		return 0, nil
	}
	p.Stock += arg.Quantity
	p.UpdatedAt = q.now()
	q.st.products[p.ID] = p
	return 1, nil
}

// --- carts ---

func (q *querier) GetCart(ctx context.Context, userID uuid.UUID) (repository.Cart, error) {
	c, ok := q.st.carts[userID]
	if !ok {
		return repository.Cart{}, repository.ErrNotFound
	}
	return c, nil
}

func (q *querier) GetCartForUpdate(ctx context.Context, userID uuid.UUID) (repository.Cart, error) {
	return q.GetCart(ctx, userID)
}

func (q *querier) UpsertCart(ctx context.Context, arg repository.UpsertCartParams) (repository.Cart, error) {
	now := q.now()
	c, ok := q.st.carts[arg.UserID]
	if !ok {
		c = repository.Cart{UserID: arg.UserID, CreatedAt: now}
	}
	c.Items = append([]byte(nil), arg.Items...)
	c.CouponCode = arg.CouponCode
	c.UpdatedAt = now
	q.st.carts[arg.UserID] = c
	return c, nil
}

// --- orders ---

func (q *querier) CreateOrder(ctx context.Context, arg repository.Order) (repository.Order, error) {
	if _, exists := q.st.orders[arg.ID]; exists {
		return repository.Order{}, repository.ErrUniqueViolation
	}
	for _, o := range q.st.orders {
		if o.OrderNumber == arg.OrderNumber {
			return repository.Order{}, repository.ErrUniqueViolation
		}
	}
	o := arg
	if o.CreatedAt.IsZero() {
		o.CreatedAt = q.now()
	}
	o.UpdatedAt = o.CreatedAt
	q.st.orders[o.ID] = o
	return o, nil
}

func (q *querier) GetOrder(ctx context.Context, id uuid.UUID) (repository.Order, error) {
	o, ok := q.st.orders[id]
	if !ok {
		return repository.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (q *querier) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (repository.Order, error) {
	return q.GetOrder(ctx, id)
}

func (q *querier) UpdateOrderState(ctx context.Context, arg repository.UpdateOrderStateParams) (repository.Order, error) {
	o, ok := q.st.orders[arg.ID]
	if !ok {
		return repository.Order{}, repository.ErrNotFound
	}
	o.Status = arg.Status
	o.PaymentStatus = arg.PaymentStatus
	o.TransactionID = arg.TransactionID
	o.Carrier = arg.Carrier
	o.TrackingNumber = arg.TrackingNumber
	o.EstimatedDelivery = arg.EstimatedDelivery
	o.Notes = append([]byte(nil), arg.Notes...)
	o.PaidAt = arg.PaidAt
	o.ShippedAt = arg.ShippedAt
	o.DeliveredAt = arg.DeliveredAt
	o.CancelledAt = arg.CancelledAt
	o.UpdatedAt = q.now()
	q.st.orders[o.ID] = o
	return o, nil
}

func matchOrder(o repository.Order, arg repository.ListOrdersParams) bool {
	if arg.UserID.Valid && o.UserID != uuid.UUID(arg.UserID.Bytes) {
		return false
	}
	if arg.Status.Valid && o.Status != arg.Status.String {
		return false
	}
	if arg.PaymentStatus.Valid && o.PaymentStatus != arg.PaymentStatus.String {
		return false
	}
	if arg.CreatedFrom.Valid && o.CreatedAt.Before(arg.CreatedFrom.Time) {
		return false
	}
	if arg.CreatedTo.Valid && o.CreatedAt.After(arg.CreatedTo.Time) {
		return false
	}
	if arg.MinTotal.Valid && o.TotalAmount.LessThan(arg.MinTotal.Decimal) {
		return false
	}
	if arg.MaxTotal.Valid && o.TotalAmount.GreaterThan(arg.MaxTotal.Decimal) {
		return false
	}
	if arg.Search.Valid {
		term := arg.Search.String
		if !containsFold(o.OrderNumber, term) && !containsFold(o.CustomerName, term) && !containsFold(o.CustomerEmail, term) {
			return false
		}
	}
	return true
}

func (q *querier) filterOrders(arg repository.ListOrdersParams) []repository.Order {
	var out []repository.Order
	for _, o := range q.st.orders {
		if matchOrder(o, arg) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (q *querier) ListOrders(ctx context.Context, arg repository.ListOrdersParams) ([]repository.Order, error) {
	return page(q.filterOrders(arg), arg.Limit, arg.Offset), nil
}

func (q *querier) CountOrders(ctx context.Context, arg repository.ListOrdersParams) (int64, error) {
	return int64(len(q.filterOrders(arg))), nil
}

func (q *querier) GetOrderStats(ctx context.Context, arg repository.GetOrderStatsParams) (repository.OrderStatsRow, error) {
	row := repository.OrderStatsRow{
		PaidRevenue:  decimal.Zero,
		TodayRevenue: decimal.Zero,
		MonthRevenue: decimal.Zero,
	}
	for _, o := range q.st.orders {
		row.TotalOrders++
		if o.PaymentStatus != "paid" {
			continue
		}
		row.PaidOrders++
		row.PaidRevenue = row.PaidRevenue.Add(o.TotalAmount)
		if !o.CreatedAt.Before(arg.TodayStart) {
			row.TodayRevenue = row.TodayRevenue.Add(o.TotalAmount)
		}
		if !o.CreatedAt.Before(arg.MonthStart) {
			row.MonthRevenue = row.MonthRevenue.Add(o.TotalAmount)
		}
	}
	return row, nil
}

func (q *querier) CountOrdersByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return q.countBy(func(o repository.Order) string { return o.Status }), nil
}

func (q *querier) CountOrdersByPaymentStatus(ctx context.Context) ([]repository.StatusCount, error) {
	return q.countBy(func(o repository.Order) string { return o.PaymentStatus }), nil
}

func (q *querier) countBy(key func(repository.Order) string) []repository.StatusCount {
	counts := map[string]int64{}
	for _, o := range q.st.orders {
		counts[key(o)]++
	}
	out := make([]repository.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, repository.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

func (q *querier) NextOrderSequence(ctx context.Context, period string) (int64, error) {
	q.st.sequences[period]++
	return q.st.sequences[period], nil
}

// --- users ---

func (q *querier) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	email := strings.ToLower(arg.Email)
	for _, u := range q.st.users {
		if u.Email == email || u.ID == arg.ID {
			return repository.User{}, repository.ErrUniqueViolation
		}
	}
	now := q.now()
	u := repository.User{
		ID:           arg.ID,
		Name:         arg.Name,
		Email:        email,
		PasswordHash: arg.PasswordHash,
		Role:         arg.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	q.st.users[u.ID] = u
	return u, nil
}

func (q *querier) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	email = strings.ToLower(email)
	for _, u := range q.st.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrNotFound
}

func (q *querier) GetUserByID(ctx context.Context, id uuid.UUID) (repository.User, error) {
	u, ok := q.st.users[id]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (q *querier) ListUsers(ctx context.Context, arg repository.ListUsersParams) ([]repository.User, error) {
	return page(q.filterUsers(arg), arg.Limit, arg.Offset), nil
}

func (q *querier) CountUsers(ctx context.Context, arg repository.ListUsersParams) (int64, error) {
	return int64(len(q.filterUsers(arg))), nil
}

func (q *querier) filterUsers(arg repository.ListUsersParams) []repository.User {
	var out []repository.User
	for _, u := range q.st.users {
		if arg.Role != "" && u.Role != arg.Role {
			continue
		}
		if arg.Search != "" && !containsFold(u.Name, arg.Search) && !containsFold(u.Email, arg.Search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return bytes.Compare(out[i].ID[:], out[j].ID[:]) < 0
	})
	return out
}

func (q *querier) UpdateUserRole(ctx context.Context, arg repository.UpdateUserRoleParams) (repository.User, error) {
	u, ok := q.st.users[arg.ID]
	if !ok {
		return repository.User{}, repository.ErrNotFound
	}
	u.Role = arg.Role
	u.UpdatedAt = q.now()
	q.st.users[u.ID] = u
	return u, nil
}

// --- helpers ---

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func page[T any](items []T, limit, offset int32) []T {
	if offset >= int32(len(items)) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < int32(len(items)) {
		items = items[:limit]
	}
	return items
}
