package storefront

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/middleware"
	"github.com/google/uuid"
)

// mockCartService implements domain.CartService for testing
type mockCartService struct {
	getCartFunc         func(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error)
	addItemFunc         func(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant domain.Variant) (*domain.CartSummary, error)
	setItemQuantityFunc func(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant domain.Variant) (*domain.CartSummary, error)
	removeItemFunc      func(ctx context.Context, userID, productID uuid.UUID, variant domain.Variant) (*domain.CartSummary, error)
	applyCouponFunc     func(ctx context.Context, userID uuid.UUID, code string) (*domain.CartSummary, error)
	clearCouponFunc     func(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error)
	clearCartFunc       func(ctx context.Context, userID uuid.UUID) error
}

func (m *mockCartService) GetCart(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	if m.getCartFunc != nil {
		return m.getCartFunc(ctx, userID)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant domain.Variant) (*domain.CartSummary, error) {
	if m.addItemFunc != nil {
		return m.addItemFunc(ctx, userID, productID, quantity, variant)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int32, variant domain.Variant) (*domain.CartSummary, error) {
	if m.setItemQuantityFunc != nil {
		return m.setItemQuantityFunc(ctx, userID, productID, quantity, variant)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID, variant domain.Variant) (*domain.CartSummary, error) {
	if m.removeItemFunc != nil {
		return m.removeItemFunc(ctx, userID, productID, variant)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) ApplyCoupon(ctx context.Context, userID uuid.UUID, code string) (*domain.CartSummary, error) {
	if m.applyCouponFunc != nil {
		return m.applyCouponFunc(ctx, userID, code)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) ClearCoupon(ctx context.Context, userID uuid.UUID) (*domain.CartSummary, error) {
	if m.clearCouponFunc != nil {
		return m.clearCouponFunc(ctx, userID)
	}
	return &domain.CartSummary{}, nil
}

func (m *mockCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if m.clearCartFunc != nil {
		return m.clearCartFunc(ctx, userID)
	}
	return nil
}

// mockCheckoutService implements domain.CheckoutService for testing
type mockCheckoutService struct {
	checkoutFunc func(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error)
	quoteFunc    func(ctx context.Context, userID uuid.UUID) (*domain.CheckoutQuote, error)
}

func (m *mockCheckoutService) Checkout(ctx context.Context, params domain.CheckoutParams) (*domain.Order, error) {
	if m.checkoutFunc != nil {
		return m.checkoutFunc(ctx, params)
	}
	return &domain.Order{}, nil
}

func (m *mockCheckoutService) Quote(ctx context.Context, userID uuid.UUID) (*domain.CheckoutQuote, error) {
	if m.quoteFunc != nil {
		return m.quoteFunc(ctx, userID)
	}
	return &domain.CheckoutQuote{}, nil
}

func (m *mockCheckoutService) PaymentOptions() []domain.PaymentOption {
	return domain.PaymentOptions
}

// mockUserService implements domain.UserService for testing
type mockUserService struct {
	registerFunc func(ctx context.Context, params domain.RegisterParams) (*domain.Session, error)
	loginFunc    func(ctx context.Context, email, password string) (*domain.Session, error)
	getFunc      func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
}

func (m *mockUserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.Session, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, params)
	}
	return nil, domain.Internal(nil, "test", "not configured")
}

func (m *mockUserService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *mockUserService) Get(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	return nil, domain.ErrInvalidToken
}

func (m *mockUserService) List(ctx context.Context, filter domain.UserFilter) (*domain.UserPage, error) {
	return nil, domain.Internal(nil, "test", "not configured")
}

func (m *mockUserService) SetRole(ctx context.Context, id uuid.UUID, role domain.Role, actor *domain.User) (*domain.Account, error) {
	return nil, domain.Internal(nil, "test", "not configured")
}

// mockProductService implements domain.ProductService for testing
type mockProductService struct {
	listFunc       func(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error)
	categoriesFunc func(ctx context.Context) ([]string, error)
}

func (m *mockProductService) List(ctx context.Context, filter domain.ProductFilter) (*domain.ProductPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return &domain.ProductPage{Products: []domain.Product{}}, nil
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return nil, domain.ErrProductNotFound
}

func (m *mockProductService) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	return nil, domain.Internal(nil, "test", "not configured")
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, input domain.ProductInput) (*domain.Product, error) {
	return nil, domain.Internal(nil, "test", "not configured")
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return domain.Internal(nil, "test", "not configured")
}

func (m *mockProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int32) (*domain.Product, error) {
	return nil, domain.Internal(nil, "test", "not configured")
}

func (m *mockProductService) LowStock(ctx context.Context) ([]domain.Product, error) {
	return nil, nil
}

func (m *mockProductService) Categories(ctx context.Context) ([]string, error) {
	if m.categoriesFunc != nil {
		return m.categoriesFunc(ctx)
	}
	return []string{}, nil
}

// newRequest builds a request with a quiet request logger and, when user is
// non-nil, an authenticated context.
func newRequest(method, target, body string, user *domain.User) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)

	ctx := context.WithValue(req.Context(), middleware.LoggerContextKey, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if user != nil {
		ctx = domain.NewContextWithUser(ctx, user)
	}
	return req.WithContext(ctx)
}

func customer() *domain.User {
	return &domain.User{ID: uuid.New(), Email: "thandi@example.com", Role: domain.RoleCustomer}
}
