package admin

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockOrderService implements domain.OrderService for testing. Unset funcs
// fail the call with an internal error.
type mockOrderService struct {
	listOrdersFunc          func(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error)
	updateStatusFunc        func(ctx context.Context, orderID uuid.UUID, status domain.FulfillmentStatus, note string) (*domain.Order, error)
	updatePaymentStatusFunc func(ctx context.Context, orderID uuid.UUID, update domain.PaymentUpdate) (*domain.Order, error)
	updateTrackingFunc      func(ctx context.Context, orderID uuid.UUID, update domain.TrackingUpdate) (*domain.Order, error)
	addNoteFunc             func(ctx context.Context, orderID uuid.UUID, note string) (*domain.Order, error)
	statsFunc               func(ctx context.Context) (*domain.OrderStats, error)
	analyticsFunc           func(ctx context.Context, period domain.AnalyticsPeriod) (*domain.Analytics, error)
	salesReportFunc         func(ctx context.Context, params domain.SalesReportParams) (*domain.SalesReport, error)
}

var errNotConfigured = domain.Internal(nil, "test", "not configured")

func (m *mockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID, requester *domain.User) (*domain.Order, error) {
	return nil, errNotConfigured
}

func (m *mockOrderService) ListUserOrders(ctx context.Context, userID uuid.UUID, status domain.FulfillmentStatus, page, limit int) (*domain.OrderPage, error) {
	return nil, errNotConfigured
}

func (m *mockOrderService) ListOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	if m.listOrdersFunc != nil {
		return m.listOrdersFunc(ctx, filter)
	}
	return nil, errNotConfigured
}

func (m *mockOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.FulfillmentStatus, note string) (*domain.Order, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, orderID, status, note)
	}
	return nil, errNotConfigured
}

func (m *mockOrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, update domain.PaymentUpdate) (*domain.Order, error) {
	if m.updatePaymentStatusFunc != nil {
		return m.updatePaymentStatusFunc(ctx, orderID, update)
	}
	return nil, errNotConfigured
}

func (m *mockOrderService) UpdateTracking(ctx context.Context, orderID uuid.UUID, update domain.TrackingUpdate) (*domain.Order, error) {
	if m.updateTrackingFunc != nil {
		return m.updateTrackingFunc(ctx, orderID, update)
	}
	return nil, errNotConfigured
}

func (m *mockOrderService) AddNote(ctx context.Context, orderID uuid.UUID, note string) (*domain.Order, error) {
	if m.addNoteFunc != nil {
		return m.addNoteFunc(ctx, orderID, note)
	}
	return nil, errNotConfigured
}

func (m *mockOrderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	return nil, errNotConfigured
}

func (m *mockOrderService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx)
	}
	return nil, errNotConfigured
}

func (m *mockOrderService) Analytics(ctx context.Context, period domain.AnalyticsPeriod) (*domain.Analytics, error) {
	if m.analyticsFunc != nil {
		return m.analyticsFunc(ctx, period)
	}
	return nil, errNotConfigured
}

func (m *mockOrderService) SalesReport(ctx context.Context, params domain.SalesReportParams) (*domain.SalesReport, error) {
	if m.salesReportFunc != nil {
		return m.salesReportFunc(ctx, params)
	}
	return nil, errNotConfigured
}

func newRequest(method, target, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	ctx := context.WithValue(req.Context(), middleware.LoggerContextKey, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx = domain.NewContextWithUser(ctx, &domain.User{ID: uuid.New(), Email: "admin@example.com", Role: domain.RoleAdmin})
	return req.WithContext(ctx)
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) (string, map[string]string) {
	t.Helper()
	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Error.Code, body.Error.Fields
}

func TestOrderHandler_ListParsesFilter(t *testing.T) {
	var got domain.OrderFilter
	h := NewOrderHandler(&mockOrderService{
		listOrdersFunc: func(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
			got = filter
			return &domain.OrderPage{Orders: []domain.Order{}, Page: 2, Limit: 5}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet,
		"/api/admin/orders?status=shipped&paymentStatus=paid&from=2026-10-01&to=2026-10-15&minAmount=50&maxAmount=100.50&search=%20SC-2026%20&page=2&limit=5", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StatusShipped, got.Status)
	assert.Equal(t, domain.PaymentPaid, got.PaymentStatus)
	assert.Equal(t, "SC-2026", got.Search)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.Limit)
	require.NotNil(t, got.From)
	require.NotNil(t, got.To)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *got.From)
	assert.Equal(t, time.Date(2026, 10, 15, 23, 59, 59, 999999999, time.UTC), *got.To)
	require.NotNil(t, got.MinAmount)
	assert.True(t, got.MinAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, got.MaxAmount.Equal(decimal.RequireFromString("100.50")))
}

func TestOrderHandler_ListRejectsBadFilter(t *testing.T) {
	h := NewOrderHandler(&mockOrderService{})

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/api/admin/orders?from=yesterday&minAmount=lots", ""))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	_, fields := errorCode(t, rec)
	assert.Contains(t, fields, "from")
	assert.Contains(t, fields, "minAmount")
}

func TestOrderHandler_Mutations(t *testing.T) {
	orderID := uuid.New()
	eta := time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC)

	svc := &mockOrderService{
		updateStatusFunc: func(ctx context.Context, id uuid.UUID, status domain.FulfillmentStatus, note string) (*domain.Order, error) {
			if !status.Valid() {
				return nil, domain.WithOp(domain.ErrInvalidOrderStatus, "order.update_status")
			}
			return &domain.Order{ID: id, Status: status}, nil
		},
		updatePaymentStatusFunc: func(ctx context.Context, id uuid.UUID, update domain.PaymentUpdate) (*domain.Order, error) {
			assert.Equal(t, "txn-1", update.TransactionID)
			return &domain.Order{ID: id, PaymentStatus: update.Status}, nil
		},
		updateTrackingFunc: func(ctx context.Context, id uuid.UUID, update domain.TrackingUpdate) (*domain.Order, error) {
			require.NotNil(t, update.EstimatedDelivery)
			assert.True(t, update.EstimatedDelivery.Equal(eta))
			return &domain.Order{ID: id, Status: domain.StatusShipped}, nil
		},
		addNoteFunc: func(ctx context.Context, id uuid.UUID, note string) (*domain.Order, error) {
			return &domain.Order{ID: id, Notes: []domain.OrderNote{{Text: note}}}, nil
		},
	}
	h := NewOrderHandler(svc)

	tests := []struct {
		name       string
		handle     http.HandlerFunc
		body       string
		wantStatus int
	}{
		{name: "status", handle: h.UpdateStatus, body: `{"status":"confirmed","note":"called customer"}`, wantStatus: http.StatusOK},
		{name: "unknown status", handle: h.UpdateStatus, body: `{"status":"lost"}`, wantStatus: http.StatusBadRequest},
		{name: "status required", handle: h.UpdateStatus, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "payment", handle: h.UpdatePayment, body: `{"paymentStatus":"paid","transactionId":"txn-1"}`, wantStatus: http.StatusOK},
		{name: "tracking", handle: h.UpdateTracking, body: `{"carrier":"Courier Guy","trackingNumber":"CG123","estimatedDelivery":"2026-10-20T00:00:00Z"}`, wantStatus: http.StatusOK},
		{name: "tracking needs carrier", handle: h.UpdateTracking, body: `{"trackingNumber":"CG123"}`, wantStatus: http.StatusBadRequest},
		{name: "note", handle: h.AddNote, body: `{"note":"gift wrap"}`, wantStatus: http.StatusOK},
		{name: "empty note", handle: h.AddNote, body: `{"note":""}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(http.MethodPatch, "/api/admin/orders/"+orderID.String(), tt.body)
			req.SetPathValue("id", orderID.String())
			rec := httptest.NewRecorder()
			tt.handle(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestDashboardHandler_Stats(t *testing.T) {
	h := NewDashboardHandler(&mockOrderService{
		statsFunc: func(ctx context.Context) (*domain.OrderStats, error) {
			return &domain.OrderStats{TotalOrders: 3, PaidRevenue: decimal.RequireFromString("130.00")}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Stats(rec, newRequest(http.MethodGet, "/api/admin/stats", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, float64(3), body["totalOrders"])
	assert.Equal(t, "130", body["paidRevenue"])
}

func TestDashboardHandler_Analytics(t *testing.T) {
	var got domain.AnalyticsPeriod
	h := NewDashboardHandler(&mockOrderService{
		analyticsFunc: func(ctx context.Context, period domain.AnalyticsPeriod) (*domain.Analytics, error) {
			got = period
			if period != "" && !period.Valid() {
				return nil, domain.WithOp(domain.ErrInvalidPeriod, "order.analytics")
			}
			return &domain.Analytics{Period: domain.PeriodYearly, TotalOrders: 4, TotalRevenue: decimal.NewFromInt(200)}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Analytics(rec, newRequest(http.MethodGet, "/api/admin/analytics?period=yearly", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.PeriodYearly, got)

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, float64(4), body["totalOrders"])
	assert.Equal(t, "200", body["totalRevenue"])

	rec = httptest.NewRecorder()
	h.Analytics(rec, newRequest(http.MethodGet, "/api/admin/analytics?period=daily", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboardHandler_SalesReport(t *testing.T) {
	var got domain.SalesReportParams
	h := NewDashboardHandler(&mockOrderService{
		salesReportFunc: func(ctx context.Context, params domain.SalesReportParams) (*domain.SalesReport, error) {
			got = params
			return &domain.SalesReport{GroupBy: params.GroupBy, Rows: []domain.SalesPoint{}}, nil
		},
	})

	t.Run("parses range", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SalesReport(rec, newRequest(http.MethodGet, "/api/admin/sales-report?from=2026-09-01&to=2026-09-30&groupBy=week", ""))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, domain.IntervalWeek, got.GroupBy)
		require.NotNil(t, got.From)
		require.NotNil(t, got.To)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), *got.From)
		assert.Equal(t, time.Date(2026, 9, 30, 23, 59, 59, 999999999, time.UTC), *got.To)
	})

	t.Run("open range", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SalesReport(rec, newRequest(http.MethodGet, "/api/admin/sales-report", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, got.From)
		assert.Nil(t, got.To)
		assert.Empty(t, got.GroupBy)
	})

	t.Run("bad dates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.SalesReport(rec, newRequest(http.MethodGet, "/api/admin/sales-report?from=last-week&to=2026-13-01", ""))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		code, fields := errorCode(t, rec)
		assert.Equal(t, domain.EINVALID, code)
		assert.Contains(t, fields, "from")
		assert.Contains(t, fields, "to")
	})
}
