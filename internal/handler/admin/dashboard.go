package admin

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/handler"
)

// DashboardHandler serves the admin overview
type DashboardHandler struct {
	orderService domain.OrderService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(orderService domain.OrderService) *DashboardHandler {
	return &DashboardHandler{
		orderService: orderService,
	}
}

// Stats handles GET /api/admin/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.orderService.Stats(r.Context())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, stats)
}

// Analytics handles GET /api/admin/analytics
//
// Query parameters: period (weekly, monthly, yearly; default monthly).
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	result, err := h.orderService.Analytics(r.Context(), domain.AnalyticsPeriod(r.URL.Query().Get("period")))
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, result)
}

// SalesReport handles GET /api/admin/sales-report
//
// Query parameters: from, to (YYYY-MM-DD, inclusive), groupBy (day, week,
// month; default day).
func (h *DashboardHandler) SalesReport(w http.ResponseWriter, r *http.Request) {
	const op = "order.sales_report"
	q := r.URL.Query()

	params := domain.SalesReportParams{GroupBy: domain.SalesInterval(q.Get("groupBy"))}
	var verr error
	params.From, verr = parseDay(q.Get("from"), "from", false, verr)
	params.To, verr = parseDay(q.Get("to"), "to", true, verr)
	if verr != nil {
		if ve, ok := verr.(*domain.ValidationError); ok {
			ve.Op = op
		}
		handler.ErrorResponse(w, r, verr)
		return
	}

	report, err := h.orderService.SalesReport(r.Context(), params)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}
	handler.JSON(w, http.StatusOK, report)
}

// parseDay reads a YYYY-MM-DD value. With endOfDay set the result is the
// last instant of that day.
func parseDay(v, field string, endOfDay bool, verr error) (*time.Time, error) {
	if v == "" {
		return nil, verr
	}
	day, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, domain.AddFieldError(verr, field, field+" must be a date in YYYY-MM-DD form")
	}
	if endOfDay {
		day = day.Add(24*time.Hour - time.Nanosecond)
	}
	return &day, verr
}

func pageParams(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return page, limit
}
