package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/telemetry"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// DefaultCancellationWindow is how long after checkout a customer may cancel.
const DefaultCancellationWindow = time.Hour

// OrderConfig holds order settings that are not collaborators.
type OrderConfig struct {
	CancellationWindow time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type orderService struct {
	repo     repository.Store
	notifier orderNotifier
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
	window   time.Duration
	now      func() time.Time
}

// NewOrderService creates a new OrderService instance
func NewOrderService(
	repo repository.Store,
	publisher events.Publisher,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
	cfg OrderConfig,
) domain.OrderService {
	if cfg.CancellationWindow <= 0 {
		cfg.CancellationWindow = DefaultCancellationWindow
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &orderService{
		repo:     repo,
		notifier: orderNotifier{publisher: publisher, metrics: metrics, logger: logger},
		metrics:  metrics,
		logger:   logger,
		window:   cfg.CancellationWindow,
		now:      cfg.Now,
	}
}

// =============================================================================
// READS
// =============================================================================

// GetOrder returns an order to its owner or to an admin.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID, requester *domain.User) (*domain.Order, error) {
	const op = "order.get"

	row, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, domain.ErrOrderNotFound, op, "failed to get order")
	}
	if requester == nil || (!requester.IsAdmin() && row.UserID != requester.ID) {
		return nil, domain.WithOp(domain.ErrNotOrderOwner, op)
	}

	order, err := mapRepoOrderToDomain(row)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read order")
	}
	return order, nil
}

// ListUserOrders lists the orders placed by userID, newest first.
func (s *orderService) ListUserOrders(ctx context.Context, userID uuid.UUID, status domain.FulfillmentStatus, page, limit int) (*domain.OrderPage, error) {
	return s.ListOrders(ctx, domain.OrderFilter{
		UserID: &userID,
		Status: status,
		Page:   page,
		Limit:  limit,
	})
}

// ListOrders lists orders matching filter, newest first.
func (s *orderService) ListOrders(ctx context.Context, filter domain.OrderFilter) (*domain.OrderPage, error) {
	const op = "order.list"

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidOrderStatus, op)
	}
	if filter.PaymentStatus != "" && !filter.PaymentStatus.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidPaymentStatus, op)
	}

	page, limit, offset := domain.NormalizePage(filter.Page, filter.Limit)
	params := repository.ListOrdersParams{
		Status:        text(string(filter.Status)),
		PaymentStatus: text(string(filter.PaymentStatus)),
		CreatedFrom:   optionalTimestamptz(filter.From),
		CreatedTo:     optionalTimestamptz(filter.To),
		MinTotal:      nullDecimal(filter.MinAmount),
		MaxTotal:      nullDecimal(filter.MaxAmount),
		Search:        text(strings.TrimSpace(filter.Search)),
		Limit:         int32(limit),
		Offset:        int32(offset),
	}
	if filter.UserID != nil {
		params.UserID = pgtype.UUID{Bytes: *filter.UserID, Valid: true}
	}

	rows, err := s.repo.ListOrders(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list orders")
	}
	total, err := s.repo.CountOrders(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count orders")
	}
	orders, err := mapRepoOrdersToDomain(rows)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to read orders")
	}

	return &domain.OrderPage{
		Orders: orders,
		Total:  int(total),
		Page:   page,
		Limit:  limit,
	}, nil
}

// Stats summarizes all orders for the admin dashboard. Day and month
// boundaries are taken in UTC.
func (s *orderService) Stats(ctx context.Context) (*domain.OrderStats, error) {
	const op = "order.stats"

	now := s.now().UTC()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	row, err := s.repo.GetOrderStats(ctx, repository.GetOrderStatsParams{
		TodayStart: todayStart,
		MonthStart: monthStart,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "failed to get order stats")
	}
	byStatus, err := s.repo.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count orders by status")
	}
	byPayment, err := s.repo.CountOrdersByPaymentStatus(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to count orders by payment status")
	}
	lowStock, err := s.repo.ListLowStockProducts(ctx, domain.LowStockThreshold)
	if err != nil {
		return nil, domain.Internal(err, op, "failed to list low stock products")
	}

	stats := &domain.OrderStats{
		TotalOrders:       int(row.TotalOrders),
		ByStatus:          make(map[domain.FulfillmentStatus]int, len(domain.FulfillmentStatuses)),
		ByPaymentStatus:   make(map[domain.PaymentStatus]int, len(domain.PaymentStatuses)),
		PaidOrders:        int(row.PaidOrders),
		PaidRevenue:       row.PaidRevenue,
		AverageOrderValue: decimal.Zero,
		TodayRevenue:      row.TodayRevenue,
		MonthRevenue:      row.MonthRevenue,
		LowStock:          make([]domain.Product, 0, len(lowStock)),
	}
	for _, st := range domain.FulfillmentStatuses {
		stats.ByStatus[st] = 0
	}
	for _, st := range domain.PaymentStatuses {
		stats.ByPaymentStatus[st] = 0
	}
	for _, c := range byStatus {
		stats.ByStatus[domain.FulfillmentStatus(c.Status)] = int(c.Count)
	}
	for _, c := range byPayment {
		stats.ByPaymentStatus[domain.PaymentStatus(c.Status)] = int(c.Count)
	}
	if row.PaidOrders > 0 {
		stats.AverageOrderValue = row.PaidRevenue.Div(decimal.NewFromInt(row.PaidOrders)).Round(2)
	}
	for _, p := range lowStock {
		stats.LowStock = append(stats.LowStock, mapRepoProductToDomain(p))
	}

	return stats, nil
}

// =============================================================================
// ADMIN MUTATIONS
// =============================================================================

// UpdateStatus sets the fulfillment status. Any known status may replace any
// other; entering shipped, delivered or cancelled stamps the matching time.
// Stock is not restored by an admin cancellation.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.FulfillmentStatus, note string) (*domain.Order, error) {
	const op = "order.update_status"
	if !status.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidOrderStatus, op)
	}

	order, err := s.update(ctx, orderID, op, func(_ repository.Querier, _ repository.Order, p *repository.UpdateOrderStateParams, now time.Time) error {
		p.Status = string(status)
		switch status {
		case domain.StatusShipped:
			stampOnce(&p.ShippedAt, now)
		case domain.StatusDelivered:
			stampOnce(&p.DeliveredAt, now)
		case domain.StatusCancelled:
			stampOnce(&p.CancelledAt, now)
		}
		return appendNote(ctx, p, note, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(status)
	s.logger.Info("order status updated", "order_id", order.ID, "order_number", order.OrderNumber, "status", status)
	return order, nil
}

// UpdatePaymentStatus sets the payment status. Paid stamps PaidAt and
// records the transaction ID.
func (s *orderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, update domain.PaymentUpdate) (*domain.Order, error) {
	const op = "order.update_payment"
	if !update.Status.Valid() {
		return nil, domain.WithOp(domain.ErrInvalidPaymentStatus, op)
	}

	order, err := s.update(ctx, orderID, op, func(_ repository.Querier, _ repository.Order, p *repository.UpdateOrderStateParams, now time.Time) error {
		p.PaymentStatus = string(update.Status)
		if update.Status == domain.PaymentPaid {
			stampOnce(&p.PaidAt, now)
		}
		if txID := strings.TrimSpace(update.TransactionID); txID != "" {
			p.TransactionID = text(txID)
		}
		return appendNote(ctx, p, update.Note, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order payment status updated", "order_id", order.ID, "order_number", order.OrderNumber, "payment_status", update.Status)
	return order, nil
}

// UpdateTracking records the carrier and tracking number and marks the
// order shipped.
func (s *orderService) UpdateTracking(ctx context.Context, orderID uuid.UUID, update domain.TrackingUpdate) (*domain.Order, error) {
	const op = "order.update_tracking"

	carrier := strings.TrimSpace(update.Carrier)
	number := strings.TrimSpace(update.TrackingNumber)
	if carrier == "" || number == "" {
		return nil, domain.WithOp(domain.ErrTrackingRequired, op)
	}

	order, err := s.update(ctx, orderID, op, func(_ repository.Querier, _ repository.Order, p *repository.UpdateOrderStateParams, now time.Time) error {
		p.Carrier = text(carrier)
		p.TrackingNumber = text(number)
		p.EstimatedDelivery = optionalTimestamptz(update.EstimatedDelivery)
		p.Status = string(domain.StatusShipped)
		p.ShippedAt = timestamptz(now)
		return appendNote(ctx, p, update.Note, now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanged(domain.StatusShipped)
	s.logger.Info("order shipped", "order_id", order.ID, "order_number", order.OrderNumber, "carrier", carrier)
	return order, nil
}

// AddNote appends an admin note.
func (s *orderService) AddNote(ctx context.Context, orderID uuid.UUID, note string) (*domain.Order, error) {
	const op = "order.add_note"
	if strings.TrimSpace(note) == "" {
		return nil, domain.WithOp(domain.ErrNoteRequired, op)
	}

	return s.update(ctx, orderID, op, func(_ repository.Querier, _ repository.Order, p *repository.UpdateOrderStateParams, now time.Time) error {
		return appendNote(ctx, p, note, now)
	})
}

// =============================================================================
// CUSTOMER CANCELLATION
// =============================================================================

// Cancel cancels an order on behalf of its owner. The order must still be
// cancellable and inside the cancellation window. Stock for tracked products
// that still exist is restored in the same transaction.
func (s *orderService) Cancel(ctx context.Context, orderID, userID uuid.UUID) (*domain.Order, error) {
	const op = "order.cancel"

	order, err := s.update(ctx, orderID, op, func(q repository.Querier, row repository.Order, p *repository.UpdateOrderStateParams, now time.Time) error {
		if row.UserID != userID {
			return domain.WithOp(domain.ErrNotOrderOwner, op)
		}
		if !domain.FulfillmentStatus(row.Status).CustomerCancellable() {
			return domain.WithOp(domain.ErrOrderNotCancellable, op)
		}
		if now.Sub(row.CreatedAt) > s.window {
			return domain.WithOp(domain.ErrCancellationWindowClosed, op)
		}

		items, err := decodeOrderItems(row.Items)
		if err != nil {
			return domain.Internal(err, op, "failed to read order items")
		}
		if err := restoreStock(ctx, q, items, op); err != nil {
			return err
		}

		p.Status = string(domain.StatusCancelled)
		p.PaymentStatus = string(domain.PaymentRefunded)
		p.CancelledAt = timestamptz(now)
		return appendNote(ctx, p, "Cancelled by customer", now)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.OrderCancelled()
	s.notifier.notify(ctx, events.SubjectOrderCancelled, order, *order.CancelledAt)
	s.logger.Info("order cancelled by customer", "order_id", order.ID, "order_number", order.OrderNumber, "user_id", userID)
	return order, nil
}

// restoreStock returns purchased units to tracked products in product ID
// order. Products that were deleted since checkout are skipped.
func restoreStock(ctx context.Context, q repository.Querier, items []domain.OrderItem, op string) error {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b domain.OrderItem) int {
		return compareIDs(a.ProductID, b.ProductID)
	})

	for _, item := range sorted {
		product, err := q.GetProduct(ctx, item.ProductID)
		if err != nil {
			if repository.IsNotFound(err) {
				continue
			}
			return domain.Internal(err, op, "failed to get product")
		}
		if !product.TrackStock {
			continue
		}

		if _, err := q.IncrementStock(ctx, repository.StockChangeParams{
			ID:       item.ProductID,
			Quantity: item.Quantity,
		}); err != nil {
			return domain.Internal(err, op, "failed to restore stock")
		}
	}
	return nil
}

// update locks the order, lets fn change the mutable columns and saves them
// in one transaction.
func (s *orderService) update(
	ctx context.Context,
	orderID uuid.UUID,
	op string,
	fn func(q repository.Querier, row repository.Order, p *repository.UpdateOrderStateParams, now time.Time) error,
) (*domain.Order, error) {
	now := s.now().UTC()
	var order *domain.Order

	err := s.repo.InTx(ctx, func(q repository.Querier) error {
		row, err := q.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return notFoundOr(err, domain.ErrOrderNotFound, op, "failed to get order")
		}

		params := stateParams(row)
		if err := fn(q, row, &params, now); err != nil {
			return err
		}

		updated, err := q.UpdateOrderState(ctx, params)
		if err != nil {
			return domain.Internal(err, op, "failed to update order")
		}
		order, err = mapRepoOrderToDomain(updated)
		if err != nil {
			return domain.Internal(err, op, "failed to read order")
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, op, "order update failed")
	}
	return order, nil
}

// appendNote adds body to the notes document, attributed to the user on ctx.
// A blank body is ignored.
func appendNote(ctx context.Context, p *repository.UpdateOrderStateParams, body string, now time.Time) error {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil
	}

	notes, err := decodeNotes(p.Notes)
	if err != nil {
		return domain.Internal(err, "order.note", "failed to read notes")
	}
	var author string
	if user := domain.UserFromContext(ctx); user != nil {
		author = user.Email
	}
	notes = append(notes, domain.OrderNote{Text: body, Author: author, CreatedAt: now})

	p.Notes, err = encodeNotes(notes)
	if err != nil {
		return domain.Internal(err, "order.note", "failed to encode notes")
	}
	return nil
}

func stampOnce(ts *pgtype.Timestamptz, now time.Time) {
	if !ts.Valid {
		*ts = timestamptz(now)
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
