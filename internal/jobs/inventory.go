// Package jobs holds the units of background work run by the worker in
// response to order events.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/google/uuid"
)

// Job type constants, used as log and metric labels.
const (
	JobTypeLowStockCheck     = "inventory:low_stock_check"
	JobTypeCancellationAudit = "orders:cancellation_audit"
)

// ForSubject returns the job that handles an event subject.
func ForSubject(subject string) (string, bool) {
	switch subject {
	case events.SubjectOrderCreated:
		return JobTypeLowStockCheck, true
	case events.SubjectOrderCancelled:
		return JobTypeCancellationAudit, true
	}
	return "", false
}

// LowStockProducts returns the tracked products in evt whose stock is now
// below threshold. Products deleted since the order are skipped.
func LowStockProducts(ctx context.Context, q repository.Querier, evt events.OrderEvent, threshold int32) ([]repository.Product, error) {
	seen := make(map[uuid.UUID]bool, len(evt.Items))
	var low []repository.Product

	for _, item := range evt.Items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true

		p, err := q.GetProduct(ctx, item.ProductID)
		if err != nil {
			if repository.IsNotFound(err) {
				continue
			}
			return nil, fmt.Errorf("failed to get product %s: %w", item.ProductID, err)
		}
		if p.TrackStock && p.Stock < threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

// AuditCancellation logs the stock returned by a customer cancellation.
func AuditCancellation(ctx context.Context, logger *slog.Logger, evt events.OrderEvent) error {
	var units int32
	for _, item := range evt.Items {
		units += item.Quantity
	}

	logger.InfoContext(ctx, "order cancellation processed",
		"order_id", evt.OrderID,
		"order_number", evt.OrderNumber,
		"user_id", evt.UserID,
		"refund_amount", evt.TotalAmount.StringFixed(2),
		"units_restocked", units,
	)
	return nil
}
