package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/telemetry"
)

// orderNotifier publishes order events after a transaction commits.
// Publish failures are logged and counted but never fail the operation.
type orderNotifier struct {
	publisher events.Publisher
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
}

func (n orderNotifier) notify(ctx context.Context, subject string, order *domain.Order, at time.Time) {
	if n.publisher == nil {
		return
	}

	err := n.publisher.Publish(ctx, events.NewOrderEvent(subject, order, at))
	n.metrics.EventPublished(subject, err)
	if err != nil {
		n.logger.Warn("failed to publish order event",
			"subject", subject,
			"order_id", order.ID,
			"order_number", order.OrderNumber,
			"error", err,
		)
		telemetry.CaptureError(ctx, err, map[string]any{
			"subject":  subject,
			"order_id": order.ID.String(),
		})
	}
}
