package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/vendora/internal/domain"
	"github.com/dukerupert/vendora/internal/events"
	"github.com/dukerupert/vendora/internal/jobs"
	"github.com/dukerupert/vendora/internal/repository"
	"github.com/dukerupert/vendora/internal/telemetry"
)

// ErrStopped is returned for events delivered after shutdown began.
var ErrStopped = errors.New("worker is shutting down")

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// MaxConcurrency is the maximum number of events to process concurrently
	MaxConcurrency int

	// JobTimeout bounds the processing of a single event
	JobTimeout time.Duration

	// LowStockThreshold flags tracked products whose stock falls below it
	LowStockThreshold int32
}

// Worker consumes order events and runs the matching job for each.
type Worker struct {
	config     Config
	subscriber events.Subscriber
	products   repository.Querier
	metrics    *telemetry.BusinessMetrics
	logger     *slog.Logger

	sem chan struct{}
	wg  sync.WaitGroup

	mu       sync.Mutex
	draining bool
}

// NewWorker creates a new order event worker
func NewWorker(
	subscriber events.Subscriber,
	products repository.Querier,
	metrics *telemetry.BusinessMetrics,
	config Config,
	logger *slog.Logger,
) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = 5
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = 30 * time.Second
	}
	if config.LowStockThreshold <= 0 {
		config.LowStockThreshold = domain.LowStockThreshold
	}

	return &Worker{
		config:     config,
		subscriber: subscriber,
		products:   products,
		metrics:    metrics,
		logger:     logger,
		sem:        make(chan struct{}, config.MaxConcurrency),
	}
}

// Start subscribes to order events and processes them until ctx is
// cancelled. In-flight jobs are allowed to finish before it returns.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"subject", events.SubjectOrderAll,
		"max_concurrency", w.config.MaxConcurrency,
	)

	unsubscribe, err := w.subscriber.Subscribe(events.SubjectOrderAll, func(_ context.Context, evt events.OrderEvent) error {
		return w.dispatch(ctx, evt)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", events.SubjectOrderAll, err)
	}

	<-ctx.Done()
	w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)

	if err := unsubscribe(); err != nil {
		w.logger.Warn("failed to unsubscribe", "worker_id", w.config.WorkerID, "error", err)
	}

	w.mu.Lock()
	w.draining = true
	w.mu.Unlock()
	w.wg.Wait()
	return ctx.Err()
}

// dispatch waits for a free slot and processes evt in its own goroutine.
func (w *Worker) dispatch(ctx context.Context, evt events.OrderEvent) error {
	if !w.track() {
		return ErrStopped
	}

	select {
	case w.sem <- struct{}{}:
	case <-ctx.Done():
		w.wg.Done()
		return ctx.Err()
	}

	go func() {
		defer w.wg.Done()
		defer func() { <-w.sem }()
		w.process(context.WithoutCancel(ctx), evt)
	}()
	return nil
}

// track counts a dispatch as in flight unless Start is already draining.
func (w *Worker) track() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draining {
		return false
	}
	w.wg.Add(1)
	return true
}

// process runs the job for a single event
func (w *Worker) process(ctx context.Context, evt events.OrderEvent) {
	jobType, ok := jobs.ForSubject(evt.Subject)
	if !ok {
		w.logger.Warn("no job for event", "subject", evt.Subject, "order_id", evt.OrderID)
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.config.JobTimeout)
	defer cancel()

	var err error
	switch jobType {
	case jobs.JobTypeLowStockCheck:
		err = w.checkLowStock(jobCtx, evt)
	case jobs.JobTypeCancellationAudit:
		err = jobs.AuditCancellation(jobCtx, w.logger, evt)
	}
	if err != nil {
		w.logger.Error("job failed",
			"job_type", jobType,
			"order_id", evt.OrderID,
			"error", err,
		)
		telemetry.CaptureError(jobCtx, err, map[string]any{
			"job_type": jobType,
			"order_id": evt.OrderID.String(),
		})
		return
	}

	w.metrics.EventProcessed(evt.Subject)
	w.logger.Debug("job completed", "job_type", jobType, "order_id", evt.OrderID)
}

func (w *Worker) checkLowStock(ctx context.Context, evt events.OrderEvent) error {
	low, err := jobs.LowStockProducts(ctx, w.products, evt, w.config.LowStockThreshold)
	if err != nil {
		return err
	}

	for _, p := range low {
		w.metrics.LowStock(p.ID.String())
		w.logger.Warn("product stock is low",
			"product_id", p.ID,
			"product_name", p.Name,
			"stock", p.Stock,
			"order_number", evt.OrderNumber,
		)
	}
	return nil
}
