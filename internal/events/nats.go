package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// NATSBus publishes and subscribes to order events over NATS core.
type NATSBus struct {
	conn   *nats.Conn
	logger *slog.Logger
}

var (
	_ Publisher  = (*NATSBus)(nil)
	_ Subscriber = (*NATSBus)(nil)
)

// ConnectNATS dials url and returns a bus over the connection.
func ConnectNATS(url string, logger *slog.Logger) (*NATSBus, error) {
	conn, err := nats.Connect(url,
		nats.Name("vendora"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	return &NATSBus{conn: conn, logger: logger}, nil
}

// Publish encodes evt as JSON and publishes it on evt.Subject.
func (b *NATSBus) Publish(ctx context.Context, evt OrderEvent) error {
	if b.conn.IsClosed() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", evt.Subject, err)
	}

	if err := b.conn.Publish(evt.Subject, data); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", evt.Subject, err)
	}
	return nil
}

// Subscribe decodes messages on subject and hands them to fn. Malformed
// payloads are logged and dropped.
func (b *NATSBus) Subscribe(subject string, fn Handler) (func() error, error) {
	sub, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		var evt OrderEvent
		if err := json.Unmarshal(msg.Data, &evt); err != nil {
			b.logger.Warn("dropping malformed event", "subject", msg.Subject, "error", err)
			return
		}
		if evt.Subject == "" {
			evt.Subject = msg.Subject
		}
		if err := fn(context.Background(), evt); err != nil {
			b.logger.Error("event handler failed", "subject", msg.Subject, "order_id", evt.OrderID, "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return sub.Unsubscribe, nil
}

// Close drains pending messages and closes the connection.
func (b *NATSBus) Close() error {
	if b.conn.IsClosed() {
		return nil
	}
	return b.conn.Drain()
}
