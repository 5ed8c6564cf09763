package events

//go:generate mockgen -source=publisher.go -destination=mock_publisher.go -package=events

import (
	"context"
	"errors"
)

var ErrClosed = errors.New("events: publisher closed")

// Publisher sends order events to subscribers.
type Publisher interface {
	Publish(ctx context.Context, evt OrderEvent) error
	Close() error
}

// Handler processes one received event.
type Handler func(ctx context.Context, evt OrderEvent) error

// Subscriber delivers events published on subject to fn until the returned
// unsubscribe func is called.
type Subscriber interface {
	Subscribe(subject string, fn Handler) (unsubscribe func() error, err error)
}

// NoopPublisher discards every event. It is used when no bus is configured.
type NoopPublisher struct{}

var _ Publisher = NoopPublisher{}

func (NoopPublisher) Publish(ctx context.Context, evt OrderEvent) error { return nil }
func (NoopPublisher) Close() error                                      { return nil }
