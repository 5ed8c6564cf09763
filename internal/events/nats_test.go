package events

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server when NATS_URL_TEST is set, e.g.
//
//	NATS_URL_TEST=nats://localhost:4222 go test ./internal/events/...
func TestNATSBus_PublishSubscribe(t *testing.T) {
	url := os.Getenv("NATS_URL_TEST")
	if url == "" {
		t.Skip("NATS_URL_TEST not set")
	}

	bus, err := ConnectNATS(url, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer bus.Close()

	received := make(chan OrderEvent, 1)
	unsubscribe, err := bus.Subscribe(SubjectOrderAll, func(ctx context.Context, evt OrderEvent) error {
		received <- evt
		return nil
	})
	require.NoError(t, err)
	defer unsubscribe()

	sent := OrderEvent{Subject: SubjectOrderCancelled, OrderID: uuid.New(), OrderNumber: "SC-202401-0001"}
	require.NoError(t, bus.Publish(context.Background(), sent))

	select {
	case got := <-received:
		assert.Equal(t, sent.OrderID, got.OrderID)
		assert.Equal(t, SubjectOrderCancelled, got.Subject)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
