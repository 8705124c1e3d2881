package notify

import (
	"context"
	"testing"
	"time"

	"bookstore-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subscribe(t *testing.T, h *Hub) *client {
	t.Helper()
	c := &client{hub: h, send: make(chan models.Notification, 16)}
	h.register <- c
	return c
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	a := subscribe(t, h)
	b := subscribe(t, h)

	n := models.Notification{Type: "Order", Content: "Order Completed", ID: "n-1"}
	h.Broadcast(n)

	for _, c := range []*client{a, b} {
		select {
		case got := <-c.send:
			assert.Equal(t, "n-1", got.ID)
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.Run(ctx)

	c := subscribe(t, h)
	h.unregister <- c

	// The send channel is closed on unregister.
	select {
	case _, ok := <-c.send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}

	// A later broadcast must not panic on the departed client.
	h.Broadcast(models.Notification{ID: "n-2"})
}

func TestHubShutdownClosesClients(t *testing.T) {
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	c := subscribe(t, h)
	cancel()

	select {
	case _, ok := <-c.send:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed on shutdown")
	}
}
