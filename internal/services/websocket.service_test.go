package services

import (
	"testing"
	"time"

	"fileweb/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(id string, buffer int) *ClientConnection {
	return &ClientConnection{ID: id, Send: make(chan WebSocketMessage, buffer)}
}

func receive(t *testing.T, c *ClientConnection) WebSocketMessage {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return WebSocketMessage{}
	}
}

func TestHubBroadcastsChangeEvents(t *testing.T) {
	hub := NewWebSocketHub(nil)
	hub.Start()
	defer hub.Stop()

	a := newTestClient("a", 4)
	b := newTestClient("b", 4)
	require.True(t, hub.Register(a))
	require.True(t, hub.Register(b))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	event := models.ChangeEvent{ID: "1", Op: models.ChangeCreate, Message: ChangeMessage, Timestamp: time.Now()}
	hub.NotifyChanged(event)

	for _, c := range []*ClientConnection{a, b} {
		msg := receive(t, c)
		assert.Equal(t, MessageUpdate, msg.Type)
		assert.Equal(t, event, msg.Data)
	}
}

func TestHubDropsMessagesForSlowClients(t *testing.T) {
	hub := NewWebSocketHub(nil)
	hub.Start()
	defer hub.Stop()

	slow := newTestClient("slow", 1)
	require.True(t, hub.Register(slow))

	for i := 0; i < 5; i++ {
		hub.NotifyChanged(models.ChangeEvent{Op: models.ChangeDelete})
	}

	// One message fits; the rest are dropped without blocking the hub
	receive(t, slow)
	fast := newTestClient("fast", 4)
	require.True(t, hub.Register(fast))
	hub.NotifyChanged(models.ChangeEvent{Op: models.ChangeMove})
	assert.Equal(t, MessageUpdate, receive(t, fast).Type)
}

func TestHubUnregisterClosesQueue(t *testing.T) {
	hub := NewWebSocketHub(nil)
	hub.Start()
	defer hub.Stop()

	c := newTestClient("c", 1)
	require.True(t, hub.Register(c))
	hub.Unregister(c.ID)

	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel not closed")
	}
	assert.False(t, hub.SendMessage(c.ID, WebSocketMessage{Type: MessagePong}))
}

func TestHubSendMessage(t *testing.T) {
	hub := NewWebSocketHub(nil)
	hub.Start()
	defer hub.Stop()

	c := newTestClient("c", 1)
	require.True(t, hub.Register(c))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	assert.True(t, hub.SendMessage("c", WebSocketMessage{Type: MessagePong}))
	assert.Equal(t, MessagePong, receive(t, c).Type)
	assert.False(t, hub.SendMessage("missing", WebSocketMessage{Type: MessagePong}))
}

func TestHubStop(t *testing.T) {
	hub := NewWebSocketHub(nil)
	hub.Start()

	c := newTestClient("c", 1)
	require.True(t, hub.Register(c))
	hub.Stop()
	hub.Stop()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.False(t, hub.Register(newTestClient("late", 1)))

	// Notifying a stopped hub must not block
	hub.NotifyChanged(models.ChangeEvent{Op: models.ChangeCreate})
}
