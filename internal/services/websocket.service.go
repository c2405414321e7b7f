package services

import (
	"sync"
	"time"

	"fileweb/internal/logging"
	"fileweb/internal/metrics"
	"fileweb/internal/models"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket message types
const (
	MessageUpdate     = "update"     // Server to client: re-fetch the current listing
	MessageFileChange = "fileChange" // Client to server: a client changed something out of band
	MessagePing       = "ping"
	MessagePong       = "pong"
	MessageAuth       = "auth"
	MessageError      = "error"
)

// sendBuffer is the per-client queue length. A full queue drops messages for that client.
const sendBuffer = 64

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Token     string      `json:"token,omitempty"` // For auth messages from client
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID   string
	Conn *websocket.Conn
	Send chan WebSocketMessage
}

// NewClientConnection wraps conn with a fresh ID and send queue
func NewClientConnection(conn *websocket.Conn) *ClientConnection {
	return &ClientConnection{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan WebSocketMessage, sendBuffer),
	}
}

// WebSocketHub fans change events out to every connected client.
// It implements Notifier so the Explorer can publish through it.
type WebSocketHub struct {
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	unregister chan string
	mu         sync.RWMutex
	done       chan struct{}
	stopOnce   sync.Once
	logger     *logging.Logger
}

// NewWebSocketHub creates a hub. Call Start to begin delivering broadcasts.
func NewWebSocketHub(logger *logging.Logger) *WebSocketHub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WebSocketHub{
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		unregister: make(chan string),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Start runs the hub's event loop in a new goroutine
func (h *WebSocketHub) Start() {
	go h.run()
}

// run manages the hub's event loop
func (h *WebSocketHub) run() {
	for {
		select {
		case <-h.done:
			h.mu.Lock()
			for id, client := range h.clients {
				delete(h.clients, id)
				close(client.Send)
			}
			h.mu.Unlock()
			metrics.SetWSConnectionsActive(0)
			return

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			metrics.SetWSConnectionsActive(total)
			h.logger.Info("Client disconnected", zap.String("client", clientID), zap.Int("total", total))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
					h.logger.Debug("Dropping message for slow client", zap.String("client", client.ID))
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a new client to the hub. The client can be addressed as soon
// as Register returns. Returns false if the hub is stopped.
func (h *WebSocketHub) Register(client *ClientConnection) bool {
	h.mu.Lock()
	select {
	case <-h.done:
		h.mu.Unlock()
		return false
	default:
	}
	h.clients[client.ID] = client
	total := len(h.clients)
	h.mu.Unlock()

	metrics.SetWSConnectionsActive(total)
	h.logger.Info("Client connected", zap.String("client", client.ID), zap.Int("total", total))
	return true
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// Broadcast queues a message for all connected clients. It never blocks;
// when the queue is full the message is dropped.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		h.logger.Warn("Broadcast queue full, dropping message", zap.String("type", msg.Type))
		return false
	}
}

// NotifyChanged tells every client to refresh
func (h *WebSocketHub) NotifyChanged(event models.ChangeEvent) {
	h.Broadcast(WebSocketMessage{
		Type:      MessageUpdate,
		Timestamp: event.Timestamp,
		Data:      event,
	})
}

// SendMessage sends a message to a specific client
func (h *WebSocketHub) SendMessage(clientID string, msg WebSocketMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	client, exists := h.clients[clientID]
	if !exists {
		return false
	}

	select {
	case client.Send <- msg:
		return true
	default:
		return false // Send channel full
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop gracefully stops the hub and closes every client queue
func (h *WebSocketHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})
}
