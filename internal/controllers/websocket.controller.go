package controllers

import (
	"net/http"
	"time"

	"fileweb/internal/logging"
	"fileweb/internal/middleware"
	"fileweb/internal/models"
	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are enforced by the CORS middleware
		return true
	},
}

// WebSocketController upgrades clients and attaches them to the change hub
type WebSocketController struct {
	hub    *services.WebSocketHub
	auth   *services.AuthService // nil when auth is disabled
	secLog *middleware.SecurityLogger
	logger *logging.Logger
}

// NewWebSocketController creates a WebSocketController. auth may be nil.
func NewWebSocketController(hub *services.WebSocketHub, auth *services.AuthService, secLog *middleware.SecurityLogger, logger *logging.Logger) *WebSocketController {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &WebSocketController{hub: hub, auth: auth, secLog: secLog, logger: logger.Named("ws")}
}

// HandleWebSocket handles incoming WebSocket connections
func (wc *WebSocketController) HandleWebSocket(c *gin.Context) {
	if wc.auth != nil {
		token := middleware.BearerToken(c)
		if token == "" {
			wc.secLog.LogFailedAuth(c.ClientIP(), "missing token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token", "code": "unauthorized"})
			return
		}
		if _, err := wc.auth.ValidateToken(token); err != nil {
			wc.secLog.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "code": "unauthorized"})
			return
		}
	}

	// Upgrade connection to WebSocket
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		wc.logger.Warn("Upgrade failed", zap.Error(err))
		return
	}

	client := services.NewClientConnection(ws)
	if !wc.hub.Register(client) {
		ws.Close()
		return
	}
	wc.secLog.LogWebSocketConnected(c.ClientIP(), client.ID)

	ip := c.ClientIP()
	go wc.writePump(client)
	go wc.readPump(client, ip)
}

// readPump reads messages from the WebSocket client
func (wc *WebSocketController) readPump(client *services.ClientConnection, ip string) {
	defer func() {
		wc.hub.Unregister(client.ID)
		client.Conn.Close()
		wc.secLog.LogWebSocketDisconnected(ip, client.ID)
	}()

	client.Conn.SetReadLimit(maxMessage)
	_ = client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		return client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg services.WebSocketMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				wc.logger.Warn("Read failed", zap.String("client", client.ID), zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case services.MessagePing:
			wc.hub.SendMessage(client.ID, services.WebSocketMessage{
				Type:      services.MessagePong,
				Timestamp: time.Now(),
			})

		case services.MessageFileChange:
			// A client changed something outside this server; tell everyone to refresh
			wc.hub.NotifyChanged(models.ChangeEvent{
				ID:        uuid.NewString(),
				Op:        models.ChangeClient,
				Message:   services.ChangeMessage,
				Timestamp: time.Now(),
			})

		case services.MessageAuth:
			if wc.auth == nil {
				continue
			}
			if _, err := wc.auth.ValidateToken(msg.Token); err != nil {
				wc.secLog.LogFailedAuth(ip, "websocket auth message: "+err.Error())
				wc.hub.SendMessage(client.ID, services.WebSocketMessage{
					Type:      services.MessageError,
					Timestamp: time.Now(),
					Error:     "invalid token",
				})
				return
			}

		default:
			wc.logger.Debug("Unknown message type", zap.String("type", msg.Type))
		}
	}
}

// writePump writes messages to the WebSocket client
func (wc *WebSocketController) writePump(client *services.ClientConnection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					wc.logger.Warn("Write failed", zap.String("client", client.ID), zap.Error(err))
				}
				return
			}

		case <-ticker.C:
			_ = client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
