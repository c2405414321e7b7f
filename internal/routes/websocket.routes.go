package routes

import (
	"fileweb/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes registers the change notification endpoint.
// Token generation must be done via CLI (no HTTP endpoints).
func RegisterWebSocketRoutes(r gin.IRouter, wc *controllers.WebSocketController, handlers ...gin.HandlerFunc) {
	r.GET("/ws", append(handlers, wc.HandleWebSocket)...)
}
