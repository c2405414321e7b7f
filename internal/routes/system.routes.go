package routes

import (
	"fileweb/internal/controllers"
	"fileweb/internal/metrics"

	"github.com/gin-gonic/gin"
)

// RegisterSystemRoutes registers health and Prometheus endpoints
func RegisterSystemRoutes(r gin.IRouter) {
	r.GET("/health", controllers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
}
