package routes

import (
	"fileweb/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterFileRoutes registers listing and mutation endpoints
func RegisterFileRoutes(r gin.IRouter, fc *controllers.FilesController, tc *controllers.ThumbnailController) {
	r.GET("/files", fc.ListFiles)
	r.POST("/create", fc.Create)
	r.DELETE("/delete", fc.Delete)
	r.PUT("/rename", fc.Rename)
	r.POST("/copy", fc.Copy)
	r.POST("/move", fc.Move)
	r.POST("/paste", fc.Paste)
	r.GET("/thumbnail", tc.Thumbnail)
}
