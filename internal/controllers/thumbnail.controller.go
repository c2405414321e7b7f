package controllers

import (
	"net/http"

	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
)

// ThumbnailController streams image previews
type ThumbnailController struct {
	explorer *services.Explorer
}

// NewThumbnailController creates a ThumbnailController
func NewThumbnailController(explorer *services.Explorer) *ThumbnailController {
	return &ThumbnailController{explorer: explorer}
}

// Thumbnail handles GET /thumbnail?path=
func (tc *ThumbnailController) Thumbnail(c *gin.Context) {
	thumb, err := tc.explorer.OpenThumbnail(c.Request.Context(), c.Query("path"))
	if err != nil {
		respondError(c, err)
		return
	}
	defer thumb.File.Close()

	c.Header("Content-Type", thumb.ContentType)
	c.Header("Cache-Control", "private, max-age=300")
	http.ServeContent(c.Writer, c.Request, thumb.Name, thumb.Modified, thumb.File)
}
