package controllers

import (
	"net/http"

	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
)

// LocationsController resolves special folder names
type LocationsController struct {
	explorer *services.Explorer
}

// NewLocationsController creates a LocationsController
func NewLocationsController(explorer *services.Explorer) *LocationsController {
	return &LocationsController{explorer: explorer}
}

// SpecialFolder handles GET /special-folder/:folderType
func (lc *LocationsController) SpecialFolder(c *gin.Context) {
	path, err := lc.explorer.ResolveLocation(c.Param("folderType"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}
