package controllers

import (
	"net/http"

	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
)

// DrivesController serves volume enumeration and capacity
type DrivesController struct {
	explorer *services.Explorer
	usage    *services.UsageCache
}

// NewDrivesController creates a DrivesController
func NewDrivesController(explorer *services.Explorer, usage *services.UsageCache) *DrivesController {
	return &DrivesController{explorer: explorer, usage: usage}
}

// ListDrives handles GET /drives
func (dc *DrivesController) ListDrives(c *gin.Context) {
	volumes, err := dc.explorer.ListVolumes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	drives := make([]string, 0, len(volumes))
	for _, v := range volumes {
		drives = append(drives, v.Identifier)
	}
	c.JSON(http.StatusOK, gin.H{"drives": drives, "volumes": volumes})
}

// DrivePath handles GET /drive/:driveLetter
func (dc *DrivesController) DrivePath(c *gin.Context) {
	path, err := services.DrivePath(c.Param("driveLetter"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// DriveUsage handles GET /drives/usage
func (dc *DrivesController) DriveUsage(c *gin.Context) {
	usage, err := dc.usage.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"volumes": usage})
}
