package routes

import (
	"fileweb/internal/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterDriveRoutes registers volume and special location endpoints
func RegisterDriveRoutes(r gin.IRouter, dc *controllers.DrivesController, lc *controllers.LocationsController) {
	drives := r.Group("/drives")
	{
		drives.GET("", dc.ListDrives)
		drives.GET("/usage", dc.DriveUsage)
	}
	r.GET("/drive/:driveLetter", dc.DrivePath)
	r.GET("/special-folder/:folderType", lc.SpecialFolder)
}
