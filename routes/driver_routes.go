package routes

import (
	"goride/internal/handlers"
	"goride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupDriverRoutes sets up routes for driver stats and ride listings
func SetupDriverRoutes(r *gin.RouterGroup, jwtSecret string, driverHandler *handlers.DriverHandler) {
	drivers := r.Group("/drivers")

	drivers.GET("/:userId/stats", driverHandler.GetDriverStats)
	drivers.GET("/:userId/rides", driverHandler.GetDriverRides)

	protected := drivers.Group("")
	protected.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		protected.DELETE("/:userId/stats", driverHandler.ResetDriverStats)
	}
}
