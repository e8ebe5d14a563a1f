package routes

import (
	"goride/internal/handlers"
	"goride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRiderRoutes sets up routes for rider booking records
func SetupRiderRoutes(r *gin.RouterGroup, jwtSecret string, riderHandler *handlers.RiderHandler) {
	riders := r.Group("/riders")
	riders.Use(middleware.AuthRequired(jwtSecret))
	{
		riders.GET("/:userId/bookings", riderHandler.GetRiderBookings)
		riders.POST("/:userId/rebuild-bookings", riderHandler.RebuildBookings)
	}
}
