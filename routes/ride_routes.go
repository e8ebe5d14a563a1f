package routes

import (
	"goride/internal/handlers"
	"goride/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRideRoutes sets up routes for ride publishing, search and booking
func SetupRideRoutes(r *gin.RouterGroup, jwtSecret string, rideHandler *handlers.RideHandler, bookingHandler *handlers.BookingHandler) {
	rides := r.Group("/rides")

	// Public discovery routes
	rides.GET("/search", rideHandler.SearchRides)
	rides.GET("/:id", rideHandler.GetRide)
	rides.GET("/:id/instances", rideHandler.GetRideInstances)
	rides.GET("/:id/inventory", bookingHandler.VerifyInventory)

	// Driver-side lifecycle
	driver := rides.Group("")
	driver.Use(middleware.AuthRequired(jwtSecret), middleware.DriverRequired())
	{
		driver.POST("", rideHandler.CreateRide)
		driver.DELETE("/:id", rideHandler.DeleteRide)
		driver.POST("/:id/start", rideHandler.StartRide)
		driver.POST("/:id/complete", rideHandler.CompleteRide)
		driver.POST("/:id/cancel-ride", bookingHandler.CancelRide)
		driver.POST("/:id/remove-passenger", bookingHandler.RemovePassenger)
		driver.PUT("/:id/preferences", bookingHandler.UpdatePreferences)
	}

	// Passenger-side booking
	passenger := rides.Group("")
	passenger.Use(middleware.AuthRequired(jwtSecret))
	{
		passenger.POST("/:id/book", bookingHandler.BookRide)
		passenger.POST("/:id/cancel", bookingHandler.CancelBooking)
	}
}
