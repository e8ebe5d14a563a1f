package handlers

import (
	"goride/internal/services"
	"goride/internal/utils"

	"github.com/gin-gonic/gin"
)

type RiderHandler struct {
	rideService    services.RideService
	bookingService services.BookingService
}

func NewRiderHandler(rideService services.RideService, bookingService services.BookingService) *RiderHandler {
	return &RiderHandler{
		rideService:    rideService,
		bookingService: bookingService,
	}
}

// GetRiderBookings retrieves the rider's booking history
func (h *RiderHandler) GetRiderBookings(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.BadRequestResponse(c, "Rider user ID is required")
		return
	}

	rider, err := h.rideService.ListRiderBookings(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Rider bookings retrieved successfully", rider)
}

// RebuildBookings regenerates the rider's booking mirror from ride records
func (h *RiderHandler) RebuildBookings(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.BadRequestResponse(c, "Rider user ID is required")
		return
	}

	bookings, err := h.bookingService.ReconcileRiderBookings(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Rider bookings rebuilt successfully", bookings)
}
