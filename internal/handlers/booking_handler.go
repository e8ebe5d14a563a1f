package handlers

import (
	"goride/internal/services"
	"goride/internal/utils"
	"goride/internal/validators"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// BookRide reserves a seat on a ride for the authenticated rider
func (h *BookingHandler) BookRide(c *gin.Context) {
	riderID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var request validators.BookRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateBookRide(&request); len(errs) > 0 {
		validationErrorResponse(c, errs)
		return
	}

	passenger, err := h.bookingService.BookRide(c.Request.Context(), rideID, riderID, &request)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Seat booked successfully", passenger)
}

// CancelBooking releases the rider's own seat
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	riderID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	passenger, err := h.bookingService.CancelBooking(c.Request.Context(), rideID, riderID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Booking cancelled successfully", passenger)
}

// RemovePassenger lets the driver release a passenger's seat
func (h *BookingHandler) RemovePassenger(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var request validators.RemovePassengerRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateRemovePassenger(&request); len(errs) > 0 {
		validationErrorResponse(c, errs)
		return
	}

	passenger, err := h.bookingService.RemovePassenger(c.Request.Context(), rideID, driverID, request.UserID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Passenger removed successfully", passenger)
}

// CancelRide cancels the whole ride and all confirmed bookings on it
func (h *BookingHandler) CancelRide(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.bookingService.CancelRide(c.Request.Context(), rideID, driverID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride cancelled successfully", ride)
}

// UpdatePreferences changes ride preferences before any seat is booked
func (h *BookingHandler) UpdatePreferences(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var request validators.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateUpdatePreferences(&request); len(errs) > 0 {
		validationErrorResponse(c, errs)
		return
	}

	if err := h.bookingService.UpdatePreferences(c.Request.Context(), rideID, driverID, &request); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Preferences updated successfully", nil)
}

// VerifyInventory cross-checks a ride's seat counter against its bookings
func (h *BookingHandler) VerifyInventory(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	if err := h.bookingService.VerifyInventory(c.Request.Context(), rideID); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Seat inventory is consistent", nil)
}
