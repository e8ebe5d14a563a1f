package handlers

import (
	"goride/internal/services"
	"goride/internal/utils"
	"goride/internal/validators"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService   services.RideService
	searchService services.SearchService
}

func NewRideHandler(rideService services.RideService, searchService services.SearchService) *RideHandler {
	return &RideHandler{
		rideService:   rideService,
		searchService: searchService,
	}
}

// CreateRide publishes a new ride offer for the authenticated driver
func (h *RideHandler) CreateRide(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request validators.CreateRideRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	if errs := validators.ValidateCreateRide(&request); len(errs) > 0 {
		validationErrorResponse(c, errs)
		return
	}

	ride, err := h.rideService.PublishRide(c.Request.Context(), driverID, &request)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Ride published successfully", ride)
}

// SearchRides finds rides whose routes cover the pickup and drop points
func (h *RideHandler) SearchRides(c *gin.Context) {
	var request validators.SearchRidesRequest
	if err := c.ShouldBindQuery(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid query: "+err.Error())
		return
	}

	if errs := validators.ValidateSearchRides(&request); len(errs) > 0 {
		validationErrorResponse(c, errs)
		return
	}

	results, err := h.searchService.SearchRides(c.Request.Context(), &request)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Rides retrieved successfully", results)
}

// GetRide retrieves a single ride. When pickup and drop coordinates are
// supplied as query parameters the response also carries a fare quote for
// that segment.
func (h *RideHandler) GetRide(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.rideService.GetRide(c.Request.Context(), rideID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	response := gin.H{"ride": ride}

	var query validators.SearchRidesRequest
	if err := c.ShouldBindQuery(&query); err == nil && hasSegmentQuery(&query) {
		quote, err := h.searchService.EstimateFare(c.Request.Context(), ride,
			utils.Point{Lat: query.PickupLatitude, Lng: query.PickupLongitude},
			utils.Point{Lat: query.DropLatitude, Lng: query.DropLongitude},
		)
		if err != nil {
			serviceErrorResponse(c, err)
			return
		}
		response["estimate"] = quote
	}

	utils.SuccessResponse(c, "Ride retrieved successfully", response)
}

// StartRide moves a scheduled ride to ongoing
func (h *RideHandler) StartRide(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	ride, err := h.rideService.StartRide(c.Request.Context(), rideID, driverID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride started successfully", ride)
}

// CompleteRide finishes a ride and folds it into the driver's stats
func (h *RideHandler) CompleteRide(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	var request validators.CompleteRideRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&request); err != nil {
			utils.BadRequestResponse(c, "Invalid request: "+err.Error())
			return
		}
		if errs := validators.ValidateCompleteRide(&request); len(errs) > 0 {
			validationErrorResponse(c, errs)
			return
		}
	}

	ride, err := h.rideService.CompleteRide(c.Request.Context(), rideID, driverID, &request)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride completed successfully", ride)
}

// DeleteRide removes an unbooked ride and its instances
func (h *RideHandler) DeleteRide(c *gin.Context) {
	driverID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	if err := h.rideService.DeleteRide(c.Request.Context(), rideID, driverID); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride deleted successfully", nil)
}

// GetRideInstances lists the expanded occurrences of a recurring ride
func (h *RideHandler) GetRideInstances(c *gin.Context) {
	rideID, ok := rideIDParam(c)
	if !ok {
		return
	}

	instances, err := h.rideService.ListRideInstances(c.Request.Context(), rideID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Ride instances retrieved successfully", instances)
}

func hasSegmentQuery(q *validators.SearchRidesRequest) bool {
	return q.PickupLatitude != 0 || q.PickupLongitude != 0 || q.DropLatitude != 0 || q.DropLongitude != 0
}
