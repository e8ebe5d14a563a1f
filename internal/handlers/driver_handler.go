package handlers

import (
	"goride/internal/services"
	"goride/internal/utils"

	"github.com/gin-gonic/gin"
)

type DriverHandler struct {
	statsService services.StatsService
	rideService  services.RideService
}

func NewDriverHandler(statsService services.StatsService, rideService services.RideService) *DriverHandler {
	return &DriverHandler{
		statsService: statsService,
		rideService:  rideService,
	}
}

// GetDriverStats retrieves a driver's counters and trust score
func (h *DriverHandler) GetDriverStats(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.BadRequestResponse(c, "Driver user ID is required")
		return
	}

	driver, err := h.statsService.GetDriverStats(c.Request.Context(), userID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver stats retrieved successfully", driver)
}

// ResetDriverStats zeroes a driver's counters and trust score
func (h *DriverHandler) ResetDriverStats(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.BadRequestResponse(c, "Driver user ID is required")
		return
	}

	if err := h.statsService.ResetDriverStats(c.Request.Context(), userID); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Driver stats reset successfully", nil)
}

// GetDriverRides lists a driver's published rides with pagination
func (h *DriverHandler) GetDriverRides(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		utils.BadRequestResponse(c, "Driver user ID is required")
		return
	}

	params := utils.GetPaginationParams(c)

	rides, total, err := h.rideService.ListDriverRides(c.Request.Context(), userID, params)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	meta := utils.CreatePaginationMeta(params, total)
	utils.SuccessResponseWithMeta(c, "Driver rides retrieved successfully", rides, &utils.Meta{
		Pagination: meta,
	})
}
