package handlers

import (
	"goride/internal/apperrors"
	"goride/internal/utils"
	"goride/internal/validators"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// currentUserID returns the authenticated user's ID set by the auth
// middleware.
func currentUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", false
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}

func rideIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid ride ID")
		return primitive.NilObjectID, false
	}
	return id, true
}

// serviceErrorResponse maps a service error to its HTTP status and code.
func serviceErrorResponse(c *gin.Context, err error) {
	utils.ErrorResponse(c, apperrors.StatusFor(err), apperrors.CodeFor(err), err.Error())
}

func validationErrorResponse(c *gin.Context, errs validators.ValidationErrors) {
	details := make(map[string]string, len(errs))
	for _, e := range errs {
		details[e.Field] = e.Message
	}
	utils.ValidationErrorResponse(c, details)
}
