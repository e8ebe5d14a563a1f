package interfaces

import (
	"context"
	"errors"

	"goride/internal/models"
	"goride/internal/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrConditionFailed is returned by conditional (compare-and-swap) updates
// when no document satisfied the precondition filter. Callers re-read the
// document to classify the actual cause.
var ErrConditionFailed = errors.New("conditional update matched no document")

type RideRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, ride *models.Ride) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// Search and filtering
	FindCandidates(ctx context.Context, pickupGrid, dropGrid string) ([]*models.Ride, error)
	GetByDriver(ctx context.Context, driverUserID string, params *utils.PaginationParams) ([]*models.Ride, int64, error)
	GetActiveByDriver(ctx context.Context, driverUserID string) ([]*models.Ride, error)
	GetByPassenger(ctx context.Context, riderUserID string) ([]*models.Ride, error)

	// Status operations
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideStatus) error

	// Seat inventory. These are single conditional updates evaluated and
	// applied atomically against the ride document; a failed precondition
	// surfaces as ErrConditionFailed, never as a partial write.
	ReserveSeat(ctx context.Context, id primitive.ObjectID, passenger *models.Passenger) error
	ReleaseSeat(ctx context.Context, id primitive.ObjectID, userID string) (*models.Passenger, error)
	CancelWithPassengers(ctx context.Context, id primitive.ObjectID) (*models.Ride, error)
	UpdatePreferences(ctx context.Context, id primitive.ObjectID, prefs models.Preferences) error
}
