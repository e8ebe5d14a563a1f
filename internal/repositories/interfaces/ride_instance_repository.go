package interfaces

import (
	"context"

	"goride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideInstanceRepository interface {
	CreateMany(ctx context.Context, instances []*models.RideInstance) error
	ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideInstance, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InstanceStatus) error
	CancelByRide(ctx context.Context, rideID primitive.ObjectID) error
	DeleteByRide(ctx context.Context, rideID primitive.ObjectID) error
}
