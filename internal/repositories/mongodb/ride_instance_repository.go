package mongodb

import (
	"context"
	"fmt"
	"time"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideInstanceRepository struct {
	collection *mongo.Collection
}

func NewRideInstanceRepository(db *mongo.Database) interfaces.RideInstanceRepository {
	return &rideInstanceRepository{
		collection: db.Collection("ride_instances"),
	}
}

func (r *rideInstanceRepository) CreateMany(ctx context.Context, instances []*models.RideInstance) error {
	if len(instances) == 0 {
		return nil
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(instances))
	for _, instance := range instances {
		instance.ID = primitive.NewObjectID()
		instance.CreatedAt = now
		instance.UpdatedAt = now
		docs = append(docs, instance)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create ride instances: %w", err)
	}

	return nil
}

func (r *rideInstanceRepository) ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideInstance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "ride_date", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"parent_ride_id": rideID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list ride instances: %w", err)
	}
	defer cursor.Close(ctx)

	var instances []*models.RideInstance
	for cursor.Next(ctx) {
		var instance models.RideInstance
		if err := cursor.Decode(&instance); err != nil {
			return nil, fmt.Errorf("failed to decode ride instance: %w", err)
		}
		instances = append(instances, &instance)
	}

	return instances, nil
}

func (r *rideInstanceRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InstanceStatus) error {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update ride instance status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("ride instance not found: %w", apperrors.ErrNotFound)
	}

	return nil
}

func (r *rideInstanceRepository) CancelByRide(ctx context.Context, rideID primitive.ObjectID) error {
	filter := bson.M{
		"parent_ride_id": rideID,
		"status":         models.InstanceStatusScheduled,
	}
	update := bson.M{"$set": bson.M{
		"status":     models.InstanceStatusCancelled,
		"updated_at": time.Now(),
	}}

	_, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to cancel ride instances: %w", err)
	}

	return nil
}

func (r *rideInstanceRepository) DeleteByRide(ctx context.Context, rideID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"parent_ride_id": rideID})
	if err != nil {
		return fmt.Errorf("failed to delete ride instances: %w", err)
	}

	return nil
}
