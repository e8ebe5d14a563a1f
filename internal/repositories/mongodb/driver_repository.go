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

type driverRepository struct {
	collection *mongo.Collection
}

func NewDriverRepository(db *mongo.Database) interfaces.DriverRepository {
	return &driverRepository{
		collection: db.Collection("drivers"),
	}
}

func (r *driverRepository) GetByUserID(ctx context.Context, userID string) (*models.Driver, error) {
	var driver models.Driver
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("driver not found: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get driver: %w", err)
	}

	return &driver, nil
}

func (r *driverRepository) EnsureExists(ctx context.Context, userID, name string) error {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":                primitive.NewObjectID(),
			"user_id":            userID,
			"name":               name,
			"rides":              models.RideCounters{},
			"hours_driven":       0.0,
			"distance_driven_km": 0.0,
			"trust_score":        0,
			"created_at":         now,
		},
		"$set": bson.M{"updated_at": now},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to ensure driver exists: %w", err)
	}

	return nil
}

func (r *driverRepository) IncrementHosted(ctx context.Context, userID string, at time.Time) error {
	update := bson.M{
		"$inc": bson.M{"rides.hosted": 1},
		"$set": bson.M{
			"last_ride_hosted_at": at,
			"updated_at":          time.Now(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to increment hosted rides: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver not found: %w", apperrors.ErrNotFound)
	}

	return nil
}

// ApplyCompletion folds one completed ride into the driver's counters and
// returns the post-update document so the caller scores against fresh totals.
func (r *driverRepository) ApplyCompletion(ctx context.Context, userID string, hours, distanceKM float64) (*models.Driver, error) {
	update := bson.M{
		"$inc": bson.M{
			"rides.completed":    1,
			"hours_driven":       hours,
			"distance_driven_km": distanceKM,
		},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var driver models.Driver
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("driver not found: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to apply ride completion: %w", err)
	}

	return &driver, nil
}

func (r *driverRepository) IncrementCancelled(ctx context.Context, userID string) (*models.Driver, error) {
	update := bson.M{
		"$inc": bson.M{"rides.cancelled": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var driver models.Driver
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&driver)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("driver not found: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to increment cancelled rides: %w", err)
	}

	return &driver, nil
}

func (r *driverRepository) UpdateTrustScore(ctx context.Context, userID string, score int) error {
	update := bson.M{"$set": bson.M{
		"trust_score": score,
		"updated_at":  time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update trust score: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver not found: %w", apperrors.ErrNotFound)
	}

	return nil
}

func (r *driverRepository) ResetStats(ctx context.Context, userID string) error {
	update := bson.M{"$set": bson.M{
		"rides":              models.RideCounters{},
		"hours_driven":       0.0,
		"distance_driven_km": 0.0,
		"trust_score":        0,
		"updated_at":         time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to reset driver stats: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("driver not found: %w", apperrors.ErrNotFound)
	}

	return nil
}
