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

type riderRepository struct {
	collection *mongo.Collection
}

func NewRiderRepository(db *mongo.Database) interfaces.RiderRepository {
	return &riderRepository{
		collection: db.Collection("riders"),
	}
}

func (r *riderRepository) GetByUserID(ctx context.Context, userID string) (*models.Rider, error) {
	var rider models.Rider
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&rider)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("rider not found: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rider: %w", err)
	}

	return &rider, nil
}

func (r *riderRepository) AddBooking(ctx context.Context, userID, name string, booking *models.BookingRecord) error {
	now := time.Now()
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID(),
			"user_id":    userID,
			"name":       name,
			"rides":      models.RiderCounters{},
			"created_at": now,
		},
		"$push": bson.M{"bookings": booking},
		"$set":  bson.M{"updated_at": now},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add rider booking: %w", err)
	}

	return nil
}

func (r *riderRepository) UpdateBookingStatus(ctx context.Context, userID string, rideID primitive.ObjectID, bookingID string, status models.BookingStatus) error {
	filter := bson.M{
		"user_id": userID,
		"bookings": bson.M{"$elemMatch": bson.M{
			"ride_id":    rideID,
			"booking_id": bookingID,
		}},
	}
	update := bson.M{"$set": bson.M{
		"bookings.$.status": status,
		"updated_at":        time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update rider booking status: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("rider booking not found: %w", apperrors.ErrNotFound)
	}

	return nil
}

func (r *riderRepository) CancelBookingsForRide(ctx context.Context, userIDs []string, rideID primitive.ObjectID) error {
	if len(userIDs) == 0 {
		return nil
	}

	filter := bson.M{"user_id": bson.M{"$in": userIDs}}
	update := bson.M{"$set": bson.M{
		"bookings.$[b].status": models.BookingStatusCancelled,
		"updated_at":           time.Now(),
	}}
	opts := options.Update().SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
		bson.M{"b.ride_id": rideID, "b.status": models.BookingStatusConfirmed},
	}})

	_, err := r.collection.UpdateMany(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("failed to cancel rider bookings for ride: %w", err)
	}

	return nil
}

func (r *riderRepository) RebuildBookings(ctx context.Context, userID string, bookings []models.BookingRecord) error {
	if bookings == nil {
		bookings = []models.BookingRecord{}
	}

	update := bson.M{"$set": bson.M{
		"bookings":   bookings,
		"updated_at": time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to rebuild rider bookings: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("rider not found: %w", apperrors.ErrNotFound)
	}

	return nil
}

func (r *riderRepository) IncrementCompleted(ctx context.Context, userID string) error {
	update := bson.M{
		"$inc": bson.M{"rides.completed": 1},
		"$set": bson.M{
			"last_ride_at": time.Now(),
			"updated_at":   time.Now(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to increment rider completed rides: %w", err)
	}

	return nil
}

func (r *riderRepository) IncrementCancelled(ctx context.Context, userID string) error {
	update := bson.M{
		"$inc": bson.M{"rides.cancelled": 1},
		"$set": bson.M{"updated_at": time.Now()},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to increment rider cancelled rides: %w", err)
	}

	return nil
}
