package mongodb

import (
	"context"
	"fmt"
	"time"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/repositories/interfaces"
	"goride/internal/services"
	"goride/internal/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type rideRepository struct {
	collection *mongo.Collection
	cache      services.CacheService
}

func NewRideRepository(db *mongo.Database, cache services.CacheService) interfaces.RideRepository {
	return &rideRepository{
		collection: db.Collection("rides"),
		cache:      cache,
	}
}

// Basic CRUD operations
func (r *rideRepository) Create(ctx context.Context, ride *models.Ride) error {
	ride.ID = primitive.NewObjectID()
	now := time.Now()
	ride.CreatedAt = now
	ride.UpdatedAt = now

	_, err := r.collection.InsertOne(ctx, ride)
	if err != nil {
		return fmt.Errorf("failed to create ride: %w", err)
	}

	if ride.IsActive() {
		r.cacheRide(ctx, ride)
	}

	return nil
}

func (r *rideRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	// Try cache first for active rides
	if ride := r.getRideFromCache(ctx, id.Hex()); ride != nil {
		return ride, nil
	}

	var ride models.Ride
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&ride)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("ride not found: %w", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get ride: %w", err)
	}

	if ride.IsActive() {
		r.cacheRide(ctx, &ride)
	}

	return &ride, nil
}

func (r *rideRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": updates},
	)
	if err != nil {
		return fmt.Errorf("failed to update ride: %w", err)
	}

	r.invalidateRideCache(ctx, id.Hex())

	return nil
}

func (r *rideRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}

	r.invalidateRideCache(ctx, id.Hex())

	return nil
}

// Search and filtering
func (r *rideRepository) FindCandidates(ctx context.Context, pickupGrid, dropGrid string) ([]*models.Ride, error) {
	filter := bson.M{
		"route.grids_covered": bson.M{"$all": []string{pickupGrid, dropGrid}},
		"status":              models.RideStatusScheduled,
		"seats.available":     bson.M{"$gt": 0},
	}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "schedule.departure_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate rides: %w", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	for cursor.Next(ctx) {
		var ride models.Ride
		if err := cursor.Decode(&ride); err != nil {
			return nil, fmt.Errorf("failed to decode ride: %w", err)
		}
		rides = append(rides, &ride)
	}

	return rides, nil
}

func (r *rideRepository) GetByDriver(ctx context.Context, driverUserID string, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	filter := bson.M{"driver.user_id": driverUserID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count driver rides: %w", err)
	}

	cursor, err := r.collection.Find(ctx, filter, params.GetSortOptions())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find driver rides: %w", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	for cursor.Next(ctx) {
		var ride models.Ride
		if err := cursor.Decode(&ride); err != nil {
			return nil, 0, fmt.Errorf("failed to decode ride: %w", err)
		}
		rides = append(rides, &ride)
	}

	return rides, total, nil
}

func (r *rideRepository) GetActiveByDriver(ctx context.Context, driverUserID string) ([]*models.Ride, error) {
	filter := bson.M{
		"driver.user_id": driverUserID,
		"status": bson.M{"$in": []models.RideStatus{
			models.RideStatusScheduled,
			models.RideStatusOngoing,
		}},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find active driver rides: %w", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	for cursor.Next(ctx) {
		var ride models.Ride
		if err := cursor.Decode(&ride); err != nil {
			return nil, fmt.Errorf("failed to decode ride: %w", err)
		}
		rides = append(rides, &ride)
	}

	return rides, nil
}

func (r *rideRepository) GetByPassenger(ctx context.Context, riderUserID string) ([]*models.Ride, error) {
	filter := bson.M{"passengers.user_id": riderUserID}

	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "schedule.departure_time", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to find rides by passenger: %w", err)
	}
	defer cursor.Close(ctx)

	var rides []*models.Ride
	for cursor.Next(ctx) {
		var ride models.Ride
		if err := cursor.Decode(&ride); err != nil {
			return nil, fmt.Errorf("failed to decode ride: %w", err)
		}
		rides = append(rides, &ride)
	}

	return rides, nil
}

// Status operations
func (r *rideRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideStatus) error {
	return r.Update(ctx, id, map[string]interface{}{
		"status": status,
	})
}

// Seat inventory operations. Each is one conditional FindOneAndUpdate so
// the precondition check and the mutation land as a single indivisible
// step; two concurrent bookers can never both pass the availability check.

func (r *rideRepository) ReserveSeat(ctx context.Context, id primitive.ObjectID, passenger *models.Passenger) error {
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": []models.RideStatus{
			models.RideStatusScheduled,
			models.RideStatusOngoing,
		}},
		"seats.available": bson.M{"$gt": 0},
		"passengers": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"user_id": passenger.UserID,
			"status":  models.BookingStatusConfirmed,
		}}},
	}
	update := bson.M{
		"$push": bson.M{"passengers": passenger},
		"$inc":  bson.M{"seats.available": -1},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	err := r.collection.FindOneAndUpdate(ctx, filter, update).Err()
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return interfaces.ErrConditionFailed
		}
		return fmt.Errorf("failed to reserve seat: %w", err)
	}

	r.invalidateRideCache(ctx, id.Hex())

	return nil
}

func (r *rideRepository) ReleaseSeat(ctx context.Context, id primitive.ObjectID, userID string) (*models.Passenger, error) {
	filter := bson.M{
		"_id": id,
		"passengers": bson.M{"$elemMatch": bson.M{
			"user_id": userID,
			"status":  models.BookingStatusConfirmed,
		}},
	}
	update := bson.M{
		"$set": bson.M{
			"passengers.$[p].status": models.BookingStatusCancelled,
			"updated_at":             time.Now(),
		},
		"$inc": bson.M{"seats.available": 1},
	}
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.M{"p.user_id": userID, "p.status": models.BookingStatusConfirmed},
		}}).
		SetReturnDocument(options.Before)

	var before models.Ride
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrConditionFailed
		}
		return nil, fmt.Errorf("failed to release seat: %w", err)
	}

	r.invalidateRideCache(ctx, id.Hex())

	if p := before.ConfirmedPassenger(userID); p != nil {
		released := *p
		return &released, nil
	}

	// The precondition matched, so the pre-image must hold the entry.
	return nil, fmt.Errorf("released seat missing from ride pre-image")
}

func (r *rideRepository) CancelWithPassengers(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	filter := bson.M{
		"_id": id,
		"status": bson.M{"$in": []models.RideStatus{
			models.RideStatusScheduled,
			models.RideStatusOngoing,
		}},
	}
	update := bson.M{
		"$set": bson.M{
			"status":                 models.RideStatusCancelled,
			"passengers.$[p].status": models.BookingStatusCancelled,
			"updated_at":             time.Now(),
		},
	}
	opts := options.FindOneAndUpdate().
		SetArrayFilters(options.ArrayFilters{Filters: []interface{}{
			bson.M{"p.status": models.BookingStatusConfirmed},
		}}).
		SetReturnDocument(options.Before)

	var before models.Ride
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&before)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, interfaces.ErrConditionFailed
		}
		return nil, fmt.Errorf("failed to cancel ride: %w", err)
	}

	r.invalidateRideCache(ctx, id.Hex())

	return &before, nil
}

func (r *rideRepository) UpdatePreferences(ctx context.Context, id primitive.ObjectID, prefs models.Preferences) error {
	filter := bson.M{
		"_id": id,
		"passengers": bson.M{"$not": bson.M{"$elemMatch": bson.M{
			"status": models.BookingStatusConfirmed,
		}}},
	}
	update := bson.M{"$set": bson.M{
		"preferences": prefs,
		"updated_at":  time.Now(),
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}
	if result.MatchedCount == 0 {
		return interfaces.ErrConditionFailed
	}

	r.invalidateRideCache(ctx, id.Hex())

	return nil
}

// Cache operations
func (r *rideRepository) cacheRide(ctx context.Context, ride *models.Ride) {
	if r.cache != nil {
		cacheKey := utils.CacheRidePrefix + ride.ID.Hex()
		r.cache.Set(ctx, cacheKey, ride, utils.DefaultRideCacheTTL)
	}
}

func (r *rideRepository) getRideFromCache(ctx context.Context, rideID string) *models.Ride {
	if r.cache == nil {
		return nil
	}

	cacheKey := utils.CacheRidePrefix + rideID
	var ride models.Ride
	if err := r.cache.Get(ctx, cacheKey, &ride); err != nil {
		return nil
	}

	return &ride
}

func (r *rideRepository) invalidateRideCache(ctx context.Context, rideID string) {
	if r.cache != nil {
		r.cache.Delete(ctx, utils.CacheRidePrefix+rideID)
	}
}
