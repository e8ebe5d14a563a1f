package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingRecord mirrors a ride's embedded passenger entry on the rider's
// own document so "my upcoming rides" never needs a join. The ride-side
// entry is authoritative; this projection is rebuildable from it.
type BookingRecord struct {
	RideID     primitive.ObjectID `json:"ride_id" bson:"ride_id"`
	BookingID  string             `json:"booking_id" bson:"booking_id"`
	PickupGrid string             `json:"pickup_grid" bson:"pickup_grid"`
	DropGrid   string             `json:"drop_grid" bson:"drop_grid"`
	FarePaid   float64            `json:"fare_paid" bson:"fare_paid"`
	Status     BookingStatus      `json:"status" bson:"status"`
	BookedAt   time.Time          `json:"booked_at" bson:"booked_at"`
}

type RiderCounters struct {
	Completed int `json:"completed" bson:"completed"`
	Cancelled int `json:"cancelled" bson:"cancelled"`
}

type Rider struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID     string             `json:"user_id" bson:"user_id"`
	Name       string             `json:"name" bson:"name"`
	Bookings   []BookingRecord    `json:"bookings" bson:"bookings"`
	Rides      RiderCounters      `json:"rides" bson:"rides"`
	LastRideAt *time.Time         `json:"last_ride_at" bson:"last_ride_at"`
	CreatedAt  time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at" bson:"updated_at"`
}
