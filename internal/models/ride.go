package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideStatus string
type BookingStatus string
type RecurrenceKind string

const (
	RideStatusScheduled RideStatus = "scheduled"
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"

	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"

	RecurrenceOneTime  RecurrenceKind = "one-time"
	RecurrenceDaily    RecurrenceKind = "daily"
	RecurrenceWeekly   RecurrenceKind = "weekly"
	RecurrenceMonthly  RecurrenceKind = "monthly"
	RecurrenceWeekends RecurrenceKind = "weekends"
)

// DriverSummary is the denormalized driver snapshot embedded in a ride.
type DriverSummary struct {
	UserID     string  `json:"user_id" bson:"user_id" validate:"required"`
	Name       string  `json:"name" bson:"name"`
	Rating     float64 `json:"rating" bson:"rating"`
	IsVerified bool    `json:"is_verified" bson:"is_verified"`
}

type VehicleSummary struct {
	Brand        string `json:"brand" bson:"brand"`
	Model        string `json:"model" bson:"model"`
	Color        string `json:"color" bson:"color"`
	LicensePlate string `json:"license_plate" bson:"license_plate"`
}

// RideRoute carries the published trip geometry. EncodedPolyline is the
// compact authoritative shape; GridsCovered is derived from it exactly once
// at publish time and never mutated independently.
type RideRoute struct {
	Start           Stop     `json:"start" bson:"start"`
	End             Stop     `json:"end" bson:"end"`
	Stops           []Stop   `json:"stops" bson:"stops"`
	EncodedPolyline string   `json:"encoded_polyline" bson:"encoded_polyline" validate:"required"`
	GridsCovered    []string `json:"grids_covered" bson:"grids_covered"`
}

type Recurrence struct {
	Kind       RecurrenceKind `json:"kind" bson:"kind" validate:"omitempty,recurrence"`
	DaysOfWeek []int          `json:"days_of_week" bson:"days_of_week"`
	EndDate    *time.Time     `json:"end_date" bson:"end_date"`
}

type Schedule struct {
	DepartureTime time.Time  `json:"departure_time" bson:"departure_time" validate:"required"`
	Recurrence    Recurrence `json:"recurrence" bson:"recurrence"`
}

type Seats struct {
	Total     int `json:"total" bson:"total" validate:"required,min=1"`
	Available int `json:"available" bson:"available"`
}

type Pricing struct {
	BaseFare float64 `json:"base_fare" bson:"base_fare" validate:"required,min=1"`
	Currency string  `json:"currency" bson:"currency" default:"INR"`
}

type Preferences struct {
	SmokingAllowed bool `json:"smoking_allowed" bson:"smoking_allowed"`
	PetsAllowed    bool `json:"pets_allowed" bson:"pets_allowed"`
	MaxTwoInBack   bool `json:"max_two_in_back" bson:"max_two_in_back"`
}

type Metrics struct {
	TotalDistanceKM float64 `json:"total_distance_km" bson:"total_distance_km"`
	DurationMinutes int     `json:"duration_minutes" bson:"duration_minutes"`
}

// Passenger is a seat reservation embedded in its ride. Entries are never
// deleted; cancellation flips Status, and a rider may hold several
// cancelled entries plus at most one confirmed entry.
type Passenger struct {
	BookingID  string        `json:"booking_id" bson:"booking_id"`
	UserID     string        `json:"user_id" bson:"user_id"`
	Name       string        `json:"name" bson:"name"`
	PickupGrid string        `json:"pickup_grid" bson:"pickup_grid"`
	DropGrid   string        `json:"drop_grid" bson:"drop_grid"`
	FarePaid   float64       `json:"fare_paid" bson:"fare_paid"`
	Status     BookingStatus `json:"status" bson:"status"`
	BookedAt   time.Time     `json:"booked_at" bson:"booked_at"`
}

type Ride struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Driver      DriverSummary      `json:"driver" bson:"driver"`
	Vehicle     VehicleSummary     `json:"vehicle" bson:"vehicle"`
	Route       RideRoute          `json:"route" bson:"route"`
	Schedule    Schedule           `json:"schedule" bson:"schedule"`
	Seats       Seats              `json:"seats" bson:"seats"`
	Pricing     Pricing            `json:"pricing" bson:"pricing"`
	Preferences Preferences        `json:"preferences" bson:"preferences"`
	Passengers  []Passenger        `json:"passengers" bson:"passengers"`
	Status      RideStatus         `json:"status" bson:"status"`
	Metrics     Metrics            `json:"metrics" bson:"metrics"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsActive reports whether the ride can still accept bookings.
func (r *Ride) IsActive() bool {
	return r.Status == RideStatusScheduled || r.Status == RideStatusOngoing
}

// ConfirmedCount is the number of currently confirmed passenger entries.
func (r *Ride) ConfirmedCount() int {
	count := 0
	for _, p := range r.Passengers {
		if p.Status == BookingStatusConfirmed {
			count++
		}
	}
	return count
}

// ConfirmedPassenger returns the rider's confirmed entry, if any.
func (r *Ride) ConfirmedPassenger(userID string) *Passenger {
	for i := range r.Passengers {
		if r.Passengers[i].UserID == userID && r.Passengers[i].Status == BookingStatusConfirmed {
			return &r.Passengers[i]
		}
	}
	return nil
}

// DepartureWindow is the interval the ride occupies on the driver's
// calendar, used for overlap checks against other published rides.
func (r *Ride) DepartureWindow() (time.Time, time.Time) {
	start := r.Schedule.DepartureTime
	duration := time.Duration(r.Metrics.DurationMinutes) * time.Minute
	if duration <= 0 {
		duration = time.Hour
	}
	return start, start.Add(duration)
}
