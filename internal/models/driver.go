package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideCounters struct {
	Hosted    int `json:"hosted" bson:"hosted"`
	Completed int `json:"completed" bson:"completed"`
	Cancelled int `json:"cancelled" bson:"cancelled"`
}

type Verification struct {
	EmailVerified          bool `json:"email_verified" bson:"email_verified"`
	PhoneVerified          bool `json:"phone_verified" bson:"phone_verified"`
	DrivingLicenseVerified bool `json:"driving_license_verified" bson:"driving_license_verified"`
	VehicleVerified        bool `json:"vehicle_verified" bson:"vehicle_verified"`
}

// Driver is the driver-side stats record. Counters, hours and distance are
// mutated only through the stats service; TrustScore is recomputed from
// fresh counters on every completion or cancellation, never incrementally.
type Driver struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID           string             `json:"user_id" bson:"user_id"`
	Name             string             `json:"name" bson:"name"`
	Rides            RideCounters       `json:"rides" bson:"rides"`
	HoursDriven      float64            `json:"hours_driven" bson:"hours_driven"`
	DistanceDrivenKM float64            `json:"distance_driven_km" bson:"distance_driven_km"`
	TrustScore       int                `json:"trust_score" bson:"trust_score"`
	Verification     Verification       `json:"verification" bson:"verification"`
	LastRideHostedAt *time.Time         `json:"last_ride_hosted_at" bson:"last_ride_hosted_at"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

// IsVerified reports whether every verification check has passed.
func (d *Driver) IsVerified() bool {
	v := d.Verification
	return v.EmailVerified && v.PhoneVerified && v.DrivingLicenseVerified && v.VehicleVerified
}
