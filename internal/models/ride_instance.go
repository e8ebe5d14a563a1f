package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InstanceStatus string

const (
	InstanceStatusScheduled InstanceStatus = "scheduled"
	InstanceStatusCompleted InstanceStatus = "completed"
	InstanceStatusCancelled InstanceStatus = "cancelled"
)

// RideInstance is one materialized occurrence of a recurring ride template,
// produced by schedule expansion at publish time.
type RideInstance struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ParentRideID primitive.ObjectID `json:"parent_ride_id" bson:"parent_ride_id"`
	RideDate     time.Time          `json:"ride_date" bson:"ride_date"`
	Status       InstanceStatus     `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
