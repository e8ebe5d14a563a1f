package validators

import (
	"time"

	"goride/internal/utils"
)

type LocationRequest struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
	Address   string  `json:"address" validate:"omitempty,max=255"`
}

type StopRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=100"`
	Latitude      float64 `json:"latitude" validate:"latitude"`
	Longitude     float64 `json:"longitude" validate:"longitude"`
	PickupAllowed bool    `json:"pickup_allowed"`
}

type RecurrenceRequest struct {
	Kind       string     `json:"kind" validate:"recurrence"`
	DaysOfWeek []int      `json:"days_of_week" validate:"omitempty,max=7,dive,min=0,max=6"`
	EndDate    *time.Time `json:"end_date"`
}

type PreferencesRequest struct {
	SmokingAllowed bool `json:"smoking_allowed"`
	PetsAllowed    bool `json:"pets_allowed"`
	MaxTwoInBack   bool `json:"max_two_in_back"`
}

type VehicleRequest struct {
	Make         string `json:"make" validate:"omitempty,max=50"`
	Model        string `json:"model" validate:"omitempty,max=50"`
	LicensePlate string `json:"license_plate" validate:"omitempty,max=20"`
}

type CreateRideRequest struct {
	DriverName      string             `json:"driver_name" validate:"required,min=2,max=100"`
	StartLocation   LocationRequest    `json:"start_location" validate:"required"`
	EndLocation     LocationRequest    `json:"end_location" validate:"required"`
	Stops           []StopRequest      `json:"stops" validate:"omitempty,max=10,dive"`
	Polyline        string             `json:"polyline" validate:"omitempty,max=20000"`
	DepartureTime   time.Time          `json:"departure_time" validate:"required"`
	DurationMinutes int                `json:"duration_minutes" validate:"omitempty,min=1,max=1440"`
	DistanceKM      float64            `json:"distance_km" validate:"omitempty,min=0"`
	TotalSeats      int                `json:"total_seats" validate:"required,min=1,max=8"`
	BaseFare        float64            `json:"base_fare" validate:"required,min=1"`
	Currency        string             `json:"currency" validate:"omitempty,currency_code"`
	Recurrence      *RecurrenceRequest `json:"recurrence" validate:"omitempty"`
	Preferences     PreferencesRequest `json:"preferences"`
	Vehicle         VehicleRequest     `json:"vehicle"`
}

type SearchRidesRequest struct {
	PickupLatitude  float64 `form:"pickup_lat" validate:"latitude"`
	PickupLongitude float64 `form:"pickup_lng" validate:"longitude"`
	DropLatitude    float64 `form:"drop_lat" validate:"latitude"`
	DropLongitude   float64 `form:"drop_lng" validate:"longitude"`
}

type UpdatePreferencesRequest struct {
	SmokingAllowed bool `json:"smoking_allowed"`
	PetsAllowed    bool `json:"pets_allowed"`
	MaxTwoInBack   bool `json:"max_two_in_back"`
}

type CompleteRideRequest struct {
	ActualDurationMinutes int     `json:"actual_duration_minutes" validate:"omitempty,min=1,max=1440"`
	ActualDistanceKM      float64 `json:"actual_distance_km" validate:"omitempty,min=0"`
}

func ValidateCreateRide(req *CreateRideRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.DepartureTime.Before(time.Now()) {
		errors = append(errors, ValidationError{
			Field:   "departure_time",
			Message: "Departure time must be in the future",
		})
	}

	if req.StartLocation.Latitude == req.EndLocation.Latitude &&
		req.StartLocation.Longitude == req.EndLocation.Longitude {
		errors = append(errors, ValidationError{
			Field:   "end_location",
			Message: "Start and end locations must be different",
		})
	}

	if req.Recurrence != nil && req.Recurrence.Kind != "" && req.Recurrence.Kind != utils.RecurrenceOneTime {
		if req.Recurrence.EndDate == nil {
			errors = append(errors, ValidationError{
				Field:   "recurrence.end_date",
				Message: "End date is required for recurring rides",
			})
		} else if req.Recurrence.EndDate.Before(req.DepartureTime) {
			errors = append(errors, ValidationError{
				Field:   "recurrence.end_date",
				Message: "End date must not be before the departure time",
			})
		}

		if req.Recurrence.Kind == utils.RecurrenceWeekly && len(req.Recurrence.DaysOfWeek) == 0 {
			errors = append(errors, ValidationError{
				Field:   "recurrence.days_of_week",
				Message: "Weekly recurrence requires at least one day of week",
			})
		}
	}

	return errors
}

func ValidateSearchRides(req *SearchRidesRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.PickupLatitude == req.DropLatitude && req.PickupLongitude == req.DropLongitude {
		errors = append(errors, ValidationError{
			Field:   "drop_lat",
			Message: "Pickup and drop locations must be different",
		})
	}

	return errors
}

func ValidateUpdatePreferences(req *UpdatePreferencesRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateCompleteRide(req *CompleteRideRequest) ValidationErrors {
	return ValidateStruct(req)
}
