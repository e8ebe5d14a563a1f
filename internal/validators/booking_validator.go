package validators

type BookRideRequest struct {
	PassengerName   string  `json:"passenger_name" validate:"required,min=2,max=100"`
	PickupLatitude  float64 `json:"pickup_lat" validate:"latitude"`
	PickupLongitude float64 `json:"pickup_lng" validate:"longitude"`
	DropLatitude    float64 `json:"drop_lat" validate:"latitude"`
	DropLongitude   float64 `json:"drop_lng" validate:"longitude"`
}

type RemovePassengerRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

type CancelRideRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=255"`
}

func ValidateBookRide(req *BookRideRequest) ValidationErrors {
	errors := ValidateStruct(req)

	if req.PickupLatitude == req.DropLatitude && req.PickupLongitude == req.DropLongitude {
		errors = append(errors, ValidationError{
			Field:   "drop_lat",
			Message: "Pickup and drop locations must be different",
		})
	}

	return errors
}

func ValidateRemovePassenger(req *RemovePassengerRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateCancelRide(req *CancelRideRequest) ValidationErrors {
	return ValidateStruct(req)
}
