package apperrors

import (
	"errors"
	"net/http"
)

// Domain error kinds surfaced by the ride engine. Handlers map these to
// HTTP statuses via StatusFor; services wrap them with context using
// fmt.Errorf("...: %w", err).
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("actor is not permitted to perform this action")
	ErrNoCapacity         = errors.New("no seats available")
	ErrDuplicateBooking   = errors.New("user already holds a confirmed booking on this ride")
	ErrRouteProjection    = errors.New("pickup or drop is too far from the route")
	ErrInvalidOrdering    = errors.New("pickup must come before drop along the route")
	ErrSchedulingConflict = errors.New("ride overlaps an existing active ride for this driver")
	ErrLeadTimeViolation  = errors.New("ride cannot be cancelled this close to departure")
	ErrRideNotActive      = errors.New("ride is not open for booking")
	ErrPreferencesLocked  = errors.New("preferences cannot change after a seat is booked")
	ErrHasBookings        = errors.New("ride still holds confirmed bookings")

	// ErrInvariantViolation reports a ride whose available-seat count
	// disagrees with its confirmed-booking count. It is never silently
	// auto-corrected by a client-facing call.
	ErrInvariantViolation = errors.New("seat inventory disagrees with confirmed bookings")
)

// StatusFor returns the HTTP status code for a domain error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNoCapacity),
		errors.Is(err, ErrDuplicateBooking),
		errors.Is(err, ErrRouteProjection),
		errors.Is(err, ErrInvalidOrdering),
		errors.Is(err, ErrLeadTimeViolation),
		errors.Is(err, ErrRideNotActive),
		errors.Is(err, ErrPreferencesLocked):
		return http.StatusBadRequest
	case errors.Is(err, ErrSchedulingConflict),
		errors.Is(err, ErrHasBookings):
		return http.StatusConflict
	case errors.Is(err, ErrInvariantViolation):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// CodeFor returns the machine-readable error code for a domain error.
func CodeFor(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrNoCapacity):
		return "NO_CAPACITY"
	case errors.Is(err, ErrDuplicateBooking):
		return "DUPLICATE_BOOKING"
	case errors.Is(err, ErrRouteProjection):
		return "ROUTE_PROJECTION_FAILED"
	case errors.Is(err, ErrInvalidOrdering):
		return "INVALID_ORDERING"
	case errors.Is(err, ErrSchedulingConflict):
		return "SCHEDULING_CONFLICT"
	case errors.Is(err, ErrLeadTimeViolation):
		return "LEAD_TIME_VIOLATION"
	case errors.Is(err, ErrRideNotActive):
		return "RIDE_NOT_ACTIVE"
	case errors.Is(err, ErrPreferencesLocked):
		return "PREFERENCES_LOCKED"
	case errors.Is(err, ErrHasBookings):
		return "RIDE_HAS_BOOKINGS"
	case errors.Is(err, ErrInvariantViolation):
		return "INVARIANT_VIOLATION"
	default:
		return "INTERNAL_ERROR"
	}
}
