package utils

import "time"

// Application Constants
const (
	AppName    = "GoRide"
	AppVersion = "1.0.0"

	// Default values
	DefaultLanguage = "en"
	DefaultCurrency = "INR"
	DefaultTimeZone = "UTC"

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100
	MinPageSize     = 1

	// Grid index
	DefaultGridSize = 0.05 // degrees, ~5km cells
	FineGridSize    = 0.02 // degrees, finer buffering where needed

	// Ride Constants
	MaxSeatsPerRide       = 8
	MaxRideDistanceKM     = 1000.0
	MinRideDistanceKM     = 0.1
	CancellationLeadTime  = 6 * time.Hour
	MaxRecurrenceHorizon  = 365 // days a recurrence end date may extend
	DefaultRideCacheTTL   = 15 * time.Minute
	DefaultSearchCacheTTL = 30 * time.Second

	// Fare Constants
	MinBaseFare = 1.0
	MaxBaseFare = 100000.0

	// Trust score weights
	TrustCompletionWeight = 50.0
	TrustHoursDivisor     = 10.0
	TrustHoursCap         = 20.0
	TrustDistanceDivisor  = 500.0
	TrustDistanceCap      = 20.0
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidInput     = "invalid input"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrForbidden        = "forbidden"
	ErrValidationFailed = "validation failed"
	ErrRideNotFound     = "ride not found"
	ErrDriverNotFound   = "driver not found"
	ErrRiderNotFound    = "rider not found"
	ErrBookingNotFound  = "booking not found or already cancelled"
)

// Cache Keys
const (
	CacheRidePrefix   = "ride:"
	CacheSearchPrefix = "search:"
	CacheDriverPrefix = "driver:"
)

// User Types
const (
	UserTypeDriver    = "driver"
	UserTypePassenger = "passenger"
)

// Geographic Constants
const (
	EarthRadiusKM = 6371.0
)
