package interfaces

import (
	"context"

	"goride/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RiderRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Rider, error)

	// Booking mirror. The ride-side passenger entry is authoritative;
	// these writes project it onto the rider's own record and may be
	// retried or rebuilt without touching seat inventory.
	AddBooking(ctx context.Context, userID, name string, booking *models.BookingRecord) error
	UpdateBookingStatus(ctx context.Context, userID string, rideID primitive.ObjectID, bookingID string, status models.BookingStatus) error
	CancelBookingsForRide(ctx context.Context, userIDs []string, rideID primitive.ObjectID) error
	RebuildBookings(ctx context.Context, userID string, bookings []models.BookingRecord) error

	// Counters
	IncrementCompleted(ctx context.Context, userID string) error
	IncrementCancelled(ctx context.Context, userID string) error
}
