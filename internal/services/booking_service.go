package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/repositories/interfaces"
	"goride/internal/utils"
	"goride/internal/validators"
	"goride/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingService interface {
	// Seat reservations
	BookRide(ctx context.Context, rideID primitive.ObjectID, riderUserID string, req *validators.BookRideRequest) (*models.Passenger, error)
	CancelBooking(ctx context.Context, rideID primitive.ObjectID, riderUserID string) (*models.Passenger, error)
	RemovePassenger(ctx context.Context, rideID primitive.ObjectID, driverUserID, passengerUserID string) (*models.Passenger, error)

	// Whole-ride operations
	CancelRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string) (*models.Ride, error)
	UpdatePreferences(ctx context.Context, rideID primitive.ObjectID, driverUserID string, req *validators.UpdatePreferencesRequest) error

	// Diagnostics and repair
	VerifyInventory(ctx context.Context, rideID primitive.ObjectID) error
	ReconcileRiderBookings(ctx context.Context, riderUserID string) ([]models.BookingRecord, error)
}

type bookingService struct {
	rideRepo      interfaces.RideRepository
	riderRepo     interfaces.RiderRepository
	instanceRepo  interfaces.RideInstanceRepository
	searchService SearchService
	statsService  StatsService
	logger        *logger.Logger
}

func NewBookingService(
	rideRepo interfaces.RideRepository,
	riderRepo interfaces.RiderRepository,
	instanceRepo interfaces.RideInstanceRepository,
	searchService SearchService,
	statsService StatsService,
	logger *logger.Logger,
) BookingService {
	return &bookingService{
		rideRepo:      rideRepo,
		riderRepo:     riderRepo,
		instanceRepo:  instanceRepo,
		searchService: searchService,
		statsService:  statsService,
		logger:        logger,
	}
}

// BookRide reserves one seat. The reservation itself is a single
// conditional write on the ride document; when it fails, the ride is
// re-read once to report which precondition broke. The rider-side
// booking mirror is written after the seat is held and never rolls the
// reservation back.
func (s *bookingService) BookRide(ctx context.Context, rideID primitive.ObjectID, riderUserID string, req *validators.BookRideRequest) (*models.Passenger, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	pickup := utils.Point{Lat: req.PickupLatitude, Lng: req.PickupLongitude}
	drop := utils.Point{Lat: req.DropLatitude, Lng: req.DropLongitude}

	quote, err := s.searchService.EstimateFare(ctx, ride, pickup, drop)
	if err != nil {
		return nil, err
	}

	passenger := &models.Passenger{
		BookingID:  uuid.New().String(),
		UserID:     riderUserID,
		Name:       utils.SanitizeString(req.PassengerName),
		PickupGrid: utils.GridCell(pickup.Lat, pickup.Lng, utils.FineGridSize),
		DropGrid:   utils.GridCell(drop.Lat, drop.Lng, utils.FineGridSize),
		FarePaid:   quote.Fare,
		Status:     models.BookingStatusConfirmed,
		BookedAt:   time.Now(),
	}

	if err := s.rideRepo.ReserveSeat(ctx, rideID, passenger); err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return nil, s.classifyReserveFailure(ctx, rideID, riderUserID)
		}
		return nil, fmt.Errorf("failed to reserve seat: %w", err)
	}

	s.mirrorBooking(ctx, rideID, riderUserID, passenger)

	s.logger.LogBookingEvent(rideID, riderUserID, "seat_booked", passenger.FarePaid)

	return passenger, nil
}

// CancelBooking releases the rider's own confirmed seat. A self-cancel
// does not touch the rider's cancellation counter; that counter tracks
// driver-initiated cancellations only.
func (s *bookingService) CancelBooking(ctx context.Context, rideID primitive.ObjectID, riderUserID string) (*models.Passenger, error) {
	released, err := s.releaseSeat(ctx, rideID, riderUserID)
	if err != nil {
		return nil, err
	}

	s.logger.LogBookingEvent(rideID, riderUserID, "booking_cancelled", released.FarePaid)

	return released, nil
}

// RemovePassenger lets the ride's driver release a passenger's seat.
func (s *bookingService) RemovePassenger(ctx context.Context, rideID primitive.ObjectID, driverUserID, passengerUserID string) (*models.Passenger, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Driver.UserID != driverUserID {
		return nil, fmt.Errorf("ride %s belongs to another driver: %w", rideID.Hex(), apperrors.ErrUnauthorized)
	}

	released, err := s.releaseSeat(ctx, rideID, passengerUserID)
	if err != nil {
		return nil, err
	}

	if err := s.riderRepo.IncrementCancelled(ctx, passengerUserID); err != nil {
		s.logger.WithError(err).WithUserID(passengerUserID).Warn("Failed to increment rider cancelled counter")
	}

	s.logger.LogBookingEvent(rideID, passengerUserID, "passenger_removed", released.FarePaid)

	return released, nil
}

// CancelRide cancels the whole ride and every confirmed booking on it.
// Drivers must cancel at least CancellationLeadTime before departure.
func (s *bookingService) CancelRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Driver.UserID != driverUserID {
		return nil, fmt.Errorf("ride %s belongs to another driver: %w", rideID.Hex(), apperrors.ErrUnauthorized)
	}

	if time.Until(ride.Schedule.DepartureTime) < utils.CancellationLeadTime {
		return nil, fmt.Errorf("ride %s departs at %s: %w",
			rideID.Hex(), ride.Schedule.DepartureTime.Format(time.RFC3339), apperrors.ErrLeadTimeViolation)
	}

	before, err := s.rideRepo.CancelWithPassengers(ctx, rideID)
	if err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return nil, fmt.Errorf("ride %s is not active: %w", rideID.Hex(), apperrors.ErrRideNotActive)
		}
		return nil, fmt.Errorf("failed to cancel ride: %w", err)
	}

	affected := make([]string, 0, len(before.Passengers))
	for _, p := range before.Passengers {
		if p.Status == models.BookingStatusConfirmed {
			affected = append(affected, p.UserID)
		}
	}
	if err := s.riderRepo.CancelBookingsForRide(ctx, affected, rideID); err != nil {
		s.logger.WithError(err).WithRideID(rideID).Warn("Failed to mirror ride cancellation to riders")
	}

	if err := s.instanceRepo.CancelByRide(ctx, rideID); err != nil {
		s.logger.WithError(err).WithRideID(rideID).Warn("Failed to cancel ride instances")
	}

	if err := s.statsService.RecordRideCancelled(ctx, before); err != nil {
		s.logger.WithError(err).WithRideID(rideID).Warn("Failed to record ride cancellation stats")
	}

	s.logger.LogRideEvent(rideID, "ride_cancelled", map[string]interface{}{
		"affected_passengers": len(affected),
	})

	before.Status = models.RideStatusCancelled
	for i := range before.Passengers {
		if before.Passengers[i].Status == models.BookingStatusConfirmed {
			before.Passengers[i].Status = models.BookingStatusCancelled
		}
	}

	return before, nil
}

// UpdatePreferences changes ride preferences, which freeze as soon as the
// first seat is confirmed.
func (s *bookingService) UpdatePreferences(ctx context.Context, rideID primitive.ObjectID, driverUserID string, req *validators.UpdatePreferencesRequest) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if ride.Driver.UserID != driverUserID {
		return fmt.Errorf("ride %s belongs to another driver: %w", rideID.Hex(), apperrors.ErrUnauthorized)
	}

	prefs := models.Preferences{
		SmokingAllowed: req.SmokingAllowed,
		PetsAllowed:    req.PetsAllowed,
		MaxTwoInBack:   req.MaxTwoInBack,
	}

	if err := s.rideRepo.UpdatePreferences(ctx, rideID, prefs); err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return fmt.Errorf("ride %s: %w", rideID.Hex(), apperrors.ErrPreferencesLocked)
		}
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	return nil
}

// VerifyInventory cross-checks a ride's seat counter against its
// confirmed bookings. Disagreement is reported, never auto-corrected.
func (s *bookingService) VerifyInventory(ctx context.Context, rideID primitive.ObjectID) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}

	expected := ride.Seats.Total - ride.ConfirmedCount()
	if ride.Seats.Available != expected {
		return fmt.Errorf("ride %s: available=%d confirmed=%d total=%d: %w",
			rideID.Hex(), ride.Seats.Available, ride.ConfirmedCount(), ride.Seats.Total,
			apperrors.ErrInvariantViolation)
	}

	return nil
}

// ReconcileRiderBookings rebuilds the rider's booking mirror from the
// authoritative ride-side passenger entries, repairing any mirror writes
// lost at booking or cancellation time.
func (s *bookingService) ReconcileRiderBookings(ctx context.Context, riderUserID string) ([]models.BookingRecord, error) {
	rides, err := s.rideRepo.GetByPassenger(ctx, riderUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load rides for reconciliation: %w", err)
	}

	bookings := make([]models.BookingRecord, 0)
	for _, ride := range rides {
		for _, p := range ride.Passengers {
			if p.UserID != riderUserID {
				continue
			}
			bookings = append(bookings, models.BookingRecord{
				RideID:     ride.ID,
				BookingID:  p.BookingID,
				PickupGrid: p.PickupGrid,
				DropGrid:   p.DropGrid,
				FarePaid:   p.FarePaid,
				Status:     p.Status,
				BookedAt:   p.BookedAt,
			})
		}
	}

	if err := s.riderRepo.RebuildBookings(ctx, riderUserID, bookings); err != nil {
		return nil, fmt.Errorf("failed to rebuild rider bookings: %w", err)
	}

	s.logger.WithUserID(riderUserID).WithField("bookings", len(bookings)).Info("Rider booking mirror rebuilt")

	return bookings, nil
}

// classifyReserveFailure re-reads the ride once to turn a failed seat
// reservation into the precondition that broke. The re-read races other
// writers, so the reported reason is best-effort.
func (s *bookingService) classifyReserveFailure(ctx context.Context, rideID primitive.ObjectID, riderUserID string) error {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return err
	}

	switch {
	case !ride.IsActive():
		return fmt.Errorf("ride %s is %s: %w", rideID.Hex(), ride.Status, apperrors.ErrRideNotActive)
	case ride.ConfirmedPassenger(riderUserID) != nil:
		return fmt.Errorf("user %s on ride %s: %w", riderUserID, rideID.Hex(), apperrors.ErrDuplicateBooking)
	case ride.Seats.Available <= 0:
		return fmt.Errorf("ride %s: %w", rideID.Hex(), apperrors.ErrNoCapacity)
	default:
		return fmt.Errorf("ride %s: %w", rideID.Hex(), apperrors.ErrNoCapacity)
	}
}

func (s *bookingService) releaseSeat(ctx context.Context, rideID primitive.ObjectID, userID string) (*models.Passenger, error) {
	released, err := s.rideRepo.ReleaseSeat(ctx, rideID, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrConditionFailed) {
			return nil, fmt.Errorf("no confirmed booking for user %s on ride %s: %w",
				userID, rideID.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to release seat: %w", err)
	}

	s.mirrorCancellation(ctx, rideID, userID, released.BookingID)

	return released, nil
}

// Booking mirror writes. The ride-side entry is authoritative; mirror
// failures are logged for offline reconciliation via RebuildBookings.
func (s *bookingService) mirrorBooking(ctx context.Context, rideID primitive.ObjectID, riderUserID string, p *models.Passenger) {
	record := &models.BookingRecord{
		RideID:     rideID,
		BookingID:  p.BookingID,
		PickupGrid: p.PickupGrid,
		DropGrid:   p.DropGrid,
		FarePaid:   p.FarePaid,
		Status:     p.Status,
		BookedAt:   p.BookedAt,
	}

	if err := s.riderRepo.AddBooking(ctx, riderUserID, p.Name, record); err != nil {
		s.logger.WithError(err).WithRideID(rideID).WithUserID(riderUserID).WithBookingID(p.BookingID).
			Error("Failed to mirror booking to rider record")
	}
}

func (s *bookingService) mirrorCancellation(ctx context.Context, rideID primitive.ObjectID, riderUserID, bookingID string) {
	err := s.riderRepo.UpdateBookingStatus(ctx, riderUserID, rideID, bookingID, models.BookingStatusCancelled)
	if err != nil {
		s.logger.WithError(err).WithRideID(rideID).WithUserID(riderUserID).WithBookingID(bookingID).
			Error("Failed to mirror booking cancellation to rider record")
	}
}
