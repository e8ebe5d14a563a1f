package services

import (
	"context"
	"fmt"
	"time"

	"goride/internal/models"
	"goride/internal/repositories/interfaces"
	"goride/internal/utils"
	"goride/pkg/logger"
)

type StatsService interface {
	// Counter mutations. Trust is recomputed from the freshly
	// incremented counters on every completion and cancellation.
	RecordRideHosted(ctx context.Context, driverUserID, driverName string, at time.Time) error
	RecordRideCompleted(ctx context.Context, ride *models.Ride, hoursDriven, distanceKM float64) error
	RecordRideCancelled(ctx context.Context, ride *models.Ride) error

	// Queries and admin operations
	GetDriverStats(ctx context.Context, driverUserID string) (*models.Driver, error)
	ResetDriverStats(ctx context.Context, driverUserID string) error
}

type statsService struct {
	driverRepo interfaces.DriverRepository
	riderRepo  interfaces.RiderRepository
	logger     *logger.Logger
}

func NewStatsService(
	driverRepo interfaces.DriverRepository,
	riderRepo interfaces.RiderRepository,
	logger *logger.Logger,
) StatsService {
	return &statsService{
		driverRepo: driverRepo,
		riderRepo:  riderRepo,
		logger:     logger,
	}
}

func (s *statsService) RecordRideHosted(ctx context.Context, driverUserID, driverName string, at time.Time) error {
	if err := s.driverRepo.EnsureExists(ctx, driverUserID, driverName); err != nil {
		return fmt.Errorf("failed to ensure driver record: %w", err)
	}

	if err := s.driverRepo.IncrementHosted(ctx, driverUserID, at); err != nil {
		return fmt.Errorf("failed to record hosted ride: %w", err)
	}

	return nil
}

func (s *statsService) RecordRideCompleted(ctx context.Context, ride *models.Ride, hoursDriven, distanceKM float64) error {
	driver, err := s.driverRepo.ApplyCompletion(ctx, ride.Driver.UserID, hoursDriven, distanceKM)
	if err != nil {
		return fmt.Errorf("failed to record ride completion: %w", err)
	}

	if err := s.recomputeTrust(ctx, driver); err != nil {
		return err
	}

	// Rider counters follow the ride-side passenger list; a miss here
	// is logged and left for reconciliation rather than failing the ride.
	for _, p := range ride.Passengers {
		if p.Status != models.BookingStatusConfirmed {
			continue
		}
		if err := s.riderRepo.IncrementCompleted(ctx, p.UserID); err != nil {
			s.logger.WithError(err).WithRideID(ride.ID).WithUserID(p.UserID).
				Warn("Failed to increment rider completed counter")
		}
	}

	return nil
}

// RecordRideCancelled charges the cancellation to the driver and to every
// passenger who still held a confirmed seat on the pre-image ride.
func (s *statsService) RecordRideCancelled(ctx context.Context, ride *models.Ride) error {
	driver, err := s.driverRepo.IncrementCancelled(ctx, ride.Driver.UserID)
	if err != nil {
		return fmt.Errorf("failed to record ride cancellation: %w", err)
	}

	if err := s.recomputeTrust(ctx, driver); err != nil {
		return err
	}

	for _, p := range ride.Passengers {
		if p.Status != models.BookingStatusConfirmed {
			continue
		}
		if err := s.riderRepo.IncrementCancelled(ctx, p.UserID); err != nil {
			s.logger.WithError(err).WithRideID(ride.ID).WithUserID(p.UserID).
				Warn("Failed to increment rider cancelled counter")
		}
	}

	return nil
}

func (s *statsService) GetDriverStats(ctx context.Context, driverUserID string) (*models.Driver, error) {
	driver, err := s.driverRepo.GetByUserID(ctx, driverUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get driver stats: %w", err)
	}

	return driver, nil
}

func (s *statsService) ResetDriverStats(ctx context.Context, driverUserID string) error {
	if err := s.driverRepo.ResetStats(ctx, driverUserID); err != nil {
		return fmt.Errorf("failed to reset driver stats: %w", err)
	}

	return nil
}

// recomputeTrust derives the score from the driver document returned by
// the counter update, so concurrent completions cannot score stale totals.
func (s *statsService) recomputeTrust(ctx context.Context, driver *models.Driver) error {
	score := utils.TrustScore(
		driver.Rides.Completed,
		driver.Rides.Cancelled,
		driver.HoursDriven,
		driver.DistanceDrivenKM,
	)

	if err := s.driverRepo.UpdateTrustScore(ctx, driver.UserID, score); err != nil {
		return fmt.Errorf("failed to update trust score: %w", err)
	}

	s.logger.WithUserID(driver.UserID).WithField("trust_score", score).Debug("Trust score recomputed")

	return nil
}
