package services

import (
	"context"
	"fmt"
	"time"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/repositories/interfaces"
	"goride/internal/utils"
	"goride/internal/validators"
	"goride/pkg/logger"
	"goride/pkg/maps"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RideService interface {
	// Publishing and lifecycle
	PublishRide(ctx context.Context, driverUserID string, req *validators.CreateRideRequest) (*models.Ride, error)
	StartRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string) (*models.Ride, error)
	CompleteRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string, req *validators.CompleteRideRequest) (*models.Ride, error)
	DeleteRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string) error

	// Queries
	GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error)
	ListDriverRides(ctx context.Context, driverUserID string, params *utils.PaginationParams) ([]*models.Ride, int64, error)
	ListRideInstances(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideInstance, error)
	ListRiderBookings(ctx context.Context, riderUserID string) (*models.Rider, error)
}

type rideService struct {
	rideRepo     interfaces.RideRepository
	instanceRepo interfaces.RideInstanceRepository
	riderRepo    interfaces.RiderRepository
	statsService StatsService
	directions   maps.DirectionsProvider
	logger       *logger.Logger
}

func NewRideService(
	rideRepo interfaces.RideRepository,
	instanceRepo interfaces.RideInstanceRepository,
	riderRepo interfaces.RiderRepository,
	statsService StatsService,
	directions maps.DirectionsProvider,
	logger *logger.Logger,
) RideService {
	return &rideService{
		rideRepo:     rideRepo,
		instanceRepo: instanceRepo,
		riderRepo:    riderRepo,
		statsService: statsService,
		directions:   directions,
		logger:       logger,
	}
}

// PublishRide materializes a driver's trip offer: it resolves the route
// geometry, precomputes the covered grid cells, rejects schedule overlaps
// with the driver's other active rides, and expands any recurrence into
// ride instances.
func (s *rideService) PublishRide(ctx context.Context, driverUserID string, req *validators.CreateRideRequest) (*models.Ride, error) {
	polyline, distanceKM, durationMinutes, err := s.resolveRoute(ctx, req)
	if err != nil {
		return nil, err
	}

	path := utils.DecodePolyline(polyline)
	if len(path) < 2 {
		return nil, fmt.Errorf("route polyline decodes to fewer than two points")
	}

	start, end := path[0], path[len(path)-1]

	ride := &models.Ride{
		Driver: models.DriverSummary{
			UserID: driverUserID,
			Name:   utils.SanitizeString(req.DriverName),
		},
		Vehicle: models.VehicleSummary{
			Brand:        req.Vehicle.Make,
			Model:        req.Vehicle.Model,
			LicensePlate: req.Vehicle.LicensePlate,
		},
		Route: models.RideRoute{
			Start:           s.buildStop(req.StartLocation.Address, start.Lat, start.Lng, true),
			End:             s.buildStop(req.EndLocation.Address, end.Lat, end.Lng, false),
			Stops:           s.buildStops(req.Stops),
			EncodedPolyline: polyline,
			GridsCovered:    utils.CoveredGrids(path, utils.DefaultGridSize),
		},
		Schedule: models.Schedule{
			DepartureTime: req.DepartureTime,
			Recurrence:    buildRecurrence(req.Recurrence),
		},
		Seats: models.Seats{
			Total:     req.TotalSeats,
			Available: req.TotalSeats,
		},
		Pricing: models.Pricing{
			BaseFare: req.BaseFare,
			Currency: req.Currency,
		},
		Preferences: models.Preferences{
			SmokingAllowed: req.Preferences.SmokingAllowed,
			PetsAllowed:    req.Preferences.PetsAllowed,
			MaxTwoInBack:   req.Preferences.MaxTwoInBack,
		},
		Passengers: []models.Passenger{},
		Status:     models.RideStatusScheduled,
		Metrics: models.Metrics{
			TotalDistanceKM: distanceKM,
			DurationMinutes: durationMinutes,
		},
	}
	if ride.Pricing.Currency == "" {
		ride.Pricing.Currency = utils.DefaultCurrency
	}

	if err := s.checkScheduleConflict(ctx, driverUserID, ride); err != nil {
		return nil, err
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to publish ride: %w", err)
	}

	if err := s.statsService.RecordRideHosted(ctx, driverUserID, ride.Driver.Name, ride.Schedule.DepartureTime); err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Warn("Failed to record hosted ride")
	}

	s.expandRecurrence(ctx, ride)

	s.logger.LogRideEvent(ride.ID, "ride_published", map[string]interface{}{
		"driver_id":     driverUserID,
		"grids_covered": len(ride.Route.GridsCovered),
		"seats":         ride.Seats.Total,
	})

	return ride, nil
}

func (s *rideService) StartRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string) (*models.Ride, error) {
	ride, err := s.getOwnedRide(ctx, rideID, driverUserID)
	if err != nil {
		return nil, err
	}

	if ride.Status != models.RideStatusScheduled {
		return nil, fmt.Errorf("ride %s is %s: %w", rideID.Hex(), ride.Status, apperrors.ErrRideNotActive)
	}

	if err := s.rideRepo.UpdateStatus(ctx, rideID, models.RideStatusOngoing); err != nil {
		return nil, fmt.Errorf("failed to start ride: %w", err)
	}

	ride.Status = models.RideStatusOngoing
	s.logger.LogRideEvent(rideID, "ride_started", nil)

	return ride, nil
}

func (s *rideService) CompleteRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string, req *validators.CompleteRideRequest) (*models.Ride, error) {
	ride, err := s.getOwnedRide(ctx, rideID, driverUserID)
	if err != nil {
		return nil, err
	}

	if !ride.IsActive() {
		return nil, fmt.Errorf("ride %s is %s: %w", rideID.Hex(), ride.Status, apperrors.ErrRideNotActive)
	}

	if err := s.rideRepo.UpdateStatus(ctx, rideID, models.RideStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to complete ride: %w", err)
	}
	ride.Status = models.RideStatusCompleted

	durationMinutes := ride.Metrics.DurationMinutes
	if req != nil && req.ActualDurationMinutes > 0 {
		durationMinutes = req.ActualDurationMinutes
	}
	distanceKM := ride.Metrics.TotalDistanceKM
	if req != nil && req.ActualDistanceKM > 0 {
		distanceKM = req.ActualDistanceKM
	}

	hours := float64(durationMinutes) / 60.0
	if err := s.statsService.RecordRideCompleted(ctx, ride, hours, distanceKM); err != nil {
		s.logger.WithError(err).WithRideID(rideID).Warn("Failed to record ride completion stats")
	}

	s.logger.LogRideEvent(rideID, "ride_completed", map[string]interface{}{
		"duration_minutes": durationMinutes,
		"distance_km":      distanceKM,
	})

	return ride, nil
}

func (s *rideService) DeleteRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string) error {
	ride, err := s.getOwnedRide(ctx, rideID, driverUserID)
	if err != nil {
		return err
	}

	if ride.ConfirmedCount() > 0 {
		return fmt.Errorf("ride %s: %w", rideID.Hex(), apperrors.ErrHasBookings)
	}

	if err := s.rideRepo.Delete(ctx, rideID); err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}

	if err := s.instanceRepo.DeleteByRide(ctx, rideID); err != nil {
		s.logger.WithError(err).WithRideID(rideID).Warn("Failed to delete ride instances")
	}

	s.logger.LogRideEvent(rideID, "ride_deleted", nil)

	return nil
}

func (s *rideService) GetRide(ctx context.Context, rideID primitive.ObjectID) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	return ride, nil
}

func (s *rideService) ListDriverRides(ctx context.Context, driverUserID string, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	return s.rideRepo.GetByDriver(ctx, driverUserID, params)
}

func (s *rideService) ListRideInstances(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideInstance, error) {
	if _, err := s.rideRepo.GetByID(ctx, rideID); err != nil {
		return nil, err
	}

	return s.instanceRepo.ListByRide(ctx, rideID)
}

func (s *rideService) ListRiderBookings(ctx context.Context, riderUserID string) (*models.Rider, error) {
	rider, err := s.riderRepo.GetByUserID(ctx, riderUserID)
	if err != nil {
		return nil, err
	}

	return rider, nil
}

// resolveRoute picks the trip geometry: the caller's polyline wins, then a
// directions lookup when a provider is configured, then a straight-line
// fallback through the declared stops.
func (s *rideService) resolveRoute(ctx context.Context, req *validators.CreateRideRequest) (polyline string, distanceKM float64, durationMinutes int, err error) {
	if req.Polyline != "" {
		distanceKM = req.DistanceKM
		if distanceKM <= 0 {
			distanceKM = utils.RouteDistanceKM(utils.DecodePolyline(req.Polyline))
		}
		return req.Polyline, distanceKM, req.DurationMinutes, nil
	}

	if s.directions != nil {
		result, dirErr := s.directions.GetRoute(ctx,
			maps.Location{Latitude: req.StartLocation.Latitude, Longitude: req.StartLocation.Longitude},
			maps.Location{Latitude: req.EndLocation.Latitude, Longitude: req.EndLocation.Longitude},
		)
		if dirErr == nil {
			return result.EncodedPolyline, result.DistanceKM, result.DurationMinutes, nil
		}
		s.logger.WithError(dirErr).Warn("Directions lookup failed, falling back to straight-line route")
	}

	points := make([]utils.Point, 0, len(req.Stops)+2)
	points = append(points, utils.Point{Lat: req.StartLocation.Latitude, Lng: req.StartLocation.Longitude})
	for _, stop := range req.Stops {
		points = append(points, utils.Point{Lat: stop.Latitude, Lng: stop.Longitude})
	}
	points = append(points, utils.Point{Lat: req.EndLocation.Latitude, Lng: req.EndLocation.Longitude})

	distanceKM = req.DistanceKM
	if distanceKM <= 0 {
		distanceKM = utils.RouteDistanceKM(points)
	}

	return utils.EncodePolyline(points), distanceKM, req.DurationMinutes, nil
}

func (s *rideService) checkScheduleConflict(ctx context.Context, driverUserID string, ride *models.Ride) error {
	active, err := s.rideRepo.GetActiveByDriver(ctx, driverUserID)
	if err != nil {
		return fmt.Errorf("failed to check schedule conflicts: %w", err)
	}

	newStart, newEnd := ride.DepartureWindow()
	for _, other := range active {
		otherStart, otherEnd := other.DepartureWindow()
		if utils.Overlaps(newStart, newEnd, otherStart, otherEnd) {
			return fmt.Errorf("ride overlaps %s: %w", other.ID.Hex(), apperrors.ErrSchedulingConflict)
		}
	}

	return nil
}

// expandRecurrence materializes one instance per occurrence. Instance
// creation is best-effort; the parent ride is already committed.
func (s *rideService) expandRecurrence(ctx context.Context, ride *models.Ride) {
	rec := ride.Schedule.Recurrence
	if rec.Kind == "" || rec.Kind == models.RecurrenceOneTime || rec.EndDate == nil {
		return
	}

	days := make([]time.Weekday, 0, len(rec.DaysOfWeek))
	for _, d := range rec.DaysOfWeek {
		days = append(days, time.Weekday(d))
	}

	occurrences := utils.ExpandSchedule(ride.Schedule.DepartureTime, string(rec.Kind), days, *rec.EndDate)
	if len(occurrences) == 0 {
		return
	}

	instances := make([]*models.RideInstance, 0, len(occurrences))
	for _, at := range occurrences {
		instances = append(instances, &models.RideInstance{
			ParentRideID: ride.ID,
			RideDate:     at,
			Status:       models.InstanceStatusScheduled,
		})
	}

	if err := s.instanceRepo.CreateMany(ctx, instances); err != nil {
		s.logger.WithError(err).WithRideID(ride.ID).Warn("Failed to create ride instances")
		return
	}

	s.logger.WithRideID(ride.ID).WithField("instances", len(instances)).Info("Recurring ride expanded")
}

func (s *rideService) getOwnedRide(ctx context.Context, rideID primitive.ObjectID, driverUserID string) (*models.Ride, error) {
	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Driver.UserID != driverUserID {
		return nil, fmt.Errorf("ride %s belongs to another driver: %w", rideID.Hex(), apperrors.ErrUnauthorized)
	}

	return ride, nil
}

func (s *rideService) buildStop(name string, lat, lng float64, pickupAllowed bool) models.Stop {
	return models.Stop{
		Name:          name,
		Location:      models.NewGeoPoint(lat, lng),
		Grid:          utils.GridCell(lat, lng, utils.DefaultGridSize),
		PickupAllowed: pickupAllowed,
	}
}

func (s *rideService) buildStops(reqs []validators.StopRequest) []models.Stop {
	stops := make([]models.Stop, 0, len(reqs))
	for _, r := range reqs {
		stops = append(stops, models.Stop{
			Name:          utils.SanitizeString(r.Name),
			Location:      models.NewGeoPoint(r.Latitude, r.Longitude),
			Grid:          utils.GridCell(r.Latitude, r.Longitude, utils.DefaultGridSize),
			PickupAllowed: r.PickupAllowed,
		})
	}
	return stops
}

func buildRecurrence(req *validators.RecurrenceRequest) models.Recurrence {
	if req == nil || req.Kind == "" {
		return models.Recurrence{Kind: models.RecurrenceOneTime}
	}

	return models.Recurrence{
		Kind:       models.RecurrenceKind(req.Kind),
		DaysOfWeek: req.DaysOfWeek,
		EndDate:    req.EndDate,
	}
}
