package services

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/utils"
	"goride/internal/validators"
)

type rideFixture struct {
	rideRepo     *fakeRideRepo
	riderRepo    *fakeRiderRepo
	driverRepo   *fakeDriverRepo
	instanceRepo *fakeInstanceRepo
	ride         RideService
	stats        StatsService
}

func newRideFixture(t *testing.T) *rideFixture {
	t.Helper()

	rideRepo := newFakeRideRepo()
	riderRepo := newFakeRiderRepo()
	driverRepo := newFakeDriverRepo()
	instanceRepo := newFakeInstanceRepo()
	log := testLogger()

	stats := NewStatsService(driverRepo, riderRepo, log)
	ride := NewRideService(rideRepo, instanceRepo, riderRepo, stats, nil, log)

	return &rideFixture{
		rideRepo:     rideRepo,
		riderRepo:    riderRepo,
		driverRepo:   driverRepo,
		instanceRepo: instanceRepo,
		ride:         ride,
		stats:        stats,
	}
}

func createReq(departure time.Time) *validators.CreateRideRequest {
	return &validators.CreateRideRequest{
		DriverName:      "Asha",
		StartLocation:   validators.LocationRequest{Latitude: 0, Longitude: 0, Address: "Origin"},
		EndLocation:     validators.LocationRequest{Latitude: 0, Longitude: 3, Address: "Destination"},
		DepartureTime:   departure,
		DurationMinutes: 180,
		TotalSeats:      3,
		BaseFare:        300,
	}
}

func TestPublishRide(t *testing.T) {
	fx := newRideFixture(t)
	ctx := context.Background()

	path := []utils.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: 2},
		{Lat: 0, Lng: 3},
	}
	req := createReq(time.Now().Add(24 * time.Hour))
	req.Polyline = utils.EncodePolyline(path)
	req.DistanceKM = utils.RouteDistanceKM(path)

	ride, err := fx.ride.PublishRide(ctx, "driver-1", req)
	if err != nil {
		t.Fatalf("PublishRide() error: %v", err)
	}

	if ride.Status != models.RideStatusScheduled {
		t.Errorf("Status = %v, want scheduled", ride.Status)
	}
	if ride.Seats.Available != req.TotalSeats {
		t.Errorf("Seats.Available = %d, want %d", ride.Seats.Available, req.TotalSeats)
	}
	if ride.Pricing.Currency != utils.DefaultCurrency {
		t.Errorf("Currency = %q, want default %q", ride.Pricing.Currency, utils.DefaultCurrency)
	}
	want := utils.CoveredGrids(path, utils.DefaultGridSize)
	if len(ride.Route.GridsCovered) != len(want) {
		t.Errorf("GridsCovered = %v, want %v", ride.Route.GridsCovered, want)
	}

	driver, err := fx.driverRepo.GetByUserID(ctx, "driver-1")
	if err != nil {
		t.Fatalf("driver record missing: %v", err)
	}
	if driver.Rides.Hosted != 1 {
		t.Errorf("Rides.Hosted = %d, want 1", driver.Rides.Hosted)
	}

	// One-time rides expand to no instances.
	instances, _ := fx.instanceRepo.ListByRide(ctx, ride.ID)
	if len(instances) != 0 {
		t.Errorf("got %d instances, want 0", len(instances))
	}
}

func TestPublishRideStraightLineFallback(t *testing.T) {
	fx := newRideFixture(t)

	// No polyline and no directions provider: the route is the straight
	// line through start, stops, and end.
	req := createReq(time.Now().Add(24 * time.Hour))
	req.Stops = []validators.StopRequest{
		{Name: "Midpoint", Latitude: 0, Longitude: 1.5, PickupAllowed: true},
	}

	ride, err := fx.ride.PublishRide(context.Background(), "driver-1", req)
	if err != nil {
		t.Fatalf("PublishRide() error: %v", err)
	}

	path := utils.DecodePolyline(ride.Route.EncodedPolyline)
	if len(path) != 3 {
		t.Fatalf("decoded %d points, want 3", len(path))
	}
	if math.Abs(path[1].Lng-1.5) > 1e-5 {
		t.Errorf("stop longitude = %v, want 1.5", path[1].Lng)
	}
	if ride.Metrics.TotalDistanceKM <= 0 {
		t.Errorf("TotalDistanceKM = %v, want > 0", ride.Metrics.TotalDistanceKM)
	}
	if len(ride.Route.Stops) != 1 || ride.Route.Stops[0].Grid == "" {
		t.Errorf("stops = %+v, want one stop with a grid cell", ride.Route.Stops)
	}
}

func TestPublishRideScheduleConflict(t *testing.T) {
	fx := newRideFixture(t)
	ctx := context.Background()

	departure := time.Now().Add(24 * time.Hour)
	if _, err := fx.ride.PublishRide(ctx, "driver-1", createReq(departure)); err != nil {
		t.Fatalf("first PublishRide() error: %v", err)
	}

	// Second ride departs mid-trip of the first.
	_, err := fx.ride.PublishRide(ctx, "driver-1", createReq(departure.Add(time.Hour)))
	if !errors.Is(err, apperrors.ErrSchedulingConflict) {
		t.Errorf("overlapping PublishRide() = %v, want ErrSchedulingConflict", err)
	}

	// Another driver can hold the same slot.
	if _, err := fx.ride.PublishRide(ctx, "driver-2", createReq(departure)); err != nil {
		t.Errorf("PublishRide() for second driver error: %v", err)
	}

	// Outside the first ride's window.
	if _, err := fx.ride.PublishRide(ctx, "driver-1", createReq(departure.Add(4*time.Hour))); err != nil {
		t.Errorf("non-overlapping PublishRide() error: %v", err)
	}
}

func TestPublishRideRecurrenceExpansion(t *testing.T) {
	fx := newRideFixture(t)
	ctx := context.Background()

	departure := time.Now().Add(24 * time.Hour)
	end := departure.Add(4 * 24 * time.Hour)
	req := createReq(departure)
	req.Recurrence = &validators.RecurrenceRequest{Kind: utils.RecurrenceDaily, EndDate: &end}

	ride, err := fx.ride.PublishRide(ctx, "driver-1", req)
	if err != nil {
		t.Fatalf("PublishRide() error: %v", err)
	}

	instances, err := fx.ride.ListRideInstances(ctx, ride.ID)
	if err != nil {
		t.Fatalf("ListRideInstances() error: %v", err)
	}
	if len(instances) != 5 {
		t.Fatalf("got %d instances, want 5", len(instances))
	}
	for _, instance := range instances {
		if instance.Status != models.InstanceStatusScheduled {
			t.Errorf("instance status = %v, want scheduled", instance.Status)
		}
		if instance.ParentRideID != ride.ID {
			t.Errorf("instance parent = %s, want %s", instance.ParentRideID.Hex(), ride.ID.Hex())
		}
	}
}

func TestStartAndCompleteRide(t *testing.T) {
	fx := newRideFixture(t)
	ctx := context.Background()

	published, err := fx.ride.PublishRide(ctx, "driver-1", createReq(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("PublishRide() error: %v", err)
	}

	if _, err := fx.ride.StartRide(ctx, published.ID, "driver-2"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("StartRide() by stranger = %v, want ErrUnauthorized", err)
	}

	started, err := fx.ride.StartRide(ctx, published.ID, "driver-1")
	if err != nil {
		t.Fatalf("StartRide() error: %v", err)
	}
	if started.Status != models.RideStatusOngoing {
		t.Errorf("Status = %v, want ongoing", started.Status)
	}

	// Only scheduled rides can be started.
	if _, err := fx.ride.StartRide(ctx, published.ID, "driver-1"); !errors.Is(err, apperrors.ErrRideNotActive) {
		t.Errorf("second StartRide() = %v, want ErrRideNotActive", err)
	}

	completed, err := fx.ride.CompleteRide(ctx, published.ID, "driver-1", nil)
	if err != nil {
		t.Fatalf("CompleteRide() error: %v", err)
	}
	if completed.Status != models.RideStatusCompleted {
		t.Errorf("Status = %v, want completed", completed.Status)
	}

	driver, err := fx.stats.GetDriverStats(ctx, "driver-1")
	if err != nil {
		t.Fatalf("GetDriverStats() error: %v", err)
	}
	if driver.Rides.Completed != 1 {
		t.Errorf("Rides.Completed = %d, want 1", driver.Rides.Completed)
	}
	// 180 planned minutes become 3 driven hours.
	if math.Abs(driver.HoursDriven-3) > 1e-9 {
		t.Errorf("HoursDriven = %v, want 3", driver.HoursDriven)
	}
	// One completion, no cancellations, negligible volume bonuses.
	if driver.TrustScore < 50 || driver.TrustScore > 52 {
		t.Errorf("TrustScore = %d, want ~50", driver.TrustScore)
	}

	if _, err := fx.ride.CompleteRide(ctx, published.ID, "driver-1", nil); !errors.Is(err, apperrors.ErrRideNotActive) {
		t.Errorf("second CompleteRide() = %v, want ErrRideNotActive", err)
	}
}

func TestCompleteRideWithActuals(t *testing.T) {
	fx := newRideFixture(t)
	ctx := context.Background()

	published, err := fx.ride.PublishRide(ctx, "driver-1", createReq(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("PublishRide() error: %v", err)
	}

	req := &validators.CompleteRideRequest{ActualDurationMinutes: 240, ActualDistanceKM: 350}
	if _, err := fx.ride.CompleteRide(ctx, published.ID, "driver-1", req); err != nil {
		t.Fatalf("CompleteRide() error: %v", err)
	}

	driver, _ := fx.driverRepo.GetByUserID(ctx, "driver-1")
	if math.Abs(driver.HoursDriven-4) > 1e-9 {
		t.Errorf("HoursDriven = %v, want 4", driver.HoursDriven)
	}
	if math.Abs(driver.DistanceDrivenKM-350) > 1e-9 {
		t.Errorf("DistanceDrivenKM = %v, want 350", driver.DistanceDrivenKM)
	}
}

func TestDeleteRide(t *testing.T) {
	fx := newRideFixture(t)
	ctx := context.Background()

	published, err := fx.ride.PublishRide(ctx, "driver-1", createReq(time.Now().Add(24*time.Hour)))
	if err != nil {
		t.Fatalf("PublishRide() error: %v", err)
	}

	if err := fx.ride.DeleteRide(ctx, published.ID, "driver-2"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Errorf("DeleteRide() by stranger = %v, want ErrUnauthorized", err)
	}

	passenger := &models.Passenger{
		BookingID: "booking-1",
		UserID:    "rider-1",
		Status:    models.BookingStatusConfirmed,
		BookedAt:  time.Now(),
	}
	if err := fx.rideRepo.ReserveSeat(ctx, published.ID, passenger); err != nil {
		t.Fatalf("reserve seat: %v", err)
	}

	if err := fx.ride.DeleteRide(ctx, published.ID, "driver-1"); !errors.Is(err, apperrors.ErrHasBookings) {
		t.Errorf("DeleteRide() with booking = %v, want ErrHasBookings", err)
	}

	if _, err := fx.rideRepo.ReleaseSeat(ctx, published.ID, "rider-1"); err != nil {
		t.Fatalf("release seat: %v", err)
	}

	if err := fx.ride.DeleteRide(ctx, published.ID, "driver-1"); err != nil {
		t.Fatalf("DeleteRide() error: %v", err)
	}
	if _, err := fx.ride.GetRide(ctx, published.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetRide() after delete = %v, want ErrNotFound", err)
	}
}
