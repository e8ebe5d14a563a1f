package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/utils"
	"goride/internal/validators"
)

func seedRide(t *testing.T, repo *fakeRideRepo, path []utils.Point, seats int) *models.Ride {
	t.Helper()

	ride := &models.Ride{
		Driver: models.DriverSummary{UserID: "driver-1", Name: "Asha"},
		Route: models.RideRoute{
			EncodedPolyline: utils.EncodePolyline(path),
			GridsCovered:    utils.CoveredGrids(path, utils.DefaultGridSize),
		},
		Schedule: models.Schedule{DepartureTime: time.Now().Add(24 * time.Hour)},
		Seats:    models.Seats{Total: seats, Available: seats},
		Pricing:  models.Pricing{BaseFare: 300, Currency: "INR"},
		Status:   models.RideStatusScheduled,
		Metrics:  models.Metrics{TotalDistanceKM: utils.RouteDistanceKM(path)},
	}
	if err := repo.Create(context.Background(), ride); err != nil {
		t.Fatalf("create ride: %v", err)
	}
	return ride
}

func searchReq(pickupLat, pickupLng, dropLat, dropLng float64) *validators.SearchRidesRequest {
	return &validators.SearchRidesRequest{
		PickupLatitude:  pickupLat,
		PickupLongitude: pickupLng,
		DropLatitude:    dropLat,
		DropLongitude:   dropLng,
	}
}

func TestSearchRides(t *testing.T) {
	repo := newFakeRideRepo()
	svc := NewSearchService(repo, fakeCache{}, testLogger())

	eastbound := []utils.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: 2},
		{Lat: 0, Lng: 3},
	}
	ride := seedRide(t, repo, eastbound, 3)

	results, err := svc.SearchRides(context.Background(), searchReq(0, 1, 0, 2))
	if err != nil {
		t.Fatalf("SearchRides() error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}

	r := results[0]
	if r.Ride.ID != ride.ID {
		t.Errorf("matched ride %s, want %s", r.Ride.ID.Hex(), ride.ID.Hex())
	}
	if r.PickupIndex != 1 || r.DropIndex != 2 {
		t.Errorf("segment indices = (%d, %d), want (1, 2)", r.PickupIndex, r.DropIndex)
	}
	// One degree of longitude at the equator, a third of the trip.
	if r.SegmentDistanceKM < 111 || r.SegmentDistanceKM > 112 {
		t.Errorf("SegmentDistanceKM = %v, want ~111.19", r.SegmentDistanceKM)
	}
	if r.Fare != 100 {
		t.Errorf("Fare = %v, want 100", r.Fare)
	}
	if r.Currency != "INR" {
		t.Errorf("Currency = %q, want INR", r.Currency)
	}
}

func TestSearchRidesSkipsWrongDirection(t *testing.T) {
	repo := newFakeRideRepo()
	svc := NewSearchService(repo, fakeCache{}, testLogger())

	// Same corridor, driven west. The grid prefilter matches it but the
	// rider's pickup projects after their drop.
	westbound := []utils.Point{
		{Lat: 0, Lng: 3},
		{Lat: 0, Lng: 2},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: 0},
	}
	seedRide(t, repo, westbound, 3)

	results, err := svc.SearchRides(context.Background(), searchReq(0, 1, 0, 2))
	if err != nil {
		t.Fatalf("SearchRides() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestSearchRidesNoCandidates(t *testing.T) {
	repo := newFakeRideRepo()
	svc := NewSearchService(repo, fakeCache{}, testLogger())

	seedRide(t, repo, []utils.Point{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}}, 3)

	// Corridor nowhere near the seeded route.
	results, err := svc.SearchRides(context.Background(), searchReq(40, 40, 41, 41))
	if err != nil {
		t.Fatalf("SearchRides() error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results, want 0", len(results))
	}
}

func TestEstimateFare(t *testing.T) {
	repo := newFakeRideRepo()
	svc := NewSearchService(repo, fakeCache{}, testLogger())

	path := []utils.Point{
		{Lat: 0, Lng: 0},
		{Lat: 0, Lng: 1},
		{Lat: 0, Lng: 2},
		{Lat: 0, Lng: 3},
	}
	ride := seedRide(t, repo, path, 3)
	ctx := context.Background()

	quote, err := svc.EstimateFare(ctx, ride, utils.Point{Lat: 0, Lng: 1}, utils.Point{Lat: 0, Lng: 2})
	if err != nil {
		t.Fatalf("EstimateFare() error: %v", err)
	}
	if quote.Fare != 100 {
		t.Errorf("Fare = %v, want 100", quote.Fare)
	}
	if quote.TotalDistanceKM != ride.Metrics.TotalDistanceKM {
		t.Errorf("TotalDistanceKM = %v, want %v", quote.TotalDistanceKM, ride.Metrics.TotalDistanceKM)
	}

	// Reversed segment.
	_, err = svc.EstimateFare(ctx, ride, utils.Point{Lat: 0, Lng: 2}, utils.Point{Lat: 0, Lng: 1})
	if !errors.Is(err, apperrors.ErrInvalidOrdering) {
		t.Errorf("reversed segment: err = %v, want ErrInvalidOrdering", err)
	}

	// Pickup and drop snap to the same vertex.
	_, err = svc.EstimateFare(ctx, ride, utils.Point{Lat: 0, Lng: 1}, utils.Point{Lat: 0, Lng: 1.1})
	if !errors.Is(err, apperrors.ErrInvalidOrdering) {
		t.Errorf("same vertex: err = %v, want ErrInvalidOrdering", err)
	}
}

func TestEstimateFareEmptyRoute(t *testing.T) {
	svc := NewSearchService(newFakeRideRepo(), fakeCache{}, testLogger())

	ride := &models.Ride{
		Pricing: models.Pricing{BaseFare: 300, Currency: "INR"},
	}
	_, err := svc.EstimateFare(context.Background(), ride, utils.Point{Lat: 0, Lng: 1}, utils.Point{Lat: 0, Lng: 2})
	if !errors.Is(err, apperrors.ErrRouteProjection) {
		t.Errorf("empty route: err = %v, want ErrRouteProjection", err)
	}
}
