package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/repositories/interfaces"
	"goride/internal/utils"
	"goride/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. The ride fake reproduces the conditional
// seat updates under a single mutex so booking races behave as they do
// against the real store.

type fakeRideRepo struct {
	mu    sync.Mutex
	rides map[primitive.ObjectID]*models.Ride
}

func newFakeRideRepo() *fakeRideRepo {
	return &fakeRideRepo{rides: make(map[primitive.ObjectID]*models.Ride)}
}

func cloneRide(r *models.Ride) *models.Ride {
	clone := *r
	clone.Passengers = append([]models.Passenger(nil), r.Passengers...)
	clone.Route.GridsCovered = append([]string(nil), r.Route.GridsCovered...)
	clone.Route.Stops = append([]models.Stop(nil), r.Route.Stops...)
	return &clone
}

func (f *fakeRideRepo) Create(ctx context.Context, ride *models.Ride) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride.ID = primitive.NewObjectID()
	now := time.Now()
	ride.CreatedAt = now
	ride.UpdatedAt = now
	f.rides[ride.ID] = cloneRide(ride)
	return nil
}

func (f *fakeRideRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneRide(ride), nil
}

func (f *fakeRideRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	if status, ok := updates["status"].(models.RideStatus); ok {
		ride.Status = status
	}
	ride.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRideRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rides, id)
	return nil
}

func (f *fakeRideRepo) FindCandidates(ctx context.Context, pickupGrid, dropGrid string) ([]*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Ride
	for _, ride := range f.rides {
		if ride.Status != models.RideStatusScheduled || ride.Seats.Available <= 0 {
			continue
		}
		if containsGrid(ride.Route.GridsCovered, pickupGrid) && containsGrid(ride.Route.GridsCovered, dropGrid) {
			out = append(out, cloneRide(ride))
		}
	}
	return out, nil
}

func containsGrid(grids []string, cell string) bool {
	for _, g := range grids {
		if g == cell {
			return true
		}
	}
	return false
}

func (f *fakeRideRepo) GetByDriver(ctx context.Context, driverUserID string, params *utils.PaginationParams) ([]*models.Ride, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Ride
	for _, ride := range f.rides {
		if ride.Driver.UserID == driverUserID {
			out = append(out, cloneRide(ride))
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRideRepo) GetActiveByDriver(ctx context.Context, driverUserID string) ([]*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Ride
	for _, ride := range f.rides {
		if ride.Driver.UserID == driverUserID && ride.IsActive() {
			out = append(out, cloneRide(ride))
		}
	}
	return out, nil
}

func (f *fakeRideRepo) GetByPassenger(ctx context.Context, riderUserID string) ([]*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Ride
	for _, ride := range f.rides {
		for _, p := range ride.Passengers {
			if p.UserID == riderUserID {
				out = append(out, cloneRide(ride))
				break
			}
		}
	}
	return out, nil
}

func (f *fakeRideRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.RideStatus) error {
	return f.Update(ctx, id, map[string]interface{}{"status": status})
}

func (f *fakeRideRepo) ReserveSeat(ctx context.Context, id primitive.ObjectID, passenger *models.Passenger) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok || !ride.IsActive() || ride.Seats.Available <= 0 || ride.ConfirmedPassenger(passenger.UserID) != nil {
		return interfaces.ErrConditionFailed
	}
	ride.Passengers = append(ride.Passengers, *passenger)
	ride.Seats.Available--
	return nil
}

func (f *fakeRideRepo) ReleaseSeat(ctx context.Context, id primitive.ObjectID, userID string) (*models.Passenger, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok {
		return nil, interfaces.ErrConditionFailed
	}
	for i := range ride.Passengers {
		if ride.Passengers[i].UserID == userID && ride.Passengers[i].Status == models.BookingStatusConfirmed {
			released := ride.Passengers[i]
			ride.Passengers[i].Status = models.BookingStatusCancelled
			ride.Seats.Available++
			return &released, nil
		}
	}
	return nil, interfaces.ErrConditionFailed
}

func (f *fakeRideRepo) CancelWithPassengers(ctx context.Context, id primitive.ObjectID) (*models.Ride, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok || !ride.IsActive() {
		return nil, interfaces.ErrConditionFailed
	}
	before := cloneRide(ride)
	ride.Status = models.RideStatusCancelled
	for i := range ride.Passengers {
		if ride.Passengers[i].Status == models.BookingStatusConfirmed {
			ride.Passengers[i].Status = models.BookingStatusCancelled
		}
	}
	return before, nil
}

func (f *fakeRideRepo) UpdatePreferences(ctx context.Context, id primitive.ObjectID, prefs models.Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ride, ok := f.rides[id]
	if !ok || ride.ConfirmedCount() > 0 {
		return interfaces.ErrConditionFailed
	}
	ride.Preferences = prefs
	return nil
}

// corrupt force-sets the available seat counter, bypassing the
// reservation path.
func (f *fakeRideRepo) corrupt(id primitive.ObjectID, available int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ride, ok := f.rides[id]; ok {
		ride.Seats.Available = available
	}
}

type fakeRiderRepo struct {
	mu     sync.Mutex
	riders map[string]*models.Rider
}

func newFakeRiderRepo() *fakeRiderRepo {
	return &fakeRiderRepo{riders: make(map[string]*models.Rider)}
}

func (f *fakeRiderRepo) GetByUserID(ctx context.Context, userID string) (*models.Rider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rider, ok := f.riders[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *rider
	clone.Bookings = append([]models.BookingRecord(nil), rider.Bookings...)
	return &clone, nil
}

func (f *fakeRiderRepo) ensure(userID, name string) *models.Rider {
	rider, ok := f.riders[userID]
	if !ok {
		rider = &models.Rider{ID: primitive.NewObjectID(), UserID: userID, Name: name}
		f.riders[userID] = rider
	}
	return rider
}

func (f *fakeRiderRepo) AddBooking(ctx context.Context, userID, name string, booking *models.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rider := f.ensure(userID, name)
	rider.Bookings = append(rider.Bookings, *booking)
	return nil
}

func (f *fakeRiderRepo) UpdateBookingStatus(ctx context.Context, userID string, rideID primitive.ObjectID, bookingID string, status models.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rider, ok := f.riders[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	for i := range rider.Bookings {
		if rider.Bookings[i].RideID == rideID && rider.Bookings[i].BookingID == bookingID {
			rider.Bookings[i].Status = status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeRiderRepo) CancelBookingsForRide(ctx context.Context, userIDs []string, rideID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, userID := range userIDs {
		rider, ok := f.riders[userID]
		if !ok {
			continue
		}
		for i := range rider.Bookings {
			if rider.Bookings[i].RideID == rideID && rider.Bookings[i].Status == models.BookingStatusConfirmed {
				rider.Bookings[i].Status = models.BookingStatusCancelled
			}
		}
	}
	return nil
}

func (f *fakeRiderRepo) RebuildBookings(ctx context.Context, userID string, bookings []models.BookingRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rider := f.ensure(userID, "")
	rider.Bookings = append([]models.BookingRecord(nil), bookings...)
	return nil
}

func (f *fakeRiderRepo) IncrementCompleted(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensure(userID, "").Rides.Completed++
	return nil
}

func (f *fakeRiderRepo) IncrementCancelled(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ensure(userID, "").Rides.Cancelled++
	return nil
}

type fakeDriverRepo struct {
	mu      sync.Mutex
	drivers map[string]*models.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{drivers: make(map[string]*models.Driver)}
}

func (f *fakeDriverRepo) GetByUserID(ctx context.Context, userID string) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *driver
	return &clone, nil
}

func (f *fakeDriverRepo) EnsureExists(ctx context.Context, userID, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.drivers[userID]; !ok {
		f.drivers[userID] = &models.Driver{ID: primitive.NewObjectID(), UserID: userID, Name: name}
	}
	return nil
}

func (f *fakeDriverRepo) IncrementHosted(ctx context.Context, userID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	driver.Rides.Hosted++
	driver.LastRideHostedAt = &at
	return nil
}

func (f *fakeDriverRepo) ApplyCompletion(ctx context.Context, userID string, hours, distanceKM float64) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	driver.Rides.Completed++
	driver.HoursDriven += hours
	driver.DistanceDrivenKM += distanceKM
	clone := *driver
	return &clone, nil
}

func (f *fakeDriverRepo) IncrementCancelled(ctx context.Context, userID string) (*models.Driver, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[userID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	driver.Rides.Cancelled++
	clone := *driver
	return &clone, nil
}

func (f *fakeDriverRepo) UpdateTrustScore(ctx context.Context, userID string, score int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	driver.TrustScore = score
	return nil
}

func (f *fakeDriverRepo) ResetStats(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	driver, ok := f.drivers[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	driver.Rides = models.RideCounters{}
	driver.HoursDriven = 0
	driver.DistanceDrivenKM = 0
	driver.TrustScore = 0
	return nil
}

type fakeInstanceRepo struct {
	mu        sync.Mutex
	instances []*models.RideInstance
}

func newFakeInstanceRepo() *fakeInstanceRepo {
	return &fakeInstanceRepo{}
}

func (f *fakeInstanceRepo) CreateMany(ctx context.Context, instances []*models.RideInstance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, instance := range instances {
		instance.ID = primitive.NewObjectID()
		f.instances = append(f.instances, instance)
	}
	return nil
}

func (f *fakeInstanceRepo) ListByRide(ctx context.Context, rideID primitive.ObjectID) ([]*models.RideInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.RideInstance
	for _, instance := range f.instances {
		if instance.ParentRideID == rideID {
			out = append(out, instance)
		}
	}
	return out, nil
}

func (f *fakeInstanceRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.InstanceStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, instance := range f.instances {
		if instance.ID == id {
			instance.Status = status
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeInstanceRepo) CancelByRide(ctx context.Context, rideID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, instance := range f.instances {
		if instance.ParentRideID == rideID && instance.Status == models.InstanceStatusScheduled {
			instance.Status = models.InstanceStatusCancelled
		}
	}
	return nil
}

func (f *fakeInstanceRepo) DeleteByRide(ctx context.Context, rideID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.instances[:0]
	for _, instance := range f.instances {
		if instance.ParentRideID != rideID {
			kept = append(kept, instance)
		}
	}
	f.instances = kept
	return nil
}

// fakeCache always misses so tests exercise the repository path.
type fakeCache struct{}

func (fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("cache miss")
}
func (fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (fakeCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (fakeCache) Exists(ctx context.Context, key string) (bool, error) { return false, nil }

func (fakeCache) DeletePattern(ctx context.Context, pattern string) error { return nil }

func (fakeCache) Ping(ctx context.Context) error { return nil }

func testLogger() *logger.Logger {
	log, err := logger.NewLogger(&logger.Config{Level: "error", Format: "text", Output: "stderr"})
	if err != nil {
		panic(err)
	}
	return log
}
