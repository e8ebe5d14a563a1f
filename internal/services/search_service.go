package services

import (
	"context"
	"fmt"

	"goride/internal/apperrors"
	"goride/internal/models"
	"goride/internal/repositories/interfaces"
	"goride/internal/utils"
	"goride/internal/validators"
	"goride/pkg/logger"
)

type SearchService interface {
	SearchRides(ctx context.Context, req *validators.SearchRidesRequest) ([]*SearchResult, error)
	EstimateFare(ctx context.Context, ride *models.Ride, pickup, drop utils.Point) (*FareQuote, error)
}

// SearchResult is one bookable match: the ride plus the rider's projected
// segment on its route and the fare for that segment.
type SearchResult struct {
	Ride              *models.Ride `json:"ride"`
	PickupIndex       int          `json:"pickup_index"`
	DropIndex         int          `json:"drop_index"`
	PickupGrid        string       `json:"pickup_grid"`
	DropGrid          string       `json:"drop_grid"`
	SegmentDistanceKM float64      `json:"segment_distance_km"`
	Fare              float64      `json:"fare"`
	Currency          string       `json:"currency"`
}

// FareQuote prices a rider's segment of a ride.
type FareQuote struct {
	PickupIndex       int     `json:"pickup_index"`
	DropIndex         int     `json:"drop_index"`
	SegmentDistanceKM float64 `json:"segment_distance_km"`
	TotalDistanceKM   float64 `json:"total_distance_km"`
	Fare              float64 `json:"fare"`
	Currency          string  `json:"currency"`
}

type searchService struct {
	rideRepo interfaces.RideRepository
	cache    CacheService
	logger   *logger.Logger
}

func NewSearchService(
	rideRepo interfaces.RideRepository,
	cache CacheService,
	logger *logger.Logger,
) SearchService {
	return &searchService{
		rideRepo: rideRepo,
		cache:    cache,
		logger:   logger,
	}
}

// SearchRides finds scheduled rides whose routes pass through both the
// rider's pickup and drop cells, in that order. The grid lookup is a
// coarse prefilter; each candidate is then projected exactly and rides
// that fail projection or ordering are skipped, never surfaced as errors.
func (s *searchService) SearchRides(ctx context.Context, req *validators.SearchRidesRequest) ([]*SearchResult, error) {
	pickup := utils.Point{Lat: req.PickupLatitude, Lng: req.PickupLongitude}
	drop := utils.Point{Lat: req.DropLatitude, Lng: req.DropLongitude}

	pickupGrid := utils.GridCell(pickup.Lat, pickup.Lng, utils.DefaultGridSize)
	dropGrid := utils.GridCell(drop.Lat, drop.Lng, utils.DefaultGridSize)

	cacheKey := fmt.Sprintf("%s%s:%s", utils.CacheSearchPrefix, pickupGrid, dropGrid)
	var cached []*SearchResult
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	}

	candidates, err := s.rideRepo.FindCandidates(ctx, pickupGrid, dropGrid)
	if err != nil {
		return nil, fmt.Errorf("failed to search rides: %w", err)
	}

	results := make([]*SearchResult, 0, len(candidates))
	for _, ride := range candidates {
		quote, err := s.EstimateFare(ctx, ride, pickup, drop)
		if err != nil {
			continue
		}

		results = append(results, &SearchResult{
			Ride:              ride,
			PickupIndex:       quote.PickupIndex,
			DropIndex:         quote.DropIndex,
			PickupGrid:        pickupGrid,
			DropGrid:          dropGrid,
			SegmentDistanceKM: quote.SegmentDistanceKM,
			Fare:              quote.Fare,
			Currency:          quote.Currency,
		})
	}

	s.cache.Set(ctx, cacheKey, results, utils.DefaultSearchCacheTTL)

	s.logger.WithFields(map[string]interface{}{
		"pickup_grid": pickupGrid,
		"drop_grid":   dropGrid,
		"candidates":  len(candidates),
		"matches":     len(results),
	}).Debug("Ride search completed")

	return results, nil
}

// EstimateFare projects the rider's pickup and drop onto the ride's route
// and prices the resulting segment proportionally to the base fare.
func (s *searchService) EstimateFare(ctx context.Context, ride *models.Ride, pickup, drop utils.Point) (*FareQuote, error) {
	path := utils.DecodePolyline(ride.Route.EncodedPolyline)

	pickupIdx := utils.ClosestPointIndex(path, pickup)
	dropIdx := utils.ClosestPointIndex(path, drop)
	if pickupIdx == utils.ClosestPointNotFound || dropIdx == utils.ClosestPointNotFound {
		return nil, fmt.Errorf("ride %s: %w", ride.ID.Hex(), apperrors.ErrRouteProjection)
	}
	if pickupIdx >= dropIdx {
		return nil, fmt.Errorf("ride %s: %w", ride.ID.Hex(), apperrors.ErrInvalidOrdering)
	}

	segmentKM, err := utils.SegmentDistanceKM(path, pickupIdx, dropIdx)
	if err != nil {
		return nil, fmt.Errorf("ride %s: %w", ride.ID.Hex(), apperrors.ErrRouteProjection)
	}

	totalKM := ride.Metrics.TotalDistanceKM
	if totalKM <= 0 {
		totalKM = utils.RouteDistanceKM(path)
	}

	return &FareQuote{
		PickupIndex:       pickupIdx,
		DropIndex:         dropIdx,
		SegmentDistanceKM: segmentKM,
		TotalDistanceKM:   totalKM,
		Fare:              utils.SegmentFare(segmentKM, ride.Pricing.BaseFare, totalKM),
		Currency:          ride.Pricing.Currency,
	}, nil
}
