package maps

import "context"

// DirectionsProvider supplies route geometry for a published trip when the
// client submits only its endpoints. Implementations are optional; the
// ride service works without one as long as an encoded polyline is given.
type DirectionsProvider interface {
	GetRoute(ctx context.Context, origin, destination Location) (*RouteResult, error)
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteResult struct {
	EncodedPolyline string  `json:"encoded_polyline"`
	DistanceKM      float64 `json:"distance_km"`
	DurationMinutes int     `json:"duration_minutes"`
}
