package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleMapsProvider struct {
	client *maps.Client
}

func NewGoogleMapsProvider(apiKey string) (*GoogleMapsProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleMapsProvider{
		client: client,
	}, nil
}

func (g *GoogleMapsProvider) GetRoute(ctx context.Context, origin, destination Location) (*RouteResult, error) {
	req := &maps.DirectionsRequest{
		Origin:      fmt.Sprintf("%f,%f", origin.Latitude, origin.Longitude),
		Destination: fmt.Sprintf("%f,%f", destination.Latitude, destination.Longitude),
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := g.client.Directions(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("directions request failed: %w", err)
	}
	if len(routes) == 0 {
		return nil, fmt.Errorf("no route found between %v and %v", origin, destination)
	}

	route := routes[0]

	var distanceMeters int
	var durationMinutes float64
	for _, leg := range route.Legs {
		distanceMeters += leg.Distance.Meters
		durationMinutes += leg.Duration.Minutes()
	}

	return &RouteResult{
		EncodedPolyline: route.OverviewPolyline.Points,
		DistanceKM:      float64(distanceMeters) / 1000.0,
		DurationMinutes: int(durationMinutes),
	}, nil
}
