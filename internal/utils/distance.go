package utils

import (
	"fmt"
	"math"
)

func CalculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	return haversineDistance(lat1, lon1, lat2, lon2)
}

func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	// Convert to radians
	lat1Rad := lat1 * math.Pi / 180
	lon1Rad := lon1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	lon2Rad := lon2 * math.Pi / 180

	// Differences
	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	// Haversine formula
	a := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	// Distance in kilometers
	return EarthRadiusKM * c
}

// SegmentDistanceKM sums the great-circle distance between each consecutive
// pair of route points from startIdx through endIdx. It is 0 when the
// indices are equal. Callers must enforce pickup-before-drop ordering; a
// reversed or out-of-range pair is an error here, not a negative distance.
func SegmentDistanceKM(path []Point, startIdx, endIdx int) (float64, error) {
	if startIdx < 0 || endIdx >= len(path) {
		return 0, fmt.Errorf("segment indices [%d,%d] out of range for %d-point route", startIdx, endIdx, len(path))
	}
	if startIdx > endIdx {
		return 0, fmt.Errorf("segment start index %d follows end index %d", startIdx, endIdx)
	}

	var distance float64
	for i := startIdx; i < endIdx; i++ {
		distance += haversineDistance(path[i].Lat, path[i].Lng, path[i+1].Lat, path[i+1].Lng)
	}

	return distance, nil
}

// RouteDistanceKM is the full path length, start to finish.
func RouteDistanceKM(path []Point) float64 {
	if len(path) < 2 {
		return 0
	}
	distance, _ := SegmentDistanceKM(path, 0, len(path)-1)
	return distance
}
