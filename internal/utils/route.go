package utils

import (
	"math"
)

// ClosestPointNotFound is returned by ClosestPointIndex for an empty route.
const ClosestPointNotFound = -1

// ClosestPointIndex returns the index of the route point nearest to the
// given point, measured as planar Euclidean distance in degree-space. That
// is a deliberate cheap approximation: candidate routes have already been
// narrowed to the right neighborhood by the grid index. Ties go to the
// first occurrence.
func ClosestPointIndex(path []Point, point Point) int {
	minDistance := math.Inf(1)
	closestIndex := ClosestPointNotFound

	for i, coord := range path {
		dLat := coord.Lat - point.Lat
		dLng := coord.Lng - point.Lng

		distance := math.Sqrt(dLat*dLat + dLng*dLng)
		if distance < minDistance {
			minDistance = distance
			closestIndex = i
		}
	}

	return closestIndex
}
