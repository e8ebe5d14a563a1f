package utils

import (
	"math"
)

// SegmentFare prices a booked segment proportionally to the trip's base
// fare: fare = round(segmentKM * baseFare / totalTripKM). A non-positive
// trip distance is treated as 1 km so the division stays finite. A fare
// that rounds to zero charges the full base fare instead.
func SegmentFare(segmentKM, baseFare, totalTripKM float64) float64 {
	if totalTripKM <= 0 {
		totalTripKM = 1
	}

	fare := math.Round(segmentKM * (baseFare / totalTripKM))
	if fare == 0 {
		return baseFare
	}

	return fare
}
