package utils

import "testing"

func TestSegmentFare(t *testing.T) {
	tests := []struct {
		name        string
		segmentKM   float64
		baseFare    float64
		totalTripKM float64
		want        float64
	}{
		{"third of trip", 5, 300, 15, 100},
		{"whole trip", 15, 300, 15, 300},
		{"rounds down", 5, 100, 15, 33},
		{"rounds up", 7, 100, 15, 47},
		{"zero trip distance treated as 1km", 5, 300, 0, 1500},
		{"negative trip distance treated as 1km", 2, 100, -3, 200},
		{"zero segment floors to base fare", 0, 300, 15, 300},
		{"tiny segment floors to base fare", 0.001, 100, 1000, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentFare(tt.segmentKM, tt.baseFare, tt.totalTripKM)
			if got != tt.want {
				t.Errorf("SegmentFare(%v, %v, %v) = %v, want %v",
					tt.segmentKM, tt.baseFare, tt.totalTripKM, got, tt.want)
			}
		})
	}
}

func TestSegmentFareMonotonic(t *testing.T) {
	prev := 0.0
	for km := 1.0; km <= 15; km++ {
		fare := SegmentFare(km, 300, 15)
		if fare < prev {
			t.Fatalf("fare decreased: %v km -> %v, previous %v", km, fare, prev)
		}
		prev = fare
	}
}
