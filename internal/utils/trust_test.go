package utils

import "testing"

func TestTrustScore(t *testing.T) {
	tests := []struct {
		name        string
		completed   int
		cancelled   int
		hoursDriven float64
		distanceKM  float64
		want        int
	}{
		{"no history", 0, 0, 0, 0, 0},
		{"perfect completion only", 10, 0, 0, 0, 50},
		{"all cancelled", 0, 5, 0, 0, 0},
		{"mixed record", 5, 1, 22, 350, 45},
		{"hours capped at 20", 0, 0, 1000, 0, 20},
		{"distance capped at 20", 0, 0, 0, 100000, 20},
		{"everything maxed", 100, 0, 200, 10000, 90},
		{"half completion", 1, 1, 0, 0, 25},
		{"rounding", 2, 1, 0, 0, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrustScore(tt.completed, tt.cancelled, tt.hoursDriven, tt.distanceKM)
			if got != tt.want {
				t.Errorf("TrustScore(%d, %d, %v, %v) = %d, want %d",
					tt.completed, tt.cancelled, tt.hoursDriven, tt.distanceKM, got, tt.want)
			}
		})
	}
}

func TestTrustScoreBounds(t *testing.T) {
	for completed := 0; completed <= 50; completed += 10 {
		for cancelled := 0; cancelled <= 50; cancelled += 10 {
			got := TrustScore(completed, cancelled, float64(completed)*3, float64(completed)*40)
			if got < 0 || got > 90 {
				t.Errorf("TrustScore(%d, %d, ...) = %d, outside [0, 90]", completed, cancelled, got)
			}
		}
	}
}
