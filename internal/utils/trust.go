package utils

import (
	"math"
)

// TrustScore derives a driver's 0-90 reliability score from accumulated
// ride history. Completion rate contributes up to 50 points, hours driven
// and distance driven up to 20 each; the remaining 10 points belong to a
// verification layer outside this engine. With no finished rides the
// completion term contributes 0.
func TrustScore(completed, cancelled int, hoursDriven, distanceKM float64) int {
	var score float64

	if total := completed + cancelled; total > 0 {
		completionRate := float64(completed) / float64(total)
		score += completionRate * TrustCompletionWeight
	}

	score += math.Min(hoursDriven/TrustHoursDivisor, TrustHoursCap)
	score += math.Min(distanceKM/TrustDistanceDivisor, TrustDistanceCap)

	return int(math.Round(score))
}
