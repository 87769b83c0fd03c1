package domain

import "math"

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// RoundConfidence normalizes confidence values to three decimal places.
func RoundConfidence(v float64) float64 {
	return roundTo(v, 3)
}
