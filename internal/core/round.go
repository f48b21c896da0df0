package core

import "math"

// RoundHalfUp rounds to the nearest integer with halves going up:
// fractional parts below 0.5 floor, 0.5 and above ceil. Used for
// decimal metric display and for final payment amounts.
func RoundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}

// TruncateTime floors a numeric shift time. Time-of-day values are
// always rounded toward zero, never up; that is the documented
// behavior, not an accident.
func TruncateTime(x float64) float64 {
	return math.Floor(x)
}
