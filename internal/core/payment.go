package core

import "strings"

// Worker-name markers that select which global multiplier applies when
// no per-row override is set. Matching is case-insensitive substring
// containment.
const (
	MultiplierAMarker = "SRBN"
	MultiplierBMarker = "HF-EX"
)

// ResolveMultiplier returns the pay multiplier for one row.
// Precedence, highest first: the per-row operator override, then the
// name-marker rules, then zero.
func ResolveMultiplier(name Cell, multiplierA, multiplierB float64, override *float64) float64 {
	if override != nil {
		return *override
	}
	s, ok := AsString(name)
	if !ok {
		return 0
	}
	upper := strings.ToUpper(s)
	switch {
	case strings.Contains(upper, MultiplierAMarker):
		return multiplierA
	case strings.Contains(upper, MultiplierBMarker):
		return multiplierB
	default:
		return 0
	}
}

// ComputePayment computes the rounded payment for one row: the point
// metric times the resolved multiplier, half-up rounded. A missing
// name without an override, or a non-numeric point metric, yields 0.
// Pure and idempotent; called both on first computation and on every
// recomputation after a multiplier change.
func ComputePayment(name Cell, points Cell, multiplierA, multiplierB float64, override *float64) float64 {
	p, ok := AsNumber(points)
	if !ok {
		return 0
	}
	return RoundHalfUp(p * ResolveMultiplier(name, multiplierA, multiplierB, override))
}
