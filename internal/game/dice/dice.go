// Package dice provides the randomness abstraction used by the combat core:
// dice sums, inclusive ranges, chance checks and probabilistic rounding.
package dice

import "math"

// Source is the randomness provider for every roll in the combat core.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// floatResolution is the number of discrete steps used to draw a float in [0, 1).
const floatResolution = 1 << 30

// Dice returns the sum of n rolls of a sides-faced die.
//
// Postcondition: Returns 0 when n <= 0 or sides <= 0; otherwise n <= result <= n*sides.
func Dice(src Source, n, sides int) int {
	if n <= 0 || sides <= 0 {
		return 0
	}
	total := 0
	for i := 0; i < n; i++ {
		total += src.Intn(sides) + 1
	}
	return total
}

// Rng returns a uniform int in the inclusive range [lo, hi].
// The bounds are swapped when lo > hi.
func Rng(src Source, lo, hi int) int {
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return lo
	}
	return lo + src.Intn(hi-lo+1)
}

// OneIn reports true with probability 1/n. n <= 1 always succeeds.
func OneIn(src Source, n int) bool {
	if n <= 1 {
		return true
	}
	return src.Intn(n) == 0
}

// Chance reports true with probability percent/100.
//
// Postcondition: percent <= 0 never succeeds; percent >= 100 always succeeds.
func Chance(src Source, percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	return src.Intn(100) < percent
}

// Unit returns a uniform float in [0, 1).
func Unit(src Source) float64 {
	return float64(src.Intn(floatResolution)) / floatResolution
}

// Float returns a uniform float in [lo, hi).
func Float(src Source, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + Unit(src)*(hi-lo)
}

// RollRemainder rounds v to an integer, taking the next integer up with
// probability equal to the fractional part of v. A whole v consumes no
// randomness.
//
// Precondition: v must be finite.
// Postcondition: floor(v) <= result <= ceil(v).
func RollRemainder(src Source, v float64) int {
	whole := math.Floor(v)
	frac := v - whole
	if frac <= 0 {
		return int(whole)
	}
	if Unit(src) < frac {
		return int(whole) + 1
	}
	return int(whole)
}
