package fractal

import (
	"math/cmplx"
)

const (
	// PlaneSize is the edge length of the square region of the complex plane
	// that is sampled and rendered.
	PlaneSize = 3.0

	// PlaneXStart is the left edge (real axis) of the region.
	PlaneXStart = -2.0

	// PlaneYStart is the bottom edge (imaginary axis) of the region.
	PlaneYStart = -1.5

	// EscapeRadius is the magnitude beyond which an orbit has escaped.
	EscapeRadius = 2.0

	// CycleEpsilon is the distance under which an orbit is considered to
	// have returned to its power-of-two snapshot.
	CycleEpsilon = 1e-8

	// MaxDepth is the iteration cap used when classifying sampler candidates.
	MaxDepth = 1_000_000
)

// bulbCenter is the center of the period-2 bulb.
const bulbCenter = complex(-1, 0)

// EscapeResult is the outcome of classifying a single seed.
type EscapeResult struct {
	// Escaped is true when |z| exceeded EscapeRadius within the depth cap.
	Escaped bool `json:"escaped"`

	// Depth is the iteration index at which the escape was observed.
	// It is zero for bounded orbits.
	Depth int `json:"depth"`

	// Steps counts the z ← z² + c updates actually performed. Bounded orbits
	// caught by the membership or cycle heuristics report fewer steps than
	// the depth cap.
	Steps int `json:"steps"`
}

// Bounded reports whether the orbit was classified as non-escaping.
func (r EscapeResult) Bounded() bool {
	return !r.Escaped
}

// InCardioidOrBulb reports whether c lies strictly inside the main cardioid
// or the period-2 bulb, regions whose orbits never escape.
//
// The bulb test is |c + 1| < 0.25. The cardioid test is |1 - sqrt(1 - 4c)| < 1
// using the principal square root.
func InCardioidOrBulb(c complex128) bool {
	if cmplx.Abs(c-bulbCenter) < 0.25 {
		return true
	}
	return cmplx.Abs(1-cmplx.Sqrt(1-4*c)) < 1.0
}

// Classify iterates z ← z² + c from z = 0 for at most maxDepth steps and
// reports whether and when the orbit escaped.
//
// The membership test does not depend on z, so it is evaluated once before
// iterating; the result is the same as testing it on every step.
func Classify(c complex128, maxDepth int) EscapeResult {
	if InCardioidOrBulb(c) {
		return EscapeResult{}
	}

	var z complex128
	snapshot := c // z after the first update
	checkStep := 1

	for i := 0; i < maxDepth; i++ {
		if abs2(z) > EscapeRadius*EscapeRadius {
			return EscapeResult{Escaped: true, Depth: i, Steps: i}
		}

		if i > checkStep {
			if cmplx.Abs(z-snapshot) < CycleEpsilon {
				return EscapeResult{Steps: i}
			}
			if i == checkStep*2 {
				checkStep *= 2
				snapshot = z
			}
		}

		z = z*z + c
	}

	return EscapeResult{Steps: maxDepth}
}

// Orbit replays the orbit of c for at most depth updates, calling visit with
// each value of z that is still inside the escape radius. The first value
// passed to visit is z₁ = c. It returns the number of visited values.
func Orbit(c complex128, depth int, visit func(z complex128)) int {
	var z complex128
	n := 0
	for j := 0; j < depth; j++ {
		z = z*z + c
		if abs2(z) > EscapeRadius*EscapeRadius {
			break
		}
		visit(z)
		n++
	}
	return n
}

// abs2 returns |z|² without the square root.
func abs2(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}
