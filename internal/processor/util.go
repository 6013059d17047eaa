package processor

import (
	"math"

	"golang.org/x/exp/constraints"
)

func clamp[A constraints.Integer | constraints.Float](x, lo, hi A) A {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func clampVelocity(v int) int {
	return clamp(v, 1, 127)
}

// finiteOrZero maps NaN and infinities to 0.
func finiteOrZero(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// pitchClass returns p modulo 12 in [0,11].
func pitchClass(p int) int {
	return ((p % 12) + 12) % 12
}

// placeNear transposes pitch class pc by octaves into [center+lo, center+hi].
func placeNear(pc, center, lo, hi int) int {
	p := pitchClass(pc)
	for p < center+lo {
		p += 12
	}
	for p > center+hi {
		p -= 12
	}
	return p
}
