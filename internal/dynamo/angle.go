package dynamo

import "math"

const TwoPi = 2 * math.Pi

// NormalizeAngle wraps x into [0, 2π).
func NormalizeAngle(x float64) float64 {
	x = math.Mod(x, TwoPi)
	if x < 0 {
		x += TwoPi
	}
	// math.Mod can return exactly 2π after the correction for tiny negatives.
	if x >= TwoPi {
		x = 0
	}
	return x
}

// NormalizeInclination maps x into [0, π]. Angles past π fold back, so an
// inclination of 3π/2 is the same plane as π/2 traversed in reverse.
func NormalizeInclination(x float64) float64 {
	x = NormalizeAngle(x)
	if x > math.Pi {
		x = TwoPi - x
	}
	return x
}

// AngleBetween returns the smallest absolute difference between two angles.
func AngleBetween(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d > math.Pi {
		d = TwoPi - d
	}
	return d
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
