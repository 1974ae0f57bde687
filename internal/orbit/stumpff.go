package orbit

import "math"

// Below this |z| the closed forms lose precision to cancellation and the
// Taylor series is used instead.
const stumpffSeriesLimit = 1e-3

// StumpffC evaluates the Stumpff function C(z).
func StumpffC(z float64) float64 {
	switch {
	case math.Abs(z) < stumpffSeriesLimit:
		return 1.0/2 - z/24 + z*z/720 - z*z*z/40320
	case z > 0:
		return (1 - math.Cos(math.Sqrt(z))) / z
	default:
		return (math.Cosh(math.Sqrt(-z)) - 1) / -z
	}
}

// StumpffS evaluates the Stumpff function S(z).
func StumpffS(z float64) float64 {
	switch {
	case math.Abs(z) < stumpffSeriesLimit:
		return 1.0/6 - z/120 + z*z/5040 - z*z*z/362880
	case z > 0:
		sz := math.Sqrt(z)
		return (sz - math.Sin(sz)) / (sz * sz * sz)
	default:
		sz := math.Sqrt(-z)
		return (math.Sinh(sz) - sz) / (sz * sz * sz)
	}
}
