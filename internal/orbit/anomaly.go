package orbit

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// EccentricFromTrue converts a true anomaly to the eccentric anomaly (e < 1).
func EccentricFromTrue(trueAnomaly, e float64) float64 {
	half := trueAnomaly / 2
	return dynamo.NormalizeAngle(2 * math.Atan2(
		math.Sqrt(1-e)*math.Sin(half),
		math.Sqrt(1+e)*math.Cos(half)))
}

// MeanFromEccentric is Kepler's equation M = E - e·sin(E).
func MeanFromEccentric(eccentricAnomaly, e float64) float64 {
	return dynamo.NormalizeAngle(eccentricAnomaly - e*math.Sin(eccentricAnomaly))
}

// TrueFromEccentric converts an eccentric anomaly to the true anomaly (e < 1).
func TrueFromEccentric(eccentricAnomaly, e float64) float64 {
	half := eccentricAnomaly / 2
	return dynamo.NormalizeAngle(2 * math.Atan2(
		math.Sqrt(1+e)*math.Sin(half),
		math.Sqrt(1-e)*math.Cos(half)))
}

// MeanFromTrue converts a true anomaly to the mean anomaly (e < 1).
func MeanFromTrue(trueAnomaly, e float64) float64 {
	if e == 0 {
		return dynamo.NormalizeAngle(trueAnomaly)
	}
	return MeanFromEccentric(EccentricFromTrue(trueAnomaly, e), e)
}

// EccentricFromMean solves Kepler's equation for E by Newton iteration.
func EccentricFromMean(meanAnomaly, e float64, solver Solver) (float64, error) {
	m := dynamo.NormalizeAngle(meanAnomaly)
	if e == 0 {
		return m, nil
	}

	E := m
	if e >= 0.8 {
		E = math.Pi
	}

	delta := math.Inf(1)
	for i := 0; i < solver.maxIterations(); i++ {
		f := E - e*math.Sin(E) - m
		fp := 1 - e*math.Cos(E)
		delta = f / fp
		E -= delta
		if math.Abs(delta) < solver.tolerance() {
			return dynamo.NormalizeAngle(E), nil
		}
	}
	return 0, &dynamo.ConvergenceError{Iterations: solver.maxIterations(), Residual: math.Abs(delta)}
}

// parabolicTimeSincePeriapsis is Barker's equation for e = 1.
func parabolicTimeSincePeriapsis(trueAnomaly, periapsis, mu float64) float64 {
	d := math.Tan(trueAnomaly / 2)
	p := 2 * periapsis
	return 0.5 * math.Sqrt(p*p*p/mu) * (d + d*d*d/3)
}
