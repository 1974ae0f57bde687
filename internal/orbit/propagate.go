package orbit

import (
	"math"
	"time"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultMaxIterations = 100
	DefaultTolerance     = 1e-8
)

// Solver bounds the Newton iterations used by propagation. The zero value
// uses DefaultMaxIterations and DefaultTolerance.
type Solver struct {
	MaxIterations int
	Tolerance     float64
}

func (s Solver) maxIterations() int {
	if s.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return s.MaxIterations
}

func (s Solver) tolerance() float64 {
	if s.Tolerance <= 0 {
		return DefaultTolerance
	}
	return s.Tolerance
}

// StateAt returns the orbiting body's position and velocity relative to the
// barycenter, t seconds after the orbit was defined. Add the barycenter (or
// its propagated position in nested frames) for an absolute position.
func (o Orbit) StateAt(t float64) (dynamo.StateVector, error) {
	return o.StateAtWith(t, Solver{})
}

// StateAtDuration is StateAt for a time.Duration offset.
func (o Orbit) StateAtDuration(d time.Duration) (dynamo.StateVector, error) {
	return o.StateAt(d.Seconds())
}

// StateAtWith is StateAt with explicit solver bounds.
func (o Orbit) StateAtWith(t float64, solver Solver) (dynamo.StateVector, error) {
	if !(o.Period > 0) {
		return dynamo.StateVector{}, dynamo.Degenerate("period", o.Period)
	}
	if !(o.OrbitedMass > 0) {
		return dynamo.StateVector{}, dynamo.Degenerate("orbited mass", o.OrbitedMass)
	}

	elapsed := t
	if !math.IsInf(o.Period, 1) {
		elapsed = math.Mod(t, o.Period)
		if elapsed < 0 {
			elapsed += o.Period
		}
	}
	if elapsed == 0 {
		return dynamo.StateVector{Position: o.R0, Velocity: o.V0}, nil
	}

	// The universal variable works with 1/a; Alpha is μ/a.
	alpha := o.Alpha() / o.StandardGravitationalParameter
	k := o.relativeScale()
	lc, err := lagrange(o.StandardGravitationalParameter, alpha,
		r3.Scale(k, o.R0), r3.Scale(k, o.V0), elapsed, solver)
	if err != nil {
		return dynamo.StateVector{}, err
	}

	// f, g, ḟ, ġ are dimensionally consistent, so they apply to the
	// barycentric vectors unchanged.
	return dynamo.StateVector{
		Position: r3.Add(r3.Scale(lc.f, o.R0), r3.Scale(lc.g, o.V0)),
		Velocity: r3.Add(r3.Scale(lc.fdot, o.R0), r3.Scale(lc.gdot, o.V0)),
	}, nil
}

// TimeSincePeriapsis returns the time since the last periapsis passage, t
// seconds after definition.
func (o Orbit) TimeSincePeriapsis(t float64) float64 {
	s := o.Epoch + t
	if math.IsInf(o.Period, 1) {
		return s
	}
	s = math.Mod(s, o.Period)
	if s < 0 {
		s += o.Period
	}
	return s
}

// MeanAnomalyAt returns the mean anomaly t seconds after definition.
func (o Orbit) MeanAnomalyAt(t float64) float64 {
	return dynamo.NormalizeAngle(o.MeanMotion * o.TimeSincePeriapsis(t))
}

// TrueAnomalyAt returns the true anomaly t seconds after definition.
func (o Orbit) TrueAnomalyAt(t float64) (float64, error) {
	if o.Eccentricity >= 1 {
		sv, err := o.StateAt(t)
		if err != nil {
			return 0, err
		}
		return o.trueAnomalyOf(sv.Position), nil
	}
	E, err := EccentricFromMean(o.MeanAnomalyAt(t), o.Eccentricity, Solver{})
	if err != nil {
		return 0, err
	}
	return TrueFromEccentric(E, o.Eccentricity), nil
}

func (o Orbit) trueAnomalyOf(pos r3.Vec) float64 {
	p, q := perifocal(o.Inclination, o.AngleAscending, o.ArgumentOfPeriapsis)
	return dynamo.NormalizeAngle(math.Atan2(r3.Dot(pos, q), r3.Dot(pos, p)))
}

type lagrangeCoefficients struct {
	f, g, fdot, gdot float64
}

// lagrange solves the universal Kepler equation for the universal anomaly x
// after t seconds and returns the Lagrange coefficients. alpha is 1/a.
func lagrange(mu, alpha float64, r0, v0 r3.Vec, t float64, solver Solver) (lagrangeCoefficients, error) {
	rmag := r3.Norm(r0)
	if !(rmag > 0) {
		return lagrangeCoefficients{}, dynamo.Degenerate("radius", rmag)
	}
	sqrtMu := math.Sqrt(mu)
	radialTerm := r3.Dot(r0, v0) / sqrtMu
	energyTerm := 1 - alpha*rmag

	// For bound orbits one revolution spans x in [0, 2π/√α]; keeping the
	// iterate inside that bracket stops Newton from overshooting on highly
	// eccentric orbits. Unbound orbits are not wrapped, so t and x may be
	// negative and the bracket starts open on both sides.
	lo, hi := math.Inf(-1), math.Inf(1)
	if alpha > 0 {
		lo, hi = 0, dynamo.TwoPi/math.Sqrt(alpha)
	}

	x := sqrtMu * math.Abs(alpha) * t
	if x > hi {
		x = hi / 2
	}

	converged := false
	ratio := math.Inf(1)
	tol := solver.tolerance()
	for i := 0; i < solver.maxIterations(); i++ {
		x2 := x * x
		z := alpha * x2
		c, s := StumpffC(z), StumpffS(z)

		fx := radialTerm*x2*c + energyTerm*x2*x*s + rmag*x - sqrtMu*t
		dfx := radialTerm*x*(1-z*s) + energyTerm*x2*c + rmag

		if fx < 0 {
			lo = math.Max(lo, x)
		} else {
			hi = math.Min(hi, x)
		}

		ratio = fx / dfx
		next := x - ratio
		if (next <= lo || next >= hi) && !math.IsInf(lo, -1) && !math.IsInf(hi, 1) {
			next = (lo + hi) / 2
			ratio = x - next
		}
		x = next

		if math.Abs(ratio) < tol*math.Max(1, math.Abs(x)) {
			converged = true
			break
		}
	}
	if !converged {
		return lagrangeCoefficients{}, &dynamo.ConvergenceError{
			Iterations: solver.maxIterations(),
			Residual:   math.Abs(ratio),
			Elapsed:    t,
		}
	}

	x2 := x * x
	z := alpha * x2
	c, s := StumpffC(z), StumpffS(z)

	f := 1 - x2/rmag*c
	g := t - x2*x/sqrtMu*s
	r := r3.Norm(r3.Add(r3.Scale(f, r0), r3.Scale(g, v0)))
	fdot := sqrtMu / (r * rmag) * (alpha*x2*x*s - x)
	gdot := 1 - x2/r*c

	return lagrangeCoefficients{f: f, g: g, fdot: fdot, gdot: gdot}, nil
}
