package integrators

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// RK4 is the classic fourth order Runge-Kutta method.
type RK4 struct {
	rk explicitRK
}

func NewRK4() *RK4 {
	return &RK4{rk: newExplicitRK(classicRK4)}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	return r.rk.step(dyn, x, t, dt, nil)
}

// RK45 is the Dormand-Prince 5(4) pair. StepAdaptive proposes the next
// step size from the embedded error estimate.
type RK45 struct {
	rk       explicitRK
	errEst   dynamo.State
	safety   float64
	minScale float64
	maxScale float64
}

func NewRK45() *RK45 {
	return &RK45{
		rk:       newExplicitRK(dormandPrince),
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	next, _, _ := r.StepAdaptive(dyn, x, t, dt, 1e-6)
	return next
}

// StepAdaptive returns the fifth order solution and the step size that
// would bring the scaled error to tol.
func (r *RK45) StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error) {
	if len(r.errEst) != len(x) {
		r.errEst = make(dynamo.State, len(x))
	}
	next := r.rk.step(dyn, x, t, dt, r.errEst)

	// Each component's error is measured against its own magnitude so
	// positions and velocities of very different scale weigh equally.
	ratio := 0.0
	for i, e := range r.errEst {
		scale := math.Max(math.Abs(x[i]), math.Abs(next[i])) + 1e-10
		ratio = math.Max(ratio, math.Abs(e)/scale)
	}
	ratio /= tol

	switch {
	case ratio == 0:
		return next, dt * r.maxScale, nil
	case ratio > 1:
		return next, dt * math.Max(r.minScale, r.safety*math.Pow(ratio, -0.25)), nil
	default:
		return next, dt * math.Min(r.maxScale, r.safety*math.Pow(ratio, -0.2)), nil
	}
}
