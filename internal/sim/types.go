package sim

import (
	"fmt"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// AdaptiveIntegrator proposes its next step size from an embedded error
// estimate.
type AdaptiveIntegrator interface {
	dynamo.Integrator
	StepAdaptive(dyn dynamo.System, x dynamo.State, t, dt, tol float64) (dynamo.State, float64, error)
}

// Metric accumulates a scalar over the states of a run.
type Metric interface {
	Name() string
	Observe(x dynamo.State, t float64)
	Value() float64
	Reset()
}

// Config controls one integration run. Fixed stepping takes
// round(Duration/Dt) steps; adaptive stepping starts at Dt and keeps the
// step within [MinDt, MaxDt] until Duration is reached.
type Config struct {
	Dt       float64
	Duration float64

	Adaptive  bool
	Tolerance float64
	MinDt     float64
	MaxDt     float64

	// ValidateState stops the run at the first non-finite state.
	ValidateState bool
}

// Result holds every state of a run, including the initial one.
type Result struct {
	States      []dynamo.State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

type StepError struct {
	Step    int
	Time    float64
	Message string
}

func (e StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4g): %s", e.Step, e.Time, e.Message)
}
