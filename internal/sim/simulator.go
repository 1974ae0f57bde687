package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/metrics"
)

// Simulator integrates a dynamo.System numerically. It backs the
// cross-check of analytic orbits; generation itself never integrates.
type Simulator struct {
	dyn        dynamo.System
	integrator dynamo.Integrator
	metrics    []Metric
}

func New(dyn dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run integrates from x0 for cfg.Duration. Every metric and the run's own
// energy tracker observe each state once, including the last.
func (s *Simulator) Run(ctx context.Context, x0 dynamo.State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		States:  make([]dynamo.State, 0, steps+1),
		Times:   make([]float64, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	energy := metrics.NewEnergyDrift(s.dyn)
	observe := func(x dynamo.State, t float64) {
		energy.Observe(x, t)
		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	x, t, dt := x0.Clone(), 0.0, cfg.Dt
	done := func(i int) bool {
		if cfg.Adaptive {
			return t >= cfg.Duration
		}
		return i >= steps
	}

	observe(x, t)
	for i := 0; !done(i); i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		step := dt
		var next dynamo.State
		if cfg.Adaptive {
			step = math.Min(dt, cfg.Duration-t)
			var proposed float64
			var err error
			next, proposed, err = s.adaptiveStep(x, t, step, cfg)
			if err != nil {
				result.Errors = append(result.Errors, err)
			}
			dt = dynamo.Clamp(proposed, cfg.MinDt, cfg.MaxDt)
		} else {
			next = s.integrator.Step(s.dyn, x, t, step)
		}

		if cfg.ValidateState && !next.IsValid() {
			result.Errors = append(result.Errors, StepError{Step: i, Time: t, Message: "invalid state (NaN/Inf)"})
			break
		}
		x, t = next, t+step
		result.StepsTaken++
		observe(x, t)
	}

	result.EnergyDrift = energy.Final()
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, nil
}

func (s *Simulator) validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %g", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g", cfg.Duration)
	}
	if cfg.Adaptive {
		if cfg.Tolerance <= 0 {
			return fmt.Errorf("tolerance must be positive for adaptive stepping")
		}
		if cfg.MinDt <= 0 || cfg.MaxDt < cfg.MinDt {
			return fmt.Errorf("adaptive stepping needs 0 < min dt <= max dt, got %g and %g", cfg.MinDt, cfg.MaxDt)
		}
	}
	return nil
}

// adaptiveStep takes one step of size dt and proposes the next step size.
// Integrators without an embedded error estimate use step doubling.
func (s *Simulator) adaptiveStep(x dynamo.State, t, dt float64, cfg Config) (dynamo.State, float64, error) {
	if adaptive, ok := s.integrator.(AdaptiveIntegrator); ok {
		return adaptive.StepAdaptive(s.dyn, x, t, dt, cfg.Tolerance)
	}

	x1 := s.integrator.Step(s.dyn, x, t, dt)
	xHalf := s.integrator.Step(s.dyn, x, t, dt/2)
	x2 := s.integrator.Step(s.dyn, xHalf, t+dt/2, dt/2)

	scale := math.Max(x2.Norm(), 1)
	err := x1.Distance(x2) / scale

	next := dt
	if err > cfg.Tolerance {
		next = dt / 2
	} else if err < cfg.Tolerance/10 {
		next = dt * 2
	}
	return x2, next, nil
}
