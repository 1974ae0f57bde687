package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cosmosim/internal/analysis"
	"github.com/san-kum/cosmosim/internal/integrators"
	"github.com/san-kum/cosmosim/internal/metrics"
	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

const DefaultStepsPerPeriod = 2000

type VerifyConfig struct {
	Integrator     string
	StepsPerPeriod int
	Track          TrackConfig
}

// Comparison holds the numeric-versus-analytic differences at each
// sample. Errors are relative: positions to the semi-major axis (the
// periapsis for unbound orbits), velocities to the local analytic speed.
type Comparison struct {
	Integrator       string
	Times            []float64
	PositionErrors   []float64
	VelocityErrors   []float64
	MaxPositionError float64
	MaxVelocityError float64
	EnergyDrift      float64
	Eccentricity     float64
	// SpectralPeriod is the period recovered from the numeric separation
	// series, zero when the run covers fewer than MinSpectralPeriods
	// periods or the separation does not oscillate.
	SpectralPeriod float64
}

// MinSpectralPeriods is the shortest run, in orbital periods, for which
// Verify estimates the period from the numeric series.
const MinSpectralPeriods = 3

// Verify integrates the two-body equations for o numerically and compares
// the result with the analytic propagation at the track's sample times.
func Verify(ctx context.Context, o orbit.Orbit, cfg VerifyConfig) (*Comparison, error) {
	name := cfg.Integrator
	if name == "" {
		name = "rk4"
	}
	integ, err := integrators.New(name)
	if err != nil {
		return nil, err
	}
	if cfg.Track.Samples < 2 {
		return nil, fmt.Errorf("verify needs at least 2 samples, got %d", cfg.Track.Samples)
	}
	span, err := cfg.Track.span(o)
	if err != nil {
		return nil, err
	}
	steps := cfg.StepsPerPeriod
	if steps <= 0 {
		steps = DefaultStepsPerPeriod
	}
	period := o.Period
	if math.IsInf(period, 1) {
		period = span
	}

	sys, x0 := physics.FromOrbit(o)
	s := New(sys, integ)
	drift := metrics.NewEnergyDrift(sys)
	sep := metrics.NewSeparation()
	s.AddMetric(drift)
	s.AddMetric(sep)

	res, err := s.Run(ctx, x0, Config{Dt: period / float64(steps), Duration: span, ValidateState: true})
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		return nil, res.Errors[0]
	}

	scale := o.SemiMajorAxis
	if math.IsInf(scale, 1) {
		scale = o.Periapsis
	}

	cmp := &Comparison{
		Integrator:   name,
		EnergyDrift:  drift.Value(),
		Eccentricity: sep.Eccentricity(),
	}
	stride := float64(len(res.States)-1) / float64(cfg.Track.Samples-1)
	for i := 0; i < cfg.Track.Samples; i++ {
		idx := int(math.Round(float64(i) * stride))
		t := res.Times[idx]
		want, err := o.StateAtWith(t, cfg.Track.Solver)
		if err != nil {
			return nil, fmt.Errorf("analytic state at t=%.4gs: %w", t, err)
		}
		got := sys.Barycentric(res.States[idx])

		pe := r3.Norm(r3.Sub(got.Position, want.Position)) / scale
		ve := r3.Norm(r3.Sub(got.Velocity, want.Velocity)) / r3.Norm(want.Velocity)
		cmp.Times = append(cmp.Times, t)
		cmp.PositionErrors = append(cmp.PositionErrors, pe)
		cmp.VelocityErrors = append(cmp.VelocityErrors, ve)
		cmp.MaxPositionError = math.Max(cmp.MaxPositionError, pe)
		cmp.MaxVelocityError = math.Max(cmp.MaxVelocityError, ve)
	}

	if o.Eccentricity > 1e-3 && o.Eccentricity < 1 && span >= MinSpectralPeriods*o.Period {
		radii := make([]float64, len(res.States))
		for i, x := range res.States {
			radii[i] = r3.Norm(r3.Vec{X: x[0], Y: x[1], Z: x[2]})
		}
		if p, err := analysis.DominantPeriod(radii, res.Times[1]-res.Times[0]); err == nil {
			cmp.SpectralPeriod = p
		}
	}
	return cmp, nil
}
