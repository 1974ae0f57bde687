package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/orbit"
	"gonum.org/v1/gonum/spatial/r3"
)

// TrackConfig selects the sampled span of an orbit. Duration, when
// positive, overrides Periods; unbound orbits need a Duration.
type TrackConfig struct {
	Samples  int
	Periods  float64
	Duration float64
	Solver   orbit.Solver
}

func (c TrackConfig) span(o orbit.Orbit) (float64, error) {
	if c.Duration > 0 {
		return c.Duration, nil
	}
	if math.IsInf(o.Period, 1) {
		return 0, fmt.Errorf("unbound orbit needs an explicit duration")
	}
	periods := c.Periods
	if periods <= 0 {
		periods = 1
	}
	return periods * o.Period, nil
}

type Sample struct {
	Time        float64
	State       dynamo.StateVector
	Radius      float64
	Speed       float64
	TrueAnomaly float64
}

// Track is an orbit sampled at evenly spaced times from its definition.
type Track struct {
	Orbit   orbit.Orbit
	Samples []Sample
}

// TrackOrbit samples o analytically. States are relative to the
// barycenter.
func TrackOrbit(ctx context.Context, o orbit.Orbit, cfg TrackConfig) (*Track, error) {
	if cfg.Samples < 2 {
		return nil, fmt.Errorf("track needs at least 2 samples, got %d", cfg.Samples)
	}
	span, err := cfg.span(o)
	if err != nil {
		return nil, err
	}

	tr := &Track{Orbit: o, Samples: make([]Sample, 0, cfg.Samples)}
	step := span / float64(cfg.Samples-1)
	for i := 0; i < cfg.Samples; i++ {
		if err := ctx.Err(); err != nil {
			return tr, err
		}
		t := float64(i) * step
		sv, err := o.StateAtWith(t, cfg.Solver)
		if err != nil {
			return tr, fmt.Errorf("sample %d (t=%.4gs): %w", i, t, err)
		}
		nu, err := o.TrueAnomalyAt(t)
		if err != nil {
			return tr, fmt.Errorf("sample %d (t=%.4gs): %w", i, t, err)
		}
		tr.Samples = append(tr.Samples, Sample{
			Time:        t,
			State:       sv,
			Radius:      r3.Norm(sv.Position),
			Speed:       r3.Norm(sv.Velocity),
			TrueAnomaly: nu,
		})
	}
	return tr, nil
}

func (tr *Track) Radii() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.Radius
	}
	return out
}

func (tr *Track) Speeds() []float64 {
	out := make([]float64, len(tr.Samples))
	for i, s := range tr.Samples {
		out[i] = s.Speed
	}
	return out
}
