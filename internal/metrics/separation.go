package metrics

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Separation records the closest and farthest distances seen in the
// position part of a flattened state vector.
type Separation struct {
	min, max float64
	samples  int
}

func NewSeparation() *Separation {
	s := &Separation{}
	s.Reset()
	return s
}

func (s *Separation) Name() string { return "separation" }

func (s *Separation) Observe(x dynamo.State, t float64) {
	r := r3.Norm(dynamo.Unflatten(x).Position)
	s.min = math.Min(s.min, r)
	s.max = math.Max(s.max, r)
	s.samples++
}

// Value returns the ratio of farthest to closest separation, which is
// (1+e)/(1-e) for a bound Kepler orbit sampled over a full period.
func (s *Separation) Value() float64 {
	if s.samples == 0 || s.min == 0 {
		return 0
	}
	return s.max / s.min
}

func (s *Separation) Min() float64 { return s.min }
func (s *Separation) Max() float64 { return s.max }

func (s *Separation) Reset() {
	s.min = math.Inf(1)
	s.max = 0
	s.samples = 0
}

// Eccentricity estimates e from the observed extremes.
func (s *Separation) Eccentricity() float64 {
	if s.samples == 0 || s.max+s.min == 0 {
		return 0
	}
	return (s.max - s.min) / (s.max + s.min)
}
