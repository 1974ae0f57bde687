package hierarchy

import (
	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

const DefaultMaxAttempts = 100

// Obstacle is an occupied region of the parent.
type Obstacle struct {
	Position r3.Vec
	Shape    space.Shape
}

// OpenSpaceFinder samples positions inside a container whose clearance
// sphere stays inside the container and clear of every obstacle.
type OpenSpaceFinder struct {
	MaxAttempts int
}

func (f OpenSpaceFinder) attempts() int {
	if f.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return f.MaxAttempts
}

// Find samples uniformly through the container's volume. It returns false
// when no candidate was accepted within the attempt budget.
func (f OpenSpaceFinder) Find(rng *random.Source, container space.Shape, clearance float64, obstacles []Obstacle) (r3.Vec, bool, error) {
	return f.search(rng, container, clearance, obstacles, func() r3.Vec {
		return container.RandomPoint(rng)
	})
}

// Near samples normally distributed offsets around target.Center with
// σ = target.Distance/6 on each axis.
func (f OpenSpaceFinder) Near(rng *random.Source, container space.Shape, clearance float64, obstacles []Obstacle, target Target) (r3.Vec, bool, error) {
	sigma := target.Distance / 6
	return f.search(rng, container, clearance, obstacles, func() r3.Vec {
		return r3.Add(target.Center, r3.Vec{
			X: rng.Normal(0, sigma),
			Y: rng.Normal(0, sigma),
			Z: rng.Normal(0, sigma),
		})
	})
}

func (f OpenSpaceFinder) search(rng *random.Source, container space.Shape, clearance float64, obstacles []Obstacle, sample func() r3.Vec) (r3.Vec, bool, error) {
	if container == nil {
		return r3.Vec{}, false, dynamo.Degenerate("container radius", 0)
	}
	bound := container.ContainingRadius()
	if clearance >= bound {
		return r3.Vec{}, false, dynamo.Degenerate("clearance", clearance)
	}

	for i := 0; i < f.attempts(); i++ {
		p := sample()
		if fits(p, clearance, bound, obstacles) {
			return p, true, nil
		}
	}
	return r3.Vec{}, false, nil
}

func fits(p r3.Vec, clearance, bound float64, obstacles []Obstacle) bool {
	if r3.Norm(p)+clearance > bound {
		return false
	}
	for _, o := range obstacles {
		if o.Shape == nil {
			continue
		}
		if o.Shape.IntersectsSphere(r3.Sub(p, o.Position), clearance) {
			return false
		}
	}
	return true
}
