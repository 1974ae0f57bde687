package cosmos

import (
	"context"
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	galaxyMinRadius = 1e20
	galaxyMaxRadius = 8e20

	// systemDensity is the local stellar number density, about 0.004
	// systems per cubic light year.
	systemDensity   = 4.7e-51
	systemMaxRadius = 1e15
	systemMinRadius = 1e14

	speedOfLight = 299792458.0
)

func configureGalaxy(ctx context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	rng := gc.Source
	n, err := newNode(rng, Galaxy)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	radius := rng.Range(galaxyMinRadius, galaxyMaxRadius)
	thickness := radius * rng.Range(0.01, 0.05)
	n.Shape = space.Ellipsoid{Axes: r3.Vec{X: radius, Y: radius, Z: thickness}}
	n.Mass = dynamo.Clamp(rng.LogLogistic(1e41, 2), 1e39, 1e43)
	n.Precession = rng.Range(0, dynamo.TwoPi)
	// interstellar medium
	t := rng.Range(50, 100)
	n.Temperature = &t

	if parent := gc.Parent; parent != nil && parent.Mass > 0 {
		if _, err := orbit.AssignFromEccentricity(rng, n, centerOf(parent, parent.Mass), rng.Range(0, 0.6)); err != nil {
			return hierarchy.Result{}, err
		}
	}

	core, err := configureBlackHole(ctx, hierarchy.GenerationContext{
		Seed:        rng.Int63(),
		Parent:      n,
		Temperature: n.Temperature,
		Source:      rng,
	})
	if err != nil {
		return hierarchy.Result{}, err
	}
	return hierarchy.Result{Primary: n, Children: []*space.Node{core.Primary}}, nil
}

// configureBlackHole places a central black hole of a small fraction of the
// parent's mass.
func configureBlackHole(_ context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	rng := gc.Source
	n, err := newNode(rng, BlackHole)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	n.Mass = 4e6 * SolarMass
	if gc.Parent != nil && gc.Parent.Mass > 0 {
		n.Mass = gc.Parent.Mass * math.Pow(10, rng.Range(-6, -4.5))
	}
	n.Shape = space.Sphere{Radius: 2 * dynamo.G * n.Mass / (speedOfLight * speedOfLight)}
	return hierarchy.Result{Primary: n}, nil
}

func galaxyChildren(*space.Node) []hierarchy.ChildDefinition {
	return []hierarchy.ChildDefinition{
		{Kind: StarSystem, Space: systemMaxRadius, Density: systemDensity},
	}
}

// enclosedMass approximates the galactic mass inside radius r with a flat
// rotation curve, M(r) ∝ r.
func enclosedMass(galaxy *space.Node, r float64) float64 {
	R := galaxy.ContainingRadius()
	if !(R > 0) {
		return galaxy.Mass
	}
	return galaxy.Mass * math.Min(1, r/R)
}
