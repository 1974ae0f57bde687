package cosmos

import (
	"context"
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	minStarMass = 0.08
	maxStarMass = 150.0

	binaryFraction = 0.33
	yearSeconds    = 365.25 * 86400
)

func configureStarSystem(ctx context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	rng := gc.Source
	n, err := newNode(rng, StarSystem)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	n.Shape = space.Sphere{Radius: rng.Range(systemMinRadius, systemMaxRadius)}
	n.Temperature = ambient(gc.Temperature)

	primary, err := newStar(rng)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Mass = primary.Mass
	children := []*space.Node{primary}

	if rng.Bool(binaryFraction) {
		companion, err := newStar(rng)
		if err != nil {
			return hierarchy.Result{}, err
		}
		companion.ParentID = n.ID
		companion.Position = r3.Vec{X: rng.Normal(0, 1), Y: rng.Normal(0, 1), Z: rng.Normal(0, 1)}
		period := yearSeconds * math.Pow(10, rng.Range(0, 3))
		if _, err := orbit.AssignFromPeriod(rng, companion, primary.AsPrimary(), rng.Range(0, 0.7), period); err != nil {
			return hierarchy.Result{}, err
		}
		n.Mass += companion.Mass
		children = append(children, companion)
	}

	if parent := gc.Parent; parent != nil && parent.Mass > 0 {
		r := r3.Norm(n.Position)
		if r > 0 {
			if _, err := orbit.AssignCircular(rng, n, centerOf(parent, enclosedMass(parent, r))); err != nil {
				return hierarchy.Result{}, err
			}
		}
	}
	return hierarchy.Result{Primary: n, Children: children}, nil
}

func configureStar(_ context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	n, err := newStar(gc.Source)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	return hierarchy.Result{Primary: n}, nil
}

// newStar draws a main-sequence star: a log-logistic mass in solar units,
// with radius and surface temperature from the mass-radius and
// mass-luminosity relations.
func newStar(rng *random.Source) (*space.Node, error) {
	n, err := newNode(rng, Star)
	if err != nil {
		return nil, err
	}
	m := dynamo.Clamp(rng.LogLogistic(0.3, 1.8), minStarMass, maxStarMass)
	n.Mass = m * SolarMass
	n.Shape = space.Sphere{Radius: SolarRadius * math.Pow(m, 0.8)}
	t := SolarTemperature * math.Pow(m, 0.475)
	n.Temperature = &t
	n.Precession = rng.Range(0, dynamo.TwoPi)
	return n, nil
}

// systemForStar builds a star system around a lone star, which becomes the
// system's primary at its center.
func systemForStar(_ context.Context, gc hierarchy.GenerationContext, star *space.Node) (hierarchy.Result, error) {
	rng := gc.Source
	n, err := newNode(rng, StarSystem)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	n.Shape = space.Sphere{Radius: rng.Range(systemMinRadius, systemMaxRadius)}
	n.Mass = star.Mass
	n.Temperature = ambient(gc.Temperature)

	star.Position = r3.Vec{}
	star.Velocity = r3.Vec{}
	star.Orbit = nil
	return hierarchy.Result{Primary: n, Children: []*space.Node{star}}, nil
}

// primaryStar returns the most massive star of a system.
func primaryStar(system *space.Node) *space.Node {
	var best *space.Node
	for _, c := range system.Children {
		if c.Kind == Star && (best == nil || c.Mass > best.Mass) {
			best = c
		}
	}
	return best
}

// planetZone is the typical orbital distance of planets around a star of
// the given mass.
func planetZone(starMass float64) float64 {
	return 30 * AU * math.Sqrt(starMass/SolarMass)
}

func systemChildren(system *space.Node) []hierarchy.ChildDefinition {
	v := system.Volume()
	if !(v > 0) {
		return nil
	}
	star := primaryStar(system)
	if star == nil {
		return nil
	}
	count := 3 + 6*math.Min(1, star.Mass/SolarMass)
	return []hierarchy.ChildDefinition{{
		Kind:    Planet,
		Space:   0.05 * AU,
		Density: count / v,
		Near:    &hierarchy.Target{Center: star.Position, Distance: planetZone(star.Mass)},
	}}
}
