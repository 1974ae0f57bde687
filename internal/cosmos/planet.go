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
	giantFraction = 0.25
	jupiterRadius = 6.9911e7
	bondAlbedo    = 0.3
)

func configurePlanet(_ context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	rng := gc.Source
	n, err := newNode(rng, Planet)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position

	if rng.Bool(giantFraction) {
		m := dynamo.Clamp(rng.LogLogistic(0.5, 2), 0.05, 13)
		n.Mass = m * JupiterMass
		n.Shape = space.Sphere{Radius: jupiterRadius * rng.Range(0.8, 1.2)}
	} else {
		m := dynamo.Clamp(rng.LogLogistic(1, 2), 0.01, 10)
		n.Mass = m * EarthMass
		n.Shape = space.Sphere{Radius: EarthRadius * math.Pow(m, 0.27)}
	}
	n.Precession = rng.Range(0, dynamo.TwoPi)
	n.Temperature = ambient(gc.Temperature)

	parent := gc.Parent
	if parent == nil {
		return hierarchy.Result{Primary: n}, nil
	}
	primary := centerOf(parent, parent.Mass)
	star := primaryStar(parent)
	if star != nil {
		primary = star.AsPrimary()
	}
	if primary.Mass > 0 && r3.Norm(r3.Sub(n.Position, primary.Position)) > 0 {
		e := dynamo.Clamp(math.Abs(rng.Normal(0, 0.1)), 0, 0.95)
		o, err := orbit.AssignFromEccentricity(rng, n, primary, e)
		if err != nil {
			return hierarchy.Result{}, err
		}
		if star != nil && star.Temperature != nil {
			t := equilibriumTemperature(*star.Temperature, star.ContainingRadius(), o.SemiMajorAxis)
			n.Temperature = &t
		}
	}
	return hierarchy.Result{Primary: n}, nil
}

// equilibriumTemperature is the blackbody temperature of a planet at mean
// distance d from a star with the given surface temperature and radius.
func equilibriumTemperature(starTemp, starRadius, d float64) float64 {
	if !(d > 0) || math.IsInf(d, 0) {
		return 0
	}
	return starTemp * math.Sqrt(starRadius/(2*d)) * math.Pow(1-bondAlbedo, 0.25)
}
