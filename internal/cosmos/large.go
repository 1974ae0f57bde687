package cosmos

import (
	"context"
	"fmt"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/hierarchy"
	"github.com/san-kum/cosmosim/internal/orbit"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

// Number densities per cubic meter of the parent's volume.
const (
	superclusterDensity = 2.8e-74
	clusterDensity      = 3e-72
	galaxyDensity       = 3e-65
)

const (
	universeRadius = 4.4e26
	universeMass   = 1.5e53

	superclusterMinRadius = 1.5e24
	superclusterMaxRadius = 3e24
	clusterMinRadius      = 1e22
	clusterMaxRadius      = 3e22
)

func configureUniverse(_ context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	n, err := newNode(gc.Source, Universe)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	n.Shape = space.Sphere{Radius: universeRadius}
	n.Mass = universeMass
	t := BackgroundTemperature
	n.Temperature = &t
	return hierarchy.Result{Primary: n}, nil
}

func universeChildren(*space.Node) []hierarchy.ChildDefinition {
	return []hierarchy.ChildDefinition{
		{Kind: Supercluster, Space: superclusterMaxRadius, Density: superclusterDensity},
	}
}

func configureSupercluster(_ context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	rng := gc.Source
	n, err := newNode(rng, Supercluster)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	n.Shape = space.Sphere{Radius: rng.Range(superclusterMinRadius, superclusterMaxRadius)}
	n.Mass = rng.Range(2e46, 2e47)
	n.Temperature = ambient(gc.Temperature)
	return hierarchy.Result{Primary: n}, nil
}

func superclusterChildren(*space.Node) []hierarchy.ChildDefinition {
	return []hierarchy.ChildDefinition{
		{Kind: GalaxyCluster, Space: clusterMaxRadius, Density: clusterDensity},
	}
}

func configureGalaxyCluster(_ context.Context, gc hierarchy.GenerationContext) (hierarchy.Result, error) {
	rng := gc.Source
	n, err := newNode(rng, GalaxyCluster)
	if err != nil {
		return hierarchy.Result{}, err
	}
	n.Position = gc.Position
	n.Shape = space.Sphere{Radius: rng.Range(clusterMinRadius, clusterMaxRadius)}
	n.Mass = dynamo.Clamp(rng.LogLogistic(2e44, 3), 1e43, 4e45)
	// intracluster medium
	t := rng.Range(1e7, 1e8)
	n.Temperature = &t
	return hierarchy.Result{Primary: n}, nil
}

func clusterChildren(*space.Node) []hierarchy.ChildDefinition {
	return []hierarchy.ChildDefinition{
		{Kind: Galaxy, Space: galaxyMaxRadius, Density: galaxyDensity},
	}
}

// clusterForGalaxy builds a galaxy cluster centered on a lone galaxy.
func clusterForGalaxy(ctx context.Context, gc hierarchy.GenerationContext, galaxy *space.Node) (hierarchy.Result, error) {
	res, err := configureGalaxyCluster(ctx, gc)
	if err != nil {
		return hierarchy.Result{}, err
	}
	cluster := res.Primary
	if galaxy.ContainingRadius() >= cluster.ContainingRadius() {
		return hierarchy.Result{}, fmt.Errorf("galaxy %s does not fit a cluster", galaxy.ID)
	}
	galaxy.Position = r3.Vec{}
	galaxy.Orbit = nil
	galaxy.Velocity = r3.Vec{}
	return hierarchy.Result{Primary: cluster, Children: []*space.Node{galaxy}}, nil
}

// centerOf describes parent's center of mass as the primary of its
// children. Children orbit the container itself, whose center does not
// move in the container's own frame.
func centerOf(parent *space.Node, mass float64) orbit.Primary {
	return orbit.Primary{ID: parent.ID, Mass: mass}
}

func ambient(t *float64) *float64 {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
