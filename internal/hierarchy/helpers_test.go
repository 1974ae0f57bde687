package hierarchy

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	kindCluster space.Kind = "cluster"
	kindGalaxy  space.Kind = "galaxy"
	kindStar    space.Kind = "star"
	kindDust    space.Kind = "dust"
)

// leaf configures a node of the given kind and radius at the requested
// position; calls counts invocations when non-nil.
func leaf(kind space.Kind, radius float64, calls *int) Configurator {
	return ConfiguratorFunc(func(_ context.Context, gc GenerationContext) (Result, error) {
		if calls != nil {
			*calls++
		}
		n := &space.Node{
			ID:       fmt.Sprintf("%s-%016x", kind, gc.Source.Int63()),
			Kind:     kind,
			Position: gc.Position,
			Mass:     gc.Source.Range(1, 2),
			Shape:    space.Sphere{Radius: radius},
		}
		return Result{Primary: n}, nil
	})
}

func sphereVolume(r float64) float64 { return 4.0 / 3 * math.Pi * r * r * r }

// testRegistry registers cluster → galaxy → star, each galaxy created
// with one dust companion.
func testRegistry() *Registry {
	r := NewRegistry()
	r.Register(kindCluster, KindEntry{
		Configurator: leaf(kindCluster, 1e6, nil),
		Children: func(parent *space.Node) []ChildDefinition {
			return []ChildDefinition{{Kind: kindGalaxy, Space: 1e4, Density: 6.5 / parent.Volume()}}
		},
	})
	r.Register(kindGalaxy, KindEntry{
		Configurator: ConfiguratorFunc(func(ctx context.Context, gc GenerationContext) (Result, error) {
			res, err := leaf(kindGalaxy, 1e4, nil).Configure(ctx, gc)
			if err != nil {
				return Result{}, err
			}
			dust := &space.Node{
				ID:    fmt.Sprintf("dust-%016x", gc.Source.Int63()),
				Kind:  kindDust,
				Shape: space.Sphere{Radius: 10},
			}
			res.Children = []*space.Node{dust}
			return res, nil
		}),
		Children: func(parent *space.Node) []ChildDefinition {
			return []ChildDefinition{{Kind: kindStar, Space: 10, Density: 3.5 / parent.Volume()}}
		},
	})
	r.Register(kindStar, KindEntry{Configurator: leaf(kindStar, 1, nil)})
	return r
}

func newCluster() *space.Node {
	return &space.Node{ID: "root", Kind: kindCluster, Shape: space.Sphere{Radius: 1e6}}
}

func drain(gen *Generator, ctx context.Context, parent *space.Node, defs []ChildDefinition, limit int, seed int64) ([]*Generated, error) {
	var out []*Generated
	for g, err := range gen.ChildrenOf(ctx, parent, defs, limit, newSource(seed)) {
		if err != nil {
			return out, err
		}
		out = append(out, g)
	}
	return out, nil
}

func minSeparation(gs []*Generated) float64 {
	best := math.Inf(1)
	for i := range gs {
		for j := i + 1; j < len(gs); j++ {
			d := r3.Norm(r3.Sub(gs[i].Node.Position, gs[j].Node.Position))
			best = math.Min(best, d)
		}
	}
	return best
}
