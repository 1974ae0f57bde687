package hierarchy

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/space"
)

// Populate generates the sub-hierarchy of root down to depth levels, with
// at most limit new children per node, and attaches every new node to its
// parent in memory. It returns the new nodes in generation order.
func (g *Generator) Populate(ctx context.Context, root *space.Node, depth, limit int, rng *random.Source) ([]*space.Node, error) {
	start := time.Now()
	var out []*space.Node
	if err := g.populate(ctx, root, depth, limit, rng, g.enumerator != nil, &out); err != nil {
		return out, err
	}
	g.logger.Info("hierarchy populated",
		"operation", "populate",
		"root_id", root.ID,
		"root_kind", root.Kind,
		"depth", depth,
		"nodes", len(out),
		"duration", time.Since(start),
	)
	return out, nil
}

func (g *Generator) populate(ctx context.Context, parent *space.Node, depth, limit int, rng *random.Source, stored bool, out *[]*space.Node) error {
	if depth <= 0 {
		return nil
	}
	for gen, err := range g.children(ctx, parent, g.registry.Definitions(parent), limit, rng, stored) {
		if err != nil {
			return err
		}
		parent.AddChild(gen.Node)
		if err := g.expand(ctx, gen, depth-1, limit, out); err != nil {
			return err
		}
	}
	return nil
}

// expand records a generated node with its companions and populates
// beneath it from its own source.
func (g *Generator) expand(ctx context.Context, gen *Generated, depth, limit int, out *[]*space.Node) error {
	*out = append(*out, gen.Node)
	for _, c := range gen.Children {
		gen.Node.AddChild(c)
		c.Walk(func(n *space.Node, _ int) bool {
			*out = append(*out, n)
			return true
		})
	}
	return g.populate(ctx, gen.Node, depth, limit, gen.Source, false, out)
}

// Reconstitute regenerates a structure from its stored kind, seed and
// position inside parent, then its sub-hierarchy down to depth levels.
// The parent must hold the same siblings it held when the structure was
// first generated for the result to match.
func (g *Generator) Reconstitute(ctx context.Context, parent, stub *space.Node, depth, limit int) (*space.Node, []*space.Node, error) {
	cfg, err := g.registry.Configurator(stub.Kind)
	if err != nil {
		return nil, nil, err
	}
	gen, err := configure(ctx, cfg, GenerationContext{
		Seed:        stub.Seed,
		Parent:      parent,
		Position:    stub.Position,
		Temperature: parent.Temperature,
		Source:      random.New(stub.Seed),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("reconstitute %s: %w", stub.ID, err)
	}
	if stub.ID != "" {
		gen.Node.ID = stub.ID
	}
	if stub.Name != "" {
		gen.Node.Name = stub.Name
	}

	var out []*space.Node
	if err := g.expand(ctx, gen, depth, limit, &out); err != nil {
		return nil, nil, err
	}
	g.logger.Debug("structure reconstituted", "operation", "reconstitute", "id", gen.Node.ID, "nodes", len(out))
	return gen.Node, out, nil
}

// Wrap builds the container structure for child, for example the system
// around a lone star, and attaches child to it.
func (g *Generator) Wrap(ctx context.Context, child *space.Node, rng *random.Source) (*space.Node, error) {
	pc, err := g.registry.ParentConfigurator(child.Kind)
	if err != nil {
		return nil, err
	}
	seed := rng.Int63()
	res, err := pc.ConfigureParent(ctx, GenerationContext{
		Seed:        seed,
		Position:    child.Position,
		Temperature: child.Temperature,
		Source:      random.New(seed),
	}, child)
	if err != nil {
		return nil, fmt.Errorf("wrap %s: %w", child.ID, err)
	}
	if res.Primary == nil {
		return nil, fmt.Errorf("wrap %s: parent configurator produced no structure", child.ID)
	}

	parent := res.Primary
	parent.Seed = seed
	for _, c := range res.Children {
		parent.AddChild(c)
	}
	return parent, nil
}

// Root configures a top-level structure of the given kind from seed. The
// root has no parent; companions created with it are attached.
func (g *Generator) Root(ctx context.Context, kind space.Kind, seed int64) (*Generated, error) {
	cfg, err := g.registry.Configurator(kind)
	if err != nil {
		return nil, err
	}
	gen, err := configure(ctx, cfg, GenerationContext{
		Seed:   seed,
		Parent: &space.Node{},
		Source: random.New(seed),
	})
	if err != nil {
		return nil, fmt.Errorf("configure root %s: %w", kind, err)
	}
	for _, c := range gen.Children {
		gen.Node.AddChild(c)
	}
	gen.Children = nil
	return gen, nil
}
