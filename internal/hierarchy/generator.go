package hierarchy

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math"

	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

// Generated is one child yielded by Generator.Children, together with the
// children its configurator created alongside it.
type Generated struct {
	Node     *space.Node
	Children []*space.Node
	// Source is the child's own random stream, positioned after its
	// configuration. Populating the child's sub-hierarchy continues from
	// it, which makes that sub-hierarchy a function of the child's seed.
	Source *random.Source
}

type Options struct {
	// MaxAttempts bounds placement sampling per child.
	MaxAttempts int
	// Enumerator, when set, supplies the stored children of a parent for
	// budget reconciliation. Otherwise the parent's in-memory children
	// are used.
	Enumerator Enumerator
	Logger     *slog.Logger
}

type Generator struct {
	registry   *Registry
	finder     OpenSpaceFinder
	enumerator Enumerator
	logger     *slog.Logger
}

func New(registry *Registry, opts Options) *Generator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		registry:   registry,
		finder:     OpenSpaceFinder{MaxAttempts: opts.MaxAttempts},
		enumerator: opts.Enumerator,
		logger:     logger.With("component", "hierarchy"),
	}
}

func (g *Generator) Registry() *Registry { return g.registry }

// Children lazily generates up to limit new children of parent from the
// registered definitions for parent's kind.
func (g *Generator) Children(ctx context.Context, parent *space.Node, limit int, rng *random.Source) iter.Seq2[*Generated, error] {
	return g.ChildrenOf(ctx, parent, g.registry.Definitions(parent), limit, rng)
}

// ChildrenOf lazily generates up to limit new children of parent from defs.
// The sequence ends when limit children were produced, when every definition
// is exhausted or unplaceable, or at the first error. Stopping early has no
// effect beyond the children already yielded.
func (g *Generator) ChildrenOf(ctx context.Context, parent *space.Node, defs []ChildDefinition, limit int, rng *random.Source) iter.Seq2[*Generated, error] {
	return g.children(ctx, parent, defs, limit, rng, g.enumerator != nil)
}

// candidate tracks the remaining budget of one definition during a call.
type candidate struct {
	def    ChildDefinition
	budget float64
}

func (g *Generator) children(ctx context.Context, parent *space.Node, defs []ChildDefinition, limit int, rng *random.Source, stored bool) iter.Seq2[*Generated, error] {
	return func(yield func(*Generated, error) bool) {
		log := g.logger.With("operation", "children", "parent_id", parent.ID, "parent_kind", parent.Kind)

		existing, err := g.existing(ctx, parent, stored)
		if err != nil {
			yield(nil, err)
			return
		}

		volume := parent.Volume()
		candidates := make([]*candidate, len(defs))
		for i, d := range defs {
			candidates[i] = &candidate{def: d, budget: volume * math.Max(d.Density, 0)}
		}
		obstacles := make([]Obstacle, 0, len(existing))
		for _, c := range existing {
			for _, cand := range candidates {
				if cand.def.matches(c) {
					cand.budget--
					break
				}
			}
			obstacles = append(obstacles, Obstacle{Position: c.Position, Shape: c.Shape})
		}

		active := make([]*candidate, 0, len(candidates))
		for _, cand := range candidates {
			if cand.def.Density > 0 && cand.budget > 0 {
				active = append(active, cand)
			}
		}

		configurators := make(map[space.Kind]Configurator)
		produced := 0
		weights := make([]float64, 0, len(active))

		for produced < limit && len(active) > 0 {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			weights = weights[:0]
			for _, cand := range active {
				weights = append(weights, 1/cand.def.Density)
			}
			idx := rng.WeightedIndex(weights)
			if idx < 0 {
				break
			}
			cand := active[idx]

			if cand.budget < 1 && !rng.Bool(cand.budget) {
				active = remove(active, idx)
				continue
			}

			pos, ok, err := g.place(rng, parent, cand.def, obstacles)
			if err != nil {
				yield(nil, fmt.Errorf("place %s in %s: %w", cand.def.Kind, parent.ID, err))
				return
			}
			if !ok {
				log.Debug("no open space", "kind", cand.def.Kind, "clearance", cand.def.Space)
				active = remove(active, idx)
				continue
			}

			cand.budget--
			if cand.budget <= 0 {
				active = remove(active, idx)
			}

			cfg, ok := configurators[cand.def.Kind]
			if !ok {
				if cfg, err = g.registry.Configurator(cand.def.Kind); err != nil {
					yield(nil, err)
					return
				}
				configurators[cand.def.Kind] = cfg
			}

			seed := rng.Int63()
			gen, err := configure(ctx, cfg, GenerationContext{
				Seed:        seed,
				Parent:      parent,
				Position:    pos,
				Temperature: parent.Temperature,
				Source:      random.New(seed),
			})
			if err != nil {
				yield(nil, fmt.Errorf("configure %s in %s: %w", cand.def.Kind, parent.ID, err))
				return
			}

			radius := math.Max(cand.def.Space, gen.Node.ContainingRadius())
			obstacles = append(obstacles, Obstacle{Position: pos, Shape: space.Sphere{Radius: radius}})
			produced++

			log.Debug("child generated", "kind", gen.Node.Kind, "id", gen.Node.ID)
			if !yield(gen, nil) {
				return
			}
		}

		log.Info("children complete", "produced", produced, "existing", len(existing))
	}
}

func (g *Generator) place(rng *random.Source, parent *space.Node, def ChildDefinition, obstacles []Obstacle) (r3.Vec, bool, error) {
	if def.Near != nil {
		return g.finder.Near(rng, parent.Shape, def.Space, obstacles, *def.Near)
	}
	return g.finder.Find(rng, parent.Shape, def.Space, obstacles)
}

func (g *Generator) existing(ctx context.Context, parent *space.Node, stored bool) ([]*space.Node, error) {
	if !stored || parent.ID == "" {
		return parent.Children, nil
	}
	nodes, err := g.enumerator.Children(ctx, parent.ID)
	if err != nil {
		return nil, fmt.Errorf("enumerate children of %s: %w", parent.ID, err)
	}
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		seen[n.ID] = true
	}
	for _, c := range parent.Children {
		if !seen[c.ID] {
			nodes = append(nodes, c)
		}
	}
	return nodes, nil
}

func configure(ctx context.Context, cfg Configurator, gc GenerationContext) (*Generated, error) {
	res, err := cfg.Configure(ctx, gc)
	if err != nil {
		return nil, err
	}
	if res.Primary == nil {
		return nil, fmt.Errorf("configurator produced no structure")
	}
	n := res.Primary
	n.ParentID = gc.Parent.ID
	n.Seed = gc.Seed
	for _, c := range res.Children {
		if c.ParentID == "" {
			c.ParentID = n.ID
		}
	}
	return &Generated{Node: n, Children: res.Children, Source: gc.Source}, nil
}

func remove(active []*candidate, i int) []*candidate {
	return append(active[:i], active[i+1:]...)
}
