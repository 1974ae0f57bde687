package hierarchy

import (
	"context"

	"github.com/san-kum/cosmosim/internal/random"
	"github.com/san-kum/cosmosim/internal/space"
	"gonum.org/v1/gonum/spatial/r3"
)

// ChildDefinition describes one type of child a parent may contain.
type ChildDefinition struct {
	Kind space.Kind
	// Space is the clearance radius a new child needs.
	Space float64
	// Density is the expected number of children per cubic meter of the
	// parent's volume.
	Density float64
	// Match reports whether an existing child counts against this
	// definition's budget. Nil matches children of the same kind.
	Match func(*space.Node) bool
	// Near, when set, places children around a target instead of
	// uniformly through the parent.
	Near *Target
}

func (d ChildDefinition) matches(n *space.Node) bool {
	if d.Match != nil {
		return d.Match(n)
	}
	return n.Kind == d.Kind
}

// Target centers placement at Center with a typical offset of Distance.
type Target struct {
	Center   r3.Vec
	Distance float64
}

// GenerationContext carries everything a configurator needs to build one
// structure.
type GenerationContext struct {
	Seed        int64
	Parent      *space.Node
	Position    r3.Vec
	Temperature *float64
	Source      *random.Source
}

// Result is a configured structure and the children it created with it.
type Result struct {
	Primary  *space.Node
	Children []*space.Node
}

// Configurator builds a child structure inside gc.Parent at gc.Position.
type Configurator interface {
	Configure(ctx context.Context, gc GenerationContext) (Result, error)
}

type ConfiguratorFunc func(ctx context.Context, gc GenerationContext) (Result, error)

func (f ConfiguratorFunc) Configure(ctx context.Context, gc GenerationContext) (Result, error) {
	return f(ctx, gc)
}

// ParentConfigurator builds the container structure for an existing
// child. The result's Primary is the new parent; Children holds the
// original child and anything created alongside it.
type ParentConfigurator interface {
	ConfigureParent(ctx context.Context, gc GenerationContext, child *space.Node) (Result, error)
}

type ParentConfiguratorFunc func(ctx context.Context, gc GenerationContext, child *space.Node) (Result, error)

func (f ParentConfiguratorFunc) ConfigureParent(ctx context.Context, gc GenerationContext, child *space.Node) (Result, error) {
	return f(ctx, gc, child)
}

// Enumerator lists the stored children of a node.
type Enumerator interface {
	Children(ctx context.Context, parentID string) ([]*space.Node, error)
}
