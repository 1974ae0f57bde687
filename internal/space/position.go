package space

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrNotFound = errors.New("space: node not found")
	ErrCycle    = errors.New("space: cyclic position reference")
)

// Resolver fetches nodes by id.
type Resolver interface {
	Node(ctx context.Context, id string) (*Node, error)
}

// Index is an in-memory Resolver over a set of trees.
type Index map[string]*Node

func NewIndex(roots ...*Node) Index {
	ix := make(Index)
	for _, root := range roots {
		ix.Add(root)
	}
	return ix
}

// Add indexes n and its descendants.
func (ix Index) Add(n *Node) {
	n.Walk(func(c *Node, _ int) bool {
		ix[c.ID] = c
		return true
	})
}

func (ix Index) Node(_ context.Context, id string) (*Node, error) {
	n, ok := ix[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n, nil
}

// LocalPositionAt returns n's position relative to its parent's center t
// seconds after its orbit was defined. A node orbiting a sibling follows
// the sibling's own motion; a node without an orbit does not move.
func LocalPositionAt(ctx context.Context, n *Node, t float64, r Resolver) (r3.Vec, error) {
	p := newPropagation(r, t)
	return p.local(ctx, n)
}

// AbsolutePositionAt returns n's position in the frame of its root
// ancestor t seconds after definition.
func AbsolutePositionAt(ctx context.Context, n *Node, t float64, r Resolver) (r3.Vec, error) {
	p := newPropagation(r, t)
	return p.absolute(ctx, n)
}

type propagation struct {
	resolver Resolver
	t        float64
	visiting map[string]bool
}

func newPropagation(r Resolver, t float64) *propagation {
	return &propagation{resolver: r, t: t, visiting: make(map[string]bool)}
}

func (p *propagation) enter(n *Node) error {
	if p.visiting[n.ID] {
		return fmt.Errorf("%w at %s", ErrCycle, n.ID)
	}
	p.visiting[n.ID] = true
	return nil
}

func (p *propagation) leave(n *Node) { delete(p.visiting, n.ID) }

func (p *propagation) lookup(ctx context.Context, id string) (*Node, error) {
	if p.resolver == nil {
		return nil, fmt.Errorf("%w: %s (no resolver)", ErrNotFound, id)
	}
	return p.resolver.Node(ctx, id)
}

func (p *propagation) local(ctx context.Context, n *Node) (r3.Vec, error) {
	if n.Orbit == nil {
		return n.Position, nil
	}
	if err := p.enter(n); err != nil {
		return r3.Vec{}, err
	}
	defer p.leave(n)

	state, err := n.Orbit.StateAt(p.t)
	if err != nil {
		return r3.Vec{}, fmt.Errorf("propagate %s: %w", n.ID, err)
	}

	orbited := n.Orbit.OrbitedPosition
	if id := n.Orbit.OrbitedID; id != "" && id != n.ParentID {
		o, err := p.lookup(ctx, id)
		if err != nil {
			return r3.Vec{}, err
		}
		if o.ParentID == n.ParentID {
			orbited, err = p.local(ctx, o)
		} else {
			orbited, err = p.foreign(ctx, n, o)
		}
		if err != nil {
			return r3.Vec{}, err
		}
	}

	offset := r3.Sub(n.Orbit.Barycenter, n.Orbit.OrbitedPosition)
	return r3.Add(r3.Add(orbited, offset), state.Position), nil
}

// foreign expresses the position of a body outside n's container in n's
// parent frame.
func (p *propagation) foreign(ctx context.Context, n, o *Node) (r3.Vec, error) {
	abs, err := p.absolute(ctx, o)
	if err != nil {
		return r3.Vec{}, err
	}
	var origin r3.Vec
	if n.ParentID != "" {
		parent, err := p.lookup(ctx, n.ParentID)
		if err != nil {
			return r3.Vec{}, err
		}
		if origin, err = p.absolute(ctx, parent); err != nil {
			return r3.Vec{}, err
		}
	}
	return r3.Sub(abs, origin), nil
}

func (p *propagation) absolute(ctx context.Context, n *Node) (r3.Vec, error) {
	pos := r3.Vec{}
	seen := make(map[string]bool)
	for cur := n; ; {
		if seen[cur.ID] {
			return r3.Vec{}, fmt.Errorf("%w at %s", ErrCycle, cur.ID)
		}
		seen[cur.ID] = true

		if err := ctx.Err(); err != nil {
			return r3.Vec{}, err
		}
		local, err := p.local(ctx, cur)
		if err != nil {
			return r3.Vec{}, err
		}
		pos = r3.Add(pos, local)

		if cur.ParentID == "" {
			return pos, nil
		}
		parent, err := p.lookup(ctx, cur.ParentID)
		if err != nil {
			return r3.Vec{}, err
		}
		cur = parent
	}
}
