package space

import (
	"fmt"

	"github.com/san-kum/cosmosim/internal/orbit"
	"gonum.org/v1/gonum/spatial/r3"
)

// Kind discriminates structure types (galaxy, star, planet, ...).
type Kind string

// Node is one structure in the hierarchy. Position and Velocity are
// relative to the center of the parent container; a node with an orbit
// has the position and velocity it had when the orbit was defined.
type Node struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Kind     Kind   `json:"kind"`
	Name     string `json:"name,omitempty"`
	// Seed regenerates the node's sub-hierarchy.
	Seed int64 `json:"seed"`

	Position r3.Vec       `json:"position"`
	Velocity r3.Vec       `json:"velocity"`
	Mass     float64      `json:"mass"`
	Shape    Shape        `json:"-"`
	Orbit    *orbit.Orbit `json:"orbit,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	Precession  float64  `json:"axial_precession,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

func (n *Node) ContainingRadius() float64 {
	if n.Shape == nil {
		return 0
	}
	return n.Shape.ContainingRadius()
}

func (n *Node) Volume() float64 {
	if n.Shape == nil {
		return 0
	}
	return n.Shape.Volume()
}

func (n *Node) OrbitalState() (r3.Vec, float64) { return n.Position, n.Mass }

func (n *Node) SetOrbit(o orbit.Orbit, position, velocity r3.Vec) {
	n.Orbit = &o
	n.Position = position
	n.Velocity = velocity
}

func (n *Node) AxialPrecession() float64 { return n.Precession }

// AsPrimary describes n as the orbited body of one of its siblings.
func (n *Node) AsPrimary() orbit.Primary {
	return orbit.Primary{
		ID:       n.ID,
		Mass:     n.Mass,
		Position: n.Position,
		Radius:   n.ContainingRadius(),
	}
}

// AddChild appends c and points its ParentID at n.
func (n *Node) AddChild(c *Node) {
	c.ParentID = n.ID
	n.Children = append(n.Children, c)
}

// Walk visits n and its in-memory descendants depth first. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node, int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

func (n *Node) String() string {
	label := n.Name
	if label == "" {
		label = n.ID
	}
	return fmt.Sprintf("%s %s (m=%.3g kg, r=%.3g m)", n.Kind, label, n.Mass, n.ContainingRadius())
}
