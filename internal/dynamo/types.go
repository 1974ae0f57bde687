package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// G is the Newtonian gravitational constant in m³/(kg·s²).
const G = 6.67408e-11

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 { return floats.Norm(s, 2) }

// Distance is the Euclidean distance between two states of equal length.
func (s State) Distance(o State) float64 { return floats.Distance(s, o, 2) }

// StateVector is a position/velocity pair in a single reference frame.
type StateVector struct {
	Position r3.Vec
	Velocity r3.Vec
}

// Flatten packs the pair into a six component State for the integrators.
func (sv StateVector) Flatten() State {
	return State{
		sv.Position.X, sv.Position.Y, sv.Position.Z,
		sv.Velocity.X, sv.Velocity.Y, sv.Velocity.Z,
	}
}

// Unflatten is the inverse of Flatten. It panics if s has fewer than six components.
func Unflatten(s State) StateVector {
	return StateVector{
		Position: r3.Vec{X: s[0], Y: s[1], Z: s[2]},
		Velocity: r3.Vec{X: s[3], Y: s[4], Z: s[5]},
	}
}

func (sv StateVector) IsValid() bool {
	return sv.Flatten().IsValid()
}

func (sv StateVector) String() string {
	return fmt.Sprintf("r=(%.6g, %.6g, %.6g) v=(%.6g, %.6g, %.6g)",
		sv.Position.X, sv.Position.Y, sv.Position.Z,
		sv.Velocity.X, sv.Velocity.Y, sv.Velocity.Z)
}

type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t float64, dt float64) State
}
