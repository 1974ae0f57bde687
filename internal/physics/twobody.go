package physics

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/orbit"
	"gonum.org/v1/gonum/spatial/r3"
)

// TwoBody is the relative two-body problem r'' = -μ r/|r|³. The state is
// the orbiting body's position and velocity relative to the orbited body,
// packed as by dynamo.StateVector.Flatten.
type TwoBody struct {
	Mu float64
	// MassFraction is m/(M+m); it converts relative vectors to
	// barycentric ones.
	MassFraction float64
}

// FromOrbit returns the system for o and its initial relative state.
func FromOrbit(o orbit.Orbit) (*TwoBody, dynamo.State) {
	total := o.OrbitedMass + o.OrbitingMass
	return &TwoBody{
		Mu:           o.StandardGravitationalParameter,
		MassFraction: o.OrbitingMass / total,
	}, o.RelativeState().Flatten()
}

func (tb *TwoBody) StateDim() int { return 6 }

func (tb *TwoBody) Derive(x dynamo.State, t float64) dynamo.State {
	r := math.Sqrt(x[0]*x[0] + x[1]*x[1] + x[2]*x[2])
	k := -tb.Mu / (r * r * r)
	return dynamo.State{x[3], x[4], x[5], k * x[0], k * x[1], k * x[2]}
}

// Energy returns the specific orbital energy v²/2 - μ/r.
func (tb *TwoBody) Energy(x dynamo.State) float64 {
	sv := dynamo.Unflatten(x)
	return 0.5*r3.Dot(sv.Velocity, sv.Velocity) - tb.Mu/r3.Norm(sv.Position)
}

// AngularMomentum returns the specific angular momentum r × v.
func (tb *TwoBody) AngularMomentum(x dynamo.State) r3.Vec {
	sv := dynamo.Unflatten(x)
	return r3.Cross(sv.Position, sv.Velocity)
}

// Barycentric converts a relative state into the orbiting body's state
// relative to the barycenter, the frame orbit.Orbit.StateAt reports in.
func (tb *TwoBody) Barycentric(x dynamo.State) dynamo.StateVector {
	sv := dynamo.Unflatten(x)
	k := 1 - tb.MassFraction
	return dynamo.StateVector{Position: r3.Scale(k, sv.Position), Velocity: r3.Scale(k, sv.Velocity)}
}
