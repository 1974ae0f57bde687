// Package physics provides the equations of motion used to cross-check the
// analytic orbit propagator.
//
// [TwoBody] implements [dynamo.System] for the relative motion of two point
// masses and [dynamo.Hamiltonian] for its specific orbital energy:
//
//	sys, x0 := physics.FromOrbit(o)
//	energy := sys.Energy(x0)
//
// General N-body integration is deliberately absent; every generated orbit
// is a two-body orbit.
package physics
