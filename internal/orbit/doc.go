// Package orbit implements two-body Kepler orbits: construction from several
// input parameterizations and propagation of position and velocity in time.
//
// An [Orbit] is an immutable value. The Assign functions build one from the
// current state of an orbiting body and hand it back to that body through
// [Orbiter.SetOrbit], together with the velocity (and, for some modes, the
// position) consistent with it:
//
//   - [AssignCircular]: circular orbit through the current position
//   - [AssignFromEccentricity]: keeps the current position, random true anomaly
//   - [AssignElements]: full element set, repositions the body
//   - [AssignFromPeriod]: eccentricity plus period, repositions the body
//
// # Propagation
//
// [Orbit.StateAt] uses the universal-variable formulation with Stumpff
// functions, solved by a safeguarded Newton iteration. The iteration is
// bounded; failing to converge returns a [dynamo.ConvergenceError].
//
//	sv, err := o.StateAt(3600)
//	if err != nil {
//	    return err
//	}
//	abs := r3.Add(o.Barycenter, sv.Position)
package orbit
