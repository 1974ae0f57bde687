// Package dynamo provides the numeric primitives shared by the orbit engine
// and the structure generator.
//
// The package defines:
//
//   - [State]: a flat vector used by the numeric integrators
//   - [StateVector]: a position/velocity pair over [r3.Vec]
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [ConvergenceError] and [DegenerateOrbitError]: the error taxonomy
//   - angle normalization helpers and physical constants
//
// Scalars are float64. The models in this module span roughly 1e-40 to 1e40
// in magnitude, well inside the float64 exponent range.
//
// # Errors
//
// Both error types unwrap to a sentinel so callers can match with errors.Is:
//
//	if errors.Is(err, dynamo.ErrConvergence) {
//	    // retry with another starting guess, or give up
//	}
package dynamo
