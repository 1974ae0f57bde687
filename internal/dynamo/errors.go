package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for orbit and placement operations.
var (
	// ErrConvergence indicates an iterative solver did not reach tolerance.
	ErrConvergence = errors.New("dynamo: iteration did not converge")

	// ErrDegenerateOrbit indicates an orbit or placement that cannot exist
	// (zero combined mass, non-positive semi-major axis, oversized clearance).
	ErrDegenerateOrbit = errors.New("dynamo: degenerate orbit")

	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// ConvergenceError wraps ErrConvergence with solver context.
type ConvergenceError struct {
	Iterations int
	Residual   float64
	Elapsed    float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v after %d iterations (residual %.3e, t=%.6gs)",
		ErrConvergence, e.Iterations, e.Residual, e.Elapsed)
}

func (e *ConvergenceError) Unwrap() error {
	return ErrConvergence
}

// DegenerateOrbitError wraps ErrDegenerateOrbit with the offending quantity.
type DegenerateOrbitError struct {
	Quantity string
	Value    float64
}

func (e *DegenerateOrbitError) Error() string {
	return fmt.Sprintf("%v: %s = %g", ErrDegenerateOrbit, e.Quantity, e.Value)
}

func (e *DegenerateOrbitError) Unwrap() error {
	return ErrDegenerateOrbit
}

// Degenerate is shorthand for constructing a DegenerateOrbitError.
func Degenerate(quantity string, value float64) error {
	return &DegenerateOrbitError{Quantity: quantity, Value: value}
}
