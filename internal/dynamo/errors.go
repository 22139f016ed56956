package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for damper operations.
var (
	// ErrInvalidParameter indicates a frequency, damping ratio or response
	// outside its valid range.
	ErrInvalidParameter = errors.New("dynamo: invalid damper parameter")

	// ErrInvalidTimestep indicates a non-positive or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive and finite")

	// ErrNumericDegenerate indicates the step coefficients or the stepped
	// state would be non-positive, NaN or Inf.
	ErrNumericDegenerate = errors.New("dynamo: numerically degenerate step")

	// ErrShapeMismatch indicates a target, velocity or initial state whose
	// shape differs from the damper state, such as a vector of another
	// length.
	ErrShapeMismatch = errors.New("dynamo: value shape does not match damper state")
)

// ParamError names the parameter that failed validation.
type ParamError struct {
	Name  string
	Value float64
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s = %g", ErrInvalidParameter, e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}

// StepError wraps a failed step with the step counter and dt it was called
// with. The damper state is unchanged when a StepError is returned.
type StepError struct {
	Step    int
	Dt      float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (dt=%g): %v", e.Step, e.Dt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
