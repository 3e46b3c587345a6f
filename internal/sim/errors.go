package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidState indicates a body position or velocity with NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a non-positive dt or duration.
	ErrInvalidConfig = errors.New("sim: invalid run config")
)

// SimulationError wraps an error with the step it happened on.
type SimulationError struct {
	Step    int
	Time    float64
	Sample  Sample
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
