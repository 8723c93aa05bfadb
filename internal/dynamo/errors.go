package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the solver pipeline.
var (
	// ErrInvalidConfiguration indicates bad grid, time or physics input.
	// It is reported before any computation starts.
	ErrInvalidConfiguration = errors.New("dynamo: invalid configuration")

	// ErrIntegrationDivergence indicates the step controller could not reach
	// the next reporting time within its step ceiling.
	ErrIntegrationDivergence = errors.New("dynamo: integration diverged")

	// ErrNumericOverflow indicates non-finite values or a large imaginary
	// residue in a Fourier round trip. It is always surfaced wrapped in a
	// DivergenceError.
	ErrNumericOverflow = errors.New("dynamo: numeric overflow")

	// ErrStepTooSmall indicates the adaptive step fell below round-off.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates a state of the wrong length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// Invalidf builds an ErrInvalidConfiguration with detail.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}

// DivergenceError reports the reporting interval in which integration failed.
type DivergenceError struct {
	Interval int
	From, To float64
	Time     float64
	Steps    int
	Cause    error
}

func (e *DivergenceError) Error() string {
	msg := fmt.Sprintf("%s in interval %d [%g, %g] at t=%g after %d steps",
		ErrIntegrationDivergence, e.Interval, e.From, e.To, e.Time, e.Steps)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DivergenceError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrIntegrationDivergence}
	}
	return []error{ErrIntegrationDivergence, e.Cause}
}
