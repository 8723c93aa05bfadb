package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/solitons/internal/dynamo"
)

// Linspace returns m evenly spaced samples on [t0, t1], endpoints included.
func Linspace(t0, t1 float64, m int) ([]float64, error) {
	if m < 1 {
		return nil, dynamo.Invalidf("sample count must be positive, got %d", m)
	}
	if m == 1 {
		return []float64{t0}, nil
	}
	t := floats.Span(make([]float64, m), t0, t1)
	return t, ValidateTimes(t)
}

// Arange returns t0, t0+dt, ... for every value strictly below t1.
func Arange(t0, t1, dt float64) ([]float64, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, dynamo.Invalidf("time step must be positive, got %g", dt)
	}
	m := int(math.Ceil((t1 - t0) / dt))
	if m < 1 {
		return nil, dynamo.Invalidf("empty time range [%g, %g)", t0, t1)
	}
	t := make([]float64, m)
	for i := range t {
		t[i] = t0 + float64(i)*dt
	}
	return t, ValidateTimes(t)
}

// ValidateTimes checks that t is a non-empty, non-negative, strictly
// increasing sequence of finite values.
func ValidateTimes(t []float64) error {
	if len(t) == 0 {
		return dynamo.Invalidf("empty time sequence")
	}
	for i, v := range t {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return dynamo.Invalidf("time sample %d is not finite", i)
		}
		if v < 0 {
			return dynamo.Invalidf("time sample %d is negative: %g", i, v)
		}
		if i > 0 && v <= t[i-1] {
			return dynamo.Invalidf("time samples not strictly increasing at %d: %g after %g", i, v, t[i-1])
		}
	}
	return nil
}
