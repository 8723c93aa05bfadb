package integrators

import (
	"fmt"
	"math"

	"github.com/san-kum/solitons/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) Dim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	return dynamo.State{x[1], -x[0]}, nil
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

// stiffDecay relaxes quickly onto cos(t): y' = -λ(y - cos t) - sin t.
type stiffDecay struct{ lambda float64 }

func (s *stiffDecay) Dim() int { return 1 }

func (s *stiffDecay) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	return dynamo.State{-s.lambda*(x[0]-math.Cos(t)) - math.Sin(t)}, nil
}

// blowUp is y' = y², which is singular at t = 1/y0.
type blowUp struct{}

func (b *blowUp) Dim() int { return 1 }

func (b *blowUp) Derive(x dynamo.State, t float64) (dynamo.State, error) {
	d := dynamo.State{x[0] * x[0]}
	if !d.IsValid() {
		return nil, fmt.Errorf("%w: y=%g", dynamo.ErrNumericOverflow, x[0])
	}
	return d, nil
}
