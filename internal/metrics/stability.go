package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/spectral"
)

// Stability is the fraction of rows whose amplitude stays below threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) OnSample(_ int, _ float64, u dynamo.State) {
	s.samples++
	if u.MaxAbs() > s.threshold || !u.IsValid() {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// Steepness follows min u_x, the slope of the steepest descending front.
// Value is the latest minimum; History keeps one entry per row.
type Steepness struct {
	diff    *spectral.Differentiator
	history []float64
}

func NewSteepness(d *spectral.Differentiator) *Steepness {
	return &Steepness{diff: d}
}

func (s *Steepness) Name() string { return "min_gradient" }

func (s *Steepness) OnSample(_ int, _ float64, u dynamo.State) {
	ux, err := s.diff.Derivative(u, 1)
	if err != nil {
		s.history = append(s.history, math.NaN())
		return
	}
	s.history = append(s.history, floats.Min(ux))
}

func (s *Steepness) Value() float64 {
	if len(s.history) == 0 {
		return 0
	}
	return s.history[len(s.history)-1]
}

func (s *Steepness) History() []float64 {
	return append([]float64(nil), s.history...)
}

func (s *Steepness) Reset() { s.history = s.history[:0] }

// Peak is the largest amplitude seen over the run.
type Peak struct {
	max float64
}

func NewPeak() *Peak { return &Peak{} }

func (p *Peak) Name() string { return "peak" }

func (p *Peak) OnSample(_ int, _ float64, u dynamo.State) {
	p.max = math.Max(p.max, u.MaxAbs())
}

func (p *Peak) Value() float64 { return p.max }

func (p *Peak) Reset() { p.max = 0 }
