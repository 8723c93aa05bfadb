package metrics

import (
	"math"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
	"github.com/san-kum/solitons/internal/physics"
)

// Drift records the largest change of a functional relative to its value
// on the first row. When the first value is zero the change is absolute.
type Drift struct {
	name     string
	fn       func(dynamo.State) float64
	initial  float64
	current  float64
	maxDrift float64
	samples  int
}

func NewDrift(name string, fn func(dynamo.State) float64) *Drift {
	return &Drift{name: name, fn: fn}
}

func NewMassDrift(g *grid.Grid) *Drift {
	return NewDrift("mass_drift", func(u dynamo.State) float64 { return physics.Mass(g, u) })
}

func NewMomentumDrift(g *grid.Grid) *Drift {
	return NewDrift("momentum_drift", func(u dynamo.State) float64 { return physics.Momentum(g, u) })
}

// NewEnergyDrift watches the Hamiltonian of sys. It returns nil when sys
// has none.
func NewEnergyDrift(sys dynamo.System) *Drift {
	h, ok := sys.(dynamo.Hamiltonian)
	if !ok {
		return nil
	}
	return NewDrift("energy_drift", h.Energy)
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) OnSample(_ int, _ float64, u dynamo.State) {
	v := d.fn(u)
	if d.samples == 0 {
		d.initial = v
	}
	d.current = v
	d.samples++

	drift := math.Abs(v - d.initial)
	if d.initial != 0 {
		drift /= math.Abs(d.initial)
	}
	d.maxDrift = math.Max(d.maxDrift, drift)
}

func (d *Drift) Value() float64 { return d.maxDrift }

// Current is the functional on the latest row.
func (d *Drift) Current() float64 { return d.current }

func (d *Drift) Reset() {
	d.initial = 0
	d.current = 0
	d.maxDrift = 0
	d.samples = 0
}
