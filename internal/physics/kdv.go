package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
	"github.com/san-kum/solitons/internal/spectral"
)

// KdV is the Korteweg-de Vries equation u_t = -6·u·u_x - u_xxx on a
// periodic grid, semi-discretized with spectral derivatives.
type KdV struct {
	grid *grid.Grid
	diff *spectral.Differentiator
}

func NewKdV(g *grid.Grid) *KdV {
	return &KdV{grid: g, diff: spectral.NewDifferentiator(g)}
}

func (k *KdV) Dim() int { return k.grid.N }

func (k *KdV) Derive(u dynamo.State, _ float64) (dynamo.State, error) {
	d, err := k.diff.Derivatives(u, 1, 3)
	if err != nil {
		return nil, err
	}
	ux, uxxx := d[0], d[1]

	dudt := make(dynamo.State, len(u))
	for j := range u {
		dudt[j] = -6*u[j]*ux[j] - uxxx[j]
	}
	if !dudt.IsValid() {
		return nil, fmt.Errorf("%w: non-finite KdV tendency", dynamo.ErrNumericOverflow)
	}
	return dudt, nil
}

// Energy is the KdV Hamiltonian ∫(½·u_x² - u³)dx. It returns NaN for a
// state of the wrong length.
func (k *KdV) Energy(u dynamo.State) float64 {
	ux, err := k.diff.Derivative(u, 1)
	if err != nil {
		return math.NaN()
	}
	h := make([]float64, len(u))
	for j := range u {
		h[j] = 0.5*ux[j]*ux[j] - u[j]*u[j]*u[j]
	}
	return k.grid.Integrate(h)
}

func (k *KdV) GetParams() map[string]float64 {
	return map[string]float64{"length": k.grid.L, "points": float64(k.grid.N)}
}

// SetParam rejects every name; the scaled equation has no free constants.
func (k *KdV) SetParam(name string, _ float64) error {
	return fmt.Errorf("unknown param: %s", name)
}
