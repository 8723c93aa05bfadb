package physics

import (
	"fmt"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
	"github.com/san-kum/solitons/internal/spectral"
)

// Burgers is the viscous Burgers equation u_t = -u·u_x + ν·u_xx, the
// one-dimensional limit of the KP model. ν = 0 gives the inviscid,
// wave-steepening limit.
type Burgers struct {
	Nu float64

	grid   *grid.Grid
	mult   *spectral.Multiplier
	d1, d2 []complex128
	p1, p2 []complex128
}

func NewBurgers(g *grid.Grid, nu, imagTol float64) *Burgers {
	return &Burgers{
		Nu:   nu,
		grid: g,
		mult: spectral.NewMultiplier(g.N, imagTol),
		d1:   spectral.DerivativeMultiplier(g.K, 1),
		d2:   spectral.DerivativeMultiplier(g.K, 2),
		p1:   make([]complex128, g.N),
		p2:   make([]complex128, g.N),
	}
}

func (b *Burgers) Dim() int { return b.grid.N }

func (b *Burgers) Derive(u dynamo.State, _ float64) (dynamo.State, error) {
	uhat, err := b.mult.Forward(u)
	if err != nil {
		return nil, err
	}
	for j, c := range uhat {
		b.p1[j] = b.d1[j] * c
		b.p2[j] = b.d2[j] * c
	}

	ux, err := b.mult.Inverse(b.p1)
	if err != nil {
		return nil, err
	}
	var uxx dynamo.State
	if b.Nu != 0 {
		if uxx, err = b.mult.Inverse(b.p2); err != nil {
			return nil, err
		}
	}

	dudt := make(dynamo.State, len(u))
	for j := range u {
		dudt[j] = -u[j] * ux[j]
		if uxx != nil {
			dudt[j] += b.Nu * uxx[j]
		}
	}
	if !dudt.IsValid() {
		return nil, fmt.Errorf("%w: non-finite Burgers tendency", dynamo.ErrNumericOverflow)
	}
	return dudt, nil
}

func (b *Burgers) GetParams() map[string]float64 {
	return map[string]float64{"nu": b.Nu, "length": b.grid.L, "points": float64(b.grid.N)}
}

func (b *Burgers) SetParam(name string, value float64) error {
	switch name {
	case "nu":
		b.Nu = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
