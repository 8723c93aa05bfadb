package physics

import (
	"math"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
)

// Soliton is one KdV solitary wave: speed (and twice the amplitude) C,
// centred at Shift.
type Soliton struct {
	C     float64 `yaml:"c"`
	Shift float64 `yaml:"shift"`
}

// KdVExact is the single-soliton solution on the real line at t=0,
// 0.5·c·sech²(0.5·√c·x).
func KdVExact(x, c float64) float64 {
	s := 1 / math.Cosh(0.5*math.Sqrt(c)*x)
	return 0.5 * c * s * s
}

// SolitonTrain superposes solitons on the grid. Distances are taken to the
// nearest periodic image of each centre. The sum is not an exact KdV
// solution, but solitons that are far apart interact weakly.
func SolitonTrain(g *grid.Grid, solitons []Soliton) dynamo.State {
	u := make(dynamo.State, g.N)
	for _, s := range solitons {
		for j, x := range g.X {
			u[j] += KdVExact(g.Wrap(x-s.Shift), s.C)
		}
	}
	return u
}

// SechPulse is the Burgers initial profile sech(x).
func SechPulse(g *grid.Grid) dynamo.State {
	u := make(dynamo.State, g.N)
	for j, x := range g.X {
		u[j] = 1 / math.Cosh(x)
	}
	return u
}
