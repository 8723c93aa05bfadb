package physics

import (
	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
)

// Mass is ∫u dx. It is conserved by both models on a periodic domain.
func Mass(g *grid.Grid, u dynamo.State) float64 {
	return g.Integrate(u)
}

// Momentum is ∫u² dx, conserved by KdV and by inviscid Burgers before
// a shock forms.
func Momentum(g *grid.Grid, u dynamo.State) float64 {
	sq := make([]float64, len(u))
	for j, v := range u {
		sq[j] = v * v
	}
	return g.Integrate(sq)
}
