package sim

import (
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/config"
	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
	"github.com/san-kum/solitons/internal/integrators"
	"github.com/san-kum/solitons/internal/physics"
)

// Result is the output of one run. Row i of U is the solution at Times[i]
// on Grid.X.
type Result struct {
	Config  *config.Config
	Model   physics.Model
	Grid    *grid.Grid
	Times   []float64
	U       *mat.Dense
	Stats   integrators.Stats
	Metrics map[string]float64
}

// Row returns a copy of row i.
func (r *Result) Row(i int) dynamo.State {
	return mat.Row(nil, i, r.U)
}

func (r *Result) Final() dynamo.State {
	return r.Row(len(r.Times) - 1)
}

// Dims returns (M, N).
func (r *Result) Dims() (int, int) {
	return r.U.Dims()
}
