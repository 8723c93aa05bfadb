package analysis

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
)

// Peak is a crest of a periodic profile.
type Peak struct {
	X      float64
	Height float64
	Index  int
}

// Peaks returns the local maxima of u above minHeight, tallest first.
// Positions are refined with a parabola through the three nearest points.
func Peaks(g *grid.Grid, u []float64, minHeight float64) ([]Peak, error) {
	n := len(u)
	if n != g.N {
		return nil, dynamo.ErrDimensionMismatch
	}
	var out []Peak
	for j := 0; j < n; j++ {
		prev, next := u[(j-1+n)%n], u[(j+1)%n]
		if u[j] < minHeight || u[j] <= prev || u[j] < next {
			continue
		}
		p := Peak{X: g.X[j], Height: u[j], Index: j}
		if curv := prev - 2*u[j] + next; curv < 0 {
			off := 0.5 * (prev - next) / curv
			p.X = g.X[j] + off*g.Dx
			p.Height = u[j] - 0.25*(prev-next)*off
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Height > out[b].Height })
	return out, nil
}

// Track is the path of the tallest crest across the rows of a result.
// Positions are unwrapped so that a crest leaving through one side keeps
// moving instead of jumping back by L.
type Track struct {
	Times     []float64
	Positions []float64
	Heights   []float64
	// Speed is the least-squares slope of Positions against Times.
	Speed float64
}

// TrackPeak follows the tallest crest. Rows without a crest above
// minHeight are skipped.
func TrackPeak(g *grid.Grid, times []float64, u mat.Matrix, minHeight float64) (*Track, error) {
	m, n := u.Dims()
	if n != g.N || m != len(times) {
		return nil, dynamo.ErrDimensionMismatch
	}
	tr := &Track{}
	row := make([]float64, n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, u)
		peaks, err := Peaks(g, row, minHeight)
		if err != nil {
			return nil, err
		}
		if len(peaks) == 0 {
			continue
		}
		x := peaks[0].X
		if k := len(tr.Positions); k > 0 {
			last := tr.Positions[k-1]
			x = last + g.Wrap(x-last)
		}
		tr.Times = append(tr.Times, times[i])
		tr.Positions = append(tr.Positions, x)
		tr.Heights = append(tr.Heights, peaks[0].Height)
	}
	if len(tr.Times) >= 2 {
		_, tr.Speed = stat.LinearRegression(tr.Times, tr.Positions, nil, false)
	}
	return tr, nil
}
