package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/dynamo"
)

// ShadeRamp maps increasing values to increasing ink.
const ShadeRamp = " .:-=+*#%@"

// HeatmapOptions sizes a heatmap in character cells. A nil Theme gives
// plain text.
type HeatmapOptions struct {
	Width  int
	Height int
	Theme  *Theme
}

// Heatmap draws an M×N matrix with space along the columns and time
// running upwards, so the first row of u is the bottom line. Each cell
// averages the block of matrix entries it covers; the grid is never
// upsampled.
func Heatmap(u mat.Matrix, opts HeatmapOptions) (string, error) {
	m, n := u.Dims()
	if m == 0 || n == 0 {
		return "", dynamo.Invalidf("empty matrix")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return "", dynamo.Invalidf("heatmap size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	w, h := min(opts.Width, n), min(opts.Height, m)

	cells := make([][]float64, h)
	lo, hi := math.Inf(1), math.Inf(-1)
	for r := 0; r < h; r++ {
		cells[r] = make([]float64, w)
		i0, i1 := r*m/h, (r+1)*m/h
		for c := 0; c < w; c++ {
			j0, j1 := c*n/w, (c+1)*n/w
			sum := 0.0
			for i := i0; i < i1; i++ {
				for j := j0; j < j1; j++ {
					sum += u.At(i, j)
				}
			}
			v := sum / float64((i1-i0)*(j1-j0))
			cells[r][c] = v
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
	}
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return "", dynamo.Invalidf("matrix has non-finite entries")
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	ramp := []rune(ShadeRamp)
	var b strings.Builder
	for r := h - 1; r >= 0; r-- {
		for _, v := range cells[r] {
			level := (v - lo) / span
			ch := string(ramp[int(level*float64(len(ramp)-1)+0.5)])
			if opts.Theme != nil {
				ch = lipgloss.NewStyle().Foreground(opts.Theme.color(level)).Render(ch)
			}
			b.WriteString(ch)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
