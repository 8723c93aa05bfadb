package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/solitons/internal/dynamo"
)

// Profile plots one row against grid index, resampled by asciigraph to
// width columns.
func Profile(u []float64, width, height int, caption string) (string, error) {
	return Profiles([][]float64{u}, width, height, caption)
}

// Profiles overlays several rows of equal length, each in its own color.
func Profiles(rows [][]float64, width, height int, caption string) (string, error) {
	if len(rows) == 0 {
		return "", dynamo.Invalidf("no profiles to plot")
	}
	for _, r := range rows {
		if len(r) == 0 || len(r) != len(rows[0]) {
			return "", dynamo.ErrDimensionMismatch
		}
		if !dynamo.State(r).IsValid() {
			return "", dynamo.Invalidf("profile has non-finite values")
		}
	}

	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(3),
	}
	if caption != "" {
		opts = append(opts, asciigraph.Caption(caption))
	}
	if len(rows) > 1 {
		colors := []asciigraph.AnsiColor{asciigraph.Blue, asciigraph.Red, asciigraph.Green, asciigraph.Yellow}
		series := make([]asciigraph.AnsiColor, len(rows))
		for i := range series {
			series[i] = colors[i%len(colors)]
		}
		opts = append(opts, asciigraph.SeriesColors(series...))
	}
	return asciigraph.PlotMany(rows, opts...), nil
}
