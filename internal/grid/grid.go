// Package grid builds the periodic spatial grid, its wavenumbers and the
// time sample sequence.
package grid

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/solitons/internal/dynamo"
)

// MinPoints is the smallest accepted point count. N=2 carries only the mean
// and the Nyquist mode, so every odd derivative would vanish.
const MinPoints = 4

// Grid is a uniform sampling of one period [Origin, Origin+L) with spacing
// Dx = L/N. K holds the matching wavenumbers in FFT wraparound order.
type Grid struct {
	N      int
	L      float64
	Origin float64
	Dx     float64
	X      []float64
	K      []float64
}

// New validates (L, N) and builds the grid. N must be even so that the
// wavenumber layout has a single Nyquist bin at index N/2.
func New(length float64, n int, origin float64) (*Grid, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, dynamo.Invalidf("domain length must be positive, got %g", length)
	}
	if n < MinPoints {
		return nil, dynamo.Invalidf("point count must be at least %d, got %d", MinPoints, n)
	}
	if n%2 != 0 {
		return nil, dynamo.Invalidf("point count must be even, got %d", n)
	}
	if math.IsNaN(origin) || math.IsInf(origin, 0) {
		return nil, dynamo.Invalidf("origin must be finite, got %g", origin)
	}

	g := &Grid{
		N:      n,
		L:      length,
		Origin: origin,
		Dx:     length / float64(n),
		X:      make([]float64, n),
	}
	for j := range g.X {
		g.X[j] = origin + float64(j)*g.Dx
	}
	g.K = Wavenumbers(n, length)
	return g, nil
}

// Wavenumbers returns 2π/L times the FFT sample frequencies
// 0, 1, ..., N/2-1, -N/2, ..., -1.
func Wavenumbers(n int, length float64) []float64 {
	k := make([]float64, n)
	scale := 2 * math.Pi / length
	half := (n - 1) / 2
	for j := 0; j <= half; j++ {
		k[j] = float64(j) * scale
	}
	for j := half + 1; j < n; j++ {
		k[j] = float64(j-n) * scale
	}
	return k
}

// Wrap maps a displacement onto [-L/2, L/2), the nearest periodic image.
func (g *Grid) Wrap(d float64) float64 {
	d = math.Mod(d+g.L/2, g.L)
	if d < 0 {
		d += g.L
	}
	return d - g.L/2
}

// Integrate applies the periodic trapezoid rule, which for one full period
// is the plain sum times Dx.
func (g *Grid) Integrate(u []float64) float64 {
	return floats.Sum(u) * g.Dx
}
