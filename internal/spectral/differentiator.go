package spectral

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
)

// Differentiator differentiates states sampled on one grid. It reuses the
// grid's wavenumbers for every call.
type Differentiator struct {
	n     int
	k     []float64
	fft   *fourier.FFT
	coeff []complex128
	work  []complex128
}

func NewDifferentiator(g *grid.Grid) *Differentiator {
	return &Differentiator{
		n:     g.N,
		k:     g.K,
		fft:   fourier.NewFFT(g.N),
		coeff: make([]complex128, g.N/2+1),
		work:  make([]complex128, g.N/2+1),
	}
}

// Len returns the state length accepted by the differentiator.
func (d *Differentiator) Len() int { return d.n }

// Derivative returns the order-th derivative of u. Order 0 returns the
// transform round trip of u.
func (d *Differentiator) Derivative(u dynamo.State, order int) (dynamo.State, error) {
	out, err := d.Derivatives(u, order)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Derivatives returns one derivative per requested order, sharing a single
// forward transform of u.
func (d *Differentiator) Derivatives(u dynamo.State, orders ...int) ([]dynamo.State, error) {
	if len(u) != d.n {
		return nil, dynamo.ErrDimensionMismatch
	}
	for _, order := range orders {
		if order < 0 {
			return nil, dynamo.Invalidf("negative derivative order %d", order)
		}
	}

	d.fft.Coefficients(d.coeff, u)

	out := make([]dynamo.State, len(orders))
	norm := 1 / float64(d.n)
	for i, order := range orders {
		for j, c := range d.coeff {
			d.work[j] = Factor(d.k[j], order, j == d.n/2) * c
		}
		res := make(dynamo.State, d.n)
		d.fft.Sequence(res, d.work)
		for j := range res {
			res[j] *= norm
		}
		out[i] = res
	}
	return out, nil
}

// Factor returns (i·k)^order, or 0 for an odd order on the Nyquist bin.
func Factor(k float64, order int, nyquist bool) complex128 {
	if order == 0 {
		return 1
	}
	if nyquist && order%2 == 1 {
		return 0
	}
	mag := math.Pow(k, float64(order))
	switch order % 4 {
	case 0:
		return complex(mag, 0)
	case 1:
		return complex(0, mag)
	case 2:
		return complex(-mag, 0)
	default:
		return complex(0, -mag)
	}
}
