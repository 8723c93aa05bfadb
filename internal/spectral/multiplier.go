package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/solitons/internal/dynamo"
)

// DefaultImagTol bounds the imaginary residue of an inverse transform,
// relative to the magnitude of the spectrum being inverted.
const DefaultImagTol = 1e-8

// Multiplier runs full complex transforms so that Fourier multipliers can be
// formed explicitly by the caller.
type Multiplier struct {
	n    int
	tol  float64
	fft  *fourier.CmplxFFT
	seq  []complex128
	spec []complex128
	back []complex128
}

func NewMultiplier(n int, tol float64) *Multiplier {
	if tol <= 0 {
		tol = DefaultImagTol
	}
	return &Multiplier{
		n:    n,
		tol:  tol,
		fft:  fourier.NewCmplxFFT(n),
		seq:  make([]complex128, n),
		spec: make([]complex128, n),
		back: make([]complex128, n),
	}
}

// Forward returns the unnormalized spectrum of u. The returned slice is
// owned by the multiplier and is overwritten by the next Forward call.
func (m *Multiplier) Forward(u dynamo.State) ([]complex128, error) {
	if len(u) != m.n {
		return nil, dynamo.ErrDimensionMismatch
	}
	for j, v := range u {
		m.seq[j] = complex(v, 0)
	}
	return m.fft.Coefficients(m.spec, m.seq), nil
}

// Inverse transforms coeff back to physical space and returns its real
// part. A residue larger than the tolerance means the spectrum was not the
// transform of a real signal, and is reported as ErrNumericOverflow.
func (m *Multiplier) Inverse(coeff []complex128) (dynamo.State, error) {
	if len(coeff) != m.n {
		return nil, dynamo.ErrDimensionMismatch
	}
	m.fft.Sequence(m.back, coeff)

	norm := 1 / float64(m.n)
	scale := 0.0
	for _, c := range coeff {
		scale += cmplx.Abs(c)
	}
	scale *= norm

	out := make(dynamo.State, m.n)
	maxImag := 0.0
	for j, v := range m.back {
		out[j] = real(v) * norm
		maxImag = math.Max(maxImag, math.Abs(imag(v)*norm))
	}
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("%w: non-finite spectrum", dynamo.ErrNumericOverflow)
	}
	if maxImag > m.tol*(1+scale) {
		return nil, fmt.Errorf("%w: imaginary residue %.3g exceeds %.3g",
			dynamo.ErrNumericOverflow, maxImag, m.tol*(1+scale))
	}
	return out, nil
}

// Apply computes the inverse transform of mult[j]·û[j].
func (m *Multiplier) Apply(u dynamo.State, mult []complex128) (dynamo.State, error) {
	if len(mult) != m.n {
		return nil, dynamo.ErrDimensionMismatch
	}
	spec, err := m.Forward(u)
	if err != nil {
		return nil, err
	}
	prod := make([]complex128, m.n)
	for j := range prod {
		prod[j] = mult[j] * spec[j]
	}
	return m.Inverse(prod)
}

// DerivativeMultiplier builds (i·k)^order for every bin of the wraparound
// wavenumber layout k.
func DerivativeMultiplier(k []float64, order int) []complex128 {
	mult := make([]complex128, len(k))
	for j := range k {
		mult[j] = Factor(k[j], order, len(k)%2 == 0 && j == len(k)/2)
	}
	return mult
}
