package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/dynamo"
)

// PowerSpectrum returns |c_k/N|² for k = 0..N/2 where c are the real FFT
// coefficients of u. A pure mode a·sin(kx) shows up as a²/4 at k.
func PowerSpectrum(u []float64) ([]float64, error) {
	n := len(u)
	if n < 2 {
		return nil, dynamo.Invalidf("spectrum needs at least 2 samples, got %d", n)
	}
	coeff := fourier.NewFFT(n).Coefficients(nil, u)
	ps := make([]float64, len(coeff))
	scale := 1 / float64(n)
	for k, c := range coeff {
		a := cmplx.Abs(c) * scale
		ps[k] = a * a
	}
	return ps, nil
}

// SpectralTail is the share of non-mean power carried by the top frac of
// wavenumbers. It is 0 for a constant profile.
func SpectralTail(u []float64, frac float64) (float64, error) {
	if !(frac > 0 && frac <= 1) {
		return 0, dynamo.Invalidf("tail fraction must be in (0, 1], got %g", frac)
	}
	ps, err := PowerSpectrum(u)
	if err != nil {
		return 0, err
	}
	modes := ps[1:]
	total := floats.Sum(modes)
	if total == 0 {
		return 0, nil
	}
	start := len(modes) - int(frac*float64(len(modes))+0.5)
	if start >= len(modes) {
		start = len(modes) - 1
	}
	return floats.Sum(modes[start:]) / total, nil
}

// Spectrogram maps an M×N result to M×(N/2+1) row spectra.
func Spectrogram(u mat.Matrix) (*mat.Dense, error) {
	m, n := u.Dims()
	if n < 2 {
		return nil, dynamo.Invalidf("spectrum needs at least 2 samples, got %d", n)
	}
	fft := fourier.NewFFT(n)
	out := mat.NewDense(m, n/2+1, nil)
	row := make([]float64, n)
	coeff := make([]complex128, n/2+1)
	scale := 1 / float64(n)
	for i := 0; i < m; i++ {
		mat.Row(row, i, u)
		fft.Coefficients(coeff, row)
		for k, c := range coeff {
			a := cmplx.Abs(c) * scale
			out.Set(i, k, a*a)
		}
	}
	return out, nil
}
