// Package analysis post-processes result matrices.
//
//   - [PowerSpectrum]: modal power of one profile
//   - [SpectralTail]: share of power in the highest wavenumbers, a
//     resolution check
//   - [Spectrogram]: power spectrum of every row
//   - [Peaks]: local maxima of a profile, refined between grid points
//   - [TrackPeak]: unwrapped path and speed of the tallest crest
//
// A tail above roughly 1e-6 means the grid no longer resolves the
// solution, as happens once an inviscid Burgers front breaks:
//
//	tail, _ := analysis.SpectralTail(u, 0.25)
package analysis
