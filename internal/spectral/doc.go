// Package spectral computes spatial derivatives of periodic grid functions
// with the discrete Fourier transform.
//
// A derivative of order k multiplies every Fourier coefficient by (i·κ)^k,
// where κ is the wavenumber of the bin, and transforms back. The result is
// exact for band-limited periodic signals. Two paths are provided:
//
//   - [Differentiator]: real-to-complex transforms, arbitrary order. The
//     imaginary part never materializes.
//   - [Multiplier]: full complex transforms with caller-built multipliers.
//     The imaginary residue of the inverse transform is checked against a
//     tolerance instead of being silently dropped.
//
// Nyquist convention (N even): odd orders zero the Nyquist bin, even orders
// keep it. This keeps odd derivatives of real signals real and is shared by
// both paths, so they agree to round-off.
//
// Neither type is safe for concurrent use; both keep scratch buffers.
package spectral
