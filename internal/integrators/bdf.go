package integrators

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/lapack/lapack64"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/dynamo"
)

const (
	bdfMaxOrder     = 5
	newtonMaxIter   = 4
	bdfMinFactor    = 0.2
	bdfMaxFactor    = 10.0
	bdfRejectFactor = 0.5
)

// Numerical differentiation formula coefficients (Shampine & Reichelt).
// A zero kappa gives the plain BDF of that order.
var bdfKappa = [bdfMaxOrder + 1]float64{0, -0.1850, -1.0 / 9.0, -0.0823, -0.0415, 0}

var bdfGamma, bdfAlpha, bdfErrorConst [bdfMaxOrder + 2]float64

func init() {
	for k := 1; k <= bdfMaxOrder; k++ {
		bdfGamma[k] = bdfGamma[k-1] + 1/float64(k)
	}
	for k := 0; k <= bdfMaxOrder; k++ {
		bdfAlpha[k] = (1 - bdfKappa[k]) * bdfGamma[k]
		bdfErrorConst[k] = bdfKappa[k]*bdfGamma[k] + 1/float64(k+1)
	}
	bdfErrorConst[bdfMaxOrder+1] = 1 / float64(bdfMaxOrder+2)
}

// BDF is a variable-order (1 to 5), variable-step implicit multistep method
// for stiff systems. The history is kept as backward differences D, which
// are rescaled whenever the step changes. Each step solves the implicit
// relation with a simplified Newton iteration using a finite-difference
// Jacobian and a cached LU factorization of I - c·J.
type BDF struct {
	sys    dynamo.System
	opts   Options
	n      int
	t      float64
	tBound float64
	y      dynamo.State

	hAbs   float64
	order  int
	nEqual int
	d      [][]float64

	jac       *mat.Dense
	lu        blas64.General
	ipiv      []int
	luValid   bool
	newtonTol float64

	stats Stats
}

func NewBDF() *BDF {
	return &BDF{}
}

func (b *BDF) Name() string { return "bdf" }

func (b *BDF) T() float64 { return b.t }

func (b *BDF) Stats() Stats { return b.stats }

// Order returns the order of the formula used for the next step.
func (b *BDF) Order() int { return b.order }

func (b *BDF) Init(sys dynamo.System, t0 float64, y0 dynamo.State, tBound float64, opts Options) error {
	if !(tBound > t0) {
		return dynamo.Invalidf("integration bound %g not after start %g", tBound, t0)
	}
	b.sys = sys
	b.opts = opts.withDefaults()
	b.n = len(y0)
	b.t = t0
	b.tBound = tBound
	b.y = y0.Clone()
	b.stats = Stats{}

	f0, err := b.eval(y0, t0)
	if err != nil {
		return err
	}
	b.hAbs = b.opts.FirstStep
	if b.hAbs <= 0 {
		b.hAbs, err = initialStep(sys, t0, y0, f0, tBound, b.opts.MaxStep, 1, b.opts.RTol, b.opts.ATol)
		if err != nil {
			return err
		}
		b.stats.RHSEvals++
	}
	b.newtonTol = math.Max(10*eps/b.opts.RTol, math.Min(0.03, math.Sqrt(b.opts.RTol)))

	b.d = make([][]float64, bdfMaxOrder+3)
	for i := range b.d {
		b.d[i] = make([]float64, b.n)
	}
	copy(b.d[0], y0)
	for i, v := range f0 {
		b.d[1][i] = v * b.hAbs
	}
	b.order = 1
	b.nEqual = 0

	b.lu = blas64.General{Rows: b.n, Cols: b.n, Stride: b.n, Data: make([]float64, b.n*b.n)}
	b.ipiv = make([]int, b.n)
	b.luValid = false
	return b.jacobian(t0, y0, f0)
}

func (b *BDF) eval(y dynamo.State, t float64) (dynamo.State, error) {
	b.stats.RHSEvals++
	return b.sys.Derive(y, t)
}

// jacobian rebuilds J by forward differences around (t, y), where f = f(t, y).
func (b *BDF) jacobian(t float64, y, f dynamo.State) error {
	if b.jac == nil {
		b.jac = mat.NewDense(b.n, b.n, nil)
	}
	b.stats.JacEvals++
	sqrtEps := math.Sqrt(eps)
	yp := y.Clone()
	col := make([]float64, b.n)
	for j := 0; j < b.n; j++ {
		h := sqrtEps * math.Max(math.Abs(y[j]), 1)
		yp[j] = y[j] + h
		h = yp[j] - y[j]
		fp, err := b.eval(yp, t)
		if err != nil {
			return err
		}
		for i := range col {
			col[i] = (fp[i] - f[i]) / h
		}
		b.jac.SetCol(j, col)
		yp[j] = y[j]
	}
	b.luValid = false
	return nil
}

// factorize computes the LU decomposition of I - c·J.
func (b *BDF) factorize(c float64) bool {
	raw := b.jac.RawMatrix()
	for i := 0; i < b.n; i++ {
		src := raw.Data[i*raw.Stride : i*raw.Stride+b.n]
		dst := b.lu.Data[i*b.lu.Stride : i*b.lu.Stride+b.n]
		for j, v := range src {
			dst[j] = -c * v
		}
		dst[i] += 1
	}
	b.stats.LUDecomps++
	b.luValid = lapack64.Getrf(b.lu, b.ipiv)
	return b.luValid
}

func (b *BDF) luSolve(rhs []float64) {
	lapack64.Getrs(blas.NoTrans, b.lu, blas64.General{Rows: b.n, Cols: 1, Stride: 1, Data: rhs}, b.ipiv)
}

// newton solves the corrector equation starting from yPredict. It returns
// the number of iterations used, the corrected state, and d, the total
// correction, which is the (order+1)-th backward difference of the new
// solution.
func (b *BDF) newton(tNew float64, yPredict, psi []float64, c float64, scale []float64) (bool, int, dynamo.State, []float64, error) {
	y := dynamo.State(yPredict).Clone()
	d := make([]float64, b.n)
	dy := make([]float64, b.n)
	dyNormOld := -1.0

	for k := 0; k < newtonMaxIter; k++ {
		f, err := b.eval(y, tNew)
		if err != nil {
			if errors.Is(err, dynamo.ErrNumericOverflow) {
				return false, k + 1, nil, nil, nil
			}
			return false, k + 1, nil, nil, err
		}
		for i := range dy {
			dy[i] = c*f[i] - psi[i] - d[i]
		}
		b.luSolve(dy)
		dyNorm := rmsNorm(dy, scale)

		rate := -1.0
		if dyNormOld >= 0 {
			rate = dyNorm / dyNormOld
		}
		if rate >= 0 && (rate >= 1 || math.Pow(rate, float64(newtonMaxIter-k))/(1-rate)*dyNorm > b.newtonTol) {
			return false, k + 1, nil, nil, nil
		}

		for i := range y {
			y[i] += dy[i]
			d[i] += dy[i]
		}
		if dyNorm == 0 || (rate >= 0 && rate/(1-rate)*dyNorm < b.newtonTol) {
			return true, k + 1, y, d, nil
		}
		dyNormOld = dyNorm
	}
	return false, newtonMaxIter, nil, nil, nil
}

func (b *BDF) Step() error {
	t := b.t
	order := b.order
	hMin := minStep(t)
	hAbs := b.hAbs

	switch {
	case hAbs > b.opts.MaxStep:
		changeD(b.d, order, b.opts.MaxStep/hAbs)
		hAbs = b.opts.MaxStep
		b.nEqual = 0
	case hAbs < hMin:
		changeD(b.d, order, hMin/hAbs)
		hAbs = hMin
		b.nEqual = 0
	}

	var (
		tNew    float64
		yNew    dynamo.State
		dNew    []float64
		scale   []float64
		errNorm float64
		safety  float64
	)
	jacCurrent := false
	for {
		if hAbs < hMin {
			return fmt.Errorf("%w: h=%g at t=%g", dynamo.ErrStepTooSmall, hAbs, t)
		}
		tNew = t + hAbs
		if tNew > b.tBound {
			tNew = b.tBound
			changeD(b.d, order, (tNew-t)/hAbs)
			b.nEqual = 0
			b.luValid = false
		}
		h := tNew - t
		hAbs = h

		yPredict := make([]float64, b.n)
		for k := 0; k <= order; k++ {
			for i, v := range b.d[k] {
				yPredict[i] += v
			}
		}
		scale = errScale(yPredict, b.opts.ATol, b.opts.RTol)
		psi := make([]float64, b.n)
		for k := 1; k <= order; k++ {
			g := bdfGamma[k] / bdfAlpha[order]
			for i, v := range b.d[k] {
				psi[i] += g * v
			}
		}

		c := h / bdfAlpha[order]
		converged := false
		nIter := 0
		for !converged {
			if !b.luValid && !b.factorize(c) {
				break
			}
			var err error
			converged, nIter, yNew, dNew, err = b.newton(tNew, yPredict, psi, c, scale)
			if err != nil {
				return err
			}
			if converged || jacCurrent {
				break
			}
			fp, err := b.eval(yPredict, tNew)
			if err != nil {
				if errors.Is(err, dynamo.ErrNumericOverflow) {
					break
				}
				return err
			}
			if err := b.jacobian(tNew, yPredict, fp); err != nil {
				if errors.Is(err, dynamo.ErrNumericOverflow) {
					break
				}
				return err
			}
			jacCurrent = true
		}

		if !converged {
			hAbs *= bdfRejectFactor
			changeD(b.d, order, bdfRejectFactor)
			b.nEqual = 0
			b.luValid = false
			b.stats.Rejected++
			continue
		}

		safety = 0.9 * float64(2*newtonMaxIter+1) / float64(2*newtonMaxIter+nIter)
		scale = errScale(yNew, b.opts.ATol, b.opts.RTol)
		errVec := make([]float64, b.n)
		for i, v := range dNew {
			errVec[i] = bdfErrorConst[order] * v
		}
		errNorm = rmsNorm(errVec, scale)
		if errNorm > 1 {
			factor := math.Max(bdfMinFactor, safety*math.Pow(errNorm, -1/float64(order+1)))
			hAbs *= factor
			changeD(b.d, order, factor)
			b.nEqual = 0
			b.stats.Rejected++
			continue
		}
		break
	}

	b.stats.Steps++
	b.nEqual++
	b.t = tNew
	b.y = yNew
	b.hAbs = hAbs

	// D^{j+1} y_n = D^j y_n - D^j y_{n-1}, with d = D^{order+1} y_n.
	for i, v := range dNew {
		b.d[order+2][i] = v - b.d[order+1][i]
		b.d[order+1][i] = v
	}
	for k := order; k >= 0; k-- {
		for i, v := range b.d[k+1] {
			b.d[k][i] += v
		}
	}

	if b.nEqual < order+1 {
		return nil
	}

	errM, errP := math.Inf(1), math.Inf(1)
	tmp := make([]float64, b.n)
	if order > 1 {
		for i, v := range b.d[order] {
			tmp[i] = bdfErrorConst[order-1] * v
		}
		errM = rmsNorm(tmp, scale)
	}
	if order < bdfMaxOrder {
		for i, v := range b.d[order+2] {
			tmp[i] = bdfErrorConst[order+1] * v
		}
		errP = rmsNorm(tmp, scale)
	}

	best, bestFactor := 0, math.Inf(-1)
	for i, norm := range [3]float64{errM, errNorm, errP} {
		f := math.Pow(norm, -1/float64(order+i))
		if f > bestFactor {
			best, bestFactor = i, f
		}
	}
	order += best - 1
	b.order = order

	factor := math.Min(bdfMaxFactor, safety*bestFactor)
	b.hAbs *= factor
	changeD(b.d, order, factor)
	b.nEqual = 0
	b.luValid = false
	return nil
}

// Interpolate evaluates the interpolating polynomial of the last step.
func (b *BDF) Interpolate(t float64) dynamo.State {
	y := dynamo.State(b.d[0]).Clone()
	if t == b.t {
		return y
	}
	p := 1.0
	for k := 1; k <= b.order; k++ {
		shift := b.t - b.hAbs*float64(k-1)
		p *= (t - shift) / (b.hAbs * float64(k))
		for i, v := range b.d[k] {
			y[i] += v * p
		}
	}
	return y
}

// computeR builds the matrix that maps backward differences at step h to
// those at step factor·h.
func computeR(order int, factor float64) *mat.Dense {
	n := order + 1
	r := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		r.Set(0, j, 1)
	}
	for i := 1; i < n; i++ {
		for j := 1; j < n; j++ {
			r.Set(i, j, r.At(i-1, j)*(float64(i)-1-factor*float64(j))/float64(i))
		}
	}
	return r
}

// changeD rescales the difference array in place for a step change by
// factor.
func changeD(d [][]float64, order int, factor float64) {
	var ru mat.Dense
	ru.Mul(computeR(order, factor), computeR(order, 1))

	n := len(d[0])
	next := make([][]float64, order+1)
	for i := 0; i <= order; i++ {
		row := make([]float64, n)
		for k := 0; k <= order; k++ {
			w := ru.At(k, i)
			if w == 0 {
				continue
			}
			for j, v := range d[k] {
				row[j] += w * v
			}
		}
		next[i] = row
	}
	for i := 0; i <= order; i++ {
		copy(d[i], next[i])
	}
}
