package integrators

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/solitons/internal/dynamo"
)

// Dormand-Prince coefficients (RK45)
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	dc1 = c1 - 5179.0/57600.0
	dc3 = c3 - 7571.0/16695.0
	dc4 = c4 - 393.0/640.0
	dc5 = c5 - -92097.0/339200.0
	dc6 = c6 - 187.0/2100.0
	dc7 = -1.0 / 40.0
)

// RK45 is the explicit Dormand-Prince 5(4) pair with first-same-as-last
// reuse. It suits non-stiff runs; stiff spectral operators force tiny steps.
type RK45 struct {
	safety   float64
	minScale float64
	maxScale float64

	sys          dynamo.System
	opts         Options
	t, tOld      float64
	tBound       float64
	y, yOld      dynamo.State
	f, fOld      dynamo.State
	h            float64
	stats        Stats
	lastRejected bool
}

func NewRK45() *RK45 {
	return &RK45{
		safety:   0.9,
		minScale: 0.2,
		maxScale: 10.0,
	}
}

func (r *RK45) Name() string { return "rk45" }

func (r *RK45) T() float64 { return r.t }

func (r *RK45) Stats() Stats { return r.stats }

func (r *RK45) Init(sys dynamo.System, t0 float64, y0 dynamo.State, tBound float64, opts Options) error {
	if !(tBound > t0) {
		return dynamo.Invalidf("integration bound %g not after start %g", tBound, t0)
	}
	r.sys = sys
	r.opts = opts.withDefaults()
	r.t, r.tOld, r.tBound = t0, t0, tBound
	r.y, r.yOld = y0.Clone(), y0.Clone()
	r.stats = Stats{}

	f0, err := r.eval(r.y, t0)
	if err != nil {
		return err
	}
	r.f, r.fOld = f0, f0
	r.h = r.opts.FirstStep
	if r.h <= 0 {
		r.h, err = initialStep(sys, t0, r.y, f0, tBound, r.opts.MaxStep, 4, r.opts.RTol, r.opts.ATol)
		r.stats.RHSEvals++
	}
	return err
}

func (r *RK45) eval(y dynamo.State, t float64) (dynamo.State, error) {
	r.stats.RHSEvals++
	return r.sys.Derive(y, t)
}

// StepAdaptive attempts a single step of size dt from (t, x) with known
// derivative k1. It returns the new state, its derivative, the RMS error
// norm relative to tol, and the suggested next step.
func (r *RK45) StepAdaptive(x, k1 dynamo.State, t, dt float64) (dynamo.State, dynamo.State, float64, float64, error) {
	n := len(x)
	stage := func(coef func(i int) float64, tt float64) (dynamo.State, error) {
		xs := make(dynamo.State, n)
		for i := 0; i < n; i++ {
			xs[i] = x[i] + dt*coef(i)
		}
		return r.eval(xs, tt)
	}

	k2, err := stage(func(i int) float64 { return b21 * k1[i] }, t+a2*dt)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	k3, err := stage(func(i int) float64 { return b31*k1[i] + b32*k2[i] }, t+a3*dt)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	k4, err := stage(func(i int) float64 { return b41*k1[i] + b42*k2[i] + b43*k3[i] }, t+a4*dt)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	k5, err := stage(func(i int) float64 { return b51*k1[i] + b52*k2[i] + b53*k3[i] + b54*k4[i] }, t+a5*dt)
	if err != nil {
		return nil, nil, 0, 0, err
	}
	k6, err := stage(func(i int) float64 { return b61*k1[i] + b62*k2[i] + b63*k3[i] + b64*k4[i] + b65*k5[i] }, t+dt)
	if err != nil {
		return nil, nil, 0, 0, err
	}

	xNew := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		xNew[i] = x[i] + dt*(c1*k1[i]+c3*k3[i]+c4*k4[i]+c5*k5[i]+c6*k6[i])
	}
	k7, err := r.eval(xNew, t+dt)
	if err != nil {
		return nil, nil, 0, 0, err
	}

	errEst := make([]float64, n)
	scale := make([]float64, n)
	for i := 0; i < n; i++ {
		errEst[i] = dt * (dc1*k1[i] + dc3*k3[i] + dc4*k4[i] + dc5*k5[i] + dc6*k6[i] + dc7*k7[i])
		scale[i] = r.opts.ATol + r.opts.RTol*math.Max(math.Abs(x[i]), math.Abs(xNew[i]))
	}
	errNorm := rmsNorm(errEst, scale)

	var dtNew float64
	switch {
	case errNorm > 1:
		dtNew = dt * math.Max(r.minScale, r.safety*math.Pow(errNorm, -0.2))
	case errNorm > 0:
		dtNew = dt * math.Min(r.maxScale, r.safety*math.Pow(errNorm, -0.2))
	default:
		dtNew = dt * r.maxScale
	}
	return xNew, k7, errNorm, dtNew, nil
}

func (r *RK45) Step() error {
	h := math.Min(r.h, r.opts.MaxStep)
	for {
		if h < minStep(r.t) {
			return fmt.Errorf("%w: h=%g at t=%g", dynamo.ErrStepTooSmall, h, r.t)
		}
		tNew := r.t + h
		if tNew >= r.tBound {
			tNew = r.tBound
			h = tNew - r.t
		}
		yNew, fNew, errNorm, hNew, err := r.StepAdaptive(r.y, r.f, r.t, h)
		if err != nil && !errors.Is(err, dynamo.ErrNumericOverflow) {
			return err
		}
		if err != nil || !yNew.IsValid() || math.IsNaN(errNorm) {
			r.stats.Rejected++
			r.lastRejected = true
			h *= r.minScale
			continue
		}
		if errNorm > 1 {
			r.stats.Rejected++
			r.lastRejected = true
			h = hNew
			continue
		}
		// No growth right after a rejection.
		if r.lastRejected {
			hNew = math.Min(hNew, h)
		}
		r.lastRejected = false
		r.stats.Steps++
		r.tOld, r.yOld, r.fOld = r.t, r.y, r.f
		r.t, r.y, r.f = tNew, yNew, fNew
		r.h = hNew
		return nil
	}
}

func (r *RK45) Interpolate(t float64) dynamo.State {
	return hermite(t, r.tOld, r.t, r.yOld, r.y, r.fOld, r.f)
}

// hermite is the cubic Hermite interpolant through (t0, y0, f0) and
// (t1, y1, f1).
func hermite(t, t0, t1 float64, y0, y1, f0, f1 dynamo.State) dynamo.State {
	if t == t1 {
		return y1.Clone()
	}
	if t == t0 {
		return y0.Clone()
	}
	h := t1 - t0
	s := (t - t0) / h
	h00 := (1 + 2*s) * (1 - s) * (1 - s)
	h10 := s * (1 - s) * (1 - s)
	h01 := s * s * (3 - 2*s)
	h11 := s * s * (s - 1)
	y := make(dynamo.State, len(y0))
	for i := range y {
		y[i] = h00*y0[i] + h10*h*f0[i] + h01*y1[i] + h11*h*f1[i]
	}
	return y
}
