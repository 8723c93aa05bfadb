package integrators

import (
	"log/slog"
	"math"

	"github.com/san-kum/solitons/internal/dynamo"
)

const (
	DefaultRTol     = 1e-6
	DefaultATol     = 1e-9
	DefaultMaxSteps = 5000
)

// Stepper advances an ODE system one internal step at a time and can
// evaluate its solution anywhere inside the last step.
type Stepper interface {
	Name() string
	Init(sys dynamo.System, t0 float64, y0 dynamo.State, tBound float64, opts Options) error
	// Step takes one accepted step without passing tBound.
	Step() error
	T() float64
	// Interpolate returns the solution at t in [previous T, T].
	Interpolate(t float64) dynamo.State
	Stats() Stats
}

// Options configures error control and the step ceiling.
type Options struct {
	RTol float64
	ATol float64
	// MaxSteps bounds the internal steps taken inside one reporting
	// interval.
	MaxSteps int
	// FirstStep overrides the automatic initial step. Fixed-step
	// integrators use it as their step.
	FirstStep float64
	MaxStep   float64
	Logger    *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		RTol:     DefaultRTol,
		ATol:     DefaultATol,
		MaxSteps: DefaultMaxSteps,
		MaxStep:  math.Inf(1),
	}
}

func (o Options) withDefaults() Options {
	if o.RTol <= 0 {
		o.RTol = DefaultRTol
	}
	// Tolerances below ~100 ulp make the controller chase round-off.
	o.RTol = math.Max(o.RTol, 100*eps)
	if o.ATol <= 0 {
		o.ATol = DefaultATol
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.MaxStep <= 0 {
		o.MaxStep = math.Inf(1)
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Stats counts the work done by a stepper.
type Stats struct {
	Steps     int `json:"steps"`
	Rejected  int `json:"rejected"`
	RHSEvals  int `json:"rhs_evals"`
	JacEvals  int `json:"jac_evals"`
	LUDecomps int `json:"lu_decomps"`
}

var eps = math.Nextafter(1, 2) - 1

// rmsNorm is the root-mean-square of x[i]/scale[i].
func rmsNorm(x, scale []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	sum := 0.0
	for i, v := range x {
		r := v / scale[i]
		sum += r * r
	}
	return math.Sqrt(sum / float64(len(x)))
}

func errScale(y dynamo.State, atol, rtol float64) []float64 {
	s := make([]float64, len(y))
	for i, v := range y {
		s[i] = atol + rtol*math.Abs(v)
	}
	return s
}

// minStep is the smallest step distinguishable from t.
func minStep(t float64) float64 {
	return 10 * math.Abs(math.Nextafter(t, math.Inf(1))-t)
}

// initialStep estimates a first step for a method of the given order from
// the size of y0, f0 and a trial Euler step.
func initialStep(sys dynamo.System, t0 float64, y0, f0 dynamo.State, tBound, maxStep float64, order int, rtol, atol float64) (float64, error) {
	interval := math.Abs(tBound - t0)
	if len(y0) == 0 || interval == 0 {
		return interval, nil
	}
	scale := errScale(y0, atol, rtol)
	d0 := rmsNorm(y0, scale)
	d1 := rmsNorm(f0, scale)

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, interval)

	y1 := make(dynamo.State, len(y0))
	for i := range y0 {
		y1[i] = y0[i] + h0*f0[i]
	}
	f1, err := sys.Derive(y1, t0+h0)
	if err != nil {
		return 0, err
	}
	d2 := rmsNorm(f1.Sub(f0), scale) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1/float64(order+1))
	}
	return math.Min(math.Min(100*h0, h1), math.Min(interval, maxStep)), nil
}
