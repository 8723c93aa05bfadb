package integrators

import (
	"math"

	"github.com/san-kum/solitons/internal/dynamo"
)

// RK4 is the classic fixed-step fourth-order Runge-Kutta method. The step
// comes from Options.FirstStep and is only shortened to land on the bound.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State

	sys     dynamo.System
	h       float64
	t, tOld float64
	tBound  float64
	y, yOld dynamo.State
	f, fOld dynamo.State
	stats   Stats
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) T() float64 { return r.t }

func (r *RK4) Stats() Stats { return r.stats }

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Init(sys dynamo.System, t0 float64, y0 dynamo.State, tBound float64, opts Options) error {
	if !(tBound > t0) {
		return dynamo.Invalidf("integration bound %g not after start %g", tBound, t0)
	}
	if !(opts.FirstStep > 0) || math.IsInf(opts.FirstStep, 0) {
		return dynamo.Invalidf("rk4 needs a positive fixed step, got %g", opts.FirstStep)
	}
	r.sys = sys
	r.h = opts.FirstStep
	r.t, r.tOld, r.tBound = t0, t0, tBound
	r.y, r.yOld = y0.Clone(), y0.Clone()
	r.stats = Stats{}
	r.ensureScratch(len(y0))

	f0, err := sys.Derive(r.y, t0)
	r.stats.RHSEvals++
	r.f, r.fOld = f0, f0
	return err
}

func (r *RK4) Step() error {
	n := len(r.y)
	x, t := r.y, r.t
	dt := math.Min(r.h, r.tBound-t)

	copy(r.k1, r.f)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k1[i]
	}
	k2, err := r.sys.Derive(r.scratch, t+dt*0.5)
	if err != nil {
		return err
	}
	copy(r.k2, k2)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*0.5*r.k2[i]
	}
	k3, err := r.sys.Derive(r.scratch, t+dt*0.5)
	if err != nil {
		return err
	}
	copy(r.k3, k3)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + dt*r.k3[i]
	}
	k4, err := r.sys.Derive(r.scratch, t+dt)
	if err != nil {
		return err
	}
	copy(r.k4, k4)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(r.k1[i]+2*r.k2[i]+2*r.k3[i]+r.k4[i])
	}
	if !result.IsValid() {
		return dynamo.ErrNumericOverflow
	}

	f, err := r.sys.Derive(result, t+dt)
	if err != nil {
		return err
	}
	r.stats.RHSEvals += 4
	r.stats.Steps++
	r.tOld, r.yOld, r.fOld = t, x, r.f
	r.t, r.y, r.f = t+dt, result, f
	if r.tBound-r.t < 1e-12*math.Max(1, math.Abs(r.tBound)) {
		r.t = r.tBound
	}
	return nil
}

func (r *RK4) Interpolate(t float64) dynamo.State {
	return hermite(t, r.tOld, r.t, r.yOld, r.y, r.fOld, r.f)
}
