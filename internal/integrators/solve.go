package integrators

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
)

// Solve integrates sys from y0 at times[0] and reports the solution at every
// requested time. Row i of the returned matrix is the state at times[i];
// row 0 is y0 itself.
//
// Each reporting interval (times[i-1], times[i]] may use at most
// opts.MaxSteps internal steps. Running out of steps, a step size collapse
// or a numeric overflow aborts the run with a *dynamo.DivergenceError and no
// matrix. Observers see every row as it is produced.
func Solve(ctx context.Context, st Stepper, sys dynamo.System, y0 dynamo.State, times []float64, opts Options, observers ...dynamo.Observer) (*mat.Dense, Stats, error) {
	if err := grid.ValidateTimes(times); err != nil {
		return nil, Stats{}, err
	}
	if len(y0) == 0 || len(y0) != sys.Dim() {
		return nil, Stats{}, fmt.Errorf("%w: state has %d values, system expects %d",
			dynamo.ErrInvalidConfiguration, len(y0), sys.Dim())
	}
	if !y0.IsValid() {
		return nil, Stats{}, dynamo.Invalidf("initial state is not finite")
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("integrator", st.Name())

	m, n := len(times), len(y0)
	out := mat.NewDense(m, n, nil)
	out.SetRow(0, y0)
	notify(observers, 0, times[0], y0)
	if m == 1 {
		return out, Stats{}, nil
	}

	if err := st.Init(sys, times[0], y0, times[m-1], opts); err != nil {
		return nil, st.Stats(), divergence(0, times[0], times[1], times[0], 0, err)
	}

	for i := 1; i < m; i++ {
		from, to := times[i-1], times[i]
		steps := 0
		for st.T() < to {
			select {
			case <-ctx.Done():
				return nil, st.Stats(), ctx.Err()
			default:
			}
			if steps >= opts.MaxSteps {
				log.Warn("step ceiling reached", "interval", i, "from", from, "to", to, "t", st.T())
				return nil, st.Stats(), divergence(i, from, to, st.T(), steps,
					fmt.Errorf("step ceiling of %d reached", opts.MaxSteps))
			}
			if err := st.Step(); err != nil {
				return nil, st.Stats(), divergence(i, from, to, st.T(), steps, err)
			}
			steps++
		}

		y := st.Interpolate(to)
		if !y.IsValid() {
			return nil, st.Stats(), divergence(i, from, to, to, steps,
				fmt.Errorf("%w: non-finite state", dynamo.ErrNumericOverflow))
		}
		out.SetRow(i, y)
		notify(observers, i, to, y)
	}

	stats := st.Stats()
	log.Debug("integration finished",
		"samples", m, "steps", stats.Steps, "rejected", stats.Rejected,
		"rhs_evals", stats.RHSEvals, "jac_evals", stats.JacEvals, "lu", stats.LUDecomps)
	return out, stats, nil
}

func divergence(interval int, from, to, t float64, steps int, cause error) error {
	if errors.Is(cause, dynamo.ErrInvalidConfiguration) || errors.Is(cause, dynamo.ErrDimensionMismatch) {
		return cause
	}
	return &dynamo.DivergenceError{Interval: interval, From: from, To: to, Time: t, Steps: steps, Cause: cause}
}

func notify(observers []dynamo.Observer, i int, t float64, y dynamo.State) {
	for _, o := range observers {
		o.OnSample(i, t, y)
	}
}
