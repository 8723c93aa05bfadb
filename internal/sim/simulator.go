package sim

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/solitons/internal/config"
	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/integrators"
	"github.com/san-kum/solitons/internal/metrics"
	"github.com/san-kum/solitons/internal/physics"
	"github.com/san-kum/solitons/internal/spectral"
)

// blowUpFactor scales the initial amplitude into the bound the stability
// metric checks rows against.
const blowUpFactor = 10

// Simulator runs configurations. The zero value is not usable; call New.
type Simulator struct {
	logger    *slog.Logger
	observers []dynamo.Observer
}

func New(logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{logger: logger}
}

// AddObserver registers o for every row of every subsequent run.
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run validates cfg and integrates it. On failure no partial result is
// returned.
func (s *Simulator) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	model, err := cfg.ParsedModel()
	if err != nil {
		return nil, err
	}
	g, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	times, err := cfg.Times()
	if err != nil {
		return nil, err
	}
	params := cfg.Params()
	u0, err := physics.InitialCondition(model, g, params)
	if err != nil {
		return nil, err
	}
	sys, err := physics.NewSystem(model, g, params)
	if err != nil {
		return nil, err
	}
	stepper, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	ms := []metrics.Metric{
		metrics.NewMassDrift(g),
		metrics.NewMomentumDrift(g),
		metrics.NewSteepness(spectral.NewDifferentiator(g)),
		metrics.NewPeak(),
		metrics.NewStability(blowUpFactor * math.Max(u0.MaxAbs(), 1)),
	}
	if e := metrics.NewEnergyDrift(sys); e != nil {
		ms = append(ms, e)
	}
	observers := append(metrics.Observers(ms), s.observers...)

	log := s.logger.With("model", model.String(), "points", g.N, "length", g.L)
	opts := cfg.Options()
	opts.Logger = log

	if c, ok := sys.(dynamo.Configurable); ok {
		log.Debug("system", "params", c.GetParams())
	}
	log.Info("starting run", "integrator", stepper.Name(), "samples", len(times), "duration", cfg.Duration)
	start := time.Now()
	u, stats, err := integrators.Solve(ctx, stepper, sys, u0, times, opts, observers...)
	if err != nil {
		log.Error("run failed", "err", err, "steps", stats.Steps)
		return nil, err
	}
	log.Info("run finished", "elapsed", time.Since(start), "steps", stats.Steps, "rejected", stats.Rejected)

	return &Result{
		Config:  cfg,
		Model:   model,
		Grid:    g,
		Times:   times,
		U:       u,
		Stats:   stats,
		Metrics: metrics.Values(ms),
	}, nil
}

// Run integrates cfg with the default logger.
func Run(ctx context.Context, cfg *config.Config, observers ...dynamo.Observer) (*Result, error) {
	s := New(nil)
	for _, o := range observers {
		s.AddObserver(o)
	}
	return s.Run(ctx, cfg)
}
