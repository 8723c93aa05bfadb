package config

import (
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/grid"
	"github.com/san-kum/solitons/internal/integrators"
	"github.com/san-kum/solitons/internal/physics"
	"github.com/san-kum/solitons/internal/spectral"
)

const (
	DefaultModel      = "kdv"
	DefaultIntegrator = "bdf"
	DefaultLength     = 50.0
	DefaultPoints     = 64
	DefaultDuration   = 200.0
	DefaultSamples    = 501
)

// Config is the full description of one run. A Config is treated as
// immutable once handed to the pipeline.
type Config struct {
	Model  string  `yaml:"model"`
	Length float64 `yaml:"length"`
	Points int     `yaml:"points"`
	Origin float64 `yaml:"origin"`

	Nu       float64           `yaml:"nu"`
	Solitons []physics.Soliton `yaml:"solitons,omitempty"`

	// Duration and either Samples (endpoint included) or Dt (endpoint
	// excluded) define the reporting times. Samples wins when both are set.
	Duration float64 `yaml:"duration"`
	Samples  int     `yaml:"samples,omitempty"`
	Dt       float64 `yaml:"dt,omitempty"`

	Integrator string  `yaml:"integrator"`
	RTol       float64 `yaml:"rtol"`
	ATol       float64 `yaml:"atol"`
	MaxSteps   int     `yaml:"max_steps"`
	FirstStep  float64 `yaml:"first_step,omitempty"`
	ImagTol    float64 `yaml:"imag_tol"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:  DefaultModel,
		Length: DefaultLength,
		Points: DefaultPoints,
		Solitons: []physics.Soliton{
			{C: 0.75, Shift: 0.33 * DefaultLength},
			{C: 0.4, Shift: 0.65 * DefaultLength},
		},
		Duration:   DefaultDuration,
		Samples:    DefaultSamples,
		Integrator: DefaultIntegrator,
		RTol:       integrators.DefaultRTol,
		ATol:       integrators.DefaultATol,
		MaxSteps:   integrators.DefaultMaxSteps,
		ImagTol:    spectral.DefaultImagTol,
	}
}

// Load reads a YAML file on top of DefaultConfig. A file that names a
// soliton list replaces the default list.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Solitons = nil
	cfg.Samples = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Solitons == nil {
		cfg.Solitons = DefaultConfig().Solitons
	}
	// a file naming only dt reports on that interval
	if cfg.Samples == 0 && cfg.Dt == 0 {
		cfg.Samples = DefaultSamples
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Solitons = append([]physics.Soliton(nil), c.Solitons...)
	return &out
}

// Validate checks every field the pipeline depends on. All failures wrap
// dynamo.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	m, err := physics.ParseModel(c.Model)
	if err != nil {
		return err
	}
	if _, err := c.Grid(); err != nil {
		return err
	}
	if _, err := c.Times(); err != nil {
		return err
	}
	if _, err := integrators.New(c.Integrator); err != nil {
		return err
	}
	if c.Nu < 0 || math.IsNaN(c.Nu) || math.IsInf(c.Nu, 0) {
		return dynamo.Invalidf("nu must be a non-negative finite number, got %g", c.Nu)
	}
	if c.RTol < 0 || c.ATol < 0 || c.ImagTol < 0 {
		return dynamo.Invalidf("tolerances must not be negative")
	}
	if c.MaxSteps < 0 {
		return dynamo.Invalidf("max_steps must not be negative, got %d", c.MaxSteps)
	}
	if c.FirstStep < 0 || (c.Integrator == "rk4" && !(c.FirstStep > 0)) {
		return dynamo.Invalidf("first_step must be positive for %s, got %g", c.Integrator, c.FirstStep)
	}
	if m == physics.ModelKdV {
		if len(c.Solitons) == 0 {
			return dynamo.Invalidf("kdv needs at least one soliton")
		}
		for i, s := range c.Solitons {
			if !(s.C > 0) || math.IsInf(s.C, 0) {
				return dynamo.Invalidf("soliton %d speed must be positive, got %g", i, s.C)
			}
		}
	}
	return nil
}

func (c *Config) ParsedModel() (physics.Model, error) {
	return physics.ParseModel(c.Model)
}

func (c *Config) Grid() (*grid.Grid, error) {
	return grid.New(c.Length, c.Points, c.Origin)
}

// Times builds the reporting sequence starting at 0.
func (c *Config) Times() ([]float64, error) {
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return nil, dynamo.Invalidf("duration must be positive, got %g", c.Duration)
	}
	switch {
	case c.Samples > 0:
		return grid.Linspace(0, c.Duration, c.Samples)
	case c.Dt > 0:
		return grid.Arange(0, c.Duration, c.Dt)
	default:
		return nil, dynamo.Invalidf("either samples or dt must be positive")
	}
}

func (c *Config) Params() physics.Params {
	return physics.Params{
		Nu:       c.Nu,
		ImagTol:  c.ImagTol,
		Solitons: c.Solitons,
	}
}

func (c *Config) Options() integrators.Options {
	opts := integrators.DefaultOptions()
	if c.RTol > 0 {
		opts.RTol = c.RTol
	}
	if c.ATol > 0 {
		opts.ATol = c.ATol
	}
	if c.MaxSteps > 0 {
		opts.MaxSteps = c.MaxSteps
	}
	opts.FirstStep = c.FirstStep
	return opts
}
