package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/solitons/internal/config"
	"github.com/san-kum/solitons/internal/physics"
)

// baselinePreset is used when a model is named without --preset or
// --config.
var baselinePreset = map[physics.Model]string{
	physics.ModelKdV:     "two-soliton",
	physics.ModelBurgers: "kp",
}

// overrideKeys are the run parameters that flags and SOLITONS_* variables
// may set. Keys match flag names.
var overrideKeys = []string{
	"points", "length", "origin", "nu", "duration", "samples", "dt",
	"integrator", "rtol", "atol", "max-steps", "first-step", "imag-tol", "soliton",
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("SOLITONS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// addRunFlags registers the parameter flags and binds them to v.
func addRunFlags(cmd *cobra.Command, v *viper.Viper) {
	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "start from a named preset")
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.Int("points", 0, "grid points N (even, >= 4)")
	f.Float64("length", 0, "domain length L")
	f.Float64("origin", 0, "left end of the domain")
	f.Float64("nu", 0, "diffusion constant (burgers)")
	f.Float64("duration", 0, "final time T")
	f.Int("samples", 0, "reported times, endpoints included")
	f.Float64("dt", 0, "reporting interval, final time excluded")
	f.String("integrator", "", "bdf, rk45 or rk4")
	f.Float64("rtol", 0, "relative tolerance")
	f.Float64("atol", 0, "absolute tolerance")
	f.Int("max-steps", 0, "step ceiling per reporting interval")
	f.Float64("first-step", 0, "initial step; the fixed step for rk4")
	f.Float64("imag-tol", 0, "tolerated imaginary residue of the FFT round trip")
	f.StringSlice("soliton", nil, "kdv soliton as speed@shift, repeatable")

	for _, key := range overrideKeys {
		if err := v.BindPFlag(key, f.Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// resolveConfig layers preset or config file, then flags and environment.
func resolveConfig(v *viper.Viper, args []string) (*config.Config, error) {
	var (
		model physics.Model
		named bool
	)
	if len(args) > 0 {
		m, err := physics.ParseModel(args[0])
		if err != nil {
			return nil, err
		}
		model, named = m, true
	}

	var cfg *config.Config
	switch {
	case configFile != "":
		path, err := homedir.Expand(configFile)
		if err != nil {
			return nil, err
		}
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if named {
			cfg.Model = model.String()
		}
	case preset != "":
		if !named {
			model = physics.ModelKdV
		}
		cfg = config.GetPreset(model.String(), preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model.String()))
		}
	case named:
		cfg = config.GetPreset(model.String(), baselinePreset[model])
	default:
		cfg = config.DefaultConfig()
	}

	if err := applyOverrides(v, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func applyOverrides(v *viper.Viper, cfg *config.Config) error {
	if v.IsSet("points") {
		cfg.Points = v.GetInt("points")
	}
	if v.IsSet("length") {
		cfg.Length = v.GetFloat64("length")
	}
	if v.IsSet("origin") {
		cfg.Origin = v.GetFloat64("origin")
	}
	if v.IsSet("nu") {
		cfg.Nu = v.GetFloat64("nu")
	}
	if v.IsSet("duration") {
		cfg.Duration = v.GetFloat64("duration")
	}
	if v.IsSet("dt") {
		cfg.Dt = v.GetFloat64("dt")
		cfg.Samples = 0
	}
	if v.IsSet("samples") {
		cfg.Samples = v.GetInt("samples")
	}
	if v.IsSet("integrator") {
		cfg.Integrator = v.GetString("integrator")
	}
	if v.IsSet("rtol") {
		cfg.RTol = v.GetFloat64("rtol")
	}
	if v.IsSet("atol") {
		cfg.ATol = v.GetFloat64("atol")
	}
	if v.IsSet("max-steps") {
		cfg.MaxSteps = v.GetInt("max-steps")
	}
	if v.IsSet("first-step") {
		cfg.FirstStep = v.GetFloat64("first-step")
	}
	if v.IsSet("imag-tol") {
		cfg.ImagTol = v.GetFloat64("imag-tol")
	}
	if v.IsSet("soliton") {
		solitons, err := parseSolitons(v.GetStringSlice("soliton"))
		if err != nil {
			return err
		}
		cfg.Solitons = solitons
	}
	return nil
}

// parseSolitons reads "speed@shift" pairs.
func parseSolitons(pairs []string) ([]physics.Soliton, error) {
	out := make([]physics.Soliton, 0, len(pairs))
	for _, s := range pairs {
		c, shift, ok := strings.Cut(s, "@")
		if !ok {
			return nil, fmt.Errorf("soliton %q: want speed@shift", s)
		}
		cv, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return nil, fmt.Errorf("soliton %q: %w", s, err)
		}
		sv, err := strconv.ParseFloat(strings.TrimSpace(shift), 64)
		if err != nil {
			return nil, fmt.Errorf("soliton %q: %w", s, err)
		}
		out = append(out, physics.Soliton{C: cv, Shift: sv})
	}
	return out, nil
}
