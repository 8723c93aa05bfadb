package config

import (
	"sort"

	"github.com/san-kum/solitons/internal/physics"
)

var Presets = map[string]map[string]*Config{
	"kdv": {
		"two-soliton": {
			Model: "kdv", Integrator: "bdf", Length: 50, Points: 64,
			Solitons: []physics.Soliton{{C: 0.75, Shift: 0.33 * 50}, {C: 0.4, Shift: 0.65 * 50}},
			Duration: 200, Samples: 501,
		},
		"single": {
			Model: "kdv", Integrator: "bdf", Length: 50, Points: 64,
			Solitons: []physics.Soliton{{C: 0.75, Shift: 0.33 * 50}},
			Duration: 20, Samples: 101,
		},
		"overtake": {
			Model: "kdv", Integrator: "bdf", Length: 80, Points: 128,
			Solitons: []physics.Soliton{{C: 1.2, Shift: 0.2 * 80}, {C: 0.3, Shift: 0.45 * 80}},
			Duration: 60, Samples: 241,
		},
	},
	"burgers": {
		"kp": {
			Model: "burgers", Integrator: "bdf", Length: 20, Points: 1000, Origin: -10,
			Nu: 1e-7, Duration: 80, Dt: 0.1,
		},
		"inviscid": {
			Model: "burgers", Integrator: "bdf", Length: 20, Points: 1000, Origin: -10,
			Nu: 0, Duration: 80, Dt: 0.1,
		},
		"viscous": {
			Model: "burgers", Integrator: "bdf", Length: 20, Points: 256, Origin: -10,
			Nu: 0.05, Duration: 20, Dt: 0.1,
		},
	},
}

// GetPreset returns a copy of the named preset with default tolerances
// filled in, or nil when it does not exist.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	p, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := p.Clone()
	def := DefaultConfig()
	if cfg.RTol == 0 {
		cfg.RTol = def.RTol
	}
	if cfg.ATol == 0 {
		cfg.ATol = def.ATol
	}
	if cfg.MaxSteps == 0 {
		cfg.MaxSteps = def.MaxSteps
	}
	if cfg.ImagTol == 0 {
		cfg.ImagTol = def.ImagTol
	}
	return cfg
}

// ListPresets returns the preset names of a model in sorted order.
func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Models lists the models that have presets.
func Models() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
