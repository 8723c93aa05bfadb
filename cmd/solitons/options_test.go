package main

import (
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/solitons/internal/config"
	"github.com/san-kum/solitons/internal/dynamo"
	"github.com/san-kum/solitons/internal/physics"
)

func newTestCommand(t *testing.T) (*cobra.Command, func([]string) (*config.Config, error)) {
	t.Helper()
	preset, configFile = "", ""
	t.Cleanup(func() { preset, configFile = "", "" })

	v := newViper()
	cmd := &cobra.Command{Use: "test"}
	addRunFlags(cmd, v)
	return cmd, func(args []string) (*config.Config, error) {
		return resolveConfig(v, args)
	}
}

func TestParseSolitons(t *testing.T) {
	got, err := parseSolitons([]string{"0.75@16.5", " 0.4 @ 32.5"})
	require.NoError(t, err)
	assert.Equal(t, []physics.Soliton{{C: 0.75, Shift: 16.5}, {C: 0.4, Shift: 32.5}}, got)

	_, err = parseSolitons([]string{"0.75"})
	assert.Error(t, err)
	_, err = parseSolitons([]string{"fast@1"})
	assert.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	_, resolve := newTestCommand(t)

	cfg, err := resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)

	cfg, err = resolve([]string{"kp"})
	require.NoError(t, err)
	assert.Equal(t, "burgers", cfg.Model)
	assert.Equal(t, 1000, cfg.Points)
	assert.Equal(t, 1e-7, cfg.Nu)
}

func TestResolveFlagsOverridePreset(t *testing.T) {
	cmd, resolve := newTestCommand(t)
	require.NoError(t, cmd.Flags().Set("preset", "single"))
	require.NoError(t, cmd.Flags().Set("points", "128"))
	require.NoError(t, cmd.Flags().Set("dt", "0.5"))
	require.NoError(t, cmd.Flags().Set("soliton", "1@10"))

	cfg, err := resolve([]string{"kdv"})
	require.NoError(t, err)
	assert.Equal(t, 128, cfg.Points)
	assert.Equal(t, 0.5, cfg.Dt)
	assert.Zero(t, cfg.Samples)
	assert.Equal(t, []physics.Soliton{{C: 1, Shift: 10}}, cfg.Solitons)
	// untouched fields keep the preset
	assert.Equal(t, 20.0, cfg.Duration)
}

func TestResolveEnvironment(t *testing.T) {
	t.Setenv("SOLITONS_MAX_STEPS", "77")
	_, resolve := newTestCommand(t)

	cfg, err := resolve([]string{"burgers"})
	require.NoError(t, err)
	assert.Equal(t, 77, cfg.MaxSteps)
}

func TestResolveConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	want := config.GetPreset("burgers", "viscous")
	require.NoError(t, config.Save(path, want))

	cmd, resolve := newTestCommand(t)
	require.NoError(t, cmd.Flags().Set("config", path))
	cfg, err := resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, "burgers", cfg.Model)
	assert.Equal(t, 0.05, cfg.Nu)
}

func TestResolveRejects(t *testing.T) {
	cmd, resolve := newTestCommand(t)
	_, err := resolve([]string{"heat"})
	assert.Error(t, err)

	require.NoError(t, cmd.Flags().Set("preset", "missing"))
	_, err = resolve([]string{"kdv"})
	assert.ErrorContains(t, err, "unknown preset")

	cmd, resolve = newTestCommand(t)
	require.NoError(t, cmd.Flags().Set("points", "63"))
	_, err = resolve(nil)
	assert.ErrorIs(t, err, dynamo.ErrInvalidConfiguration)
}
