package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/fedpower/federated"
	"github.com/sartorproj/fedpower/optimize"
	"github.com/sartorproj/fedpower/power"
)

// subcommand returns the named subcommand of a fresh root with args parsed.
func subcommand(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()
	cmd, _, err := newRootCmd().Find([]string{name})
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(args))
	return cmd
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(subcommand(t, "fit", "--data", "x.csv"))
	require.NoError(t, err)

	want := DefaultRunConfig()
	want.Data = "x.csv"
	assert.Equal(t, want, *cfg)
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeFile(t, "run.yaml", `
data: sample.csv
column: y
family: yeojohnson
clients: 2
seed: 7
reps: 4
bracket: [0, 1]
`)
	t.Setenv("POWERFIT_CLIENTS", "3")
	t.Setenv("POWERFIT_METHOD", "grid")
	t.Setenv("POWERFIT_GRID_POINTS", "50")

	cfg, err := LoadConfig(subcommand(t, "fit", "--config", path, "--clients", "5", "--variance", "naive"))
	require.NoError(t, err)

	assert.Equal(t, "sample.csv", cfg.Data)
	assert.Equal(t, "y", cfg.Column)
	assert.Equal(t, "yeojohnson", cfg.Family)
	assert.Equal(t, uint64(7), cfg.Seed)
	assert.Equal(t, 4, cfg.Reps)
	assert.Equal(t, []float64{0, 1}, cfg.Bracket)
	assert.Equal(t, "grid", cfg.Method)
	assert.Equal(t, 50, cfg.GridPoints)
	assert.Equal(t, 5, cfg.Clients)
	assert.Equal(t, "naive", cfg.Variance)

	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, Resolved{Family: power.YeoJohnson, Variance: federated.Naive, Method: optimize.MethodGrid}, r)
}

func TestLoadConfigUnsetFlagsKeepFileValues(t *testing.T) {
	path := writeFile(t, "run.yaml", "data: a.csv\nfamily: bc\n")

	cfg, err := LoadConfig(subcommand(t, "fit", "--config", path))
	require.NoError(t, err)
	assert.Equal(t, "bc", cfg.Family)
	assert.Equal(t, 1, cfg.Clients)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(subcommand(t, "fit", "--config", filepath.Join(t.TempDir(), "none.yaml")))
		assert.ErrorContains(t, err, "read config")
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, "run.yaml", "clients: [1, 2\n")
		_, err := LoadConfig(subcommand(t, "fit", "--config", path))
		assert.ErrorContains(t, err, "parse config")
	})

	t.Run("bad env", func(t *testing.T) {
		t.Setenv("POWERFIT_REPS", "many")
		_, err := LoadConfig(subcommand(t, "fit", "--data", "x.csv"))
		assert.ErrorContains(t, err, "env")
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultRunConfig()
	assert.ErrorContains(t, cfg.Validate(), "data")

	cfg.Data = "x.csv"
	require.NoError(t, cfg.Validate())

	for _, alias := range []string{"Box-Cox", "yj", "yeo_johnson"} {
		cfg.Family = alias
		assert.NoError(t, cfg.Validate(), alias)
	}

	cfg.Family = "logit"
	cfg.Variance = "exact"
	cfg.Method = "newton"
	cfg.Clients = 0
	cfg.Reps = 0
	cfg.Bracket = []float64{1}
	err := cfg.Validate()
	require.Error(t, err)
	for _, field := range []string{"family", "variance", "method", "clients", "reps", "bracket"} {
		assert.ErrorContains(t, err, field)
	}
}

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"debug", "INFO", "warn", "error"} {
		_, err := parseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := parseLevel("loud")
	assert.Error(t, err)
}
