package config_test

import (
	"os"
	"path/filepath"
	"testing"

	appconfig "github.com/invoiceirr/invoiceirr/internal/adapters/outbound/config"
	"github.com/invoiceirr/invoiceirr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, appconfig.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestYAMLLoader_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := appconfig.New().Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestYAMLLoader_ExplicitMissingFileFails(t *testing.T) {
	_, err := appconfig.New().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestYAMLLoader_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
solver:
  initial_guess: 0.2
  max_iterations: 80
workers: 4
round_places: 3
defaults:
  default_probability_percent: 5
`)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 0.2, cfg.Guess())
	assert.Equal(t, 80, cfg.SecantSolver().MaxIterations)
	assert.Equal(t, domain.DefaultStepTolerance, cfg.SecantSolver().StepTolerance)
	assert.Equal(t, 4, cfg.WorkerCount())
	assert.Equal(t, int32(3), cfg.Places())
	assert.Equal(t, 5.0, cfg.Defaults.DefaultProbabilityPercent)
}

func TestYAMLLoader_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("round_places: 4\n"), 0644))

	cfg, err := appconfig.New().Load(path)
	require.NoError(t, err)
	assert.Equal(t, int32(4), cfg.Places())
}

func TestYAMLLoader_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `{{{invalid yaml`)

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing .invoiceirr.yaml")
}

func TestYAMLLoader_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "solver:\n  max_iterations: 0\n")

	_, err := appconfig.New().Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid .invoiceirr.yaml")
	assert.Contains(t, err.Error(), "max_iterations")
}

func TestYAMLLoader_WorkersEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "workers: 2\n")
	t.Setenv(appconfig.WorkersEnv, "7")

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.WorkerCount())
}

func TestYAMLLoader_WorkersEnvInvalid(t *testing.T) {
	t.Setenv(appconfig.WorkersEnv, "many")
	_, err := appconfig.New().Load(t.TempDir())
	assert.Error(t, err)
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path, err := appconfig.WriteDefault(dir, false)
	require.NoError(t, err)
	assert.FileExists(t, path)

	cfg, err := appconfig.New().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, domain.NewSecantSolver(), cfg.SecantSolver())
	assert.Equal(t, domain.DefaultInitialGuess, cfg.Guess())
	assert.Equal(t, int32(2), cfg.Places())
}

func TestWriteDefault_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "workers: 1\n")

	_, err := appconfig.WriteDefault(dir, false)
	assert.Error(t, err)

	_, err = appconfig.WriteDefault(dir, true)
	assert.NoError(t, err)
}
