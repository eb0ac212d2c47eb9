package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/invoiceirr/invoiceirr/internal/domain"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file looked up in a directory.
const FileName = ".invoiceirr.yaml"

// WorkersEnv overrides the configured worker count when set.
const WorkersEnv = "INVOICEIRR_WORKERS"

// YAMLLoader implements domain.ConfigLoader by reading .invoiceirr.yaml.
type YAMLLoader struct{}

// New creates a YAMLLoader.
func New() *YAMLLoader { return &YAMLLoader{} }

// Load reads configuration from path. A directory is searched for
// .invoiceirr.yaml and yields DefaultConfig when the file is absent; any
// other path must name an existing YAML file.
func (l *YAMLLoader) Load(path string) (domain.ProjectConfig, error) {
	file := path
	optional := false
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		file = filepath.Join(path, FileName)
		optional = true
	}

	cfg := domain.DefaultConfig()
	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.ProjectConfig{}, fmt.Errorf("parsing %s: %w", filepath.Base(file), err)
		}
	case optional && errors.Is(err, os.ErrNotExist):
		// defaults
	default:
		return domain.ProjectConfig{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return domain.ProjectConfig{}, err
	}

	if err := cfg.Validate(); err != nil {
		return domain.ProjectConfig{}, fmt.Errorf("invalid %s: %w", filepath.Base(file), err)
	}

	return cfg, nil
}

func applyEnv(cfg *domain.ProjectConfig) error {
	v, ok := os.LookupEnv(WorkersEnv)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s=%q: %w", WorkersEnv, v, err)
	}
	cfg.Workers = &n
	return nil
}

// DefaultFile is the commented template written by `invoiceirr init`.
const DefaultFile = `# invoiceirr configuration
solver:
  # starting rate for the secant iteration (0.10 = 10%)
  initial_guess: 0.10
  max_iterations: 50
  # absolute bound on the change between iterates
  step_tolerance: 1.48e-8
  # |xnpv| tolerance relative to the disbursed amount
  value_tolerance: 1e-12
  max_rate: 1e10

# 0 uses one worker per CPU
workers: 0

# decimals for the IRR percentage
round_places: 2

# used when the optional columns are missing or blank
defaults:
  default_probability_percent: 0
  recovery_rate_percent: 0
`

// WriteDefault writes DefaultFile into dir. It refuses to overwrite an
// existing file unless force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	if err := os.WriteFile(path, []byte(DefaultFile), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
