package domain

import (
	"fmt"
	"runtime"
)

// ProjectConfig holds settings loaded from .invoiceirr.yaml.
// Pointer fields distinguish "not specified" from zero values.
type ProjectConfig struct {
	Solver      SolverConfig   `yaml:"solver"       json:"solver"`
	Workers     *int           `yaml:"workers"      json:"workers,omitempty"`
	RoundPlaces *int           `yaml:"round_places" json:"round_places,omitempty"`
	Defaults    InvoiceDefault `yaml:"defaults"     json:"defaults"`
}

// SolverConfig overrides SecantSolver settings.
type SolverConfig struct {
	InitialGuess   *float64 `yaml:"initial_guess,omitempty"   json:"initial_guess,omitempty"`
	MaxIterations  *int     `yaml:"max_iterations,omitempty"  json:"max_iterations,omitempty"`
	StepTolerance  *float64 `yaml:"step_tolerance,omitempty"  json:"step_tolerance,omitempty"`
	ValueTolerance *float64 `yaml:"value_tolerance,omitempty" json:"value_tolerance,omitempty"`
	MaxRate        *float64 `yaml:"max_rate,omitempty"        json:"max_rate,omitempty"`
}

// InvoiceDefault supplies values for optional input columns.
type InvoiceDefault struct {
	DefaultProbabilityPercent float64 `yaml:"default_probability_percent" json:"default_probability_percent"`
	RecoveryRatePercent       float64 `yaml:"recovery_rate_percent"       json:"recovery_rate_percent"`
}

const DefaultRoundPlaces = 2

// DefaultConfig returns a zero-value config that changes nothing.
func DefaultConfig() ProjectConfig {
	return ProjectConfig{}
}

// Guess returns the configured initial guess or DefaultInitialGuess.
func (c ProjectConfig) Guess() float64 {
	if c.Solver.InitialGuess != nil {
		return *c.Solver.InitialGuess
	}
	return DefaultInitialGuess
}

// SecantSolver builds a solver from defaults plus explicit overrides.
func (c ProjectConfig) SecantSolver() SecantSolver {
	s := NewSecantSolver()
	if c.Solver.MaxIterations != nil {
		s.MaxIterations = *c.Solver.MaxIterations
	}
	if c.Solver.StepTolerance != nil {
		s.StepTolerance = *c.Solver.StepTolerance
	}
	if c.Solver.ValueTolerance != nil {
		s.ValueTolerance = *c.Solver.ValueTolerance
	}
	if c.Solver.MaxRate != nil {
		s.MaxRate = *c.Solver.MaxRate
	}
	return s
}

// WorkerCount returns the configured worker count, GOMAXPROCS when unset or 0.
func (c ProjectConfig) WorkerCount() int {
	if c.Workers != nil && *c.Workers > 0 {
		return *c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Places returns the number of decimals used for the IRR percentage.
func (c ProjectConfig) Places() int32 {
	if c.RoundPlaces != nil {
		return int32(*c.RoundPlaces)
	}
	return DefaultRoundPlaces
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c ProjectConfig) Validate() error {
	s := c.Solver
	if s.InitialGuess != nil && *s.InitialGuess <= -1 {
		return fmt.Errorf("solver.initial_guess = %g (must be greater than -1)", *s.InitialGuess)
	}
	if s.MaxIterations != nil && *s.MaxIterations <= 0 {
		return fmt.Errorf("solver.max_iterations = %d (must be positive)", *s.MaxIterations)
	}
	if s.StepTolerance != nil && *s.StepTolerance <= 0 {
		return fmt.Errorf("solver.step_tolerance = %g (must be positive)", *s.StepTolerance)
	}
	if s.ValueTolerance != nil && *s.ValueTolerance <= 0 {
		return fmt.Errorf("solver.value_tolerance = %g (must be positive)", *s.ValueTolerance)
	}
	if s.MaxRate != nil && *s.MaxRate <= 1 {
		return fmt.Errorf("solver.max_rate = %g (must be greater than 1)", *s.MaxRate)
	}

	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers = %d (must be zero or positive)", *c.Workers)
	}
	if c.RoundPlaces != nil && (*c.RoundPlaces < 0 || *c.RoundPlaces > 10) {
		return fmt.Errorf("round_places = %d (must be between 0 and 10)", *c.RoundPlaces)
	}

	d := c.Defaults
	if d.DefaultProbabilityPercent < 0 || d.DefaultProbabilityPercent > 100 {
		return fmt.Errorf("defaults.default_probability_percent = %g (must be between 0 and 100)", d.DefaultProbabilityPercent)
	}
	if d.RecoveryRatePercent < 0 || d.RecoveryRatePercent > 100 {
		return fmt.Errorf("defaults.recovery_rate_percent = %g (must be between 0 and 100)", d.RecoveryRatePercent)
	}

	return nil
}
