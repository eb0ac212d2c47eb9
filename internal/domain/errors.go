package domain

import (
	"errors"
	"fmt"
)

// FailureKind names why an IRR could not be solved. It is a diagnostic; user
// facing output collapses every kind to a single error token.
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureDomain      FailureKind = "domain"
	FailureConvergence FailureKind = "convergence"
	FailureOverflow    FailureKind = "overflow"
	FailureDegenerate  FailureKind = "degenerate"
	FailureUnknown     FailureKind = "unknown"
)

// DomainError is returned when a rate leaves the region where (1+rate) is
// positive.
type DomainError struct {
	Rate      float64
	Iteration int
}

func (e *DomainError) Error() string {
	if e.Iteration > 0 {
		return fmt.Sprintf("rate %g outside xnpv domain (1+rate <= 0) at iteration %d", e.Rate, e.Iteration)
	}
	return fmt.Sprintf("rate %g outside xnpv domain (1+rate <= 0)", e.Rate)
}

// ConvergenceError is returned when the iteration cap is reached.
type ConvergenceError struct {
	Iterations int
	LastRate   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("did not converge after %d iterations (last rate %g)", e.Iterations, e.LastRate)
}

// OverflowError is returned when the iteration blows up numerically.
type OverflowError struct {
	Iteration int
	Reason    string
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("numerical overflow at iteration %d: %s", e.Iteration, e.Reason)
}

// DegenerateScheduleError is returned for schedules without a meaningful
// negative leg or with malformed day offsets.
type DegenerateScheduleError struct {
	Reason string
}

func (e *DegenerateScheduleError) Error() string {
	return "degenerate cash-flow schedule: " + e.Reason
}

// KindOf classifies err into a FailureKind.
func KindOf(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	var (
		de *DomainError
		ce *ConvergenceError
		oe *OverflowError
		ge *DegenerateScheduleError
	)
	switch {
	case errors.As(err, &de):
		return FailureDomain
	case errors.As(err, &ce):
		return FailureConvergence
	case errors.As(err, &oe):
		return FailureOverflow
	case errors.As(err, &ge):
		return FailureDegenerate
	default:
		return FailureUnknown
	}
}
