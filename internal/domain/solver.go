package domain

import "math"

// RootFinder finds a rate at which obj evaluates to zero for schedule s.
type RootFinder interface {
	Solve(obj Objective, s CashflowSchedule, guess float64) (float64, error)
}

// Solver defaults. The step tolerance and the second-point perturbation match
// the classic secant start used by most numeric libraries.
const (
	DefaultInitialGuess   = 0.10
	DefaultMaxIterations  = 50
	DefaultStepTolerance  = 1.48e-8
	DefaultValueTolerance = 1e-12
	DefaultMaxRate        = 1e10

	secantPerturbation = 1e-4
)

// SecantSolver is a derivative-free Newton iteration: the slope is taken from
// the last two iterates instead of an analytic derivative.
type SecantSolver struct {
	MaxIterations int
	// StepTolerance is an absolute bound on |r_{n+1} - r_n|.
	StepTolerance float64
	// ValueTolerance is relative to the schedule's gross outflow.
	ValueTolerance float64
	// MaxRate bounds |rate|; larger iterates are treated as overflow.
	MaxRate float64
}

// NewSecantSolver returns a solver with default settings.
func NewSecantSolver() SecantSolver {
	return SecantSolver{
		MaxIterations:  DefaultMaxIterations,
		StepTolerance:  DefaultStepTolerance,
		ValueTolerance: DefaultValueTolerance,
		MaxRate:        DefaultMaxRate,
	}
}

var _ RootFinder = SecantSolver{}

// Solve runs the secant iteration from guess. On failure it returns one of
// DegenerateScheduleError, DomainError, OverflowError or ConvergenceError and
// never a partial rate.
func (s SecantSolver) Solve(obj Objective, sched CashflowSchedule, guess float64) (float64, error) {
	if err := sched.Validate(); err != nil {
		return 0, err
	}
	if math.IsNaN(guess) || guess <= -1 {
		return 0, &DomainError{Rate: guess}
	}

	valueTol := s.ValueTolerance * sched.GrossOutflow()

	p0 := guess
	q0, err := s.eval(obj, sched, p0, 0)
	if err != nil {
		return 0, err
	}
	if math.Abs(q0) <= valueTol {
		return p0, nil
	}

	p1 := p0*(1+secantPerturbation) + secantPerturbation
	if p0 < 0 {
		p1 = p0*(1+secantPerturbation) - secantPerturbation
	}
	if p1 <= -1 {
		return 0, &DomainError{Rate: p1}
	}
	q1, err := s.eval(obj, sched, p1, 0)
	if err != nil {
		return 0, err
	}
	if math.Abs(q1) < math.Abs(q0) {
		p0, p1 = p1, p0
		q0, q1 = q1, q0
	}

	for iter := 1; iter <= s.MaxIterations; iter++ {
		denom := q1 - q0
		if denom == 0 {
			return 0, &OverflowError{Iteration: iter, Reason: "secant slope vanished"}
		}

		p := p1 - q1*(p1-p0)/denom
		if math.IsNaN(p) || math.IsInf(p, 0) || math.Abs(p) > s.MaxRate {
			return 0, &OverflowError{Iteration: iter, Reason: "rate estimate unbounded"}
		}
		if p <= -1 {
			return 0, &DomainError{Rate: p, Iteration: iter}
		}

		q, err := s.eval(obj, sched, p, iter)
		if err != nil {
			return 0, err
		}
		if math.Abs(q) <= valueTol || math.Abs(p-p1) <= s.StepTolerance {
			return p, nil
		}

		p0, q0 = p1, q1
		p1, q1 = p, q
	}

	return 0, &ConvergenceError{Iterations: s.MaxIterations, LastRate: p1}
}

// eval calls obj and rejects non-finite values.
func (s SecantSolver) eval(obj Objective, sched CashflowSchedule, rate float64, iter int) (float64, error) {
	v, err := obj(rate, sched)
	if err != nil {
		if de, ok := err.(*DomainError); ok && de.Iteration == 0 {
			de.Iteration = iter
		}
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &OverflowError{Iteration: iter, Reason: "objective is not finite"}
	}
	return v, nil
}

// SolveIRR solves XNPV(rate, s) = 0 with the default solver.
func SolveIRR(s CashflowSchedule, guess float64) (float64, error) {
	return NewSecantSolver().Solve(XNPV, s, guess)
}
