package domain

import "math"

// Objective is a function of a candidate rate whose root the solver seeks.
// The schedule is passed explicitly so one Objective serves every invoice.
type Objective func(rate float64, s CashflowSchedule) (float64, error)

// XNPV discounts every cash flow at rate using a days/365 exponent:
//
//	Σ cf_i / (1+rate)^(day_i/365)
func XNPV(rate float64, s CashflowSchedule) (float64, error) {
	if math.IsNaN(rate) || rate <= -1 {
		return 0, &DomainError{Rate: rate}
	}
	base := 1 + rate
	var total float64
	for _, cf := range s {
		total += cf.Amount / math.Pow(base, float64(cf.Day)/DaysPerYear)
	}
	return total, nil
}

var _ Objective = XNPV
