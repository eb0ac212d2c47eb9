package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DaysPerYear is the simple day-fraction-of-year basis used for discounting.
const DaysPerYear = 365.0

// Cashflow is a signed amount paid on a day offset from disbursement.
// Negative amounts are outflows from the financier.
type Cashflow struct {
	Amount float64 `json:"amount"`
	Day    int     `json:"day"`
}

// CashflowSchedule is an ordered list of dated cash flows.
type CashflowSchedule []Cashflow

// Disbursed is the amount advanced after the discount is deducted.
// A discount of 100% or more yields zero or a negative advance; it is not
// clamped.
func Disbursed(rec InvoiceRecord) float64 {
	return rec.Amount * (1 - rec.DiscountRatePercent/100)
}

// ExpectedPayback weighs full repayment against partial recovery on default.
func ExpectedPayback(rec InvoiceRecord) float64 {
	pd := rec.DefaultProbabilityPercent / 100
	rr := rec.RecoveryRatePercent / 100
	return rec.Amount*(1-pd) + rec.Amount*pd*rr
}

// BuildSchedule returns the two-point schedule for one invoice:
// the disbursement on day 0 and the expected payback at tenor.
func BuildSchedule(rec InvoiceRecord) CashflowSchedule {
	return CashflowSchedule{
		{Amount: -Disbursed(rec), Day: 0},
		{Amount: ExpectedPayback(rec), Day: rec.TenorDays},
	}
}

// GrossOutflow sums the magnitude of every negative entry.
func (s CashflowSchedule) GrossOutflow() float64 {
	var total float64
	for _, cf := range s {
		if cf.Amount < 0 {
			total -= cf.Amount
		}
	}
	return total
}

// Validate reports a DegenerateScheduleError when the schedule cannot pose a
// well-defined root-finding problem.
func (s CashflowSchedule) Validate() error {
	if len(s) == 0 {
		return &DegenerateScheduleError{Reason: "schedule is empty"}
	}
	if s[0].Day != 0 {
		return &DegenerateScheduleError{Reason: "schedule has no day-0 entry"}
	}
	for i := 1; i < len(s); i++ {
		if s[i].Day < s[i-1].Day {
			return &DegenerateScheduleError{Reason: "day offsets decrease"}
		}
	}
	if s[len(s)-1].Day == 0 {
		return &DegenerateScheduleError{Reason: "no cash flow after day 0"}
	}
	if !(s.GrossOutflow() > 0) {
		return &DegenerateScheduleError{Reason: "schedule has no outflow"}
	}
	return nil
}

// ParseCashflow parses the "amount@day" shorthand, e.g. "-98000@0".
func ParseCashflow(s string) (Cashflow, error) {
	amt, day, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return Cashflow{}, fmt.Errorf("cash flow %q: want amount@day", s)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(amt), 64)
	if err != nil {
		return Cashflow{}, fmt.Errorf("cash flow %q: invalid amount", s)
	}
	d, err := strconv.Atoi(strings.TrimSpace(day))
	if err != nil {
		return Cashflow{}, fmt.Errorf("cash flow %q: invalid day", s)
	}
	return Cashflow{Amount: a, Day: d}, nil
}

// ParseSchedule parses a comma-separated list of "amount@day" entries.
func ParseSchedule(s string) (CashflowSchedule, error) {
	var out CashflowSchedule
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		cf, err := ParseCashflow(part)
		if err != nil {
			return nil, err
		}
		out = append(out, cf)
	}
	return out, nil
}
