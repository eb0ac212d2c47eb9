package domain

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// ErrorToken is what tables and exports print when an IRR could not be solved.
const ErrorToken = "Error"

// IRR is either a solved annual rate or a failure. The zero value is a
// failure with no cause, so an unset IRR is never read as 0%.
type IRR struct {
	rate   float64
	solved bool
	err    error
}

// Solved wraps a successfully solved fractional rate (0.085 = 8.5%).
func Solved(rate float64) IRR {
	return IRR{rate: rate, solved: true}
}

// Failed wraps the reason a solve failed.
func Failed(err error) IRR {
	return IRR{err: err}
}

// Rate returns the fractional rate and whether it was solved.
func (i IRR) Rate() (float64, bool) {
	return i.rate, i.solved
}

// Percent returns the rate in percentage points and whether it was solved.
func (i IRR) Percent() (float64, bool) {
	if !i.solved {
		return 0, false
	}
	return i.rate * 100, true
}

// Err returns the failure cause, or nil when solved.
func (i IRR) Err() error {
	if i.solved {
		return nil
	}
	return i.err
}

// IsSolved reports whether the IRR holds a solved rate.
func (i IRR) IsSolved() bool { return i.solved }

// Kind classifies the failure; FailureNone when solved.
func (i IRR) Kind() FailureKind {
	if i.solved {
		return FailureNone
	}
	if i.err == nil {
		return FailureUnknown
	}
	return KindOf(i.err)
}

// FormatPercent renders the rate as a percentage rounded to places, or
// ErrorToken. A solved 0% prints as "0.00", not as the error token.
func (i IRR) FormatPercent(places int32) string {
	pct, ok := i.Percent()
	if !ok {
		return ErrorToken
	}
	return RoundFixed(pct, places)
}

// IRRResult is the computed output for one InvoiceRecord.
type IRRResult struct {
	InvoiceAmount   float64
	DisbursedAmount float64
	ExpectedPayback float64
	IRR             IRR
}

// resultJSON is the wire shape of IRRResult. IRRPercent is null on failure.
type resultJSON struct {
	InvoiceAmount   float64  `json:"invoice_amount"`
	DisbursedAmount float64  `json:"disbursed_amount"`
	ExpectedPayback float64  `json:"expected_payback"`
	IRRPercent      *float64 `json:"irr_percent"`
	Status          string   `json:"status"`
	Failure         string   `json:"failure,omitempty"`
	Detail          string   `json:"detail,omitempty"`
}

// MarshalJSON encodes the result with a null irr_percent on failure.
func (r IRRResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		InvoiceAmount:   r.InvoiceAmount,
		DisbursedAmount: r.DisbursedAmount,
		ExpectedPayback: r.ExpectedPayback,
		Status:          "ok",
	}
	if pct, ok := r.IRR.Percent(); ok {
		out.IRRPercent = &pct
	} else {
		out.Status = "error"
		out.Failure = string(r.IRR.Kind())
		if err := r.IRR.Err(); err != nil {
			out.Detail = err.Error()
		}
	}
	return json.Marshal(out)
}

// RoundFixed rounds v half away from zero and formats it with exactly places
// decimals. Non-finite values render as ErrorToken.
func RoundFixed(v float64, places int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrorToken
	}
	return decimal.NewFromFloat(v).StringFixed(places)
}

// Round rounds v half away from zero to places decimals.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
