package domain_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/invoiceirr/invoiceirr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	rate float64
	err  error
}

func (f stubFinder) Solve(domain.Objective, domain.CashflowSchedule, float64) (float64, error) {
	return f.rate, f.err
}

func TestIRR_ZeroRateIsNotFailure(t *testing.T) {
	zero := domain.Solved(0)
	rate, ok := zero.Rate()
	assert.True(t, ok)
	assert.Zero(t, rate)
	assert.NoError(t, zero.Err())
	assert.Equal(t, "0.00", zero.FormatPercent(2))
	assert.Equal(t, domain.FailureNone, zero.Kind())
}

func TestIRR_Failed(t *testing.T) {
	f := domain.Failed(&domain.ConvergenceError{Iterations: 50})
	_, ok := f.Rate()
	assert.False(t, ok)
	_, ok = f.Percent()
	assert.False(t, ok)
	assert.Equal(t, domain.ErrorToken, f.FormatPercent(2))
	assert.Equal(t, domain.FailureConvergence, f.Kind())
}

func TestIRR_ZeroValueIsFailure(t *testing.T) {
	var irr domain.IRR
	assert.False(t, irr.IsSolved())
	assert.Equal(t, domain.ErrorToken, irr.FormatPercent(2))
	assert.Equal(t, domain.FailureUnknown, irr.Kind())
}

func TestIRR_FormatPercent(t *testing.T) {
	tests := []struct {
		rate   float64
		places int32
		want   string
	}{
		{0.130784, 2, "13.08"},
		{-0.172345, 2, "-17.23"},
		{0.000049, 2, "0.00"},
		{0.12345, 0, "12"},
		{0.1, 4, "10.0000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, domain.Solved(tt.rate).FormatPercent(tt.places), "rate %v", tt.rate)
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 98000.0, domain.Round(98000.00000000001, 2))
	assert.Equal(t, 1.01, domain.Round(1.005, 2))
	assert.Equal(t, -1.01, domain.Round(-1.005, 2))
	assert.Equal(t, "Error", domain.RoundFixed(math.NaN(), 2))
}

func TestComputeResult_Success(t *testing.T) {
	rec := domain.InvoiceRecord{Amount: 100000, DiscountRatePercent: 2, TenorDays: 60}
	res := domain.ComputeResult(rec, domain.NewSecantSolver(), domain.DefaultInitialGuess)

	assert.Equal(t, 100000.0, res.InvoiceAmount)
	assert.InDelta(t, 98000.0, res.DisbursedAmount, 1e-6)
	assert.InDelta(t, 100000.0, res.ExpectedPayback, 1e-6)
	assert.Equal(t, "13.08", res.IRR.FormatPercent(2))
}

func TestComputeResult_FailureKeepsAmounts(t *testing.T) {
	rec := domain.InvoiceRecord{Amount: 100000, DiscountRatePercent: 2, TenorDays: 60}
	res := domain.ComputeResult(rec, stubFinder{err: &domain.OverflowError{Iteration: 3, Reason: "test"}}, 0.1)

	assert.InDelta(t, 98000.0, res.DisbursedAmount, 1e-6)
	assert.InDelta(t, 100000.0, res.ExpectedPayback, 1e-6)
	assert.False(t, res.IRR.IsSolved())
	assert.Equal(t, domain.FailureOverflow, res.IRR.Kind())
}

func TestIRRResult_MarshalJSON(t *testing.T) {
	ok := domain.IRRResult{InvoiceAmount: 100, DisbursedAmount: 98, ExpectedPayback: 100, IRR: domain.Solved(0)}
	data, err := json.Marshal(ok)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "ok", m["status"])
	assert.Equal(t, 0.0, m["irr_percent"])
	assert.NotContains(t, m, "failure")

	bad := domain.IRRResult{InvoiceAmount: 100, IRR: domain.Failed(&domain.DegenerateScheduleError{Reason: "schedule has no outflow"})}
	data, err = json.Marshal(bad)
	require.NoError(t, err)

	m = nil
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "error", m["status"])
	assert.Nil(t, m["irr_percent"])
	assert.Equal(t, "degenerate", m["failure"])
	assert.Contains(t, m["detail"], "no outflow")
}

func TestKindOf_Wrapped(t *testing.T) {
	err := errors.Join(errors.New("row 3"), &domain.DomainError{Rate: -2})
	assert.Equal(t, domain.FailureDomain, domain.KindOf(err))
	assert.Equal(t, domain.FailureNone, domain.KindOf(nil))
}
