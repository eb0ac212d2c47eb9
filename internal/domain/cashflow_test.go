package domain_test

import (
	"errors"
	"testing"

	"github.com/invoiceirr/invoiceirr/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisbursed(t *testing.T) {
	rec := domain.InvoiceRecord{Amount: 100000, DiscountRatePercent: 2, TenorDays: 60}
	assert.InDelta(t, 98000.0, domain.Disbursed(rec), 1e-6)
}

func TestDisbursed_FullDiscountNotClamped(t *testing.T) {
	assert.InDelta(t, 0.0, domain.Disbursed(domain.InvoiceRecord{Amount: 1000, DiscountRatePercent: 100}), 1e-9)
	assert.InDelta(t, -200.0, domain.Disbursed(domain.InvoiceRecord{Amount: 1000, DiscountRatePercent: 120}), 1e-9)
}

func TestExpectedPayback(t *testing.T) {
	tests := []struct {
		name string
		rec  domain.InvoiceRecord
		want float64
	}{
		{"no default risk", domain.InvoiceRecord{Amount: 100000}, 100000},
		{"default with recovery", domain.InvoiceRecord{Amount: 100000, DefaultProbabilityPercent: 10, RecoveryRatePercent: 50}, 95000},
		{"default without recovery", domain.InvoiceRecord{Amount: 100000, DefaultProbabilityPercent: 10}, 90000},
		{"certain default full recovery", domain.InvoiceRecord{Amount: 5000, DefaultProbabilityPercent: 100, RecoveryRatePercent: 100}, 5000},
		{"certain default no recovery", domain.InvoiceRecord{Amount: 5000, DefaultProbabilityPercent: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, domain.ExpectedPayback(tt.rec), 1e-6)
		})
	}
}

func TestBuildSchedule(t *testing.T) {
	rec := domain.InvoiceRecord{Amount: 100000, DiscountRatePercent: 2, TenorDays: 60, DefaultProbabilityPercent: 10, RecoveryRatePercent: 50}
	s := domain.BuildSchedule(rec)

	require.Len(t, s, 2)
	assert.Equal(t, 0, s[0].Day)
	assert.InDelta(t, -98000.0, s[0].Amount, 1e-6)
	assert.Equal(t, 60, s[1].Day)
	assert.InDelta(t, 95000.0, s[1].Amount, 1e-6)
	assert.InDelta(t, 98000.0, s.GrossOutflow(), 1e-6)
}

func TestCashflowSchedule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sched   domain.CashflowSchedule
		wantErr bool
	}{
		{"valid", domain.CashflowSchedule{{Amount: -100, Day: 0}, {Amount: 110, Day: 30}}, false},
		{"later flow on day 0", domain.CashflowSchedule{{Amount: -100, Day: 0}, {Amount: 0, Day: 0}, {Amount: 110, Day: 30}}, false},
		{"all on day 0", domain.CashflowSchedule{{Amount: -100, Day: 0}, {Amount: 100, Day: 0}}, true},
		{"single day-0 outflow", domain.CashflowSchedule{{Amount: -100, Day: 0}}, true},
		{"empty", domain.CashflowSchedule{}, true},
		{"no day zero", domain.CashflowSchedule{{Amount: -100, Day: 5}, {Amount: 110, Day: 30}}, true},
		{"decreasing days", domain.CashflowSchedule{{Amount: -100, Day: 0}, {Amount: 110, Day: -3}}, true},
		{"zero outflow", domain.CashflowSchedule{{Amount: 0, Day: 0}, {Amount: 110, Day: 30}}, true},
		{"positive first leg", domain.CashflowSchedule{{Amount: 20, Day: 0}, {Amount: 110, Day: 30}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sched.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var de *domain.DegenerateScheduleError
			assert.True(t, errors.As(err, &de), "want DegenerateScheduleError, got %v", err)
		})
	}
}

func TestDefaultInvoices(t *testing.T) {
	rows := domain.DefaultInvoices(3)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, 100000.0, r.Amount)
		assert.Equal(t, 2.0, r.DiscountRatePercent)
		assert.Equal(t, 60, r.TenorDays)
		assert.Zero(t, r.DefaultProbabilityPercent)
		assert.Zero(t, r.RecoveryRatePercent)
	}
	assert.Empty(t, domain.DefaultInvoices(-1))
}

func TestParseSchedule(t *testing.T) {
	s, err := domain.ParseSchedule("-98000@0, 100000@60")
	require.NoError(t, err)
	assert.Equal(t, domain.CashflowSchedule{{Amount: -98000, Day: 0}, {Amount: 100000, Day: 60}}, s)

	for _, bad := range []string{"100", "abc@0", "100@x"} {
		_, err := domain.ParseSchedule(bad)
		assert.Error(t, err, bad)
	}
}
