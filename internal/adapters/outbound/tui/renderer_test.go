package tui_test

import (
	"testing"

	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/tui"
	"github.com/invoiceirr/invoiceirr/internal/domain"
	"github.com/stretchr/testify/assert"
)

func sampleReport() *domain.Report {
	return &domain.Report{
		RunID:      "4b0c5a70-8f59-4c1e-9a7a-1f1f7d0b7a11",
		Source:     "testdata/invoices/sample.csv",
		CommitHash: "abc1234def5678",
		Results: []domain.IRRResult{
			{InvoiceAmount: 100000, DisbursedAmount: 98000, ExpectedPayback: 100000, IRR: domain.Solved(0.130784)},
			{InvoiceAmount: 100000, DisbursedAmount: 98000, ExpectedPayback: 95000, IRR: domain.Solved(-0.172345)},
			{InvoiceAmount: 98000, DisbursedAmount: 98000, ExpectedPayback: 98000, IRR: domain.Solved(0)},
			{InvoiceAmount: 50000, DisbursedAmount: 0, ExpectedPayback: 50000, IRR: domain.Failed(&domain.DegenerateScheduleError{Reason: "schedule has no outflow"})},
		},
	}
}

func TestRenderReport_ContainsHeaders(t *testing.T) {
	output := tui.RenderReport(sampleReport(), 2)
	for _, h := range tui.TableHeader {
		assert.Contains(t, output, h)
	}
}

func TestRenderReport_ContainsValues(t *testing.T) {
	output := tui.RenderReport(sampleReport(), 2)
	assert.Contains(t, output, "98000.00")
	assert.Contains(t, output, "95000.00")
	assert.Contains(t, output, "13.08")
	assert.Contains(t, output, "-17.23")
	assert.Contains(t, output, "0.00")
}

func TestRenderReport_FailureShowsErrorToken(t *testing.T) {
	output := tui.RenderReport(sampleReport(), 2)
	assert.Contains(t, output, "Error")
	assert.Contains(t, output, "1 failed")
	assert.Contains(t, output, "degenerate 1")
}

func TestRenderReport_Counts(t *testing.T) {
	output := tui.RenderReport(sampleReport(), 2)
	assert.Contains(t, output, "3 solved")
}

func TestRenderReport_Provenance(t *testing.T) {
	output := tui.RenderReport(sampleReport(), 2)
	assert.Contains(t, output, "abc1234")
	assert.NotContains(t, output, "abc1234def", "commit hash should be shortened")
	assert.Contains(t, output, "sample.csv")
}

func TestRenderReport_Empty(t *testing.T) {
	output := tui.RenderReport(&domain.Report{}, 2)
	assert.Contains(t, output, "No invoices to compute.")
	assert.NotContains(t, output, "failed")
}

func TestRenderTable_Places(t *testing.T) {
	output := tui.RenderTable([]domain.IRRResult{{IRR: domain.Solved(0.1)}}, 4)
	assert.Contains(t, output, "10.0000")
}
