package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/invoiceirr/invoiceirr/internal/domain"
)

// DefaultFileName is used when results are exported without an explicit path.
const DefaultFileName = "invoice_irr_results.csv"

// Header is the exported column layout.
var Header = []string{
	"Invoice Amount (₹)",
	"Disbursed (₹)",
	"Expected Payback (₹)",
	"IRR (%)",
}

// currencyPlaces is the rounding applied to money columns.
const currencyPlaces = 2

// Exporter implements domain.ResultExporter for CSV output.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

// Export writes one row per result in order. Failed solves print
// domain.ErrorToken in the IRR column; every other column stays populated.
func (e *Exporter) Export(w io.Writer, results []domain.IRRResult, places int32) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range results {
		row := []string{
			strconv.FormatFloat(r.InvoiceAmount, 'f', -1, 64),
			domain.RoundFixed(r.DisbursedAmount, currencyPlaces),
			domain.RoundFixed(r.ExpectedPayback, currencyPlaces),
			r.IRR.FormatPercent(places),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
