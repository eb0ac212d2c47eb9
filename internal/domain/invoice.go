package domain

// InvoiceRecord is one row of input: a single invoice offered for financing.
// Percentages are expressed in points (2.0 means 2%).
type InvoiceRecord struct {
	Amount                    float64 `json:"amount"                      yaml:"amount"`
	DiscountRatePercent       float64 `json:"discount_rate_percent"       yaml:"discount_rate_percent"`
	TenorDays                 int     `json:"tenor_days"                  yaml:"tenor_days"`
	DefaultProbabilityPercent float64 `json:"default_probability_percent" yaml:"default_probability_percent"`
	RecoveryRatePercent       float64 `json:"recovery_rate_percent"       yaml:"recovery_rate_percent"`
}

// Manual-entry defaults for a freshly added row.
const (
	DefaultInvoiceAmount       = 100000.0
	DefaultDiscountRatePercent = 2.0
	DefaultTenorDays           = 60
)

// DefaultInvoice returns the row a manual-entry table starts with.
func DefaultInvoice() InvoiceRecord {
	return InvoiceRecord{
		Amount:              DefaultInvoiceAmount,
		DiscountRatePercent: DefaultDiscountRatePercent,
		TenorDays:           DefaultTenorDays,
	}
}

// DefaultInvoices returns n copies of DefaultInvoice.
func DefaultInvoices(n int) []InvoiceRecord {
	if n < 0 {
		n = 0
	}
	rows := make([]InvoiceRecord, n)
	for i := range rows {
		rows[i] = DefaultInvoice()
	}
	return rows
}
