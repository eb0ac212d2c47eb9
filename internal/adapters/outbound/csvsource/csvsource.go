package csvsource

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"github.com/invoiceirr/invoiceirr/internal/domain"
)

// Column identifies one InvoiceRecord field.
type Column int

const (
	ColAmount Column = iota
	ColDiscount
	ColTenor
	ColDefaultProbability
	ColRecovery
)

var columnNames = map[Column]string{
	ColAmount:             "Invoice Amount (₹)",
	ColDiscount:           "Discount Rate (%)",
	ColTenor:              "Tenor (Days)",
	ColDefaultProbability: "Default Probability (%)",
	ColRecovery:           "Recovery Rate (%)",
}

func (c Column) String() string { return columnNames[c] }

// Header returns the canonical column titles in input order.
func Header() []string {
	return []string{
		ColAmount.String(),
		ColDiscount.String(),
		ColTenor.String(),
		ColDefaultProbability.String(),
		ColRecovery.String(),
	}
}

// aliases maps normalised header keys to columns.
var aliases = map[string]Column{
	"invoice_amount":              ColAmount,
	"amount":                      ColAmount,
	"face_amount":                 ColAmount,
	"discount_rate":               ColDiscount,
	"discount_rate_percent":       ColDiscount,
	"discount":                    ColDiscount,
	"discount_percent":            ColDiscount,
	"tenor":                       ColTenor,
	"tenor_days":                  ColTenor,
	"days":                        ColTenor,
	"default_probability":         ColDefaultProbability,
	"default_probability_percent": ColDefaultProbability,
	"probability_of_default":      ColDefaultProbability,
	"pd":                          ColDefaultProbability,
	"recovery_rate":               ColRecovery,
	"recovery_rate_percent":       ColRecovery,
	"recovery":                    ColRecovery,
}

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// NormalizeHeader folds a column title to snake case so that
// "Invoice Amount (₹)", "invoice_amount" and "InvoiceAmount" compare equal.
func NormalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = parenthetical.ReplaceAllString(h, " ")
	fields := strings.FieldsFunc(h, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var words []string
	for _, f := range fields {
		for _, w := range camelcase.Split(f) {
			words = append(words, strings.ToLower(w))
		}
	}
	return strings.Join(words, "_")
}

// Source implements domain.InvoiceSource for CSV input.
type Source struct{}

func New() *Source { return &Source{} }

// Read parses a header row followed by one invoice per row. The amount,
// discount and tenor columns are required; default probability and recovery
// rate fall back to defaults when the column is absent or a cell is blank.
func (s *Source) Read(r io.Reader, defaults domain.InvoiceDefault) ([]domain.InvoiceRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	index, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.InvoiceRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(row) {
			continue
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(row, index, defaults)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func mapColumns(header []string) (map[Column]int, error) {
	index := make(map[Column]int)
	for i, h := range header {
		col, ok := aliases[NormalizeHeader(h)]
		if !ok {
			continue
		}
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		index[col] = i
	}

	var missing []string
	for _, col := range []Column{ColAmount, ColDiscount, ColTenor} {
		if _, ok := index[col]; !ok {
			missing = append(missing, col.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(row []string, index map[Column]int, defaults domain.InvoiceDefault) (domain.InvoiceRecord, error) {
	rec := domain.InvoiceRecord{
		DefaultProbabilityPercent: defaults.DefaultProbabilityPercent,
		RecoveryRatePercent:       defaults.RecoveryRatePercent,
	}

	cell := func(col Column) (string, bool) {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return "", false
		}
		v := strings.TrimSpace(row[i])
		return v, v != ""
	}

	required := []struct {
		col Column
		dst *float64
	}{
		{ColAmount, &rec.Amount},
		{ColDiscount, &rec.DiscountRatePercent},
	}
	for _, f := range required {
		raw, ok := cell(f.col)
		if !ok {
			return rec, fmt.Errorf("%s is required", f.col)
		}
		v, err := ParseNumber(raw)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", f.col, err)
		}
		*f.dst = v
	}

	raw, ok := cell(ColTenor)
	if !ok {
		return rec, fmt.Errorf("%s is required", ColTenor)
	}
	tenor, err := ParseDays(raw)
	if err != nil {
		return rec, fmt.Errorf("%s: %w", ColTenor, err)
	}
	rec.TenorDays = tenor

	optional := []struct {
		col Column
		dst *float64
	}{
		{ColDefaultProbability, &rec.DefaultProbabilityPercent},
		{ColRecovery, &rec.RecoveryRatePercent},
	}
	for _, f := range optional {
		raw, ok := cell(f.col)
		if !ok {
			continue
		}
		v, err := ParseNumber(raw)
		if err != nil {
			return rec, fmt.Errorf("%s: %w", f.col, err)
		}
		*f.dst = v
	}

	return rec, nil
}

// ParseNumber accepts plain decimals plus thousands separators, a leading
// currency sign and a trailing percent sign ("₹1,00,000", "2.5%").
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.Is(unicode.Sc, r)
	})
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return v, nil
}

// ParseDays accepts whole numbers, including float spellings like "60.0".
func ParseDays(s string) (int, error) {
	v, err := ParseNumber(s)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("tenor %q is not a whole number of days", s)
	}
	return int(v), nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
