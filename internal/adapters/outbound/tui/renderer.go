package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/invoiceirr/invoiceirr/internal/domain"
)

// ── Ledger palette ──
var (
	accent  = lipgloss.Color("#1D4ED8") // navy blue
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	faint   = lipgloss.Color("#3F3F46") // very dim
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	faintStyle    = lipgloss.NewStyle().Foreground(faint)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	failStyle     = lipgloss.NewStyle().Foreground(danger)
	warnStyle     = lipgloss.NewStyle().Foreground(warning)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	separatorLine = faintStyle.Render(strings.Repeat("─", 64))
)

// TableHeader is the column layout of the results table.
var TableHeader = []string{"#", "Invoice Amount (₹)", "Disbursed (₹)", "Expected Payback (₹)", "IRR (%)"}

// RenderReport renders a batch report: summary box, results table and
// provenance footer. places controls the IRR percentage decimals.
func RenderReport(report *domain.Report, places int32) string {
	var b strings.Builder

	// ── Header ──
	solved, failed := report.Solved(), report.Failed()
	title := headerStyle.Render("invoiceirr")
	subtitle := dimStyle.Render("Risk-adjusted invoice IRR")
	counts := passStyle.Render(fmt.Sprintf("%d solved", solved))
	if failed > 0 {
		counts += "  " + errorTagStyle.Render(fmt.Sprintf("%d failed", failed))
	}
	b.WriteString(boxStyle.Render(title + "\n" + subtitle + "\n\n" + counts))
	b.WriteString("\n\n")

	// ── Results ──
	if len(report.Results) == 0 {
		b.WriteString("  " + dimStyle.Render("No invoices to compute.") + "\n")
	} else {
		b.WriteString(RenderTable(report.Results, places))
		b.WriteString("\n")
	}

	if failed > 0 {
		b.WriteString("\n  " + dimStyle.Render(failureSummary(report.FailuresByKind())) + "\n")
	}

	// ── Footer ──
	b.WriteString("\n  " + separatorLine + "\n")
	renderFooter(&b, report)
	b.WriteString("\n")
	return b.String()
}

// RenderTable renders results as a bordered table in input order.
func RenderTable(results []domain.IRRResult, places int32) string {
	rows := make([][]string, 0, len(results))
	for i, r := range results {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			formatMoney(r.InvoiceAmount),
			formatMoney(r.DisbursedAmount),
			formatMoney(r.ExpectedPayback),
			renderIRR(r.IRR, places),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(faint)).
		Headers(TableHeader...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return titleStyle.Padding(0, 1)
			}
			return cellStyle
		})
	return t.Render()
}

func renderIRR(irr domain.IRR, places int32) string {
	text := irr.FormatPercent(places)
	pct, ok := irr.Percent()
	switch {
	case !ok:
		return failStyle.Render(text)
	case pct < 0:
		return warnStyle.Render(text)
	default:
		return passStyle.Render(text)
	}
}

func formatMoney(v float64) string {
	return domain.RoundFixed(v, 2)
}

func failureSummary(kinds map[domain.FailureKind]int) string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s %d", n, kinds[domain.FailureKind(n)]))
	}
	return "failures: " + strings.Join(parts, ", ")
}

func renderFooter(b *strings.Builder, report *domain.Report) {
	if report.Source != "" {
		fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("source"), report.Source)
	}
	if report.CommitHash != "" {
		hash := report.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("commit"), faintStyle.Render(hash))
	}
	if report.RunID != "" {
		fmt.Fprintf(b, "  %s %s\n", dimStyle.Render("run   "), faintStyle.Render(report.RunID))
	}
}
