// Package renderer turns allocation reports into markdown and HTML.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/allocation"
)

// subclassHeader is the header of an asset class table, the "% in" column is
// completed with the class name.
var subclassHeader = []string{"Subclass", "Book Value", "Market Value", "PnL", "PnL %", "% in ", "% in All", "Target %", "Difference"}

// totalHeader is the header of the portfolio summary table.
var totalHeader = subclassHeader[:5]

// AllocationMarkdown renders an allocation report as a markdown document, one
// table per asset class, and a final table for the whole portfolio.
func AllocationMarkdown(r *allocation.Report) string {
	var b strings.Builder

	if r.Portfolio != "" {
		fmt.Fprintf(&b, "# Allocation of %s\n\n", r.Portfolio)
	} else {
		fmt.Fprint(&b, "# Allocation\n\n")
	}
	fmt.Fprintf(&b, "Total Value: %s\n", r.Total)

	for _, s := range r.Sections {
		header := totalHeader
		if s.Label != allocation.TotalLabel {
			header = append([]string(nil), subclassHeader...)
			header[5] = "% in " + s.Label
		}

		fmt.Fprintf(&b, "\n## %s\n\n", strings.ToUpper(s.Label))
		fmt.Fprintf(&b, "| %s |\n", strings.Join(escapeAll(header), " | "))
		fmt.Fprintf(&b, "|:---|%s\n", strings.Repeat("---:|", len(header)-1))
		for _, row := range s.Rows {
			fmt.Fprintf(&b, "| %s |\n", strings.Join(cells(row, len(header)), " | "))
		}
	}
	return b.String()
}

// cells formats the columns of a row, padded with empty cells up to width.
func cells(row allocation.Row, width int) []string {
	res := make([]string, width)
	for i, col := range row.Columns() {
		switch v := col.(type) {
		case string:
			res[i] = escape(v)
		case float64:
			res[i] = fmt.Sprintf("%.2f", v)
		default:
			res[i] = fmt.Sprint(v)
		}
	}
	return res
}

// escape makes a string safe in a markdown table cell.
func escape(s string) string { return strings.ReplaceAll(s, "|", `\|`) }

func escapeAll(list []string) []string {
	res := make([]string, len(list))
	for i, s := range list {
		res[i] = escape(s)
	}
	return res
}

// PositionsMarkdown renders the positions of a ledger.
func PositionsMarkdown(l *allocation.Ledger) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Positions\n\n")
	fmt.Fprintln(&b, "| Symbol | Account | Asset Class | Asset Subclass | Market Value |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|")
	for _, p := range l.Positions() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			escape(p.Symbol()),
			escape(p.Account()),
			escape(p.AssetClass()),
			escape(p.AssetSubclass()),
			p.Value(),
		)
	}
	fmt.Fprintf(&b, "| **%s** | | | | **%s** |\n", "Total", l.TotalInvestedForPortfolio())
	return b.String()
}
