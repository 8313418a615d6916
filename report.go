package allocation

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TotalLabel is the label of the report section holding the portfolio summary.
const TotalLabel = "TOTAL"

// SumLabel is the label of summary rows.
const SumLabel = "SUM"

// RowKind tells which columns of a Row are meaningful.
type RowKind int

const (
	// SubclassRow details one subclass of an asset class (9 columns).
	SubclassRow RowKind = iota
	// ClassSummary sums up an asset class (7 columns).
	ClassSummary
	// TotalSummary sums up the whole portfolio (5 columns).
	TotalSummary
)

// Row is a line of the allocation report.
//
// Values are float64: the report is the boundary where exact decimal
// computations are converted for display.
type Row struct {
	Kind        RowKind
	Label       string // subclass name, or SumLabel
	BookValue   float64
	MarketValue float64
	PnL         float64
	PnLPercent  Percent
	InClass     Percent // share of the asset class
	InAll       Percent // share of the portfolio
	Target      Percent
	Difference  float64 // cash to invest to reach the target, negative if over target
}

// Columns returns the row as a fixed-width list of values, in display order.
// Subclass rows have 9 columns, class summaries 7, and the total summary 5.
func (r Row) Columns() []any {
	cols := []any{r.Label, r.BookValue, r.MarketValue, r.PnL, float64(r.PnLPercent)}
	switch r.Kind {
	case SubclassRow:
		cols = append(cols, float64(r.InClass), float64(r.InAll), float64(r.Target), r.Difference)
	case ClassSummary:
		cols = append(cols, float64(r.InClass), float64(r.InAll))
	}
	return cols
}

// Section is the list of rows for an asset class, or for TotalLabel.
type Section struct {
	Label string
	Rows  []Row
}

// Report compares the actual allocation of a portfolio with its targets.
//
// Sections are ordered by asset class, the last one is the TotalLabel section.
type Report struct {
	Portfolio string
	Currency  string
	Total     Money // portfolio value used to compute cash differences
	Sections  []Section
}

// Labels returns the section labels in report order.
func (r *Report) Labels() []string {
	labels := make([]string, 0, len(r.Sections))
	for _, s := range r.Sections {
		labels = append(labels, s.Label)
	}
	return labels
}

// Section returns the section with this label.
func (r *Report) Section(label string) (Section, bool) {
	for _, s := range r.Sections {
		if s.Label == label {
			return s, true
		}
	}
	return Section{}, false
}

// MarshalJSON encodes the report as an object mapping each section label to
// its rows, each row being an array of columns. Keys are kept in report order.
func (r *Report) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	for _, s := range r.Sections {
		rows := make([][]any, 0, len(s.Rows))
		for _, row := range s.Rows {
			rows = append(rows, row.Columns())
		}
		w.Append(s.Label, rows)
	}
	return w.MarshalJSON()
}

var _ json.Marshaler = (*Report)(nil)

// NewReport computes the allocation report of the ledger.
//
// total is the portfolio value the cash differences are computed against. It
// is usually the ledger's TotalInvestedForPortfolio, but may include more
// (e.g. uninvested cash).
//
// It fails with ErrUndefinedRatio if the ledger holds positions but no value,
// or if an asset class is worth nothing.
func NewReport(targets Targets, ledger *Ledger, total Money) (*Report, error) {
	report := &Report{
		Currency: total.Currency(),
		Total:    total,
	}

	for _, class := range ledger.AssetClasses() {
		section := Section{Label: class}
		sumInAll := decimal.Zero
		for _, subclass := range ledger.AssetSubclasses(class) {
			row, inAll, err := subclassRow(targets, ledger, total, class, subclass)
			if err != nil {
				return nil, err
			}
			section.Rows = append(section.Rows, row)
			sumInAll = sumInAll.Add(inAll)
		}
		section.Rows = append(section.Rows, classSummary(ledger, class, sumInAll))
		report.Sections = append(report.Sections, section)
	}

	report.Sections = append(report.Sections, Section{
		Label: TotalLabel,
		Rows:  []Row{totalSummary(ledger)},
	})
	return report, nil
}

// subclassRow computes the row of a subclass, and its exact share of the
// portfolio.
func subclassRow(targets Targets, ledger *Ledger, total Money, class, subclass string) (Row, decimal.Decimal, error) {
	marketValue := ledger.ValueForClassSubclass(class, subclass)

	inClass, err := ratio(marketValue, ledger.ValueForClass(class))
	if err != nil {
		return Row{}, decimal.Zero, fmt.Errorf("share of %q in asset class %q: %w", subclass, class, err)
	}
	inAll, err := ledger.PercentageForClassSubclass(class, subclass)
	if err != nil {
		return Row{}, decimal.Zero, fmt.Errorf("share of %q in portfolio: %w", subclass, err)
	}
	target := targets.Target(subclass)

	return Row{
		Kind:        SubclassRow,
		Label:       subclass,
		BookValue:   ledger.CostForClassSubclass(class, subclass).Float64(),
		MarketValue: marketValue.Float64(),
		PnL:         ledger.PnLForClassSubclass(class, subclass).Float64(),
		PnLPercent:  percentOf(ledger.PnLPercentageForClassSubclass(class, subclass)),
		InClass:     percentOf(inClass),
		InAll:       percentOf(inAll),
		Target:      percentOf(target),
		Difference:  cashDifference(target, inAll, total).InexactFloat64(),
	}, inAll, nil
}

// classSummary computes the summary row of an asset class.
func classSummary(ledger *Ledger, class string, sumInAll decimal.Decimal) Row {
	return Row{
		Kind:        ClassSummary,
		Label:       SumLabel,
		BookValue:   ledger.CostForClass(class).Float64(),
		MarketValue: ledger.ValueForClass(class).Float64(),
		PnL:         ledger.PnLForClass(class).Float64(),
		PnLPercent:  percentOf(ledger.PnLPercentageForClass(class)),
		InClass:     100, // subclasses of a class always add up to the whole class.
		InAll:       percentOf(sumInAll),
	}
}

// totalSummary computes the summary row of the portfolio.
func totalSummary(ledger *Ledger) Row {
	return Row{
		Kind:        TotalSummary,
		Label:       SumLabel,
		BookValue:   ledger.TotalCostForPortfolio().Float64(),
		MarketValue: ledger.TotalInvestedForPortfolio().Float64(),
		PnL:         ledger.TotalPnL().Float64(),
		PnLPercent:  percentOf(ledger.TotalPnLPercentage()),
	}
}

// cashDifference returns the amount of cash to move into a subclass to reach
// its target: (target-actual)/100*total.
func cashDifference(target, actual decimal.Decimal, total Money) decimal.Decimal {
	return target.Sub(actual).Mul(total.value).Div(hundred)
}
