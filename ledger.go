package allocation

import (
	"errors"
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// ErrUndefinedRatio is returned when a percentage is requested against a zero
// denominator: an empty (or zero valued) portfolio, or an asset class worth
// nothing.
var ErrUndefinedRatio = errors.New("undefined ratio: zero denominator")

var hundred = decimal.NewFromInt(100)

// Ledger is an ordered, read-only collection of positions with the queries
// needed to compute an allocation: grouping by asset class and subclass,
// value, cost and PnL totals, and percentages.
//
// Cost and PnL are not carried by positions, they are looked up in the
// Figures provided at construction.
//
// All queries are computed from the full list of positions every time, they
// have no side effect and can be called in any order.
type Ledger struct {
	positions []Position
	figures   Figures
}

// NewLedger creates a ledger from positions (in that order) and their cost and
// pnl figures. Both are copied.
func NewLedger(positions []Position, figures Figures) *Ledger {
	return &Ledger{
		positions: slices.Clone(positions),
		figures:   maps.Clone(figures),
	}
}

// Positions returns a copy of the positions in insertion order.
func (l *Ledger) Positions() []Position { return slices.Clone(l.positions) }

// Len returns the number of positions.
func (l *Ledger) Len() int { return len(l.positions) }

// FilterClass returns a new ledger with the positions of one asset class, and
// the figures of its buckets.
//
// Figures are per bucket, so a ledger can only be narrowed to whole buckets.
// Narrowing to a portfolio is done when loading, see DecodePortfolio.
func (l *Ledger) FilterClass(class string) *Ledger {
	var kept []Position
	for _, p := range l.positions {
		if p.in(class) {
			kept = append(kept, p)
		}
	}
	figures := make(Figures)
	for b, f := range l.figures {
		if b.Class == class {
			figures[b] = f
		}
	}
	return &Ledger{positions: kept, figures: figures}
}

// AssetClasses returns the sorted list of distinct asset classes.
func (l *Ledger) AssetClasses() []string {
	classes := make([]string, 0)
	for _, p := range l.positions {
		classes = append(classes, p.class)
	}
	slices.Sort(classes)
	return slices.Compact(classes)
}

// AssetSubclasses returns the sorted list of distinct subclasses of a class.
// It is empty for an unknown class.
func (l *Ledger) AssetSubclasses(class string) []string {
	subclasses := make([]string, 0)
	for _, p := range l.positions {
		if p.in(class) {
			subclasses = append(subclasses, p.subclass)
		}
	}
	slices.Sort(subclasses)
	return slices.Compact(subclasses)
}

// ValueForClassSubclass returns the market value of a bucket.
func (l *Ledger) ValueForClassSubclass(class, subclass string) Money {
	var total Money
	for _, p := range l.positions {
		if p.inBucket(class, subclass) {
			total = total.Add(p.value)
		}
	}
	return total
}

// ValueForClass returns the market value of an asset class.
func (l *Ledger) ValueForClass(class string) Money {
	var total Money
	for _, p := range l.positions {
		if p.in(class) {
			total = total.Add(p.value)
		}
	}
	return total
}

// TotalInvestedForPortfolio returns the market value of all positions.
func (l *Ledger) TotalInvestedForPortfolio() Money {
	var total Money
	for _, p := range l.positions {
		total = total.Add(p.value)
	}
	return total
}

// PercentageForClassSubclass returns the share of the portfolio invested in a
// bucket, 100 meaning all of it.
func (l *Ledger) PercentageForClassSubclass(class, subclass string) (decimal.Decimal, error) {
	return ratio(l.ValueForClassSubclass(class, subclass), l.TotalInvestedForPortfolio())
}

// CostForClassSubclass returns the book value of a bucket.
func (l *Ledger) CostForClassSubclass(class, subclass string) Money {
	return l.figures.Lookup(Bucket{class, subclass}).Cost
}

// PnLForClassSubclass returns the profit and loss of a bucket.
func (l *Ledger) PnLForClassSubclass(class, subclass string) Money {
	return l.figures.Lookup(Bucket{class, subclass}).PnL
}

// CostForClass returns the book value of the buckets of a class that hold
// positions.
func (l *Ledger) CostForClass(class string) Money {
	var total Money
	for _, s := range l.AssetSubclasses(class) {
		total = total.Add(l.CostForClassSubclass(class, s))
	}
	return total
}

// PnLForClass returns the profit and loss of the buckets of a class that hold
// positions.
func (l *Ledger) PnLForClass(class string) Money {
	var total Money
	for _, s := range l.AssetSubclasses(class) {
		total = total.Add(l.PnLForClassSubclass(class, s))
	}
	return total
}

// TotalCostForPortfolio returns the book value of the whole portfolio.
func (l *Ledger) TotalCostForPortfolio() Money {
	var total Money
	for _, c := range l.AssetClasses() {
		total = total.Add(l.CostForClass(c))
	}
	return total
}

// TotalPnL returns the profit and loss of the whole portfolio.
func (l *Ledger) TotalPnL() Money {
	var total Money
	for _, c := range l.AssetClasses() {
		total = total.Add(l.PnLForClass(c))
	}
	return total
}

// PnLPercentageForClassSubclass returns the PnL of a bucket relative to its
// book value.
func (l *Ledger) PnLPercentageForClassSubclass(class, subclass string) decimal.Decimal {
	return pnlRatio(l.PnLForClassSubclass(class, subclass), l.CostForClassSubclass(class, subclass))
}

// PnLPercentageForClass returns the PnL of a class relative to its book value.
func (l *Ledger) PnLPercentageForClass(class string) decimal.Decimal {
	return pnlRatio(l.PnLForClass(class), l.CostForClass(class))
}

// TotalPnLPercentage returns the PnL of the portfolio relative to its book value.
func (l *Ledger) TotalPnLPercentage() decimal.Decimal {
	return pnlRatio(l.TotalPnL(), l.TotalCostForPortfolio())
}

// ratio returns 100*a/b.
func ratio(a, b Money) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrUndefinedRatio
	}
	return a.value.Mul(hundred).Div(b.value), nil
}

// pnlRatio is a ratio where an unknown book value means there is no return to
// report: it is 0.
func pnlRatio(pnl, cost Money) decimal.Decimal {
	r, err := ratio(pnl, cost)
	if err != nil {
		return decimal.Zero
	}
	return r
}
