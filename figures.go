package allocation

// Bucket identifies an (asset class, asset subclass) pair.
type Bucket struct {
	Class    string
	Subclass string
}

// Figure holds the book value and the profit and loss of a bucket.
type Figure struct {
	Cost Money
	PnL  Money
}

// Figures are cost and PnL totals computed outside of the ledger (by the
// loader, from the cost basis of each position), indexed by bucket.
//
// The Ledger never derives them, it only groups and sums them the same way it
// does for market values.
type Figures map[Bucket]Figure

// Add accumulates cost and pnl into the bucket.
func (f Figures) Add(b Bucket, cost, pnl Money) {
	fig := f[b]
	fig.Cost = fig.Cost.Add(cost)
	fig.PnL = fig.PnL.Add(pnl)
	f[b] = fig
}

// Lookup returns the figure for the bucket, zero if unknown.
func (f Figures) Lookup(b Bucket) Figure {
	return f[b] // zero Money is weak, it can be added to any currency.
}
