package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a percentage as displayed in a report, 100 meaning 100%.
type Percent float64

// percentOf converts an exact percentage into its display value.
func percentOf(d decimal.Decimal) Percent { return Percent(d.InexactFloat64()) }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}
