package allocation

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// Targets maps an asset subclass to its target share of the portfolio, in
// percent.
type Targets map[string]decimal.Decimal

// Target returns the target percentage of a subclass. A subclass without a
// target is targeted at 0%.
func (t Targets) Target(subclass string) decimal.Decimal {
	if v, ok := t[subclass]; ok {
		return v
	}
	return decimal.Zero
}

// Set sets the target percentage of a subclass.
func (t Targets) Set(subclass string, percent decimal.Decimal) { t[subclass] = percent }

// Subclasses returns the sorted list of targeted subclasses.
func (t Targets) Subclasses() []string {
	subclasses := make([]string, 0, len(t))
	for s := range t {
		subclasses = append(subclasses, s)
	}
	slices.Sort(subclasses)
	return subclasses
}

// Sum returns the sum of all targets, that should be 100.
func (t Targets) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range t {
		total = total.Add(v)
	}
	return total
}

// Validate checks that every target is a percentage between 0 and 100.
func (t Targets) Validate() error {
	for _, s := range t.Subclasses() {
		if err := validatePercent(t[s]); err != nil {
			return fmt.Errorf("invalid target for %q: %w", s, err)
		}
	}
	return nil
}

func validatePercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("%s is not between 0 and 100", p)
	}
	return nil
}
