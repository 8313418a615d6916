package allocation

// Position is a single holding: a symbol held in an account, valued at market
// value, and tagged with an asset class and subclass.
//
// Positions are values. Two positions on the same symbol (e.g. the same fund in
// two accounts) are two distinct positions and are never merged.
type Position struct {
	symbol   string
	value    Money
	class    string
	subclass string
	account  string
}

// NewPosition creates a new Position.
func NewPosition(symbol string, value Money, class, subclass, account string) Position {
	return Position{
		symbol:   symbol,
		value:    value,
		class:    class,
		subclass: subclass,
		account:  account,
	}
}

// Symbol returns the identifier of the held security.
func (p Position) Symbol() string { return p.symbol }

// Value returns the market value of the position.
func (p Position) Value() Money { return p.value }

// AssetClass returns the asset class, e.g. "Equity".
func (p Position) AssetClass() string { return p.class }

// AssetSubclass returns the asset subclass, e.g. "US Large Cap".
func (p Position) AssetSubclass() string { return p.subclass }

// Account returns the account holding the position.
func (p Position) Account() string { return p.account }

// Bucket returns the (class, subclass) pair of the position.
func (p Position) Bucket() Bucket { return Bucket{Class: p.class, Subclass: p.subclass} }

func (p Position) in(class string) bool { return p.class == class }

func (p Position) inBucket(class, subclass string) bool {
	return p.class == class && p.subclass == subclass
}
