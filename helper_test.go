package allocation

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// pos is a helper for test to create a position without currency.
func pos(symbol string, value float64, class, subclass, account string) Position {
	return NewPosition(symbol, NO(value), class, subclass, account)
}

// sampleLedger returns a small diversified ledger, with the same fund held in
// two accounts.
//
//	Commodities  Gold             100
//	Equity       International    250 (cost 200)
//	Equity       US Total Market  750 (cost 700)
//	Fixed Income US Bonds         300 (cost 320)
func sampleLedger() *Ledger {
	figures := make(Figures)
	figures.Add(Bucket{"Equity", "US Total Market"}, NO(700), NO(50))
	figures.Add(Bucket{"Equity", "International"}, NO(200), NO(50))
	figures.Add(Bucket{"Fixed Income", "US Bonds"}, NO(320), NO(-20))
	// no longer held, must never be summed.
	figures.Add(Bucket{"Equity", "Emerging"}, NO(999), NO(1))

	return NewLedger([]Position{
		pos("VTI", 600, "Equity", "US Total Market", "Retirement:Broker"),
		pos("VXUS", 250, "Equity", "International", "Retirement:Broker"),
		pos("BND", 300, "Fixed Income", "US Bonds", "Retirement:Broker"),
		pos("VTI", 150, "Equity", "US Total Market", "Taxable:Broker"),
		pos("GLD", 100, "Commodities", "Gold", "Taxable:Broker"),
	}, figures)
}
