package allocation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// mustSection returns the rows of a section as columns.
func mustSection(t *testing.T, r *Report, label string) [][]any {
	t.Helper()
	s, ok := r.Section(label)
	if !ok {
		t.Fatalf("Section(%q) not found in %v", label, r.Labels())
	}
	var rows [][]any
	for _, row := range s.Rows {
		rows = append(rows, row.Columns())
	}
	return rows
}

func TestNewReport_SinglePosition(t *testing.T) {
	ledger := NewLedger([]Position{pos("AAA", 100, "Equity", "US", "acctX")}, nil)

	report, err := NewReport(Targets{}, ledger, NO(100))
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	if got, want := report.Labels(), []string{"Equity", TotalLabel}; !slices.Equal(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}

	got := mustSection(t, report, "Equity")
	want := [][]any{
		{"US", 0.0, 100.0, 0.0, 0.0, 100.0, 100.0, 0.0, -100.0},
		{"SUM", 0.0, 100.0, 0.0, 0.0, 100.0, 100.0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Equity section = %v, want %v", got, want)
	}

	got = mustSection(t, report, TotalLabel)
	want = [][]any{{"SUM", 0.0, 100.0, 0.0, 0.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TOTAL section = %v, want %v", got, want)
	}
}

func TestNewReport_OnTarget(t *testing.T) {
	ledger := NewLedger([]Position{
		pos("AAA", 60, "Equity", "US", "acctX"),
		pos("AAA", 40, "Equity", "US", "acctY"),
	}, nil)
	targets := Targets{"US": decimal.NewFromInt(100)}

	report, err := NewReport(targets, ledger, ledger.TotalInvestedForPortfolio())
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	s, _ := report.Section("Equity")
	if got := len(s.Rows); got != 2 {
		t.Fatalf("len(Rows) = %d, want 2: same subclass in two accounts is a single row", got)
	}
	row := s.Rows[0]
	if !row.InAll.Equal(100) {
		t.Errorf("InAll = %v, want 100", row.InAll)
	}
	if row.Difference != 0 {
		t.Errorf("Difference = %v, want 0", row.Difference)
	}
	if row.MarketValue != 100 {
		t.Errorf("MarketValue = %v, want 100", row.MarketValue)
	}
}

func TestNewReport_MissingTarget(t *testing.T) {
	ledger := NewLedger([]Position{
		pos("AAA", 75, "Equity", "US", "acctX"),
		pos("BBB", 25, "Bonds", "Aggregate", "acctX"),
	}, nil)
	targets := Targets{"US": decimal.NewFromInt(80)}

	report, err := NewReport(targets, ledger, NO(100))
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	bonds, _ := report.Section("Bonds")
	agg := bonds.Rows[0]
	if !agg.Target.Equal(0) {
		t.Errorf("Aggregate Target = %v, want 0", agg.Target)
	}
	if agg.Difference != -25 {
		t.Errorf("Aggregate Difference = %v, want -25", agg.Difference)
	}

	equity, _ := report.Section("Equity")
	if us := equity.Rows[0]; us.Difference != 5 {
		t.Errorf("US Difference = %v, want 5", us.Difference)
	}
}

func TestNewReport_Empty(t *testing.T) {
	report, err := NewReport(nil, NewLedger(nil, nil), Money{})
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}
	if got, want := report.Labels(), []string{TotalLabel}; !slices.Equal(got, want) {
		t.Errorf("Labels() = %v, want %v", got, want)
	}
	got := mustSection(t, report, TotalLabel)
	want := [][]any{{"SUM", 0.0, 0.0, 0.0, 0.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TOTAL section = %v, want %v", got, want)
	}
}

func TestNewReport_UndefinedRatio(t *testing.T) {
	testCases := []struct {
		name      string
		positions []Position
	}{
		{
			name:      "zero valued portfolio",
			positions: []Position{pos("AAA", 0, "Equity", "US", "acctX")},
		},
		{
			name: "zero valued asset class",
			positions: []Position{
				pos("AAA", 100, "Equity", "US", "acctX"),
				pos("BBB", 10, "Bonds", "Aggregate", "acctX"),
				pos("CCC", -10, "Bonds", "High Yield", "acctX"),
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := NewLedger(tc.positions, nil)
			_, err := NewReport(nil, ledger, ledger.TotalInvestedForPortfolio())
			if !errors.Is(err, ErrUndefinedRatio) {
				t.Errorf("NewReport() error = %v, want %v", err, ErrUndefinedRatio)
			}
		})
	}
}

func TestNewReport_Sample(t *testing.T) {
	ledger := sampleLedger()
	targets := Targets{
		"US Total Market": decimal.NewFromInt(50),
		"International":   decimal.NewFromInt(20),
		"US Bonds":        decimal.NewFromInt(25),
		"Gold":            decimal.NewFromInt(5),
	}
	// 100 of uninvested cash.
	total := ledger.TotalInvestedForPortfolio().Add(NO(100))

	report, err := NewReport(targets, ledger, total)
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	wantLabels := []string{"Commodities", "Equity", "Fixed Income", TotalLabel}
	if got := report.Labels(); !slices.Equal(got, wantLabels) {
		t.Fatalf("Labels() = %v, want %v", got, wantLabels)
	}

	equity, _ := report.Section("Equity")
	var subclasses []string
	for _, row := range equity.Rows {
		subclasses = append(subclasses, row.Label)
	}
	if want := []string{"International", "US Total Market", "SUM"}; !slices.Equal(subclasses, want) {
		t.Errorf("Equity rows = %v, want %v", subclasses, want)
	}

	intl := equity.Rows[0]
	checks := []struct {
		name      string
		got, want float64
	}{
		{"BookValue", intl.BookValue, 200},
		{"MarketValue", intl.MarketValue, 250},
		{"PnL", intl.PnL, 50},
		{"PnLPercent", float64(intl.PnLPercent), 25},
		{"InClass", float64(intl.InClass), 25},
		{"InAll", float64(intl.InAll), 250.0 / 14},
		{"Target", float64(intl.Target), 20},
		{"Difference", intl.Difference, (20 - 250.0/14) / 100 * 1500},
	}
	for _, c := range checks {
		if !scalar.EqualWithinAbsOrRel(c.got, c.want, 1e-9, 1e-9) {
			t.Errorf("International %s = %v, want %v", c.name, c.got, c.want)
		}
	}

	sum := equity.Rows[2]
	if sum.Kind != ClassSummary || !sum.InClass.Equal(100) {
		t.Errorf("Equity summary = %+v, want a class summary at 100%%", sum)
	}
	if !sum.InAll.Equal(1000.0 / 14) {
		t.Errorf("Equity summary InAll = %v, want %v", sum.InAll, 1000.0/14)
	}
	if sum.BookValue != 900 || sum.MarketValue != 1000 || sum.PnL != 100 {
		t.Errorf("Equity summary = %+v, want book 900, market 1000, pnl 100", sum)
	}

	totalRow := mustSection(t, report, TotalLabel)[0]
	if len(totalRow) != 5 {
		t.Errorf("len(TOTAL row) = %d, want 5", len(totalRow))
	}
	if totalRow[1] != 1220.0 || totalRow[2] != 1400.0 || totalRow[3] != 80.0 {
		t.Errorf("TOTAL row = %v, want book 1220, market 1400, pnl 80", totalRow)
	}
}

// TestNewReport_Reconcile checks that class summaries add up to the whole portfolio.
func TestNewReport_Reconcile(t *testing.T) {
	ledger := sampleLedger()
	report, err := NewReport(nil, ledger, ledger.TotalInvestedForPortfolio())
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	var inAll, market, subclassesInAll []float64
	for _, s := range report.Sections {
		for _, row := range s.Rows {
			switch row.Kind {
			case SubclassRow:
				subclassesInAll = append(subclassesInAll, float64(row.InAll))
			case ClassSummary:
				inAll = append(inAll, float64(row.InAll))
				market = append(market, row.MarketValue)
			}
		}
	}
	if got := floats.Sum(inAll); !scalar.EqualWithinRel(got, 100, 1e-9) {
		t.Errorf("sum of class %% in All = %v, want 100", got)
	}
	if got := floats.Sum(subclassesInAll); !scalar.EqualWithinRel(got, 100, 1e-9) {
		t.Errorf("sum of subclass %% in All = %v, want 100", got)
	}
	if got := floats.Sum(market); got != 1400 {
		t.Errorf("sum of class market values = %v, want 1400", got)
	}
}

func TestNewReport_Deterministic(t *testing.T) {
	targets := Targets{"Gold": decimal.NewFromInt(10), "US Bonds": decimal.NewFromInt(30)}

	var outputs [][]byte
	for i := 0; i < 5; i++ {
		report, err := NewReport(targets, sampleLedger(), NO(1400))
		if err != nil {
			t.Fatalf("NewReport() error = %v", err)
		}
		data, err := json.Marshal(report)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		outputs = append(outputs, data)
	}
	for i := 1; i < len(outputs); i++ {
		if !bytes.Equal(outputs[0], outputs[i]) {
			t.Errorf("report #%d = %s, want %s", i, outputs[i], outputs[0])
		}
	}
}

func TestReport_MarshalJSON(t *testing.T) {
	ledger := NewLedger([]Position{
		pos("BBB", 25, "Bonds", "Aggregate", "acctX"),
		pos("AAA", 75, "Equity", "US", "acctX"),
	}, nil)
	report, err := NewReport(Targets{"US": decimal.NewFromInt(75), "Aggregate": decimal.NewFromInt(25)}, ledger, NO(100))
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	got, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	want := `{"Bonds":[["Aggregate",0,25,0,0,100,25,25,0],["SUM",0,25,0,0,100,25]],` +
		`"Equity":[["US",0,75,0,0,100,75,75,0],["SUM",0,75,0,0,100,75]],` +
		`"TOTAL":[["SUM",0,100,0,0]]}`
	if string(got) != want {
		t.Errorf("json.Marshal() = %s, want %s", got, want)
	}
}
