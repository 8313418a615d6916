package renderer

import (
	"embed"
	"flag"
	"os"
	"strings"
	"testing"

	"github.com/etnz/allocation"
	"github.com/shopspring/decimal"
)

//go:embed testdata/*.md
var goldenFS embed.FS

var fixGolden = flag.Bool("fix-golden", false, "if true, update failing golden .md files with the received output")

func TestFixGoldenIsOff(t *testing.T) {
	if *fixGolden {
		t.Fatal("-fix-golden is enabled. This flag should only be used for updating test fixtures and must be disabled for regular tests.")
	}
}

// sampleReport is a two asset classes portfolio, slightly off target.
func sampleReport(t *testing.T) *allocation.Report {
	t.Helper()
	figures := make(allocation.Figures)
	figures.Add(allocation.Bucket{Class: "Equity", Subclass: "US"}, allocation.M(60, ""), allocation.M(15, ""))
	ledger := allocation.NewLedger([]allocation.Position{
		allocation.NewPosition("AAA", allocation.M(75, ""), "Equity", "US", "Retirement:Broker"),
		allocation.NewPosition("BBB", allocation.M(25, ""), "Bonds", "Aggregate", "Retirement:Broker"),
	}, figures)
	targets := allocation.Targets{"US": decimal.NewFromInt(80), "Aggregate": decimal.NewFromInt(20)}

	report, err := allocation.NewReport(targets, ledger, ledger.TotalInvestedForPortfolio())
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}
	report.Portfolio = "Retirement"
	return report
}

func TestAllocationMarkdown(t *testing.T) {
	const goldenFile = "testdata/allocation.md"
	got := AllocationMarkdown(sampleReport(t))

	want, err := goldenFS.ReadFile(goldenFile)
	if err != nil {
		t.Fatalf("failed to read golden file %q: %v", goldenFile, err)
	}
	if got != string(want) {
		if *fixGolden {
			if err := os.WriteFile(goldenFile, []byte(got), 0644); err != nil {
				t.Fatalf("failed to update golden file %q: %v", goldenFile, err)
			}
			t.Logf("updated golden file %q", goldenFile)
			return
		}
		t.Errorf("AllocationMarkdown() mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestAllocationMarkdown_Escape(t *testing.T) {
	ledger := allocation.NewLedger([]allocation.Position{
		allocation.NewPosition("AAA", allocation.M(10, ""), "Equity", "US|Intl", "A"),
	}, nil)
	report, err := allocation.NewReport(nil, ledger, ledger.TotalInvestedForPortfolio())
	if err != nil {
		t.Fatalf("NewReport() error = %v", err)
	}

	got := AllocationMarkdown(report)
	if !strings.Contains(got, `| US\|Intl | 0.00 | 10.00 |`) {
		t.Errorf("AllocationMarkdown() does not escape pipes:\n%s", got)
	}
	if !strings.HasPrefix(got, "# Allocation\n\n") {
		t.Errorf("AllocationMarkdown() title without portfolio:\n%s", got)
	}
}

func TestAllocationHTML(t *testing.T) {
	got, err := AllocationHTML(sampleReport(t))
	if err != nil {
		t.Fatalf("AllocationHTML() error = %v", err)
	}
	for _, want := range []string{
		"<h1>Allocation of Retirement</h1>",
		"<h2>EQUITY</h2>",
		"<table>",
		// cells carry their alignment as attributes.
		">% in Equity</th>",
		">Aggregate</td>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("AllocationHTML() does not contain %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "<table>"); n != 3 {
		t.Errorf("AllocationHTML() has %d tables, want 3", n)
	}
}

func TestPositionsMarkdown(t *testing.T) {
	ledger := allocation.NewLedger([]allocation.Position{
		allocation.NewPosition("VTI", allocation.M(600, "USD"), "Equity", "US Total Market", "Retirement"),
		allocation.NewPosition("VTI", allocation.M(150, "USD"), "Equity", "US Total Market", "Taxable"),
	}, nil)

	want := `# Positions

| Symbol | Account | Asset Class | Asset Subclass | Market Value |
|:---|:---|:---|:---|---:|
| VTI | Retirement | Equity | US Total Market | $600.00 |
| VTI | Taxable | Equity | US Total Market | $150.00 |
| **Total** | | | | **$750.00** |
`
	if got := PositionsMarkdown(ledger); got != want {
		t.Errorf("PositionsMarkdown() =\n%s\nwant\n%s", got, want)
	}
}
