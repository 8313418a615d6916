package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"

	"github.com/etnz/allocation"
	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	portfolio string
	format    string
}

func (*reportCmd) Name() string { return "report" }
func (*reportCmd) Synopsis() string {
	return "display the allocation of a portfolio against its targets"
}
func (*reportCmd) Usage() string {
	return `alloc report [-p <portfolio>] [-format term|markdown|json|html]

  Displays, for each asset class and subclass, the book value, market value,
  PnL, share of the class and of the portfolio, target, and the cash to
  invest (or withdraw when negative) to reach the target.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to report on: an account and its sub accounts. Defaults to the configured portfolio, or all accounts.")
	f.StringVar(&c.format, "format", "", "Output format: term, markdown, json or html. Defaults to the configured format.")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.portfolio != "" {
		cfg.Portfolio = c.portfolio
	}
	if c.format != "" {
		cfg.Format = c.format
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := decodePortfolio(cfg, logger, cfg.Portfolio)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := allocation.NewReport(p.Targets, p.Ledger, p.Total)
	if errors.Is(err, allocation.ErrUndefinedRatio) && p.Ledger.TotalInvestedForPortfolio().IsZero() {
		fmt.Fprintf(stderr, "Error: portfolio %q has no value to allocate: %v\n", cfg.Portfolio, err)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error creating allocation report: %v\n", err)
		return subcommands.ExitFailure
	}
	report.Portfolio = cfg.Portfolio

	switch cfg.Format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error encoding report: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintln(stdout, string(data))
	case "html":
		html, err := renderer.AllocationHTML(report)
		if err != nil {
			fmt.Fprintf(stderr, "Error rendering report: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprint(stdout, html)
	case "markdown":
		fmt.Fprint(stdout, renderer.AllocationMarkdown(report))
	default:
		printMarkdown(renderer.AllocationMarkdown(report))
	}
	return subcommands.ExitSuccess
}
