package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/allocation"
	"github.com/google/subcommands"
)

type checkCmd struct {
	portfolio string
}

func (*checkCmd) Name() string { return "check" }
func (*checkCmd) Synopsis() string {
	return "validates the ledger and the targets of a portfolio"
}
func (*checkCmd) Usage() string {
	return `alloc check [-p <portfolio>]

  Validates the ledger file and checks that the targets of the portfolio add
  up to 100% and only name subclasses that are held. Exits with a failure
  status if anything is wrong.
`
}

func (c *checkCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to check. Defaults to the configured portfolio, or all accounts.")
}

func (c *checkCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.portfolio != "" {
		cfg.Portfolio = c.portfolio
	}

	p, err := decodePortfolio(cfg, logger, cfg.Portfolio)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	status := subcommands.ExitSuccess
	for _, w := range p.Warnings {
		fmt.Fprintf(stdout, "warning: %s\n", w)
		status = subcommands.ExitFailure
	}
	if _, err := allocation.NewReport(p.Targets, p.Ledger, p.Total); err != nil {
		fmt.Fprintf(stdout, "error: %v\n", err)
		status = subcommands.ExitFailure
	}

	if status == subcommands.ExitSuccess {
		fmt.Fprintf(stdout, "%d positions, %d targets, total value %s\n", p.Ledger.Len(), len(p.Targets), p.Total)
	}
	return status
}
