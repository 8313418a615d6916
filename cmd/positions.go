package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/allocation/renderer"
	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	portfolio string
	class     string
	raw       bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list the positions of a portfolio" }
func (*positionsCmd) Usage() string {
	return `alloc positions [-p <portfolio>] [-class <asset class>] [-raw]

  Lists the positions of a portfolio, in ledger order.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "p", "", "Portfolio to list. Defaults to the configured portfolio, or all accounts.")
	f.StringVar(&c.class, "class", "", "Only list positions of this asset class")
	f.BoolVar(&c.raw, "raw", false, "print raw markdown")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
		fmt.Fprintf(stderr, "Error loading portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	ledger := p.Ledger
	if c.class != "" {
		ledger = ledger.FilterClass(c.class)
		logger.Debug().Str("class", c.class).Int("positions", ledger.Len()).Msg("positions filtered")
	}

	md := renderer.PositionsMarkdown(ledger)
	if c.raw {
		fmt.Fprint(stdout, md)
	} else {
		printMarkdown(md)
	}
	return subcommands.ExitSuccess
}
