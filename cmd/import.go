package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/allocation"
	"github.com/google/subcommands"
)

// importCmd reads positions from a broker's JSON export and appends them to
// the ledger.
type importCmd struct {
	file   string
	dryRun bool
	sel    allocation.Selectors
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import positions from a JSON export into the ledger" }
func (*importCmd) Usage() string {
	return `alloc import -json <file> -items <path> -symbol <path> -value <path> [options]

  Reads positions from a JSON document using JSONPath selectors, and appends
  them to the ledger file. The items path selects the list of holdings; other
  paths are evaluated on each holding.

  Example:
    alloc import -json export.json -items '$.holdings[*]' -symbol '$.ticker' \
      -value '$.marketValue' -cost '$.bookValue' -default-class Equity \
      -subclass '$.category' -default-account Taxable:Broker -currency USD
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "json", "", "JSON file to import, '-' for stdin")
	f.BoolVar(&c.dryRun, "dry-run", false, "print the ledger lines instead of appending them")

	f.StringVar(&c.sel.Items, "items", "", "JSONPath to the list of holdings")
	f.StringVar(&c.sel.Symbol, "symbol", "", "JSONPath to the symbol of a holding")
	f.StringVar(&c.sel.Value, "value", "", "JSONPath to the market value of a holding")
	f.StringVar(&c.sel.Cost, "cost", "", "JSONPath to the book value of a holding")
	f.StringVar(&c.sel.Class, "class", "", "JSONPath to the asset class of a holding")
	f.StringVar(&c.sel.Subclass, "subclass", "", "JSONPath to the asset subclass of a holding")
	f.StringVar(&c.sel.Account, "account", "", "JSONPath to the account of a holding")

	f.StringVar(&c.sel.DefaultClass, "default-class", "", "asset class of holdings without one")
	f.StringVar(&c.sel.DefaultSubclass, "default-subclass", "", "asset subclass of holdings without one")
	f.StringVar(&c.sel.DefaultAccount, "default-account", "", "account of holdings without one")
	f.StringVar(&c.sel.Currency, "currency", "", "currency of the values")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		fmt.Fprintln(stderr, "Error: -json is required")
		return subcommands.ExitUsageError
	}
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return subcommands.ExitUsageError
	}

	var r io.Reader = os.Stdin
	if c.file != "-" {
		jf, err := os.Open(c.file)
		if err != nil {
			fmt.Fprintf(stderr, "Error opening %q: %v\n", c.file, err)
			return subcommands.ExitFailure
		}
		defer jf.Close()
		r = jf
	}

	imported, err := allocation.ImportPositions(r, c.sel)
	if err != nil {
		fmt.Fprintf(stderr, "Error importing %q: %v\n", c.file, err)
		return subcommands.ExitFailure
	}
	logger.Debug().Str("file", c.file).Int("positions", len(imported)).Msg("positions imported")

	if c.dryRun {
		if err := encodeImported(stdout, imported); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	// Open the file in append mode, creating it if it doesn't exist.
	lf, err := os.OpenFile(cfg.LedgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening ledger file %q: %v\n", cfg.LedgerFile, err)
		return subcommands.ExitFailure
	}
	defer lf.Close()

	if err := encodeImported(lf, imported); err != nil {
		fmt.Fprintf(stderr, "Error writing to ledger file %q: %v\n", cfg.LedgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Successfully appended %d positions to %s\n", len(imported), cfg.LedgerFile)
	return subcommands.ExitSuccess
}

func encodeImported(w io.Writer, imported []allocation.Imported) error {
	for _, imp := range imported {
		if err := allocation.EncodePosition(w, imp.Position, imp.Cost); err != nil {
			return err
		}
	}
	return nil
}
