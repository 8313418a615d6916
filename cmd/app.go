// Package cmd implements the CLI application to report on a portfolio allocation.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/allocation"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&reportCmd{}, "reports")
	c.Register(&positionsCmd{}, "reports")

	c.Register(&checkCmd{}, "ledger")
	c.Register(&importCmd{}, "ledger")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "alloc.toml", "Path to the configuration file (TOML format). It is optional.")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format). Overrides the configuration.")
var verbose = flag.Bool("v", false, "Log debug information")

// stdout and stderr are replaced in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// setup loads the configuration, applies global flags, and creates the logger.
func setup() (*Config, zerolog.Logger, error) {
	cfg, err := LoadConfig(*configFile)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if *ledgerFile != "" {
		cfg.LedgerFile = *ledgerFile
	}
	if *verbose {
		cfg.LogLevel = "debug"
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(level).
		With().Timestamp().
		Logger()
	return cfg, logger, nil
}

// decodePortfolio loads the named portfolio from the configured ledger file.
// Targets from the configuration take precedence over the ledger's.
func decodePortfolio(cfg *Config, logger zerolog.Logger, name string) (*allocation.Portfolio, error) {
	f, err := os.Open(cfg.LedgerFile)
	if err != nil {
		return nil, fmt.Errorf("could not open ledger file %q: %w", cfg.LedgerFile, err)
	}
	defer f.Close()

	p, err := allocation.DecodePortfolio(f, name)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", cfg.LedgerFile, err)
	}

	if overrides := cfg.TargetOverrides(); len(overrides) > 0 {
		for _, s := range overrides.Subclasses() {
			p.Targets.Set(s, overrides[s])
		}
		p.Warnings = allocation.CheckTargets(p.Targets, p.Ledger)
		logger.Debug().Int("targets", len(overrides)).Msg("targets overridden by the configuration")
	}

	logger.Debug().
		Str("ledger", cfg.LedgerFile).
		Str("portfolio", name).
		Int("positions", p.Ledger.Len()).
		Int("targets", len(p.Targets)).
		Str("total", p.Total.String()).
		Msg("portfolio loaded")
	for _, w := range p.Warnings {
		logger.Warn().Str("portfolio", name).Msg(w)
	}
	return p, nil
}

// printMarkdown renders markdown for the terminal.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(160))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Fprint(stdout, out)
			return
		}
	}
	// raw markdown is still readable.
	fmt.Fprint(stdout, md)
}
