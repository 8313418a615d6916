package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"

	"github.com/etnz/allocation"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings shared by all commands.
//
// Priority is: defaults -> config file -> ALLOC_* environment variables -> flags.
type Config struct {
	LedgerFile string `toml:"ledger_file"`
	Portfolio  string `toml:"portfolio"`
	Format     string `toml:"format"`
	LogLevel   string `toml:"log_level"`
	// Targets override the targets declared in the ledger. Values are decoded
	// from their TOML literal, without going through float64.
	Targets allocation.Targets `toml:"targets"`
}

// formats are the supported report formats.
var formats = []string{"term", "markdown", "json", "html"}

// NewDefaultConfig returns the configuration used when nothing is set.
func NewDefaultConfig() *Config {
	return &Config{
		LedgerFile: "ledger.jsonl",
		Format:     "term",
		LogLevel:   "warn",
	}
}

// LoadConfig loads the configuration file, if it exists, and applies
// environment overrides.
func LoadConfig(path string) (*Config, error) {
	config := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// the config file is optional.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies ALLOC_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("ALLOC_LEDGER_FILE"); v != "" {
		config.LedgerFile = v
	}
	if v := os.Getenv("ALLOC_PORTFOLIO"); v != "" {
		config.Portfolio = v
	}
	if v := os.Getenv("ALLOC_FORMAT"); v != "" {
		config.Format = v
	}
	if v := os.Getenv("ALLOC_LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
}

// Validate checks the values that cannot be checked by the parser.
func (c *Config) Validate() error {
	if !slices.Contains(formats, c.Format) {
		return fmt.Errorf("invalid format %q, must be one of %v", c.Format, formats)
	}
	if err := c.TargetOverrides().Validate(); err != nil {
		return fmt.Errorf("invalid config targets: %w", err)
	}
	return nil
}

// TargetOverrides returns the configured targets.
func (c *Config) TargetOverrides() allocation.Targets {
	targets := make(allocation.Targets, len(c.Targets))
	for s, v := range c.Targets {
		targets.Set(s, v)
	}
	return targets
}
