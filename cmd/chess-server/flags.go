// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"

	"github.com/lgbarn/chess-rules-go/internal/config"
)

var defaults = config.NewConfig()

var (
	// Server options
	addr         = flag.String("addr", defaults.Server.Addr, "Listen address (host:port)")
	allowOrigins = flag.String("origins", defaults.Server.AllowOrigins, "Comma-separated CORS origins")

	// Logging options
	logLevel  = flag.String("log-level", defaults.Log.Level, "Log level: debug, info, warn, error, fatal")
	logFormat = flag.String("log-format", defaults.Log.Format, "Log format: text, json")

	// Engine options
	workers  = flag.Int("workers", defaults.Engine.Workers, "Goroutines used to classify each position")
	maxGames = flag.Int("max-games", defaults.Engine.MaxGames, "Maximum number of hosted games")

	// Informational
	version = flag.Bool("version", false, "Print version and exit")
	help    = flag.Bool("h", false, "Show help")
)

// explicitFlags returns the names of the flags given on the command line.
func explicitFlags() map[string]bool {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// applyFlags copies every explicitly set flag into cfg. Flags left at their
// defaults do not override values taken from the environment.
func applyFlags(cfg *config.Config, set map[string]bool) {
	if set["addr"] {
		cfg.Server.Addr = *addr
	}
	if set["origins"] {
		cfg.Server.AllowOrigins = *allowOrigins
	}
	if set["log-level"] {
		cfg.Log.Level = *logLevel
	}
	if set["log-format"] {
		cfg.Log.Format = *logFormat
	}
	if set["workers"] {
		cfg.Engine.Workers = *workers
	}
	if set["max-games"] {
		cfg.Engine.MaxGames = *maxGames
	}
}

// loadConfig builds the configuration from defaults, then the environment,
// then explicit flags.
func loadConfig(lookup func(string) (string, bool), set map[string]bool) (*config.Config, error) {
	cfg := config.NewConfig()
	if err := cfg.FromEnv(lookup); err != nil {
		return nil, err
	}
	applyFlags(cfg, set)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
