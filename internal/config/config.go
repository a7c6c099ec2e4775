// Package config provides configuration for the chess rules server.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// Environment variables read by FromEnv.
const (
	EnvAddr         = "CHESS_ADDR"
	EnvAllowOrigins = "CHESS_ALLOW_ORIGINS"
	EnvLogLevel     = "CHESS_LOG_LEVEL"
	EnvLogFormat    = "CHESS_LOG_FORMAT"
	EnvWorkers      = "CHESS_WORKERS"
	EnvMaxGames     = "CHESS_MAX_GAMES"
)

// Config holds all program configuration, grouped by concern.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Engine EngineConfig
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Server: *NewServerConfig(),
		Log:    *NewLogConfig(),
		Engine: *NewEngineConfig(),
	}
}

// Validate checks every sub-configuration.
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	return c.Engine.Validate()
}

// FromEnv overlays values found through lookup, normally os.LookupEnv.
// Unset variables keep their current value.
func (c *Config) FromEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok {
		c.Server.Addr = v
	}
	if v, ok := lookup(EnvAllowOrigins); ok {
		c.Server.AllowOrigins = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = strings.ToLower(v)
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvWorkers, v, errors.ErrInvalidConfig)
		}
		c.Engine.Workers = n
	}
	if v, ok := lookup(EnvMaxGames); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvMaxGames, v, errors.ErrInvalidConfig)
		}
		c.Engine.MaxGames = n
	}
	return nil
}
