package config

import (
	"fmt"
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// LogConfig holds settings for structured logging.
type LogConfig struct {
	Level  string
	Format string
}

// NewLogConfig creates a LogConfig with default values.
func NewLogConfig() *LogConfig {
	return &LogConfig{
		Level:  "info",
		Format: FormatText,
	}
}

// Validate checks that the level and format are known.
func (l *LogConfig) Validate() error {
	if _, err := log.ParseLevel(l.Level); err != nil {
		return fmt.Errorf("log level %q: %w", l.Level, errors.ErrInvalidConfig)
	}
	if l.Format != FormatText && l.Format != FormatJSON {
		return fmt.Errorf("log format %q: %w", l.Format, errors.ErrInvalidConfig)
	}
	return nil
}

// NewLogger builds a logger writing to w in the configured format.
func (l *LogConfig) NewLogger(w io.Writer) (*log.Logger, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	level, _ := log.ParseLevel(l.Level)

	var handler log.Handler = text.New(w)
	if l.Format == FormatJSON {
		handler = json.New(w)
	}
	return &log.Logger{Handler: handler, Level: level}, nil
}
