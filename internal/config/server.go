package config

import (
	"fmt"
	"strings"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// ServerConfig holds settings for the HTTP and WebSocket listener.
type ServerConfig struct {
	// Addr is the listen address, host:port
	Addr string

	// AllowOrigins is the comma-separated CORS origin list
	AllowOrigins string
}

// NewServerConfig creates a ServerConfig with default values.
func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:         ":8080",
		AllowOrigins: "*",
	}
}

// Validate checks that the server configuration is valid.
func (s *ServerConfig) Validate() error {
	if strings.TrimSpace(s.Addr) == "" {
		return fmt.Errorf("empty listen address: %w", errors.ErrInvalidConfig)
	}
	if !strings.Contains(s.Addr, ":") {
		return fmt.Errorf("listen address %q has no port: %w", s.Addr, errors.ErrInvalidConfig)
	}
	return nil
}
