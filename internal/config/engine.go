package config

import (
	"fmt"

	"github.com/lgbarn/chess-rules-go/internal/errors"
)

// MaxWorkers bounds EngineConfig.Workers.
const MaxWorkers = 64

// EngineConfig holds settings for hosted games.
type EngineConfig struct {
	// Workers is the goroutine count each game uses to classify positions
	Workers int

	// MaxGames caps the number of live games; 0 means unlimited
	MaxGames int
}

// NewEngineConfig creates an EngineConfig with default values.
func NewEngineConfig() *EngineConfig {
	return &EngineConfig{
		Workers:  1,
		MaxGames: 1000,
	}
}

// Validate checks that the engine configuration is valid.
func (e *EngineConfig) Validate() error {
	if e.Workers < 1 || e.Workers > MaxWorkers {
		return fmt.Errorf("workers %d outside 1..%d: %w", e.Workers, MaxWorkers, errors.ErrInvalidConfig)
	}
	if e.MaxGames < 0 {
		return fmt.Errorf("max games %d is negative: %w", e.MaxGames, errors.ErrInvalidConfig)
	}
	return nil
}
