package config

// ConfigBuilder provides a fluent API for building Config instances.
type ConfigBuilder struct {
	cfg *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		cfg: NewConfig(),
	}
}

// Build returns the built Config.
func (b *ConfigBuilder) Build() *Config {
	return b.cfg
}

// WithAddr sets the listen address.
func (b *ConfigBuilder) WithAddr(addr string) *ConfigBuilder {
	b.cfg.Server.Addr = addr
	return b
}

// WithAllowOrigins sets the CORS origin list.
func (b *ConfigBuilder) WithAllowOrigins(origins string) *ConfigBuilder {
	b.cfg.Server.AllowOrigins = origins
	return b
}

// WithLogLevel sets the log level.
func (b *ConfigBuilder) WithLogLevel(level string) *ConfigBuilder {
	b.cfg.Log.Level = level
	return b
}

// WithLogFormat sets the log format.
func (b *ConfigBuilder) WithLogFormat(format string) *ConfigBuilder {
	b.cfg.Log.Format = format
	return b
}

// WithWorkers sets the per-game worker count.
func (b *ConfigBuilder) WithWorkers(n int) *ConfigBuilder {
	b.cfg.Engine.Workers = n
	return b
}

// WithMaxGames sets the live game limit.
func (b *ConfigBuilder) WithMaxGames(n int) *ConfigBuilder {
	b.cfg.Engine.MaxGames = n
	return b
}
