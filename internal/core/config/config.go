package config

import (
	"time"

	"github.com/osamhq/portal/internal/api"
	"github.com/osamhq/portal/internal/cache"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	API     api.Config    `yaml:"api"`
	Gateway GatewayConfig `yaml:"gateway"`
	Cache   cache.Config  `yaml:"cache"`
	Retry   RetryConfig   `yaml:"retry"`
	Logging LoggingConfig `yaml:"logging"`
}

// GatewayConfig holds HTTP gateway settings.
type GatewayConfig struct {
	Port int `yaml:"port"`
	// CacheEnabled turns the Redis read-through cache on.
	CacheEnabled bool          `yaml:"cache_enabled"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// RetryConfig holds the retry budget applied to portal calls.
type RetryConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}
