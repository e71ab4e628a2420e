// Package config loads application configuration from the environment and an
// optional config file.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the process-wide configuration tree.
type Config struct {
	Environment string `mapstructure:"environment"`
	ServiceName string `mapstructure:"service_name"`
	HTTPAddr    string `mapstructure:"http_addr"`
	DatabaseURL string `mapstructure:"database_url"`

	Database    DatabaseConfig    `mapstructure:"database"`
	Propagation PropagationConfig `mapstructure:"propagation"`
	Staleness   StalenessConfig   `mapstructure:"staleness"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Bootstrap   BootstrapConfig   `mapstructure:"bootstrap"`
}

type DatabaseConfig struct {
	MaxOpenConns int `mapstructure:"max_open_conns"`
	MaxIdleConns int `mapstructure:"max_idle_conns"`
}

// PropagationConfig bounds the per-pass subscription fan-out.
type PropagationConfig struct {
	MaxConcurrent int `mapstructure:"max_concurrent"`
}

// StalenessConfig controls the dashboard staleness poller.
type StalenessConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// RateLimitConfig bounds meal edit submissions per actor.
type RateLimitConfig struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

// BootstrapConfig controls dev-mode seeding.
type BootstrapConfig struct {
	SeedDemoSeller bool `mapstructure:"seed_demo_seller"`
}

// IsProduction reports whether the process runs with production hardening.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Load reads configuration with MEALGRID_-prefixed environment variables
// taking precedence over an optional mealgrid.yaml in the working directory.
func Load() (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEALGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("service_name", "mealgrid")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_url", "file:mealgrid.db?cache=shared")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("propagation.max_concurrent", 32)
	v.SetDefault("staleness.enabled", true)
	v.SetDefault("staleness.poll_interval", time.Minute)
	v.SetDefault("rate_limit.limit", 30)
	v.SetDefault("rate_limit.window", time.Minute)
	v.SetDefault("bootstrap.seed_demo_seller", true)

	v.SetConfigName("mealgrid")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
