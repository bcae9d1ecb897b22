// Package config provides application configuration with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables with the PERIPLO_ prefix (runtime override)
//  2. Config file (~/.periplo/config.yaml)
//  3. Default values
//
// The Gemini API key is deliberately NOT part of this config: it is a
// process precondition read from GEMINI_API_KEY and checked at startup.
//
// Error handling uses sentinel errors for errors.Is() checks, wrapped with
// fmt.Errorf("%w: details", ErrXxx).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidAddr indicates the listen address is empty or malformed.
	ErrInvalidAddr = errors.New("invalid listen address")

	// ErrInvalidDataDir indicates the category data directory is not set.
	ErrInvalidDataDir = errors.New("invalid data directory")

	// ErrInvalidModelName indicates the model name is empty.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidCacheTTL indicates the cache TTL is not positive.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL")

	// ErrInvalidRateLimit indicates a negative rate limit or burst.
	ErrInvalidRateLimit = errors.New("invalid rate limit")
)

// Defaults applied when neither the config file nor the environment
// provides a value.
const (
	DefaultAddr      = "127.0.0.1:3000"
	DefaultDataDir   = "data"
	DefaultModelName = "gemini-2.5-flash"
	DefaultCacheTTL  = 5 * time.Minute
	DefaultRateLimit = 5.0
	DefaultRateBurst = 10
)

// Config stores application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"addr"`

	// DataDir holds per-category resources: <category>.csv record files
	// and <category>.txt prompt templates.
	DataDir string `mapstructure:"data_dir"`

	// ModelName is the Gemini model identifier.
	ModelName string `mapstructure:"model_name"`

	// CacheTTL is how long loaded category data stays valid.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`

	// RateLimit is the per-IP request rate (requests/second); 0 disables
	// rate limiting. RateBurst is the token bucket size.
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`

	// TrustProxy enables client IP extraction from X-Real-IP and
	// X-Forwarded-For. Only set behind a trusted reverse proxy.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// Load reads configuration from defaults, the optional config file, and
// the environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("addr", DefaultAddr)
	v.SetDefault("data_dir", DefaultDataDir)
	v.SetDefault("model_name", DefaultModelName)
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("rate_limit", DefaultRateLimit)
	v.SetDefault("rate_burst", DefaultRateBurst)
	v.SetDefault("trust_proxy", false)

	v.SetEnvPrefix("PERIPLO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".periplo"))
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// A missing config file is fine; defaults and env cover everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddr)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidDataDir)
	}
	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidModelName)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidCacheTTL, c.CacheTTL)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("%w: rate %v", ErrInvalidRateLimit, c.RateLimit)
	}
	if c.RateLimit > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("%w: burst %d", ErrInvalidRateLimit, c.RateBurst)
	}
	return nil
}
