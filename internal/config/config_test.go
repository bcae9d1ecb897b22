package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Addr:      DefaultAddr,
		DataDir:   DefaultDataDir,
		ModelName: DefaultModelName,
		CacheTTL:  DefaultCacheTTL,
		RateLimit: DefaultRateLimit,
		RateBurst: DefaultRateBurst,
	}
}

func TestLoadDefaults(t *testing.T) {
	// Not parallel: Load reads the process environment.
	t.Setenv("HOME", t.TempDir()) // ensure no developer config file leaks in

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAddr, cfg.Addr)
	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultModelName, cfg.ModelName)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultRateLimit, cfg.RateLimit)
	assert.Equal(t, DefaultRateBurst, cfg.RateBurst)
	assert.False(t, cfg.TrustProxy)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PERIPLO_ADDR", "0.0.0.0:8080")
	t.Setenv("PERIPLO_MODEL_NAME", "gemini-2.5-pro")
	t.Setenv("PERIPLO_CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr)
	assert.Equal(t, "gemini-2.5-pro", cfg.ModelName)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"empty addr", func(c *Config) { c.Addr = " " }, ErrInvalidAddr},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, ErrInvalidDataDir},
		{"empty model name", func(c *Config) { c.ModelName = "" }, ErrInvalidModelName},
		{"zero cache TTL", func(c *Config) { c.CacheTTL = 0 }, ErrInvalidCacheTTL},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }, ErrInvalidRateLimit},
		{"rate limit without burst", func(c *Config) { c.RateLimit = 5; c.RateBurst = 0 }, ErrInvalidRateLimit},
		{"rate limiting disabled", func(c *Config) { c.RateLimit = 0; c.RateBurst = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
