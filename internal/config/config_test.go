package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":            "",
		"PORT":               "",
		"REDIS_URL":          "",
		"LOG_FORMAT":         "",
		"LOG_LEVEL":          "",
		"IDEMPOTENCY_TTL":    "",
		"RATE_LIMIT_MAX":     "",
		"RATE_LIMIT_WINDOW":  "",
		"DISCOUNT_PAGE_SIZE": "",
		"MAX_BODY_BYTES":     "",
	})
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Empty(t, cfg.RedisURL)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)
	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, time.Minute, cfg.RateLimitWindow)
	require.Equal(t, 20, cfg.DiscountPageSize)
	require.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"APP_ENV":              "production",
		"PORT":                 "9090",
		"REDIS_URL":            "redis://localhost:6379/0",
		"CORS_ALLOWED_ORIGINS": "https://shop.example.com, https://admin.example.com",
		"IDEMPOTENCY_TTL":      "30s",
		"RATE_LIMIT_MAX":       "10",
		"DISCOUNT_PAGE_SIZE":   "5",
	})
	require.NoError(t, err)

	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	require.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	require.Equal(t, 30*time.Second, cfg.IdempotencyTTL)
	require.Equal(t, 10, cfg.RateLimitMax)
	require.Equal(t, 5, cfg.DiscountPageSize)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"RATE_LIMIT_MAX":  "not-a-number",
		"IDEMPOTENCY_TTL": "soon",
	})
	require.NoError(t, err)

	require.Equal(t, 120, cfg.RateLimitMax)
	require.Equal(t, 10*time.Minute, cfg.IdempotencyTTL)
}

func TestHTTPAddr(t *testing.T) {
	require.Equal(t, ":8080", (&Config{Port: "8080"}).HTTPAddr())
	require.Equal(t, ":3000", (&Config{Port: ":3000"}).HTTPAddr())
	require.Equal(t, ":8080", (&Config{}).HTTPAddr())
}
