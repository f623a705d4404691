package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "API_BASE_URL", "API_TIMEOUT", "SUBMIT_RATE_LIMIT", "TRUST_PROXY", "REDIS_ADDR", "LOG_LEVEL"} {
		if v, ok := os.LookupEnv(key); ok {
			require.NoError(t, os.Unsetenv(key))
			t.Cleanup(func() { _ = os.Setenv(key, v) })
		}
	}

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000/api", cfg.APIBaseURL)
	assert.Zero(t, cfg.APITimeout)
	assert.Equal(t, "20-M", cfg.SubmitRateLimit)
	assert.Empty(t, cfg.RedisAddr)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("API_BASE_URL", "https://api.example/v1")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://api.example/v1", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.True(t, cfg.TrustProxy)
}

func TestParseErrors(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "soon")
		_, err := Parse()
		assert.ErrorContains(t, err, "parse env:")
	})
	t.Run("negative timeout", func(t *testing.T) {
		t.Setenv("API_TIMEOUT", "-1s")
		_, err := Parse()
		assert.Error(t, err)
	})
	t.Run("blank base url", func(t *testing.T) {
		t.Setenv("API_BASE_URL", "  ")
		_, err := Parse()
		assert.ErrorContains(t, err, "API_BASE_URL")
	})
}

func TestLoadReadsEnvFile(t *testing.T) {
	const key = "EVENT_PAGE_BASE_URL"
	if _, ok := os.LookupEnv(key); ok {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=https://events.example\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://events.example", cfg.EventPageBaseURL)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestSlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelError, Config{LogLevel: "error"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "verbose"}.SlogLevel())
}
