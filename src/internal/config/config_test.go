package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgimmler/apod-api/src/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadApod(t *testing.T) {
	t.Setenv("NASA_API_KEY_PATH", "/apod/nasa-api-key")
	t.Setenv("NASA_API_URL", "https://api.nasa.gov/planetary/apod")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "")

	cfg := config.LoadApod()
	require.Equal(t, "/apod/nasa-api-key", cfg.KeyPath)
	require.Equal(t, "https://api.nasa.gov/planetary/apod", cfg.APIURL)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
}

func TestLoadApodUnset(t *testing.T) {
	t.Setenv("NASA_API_KEY_PATH", "")
	t.Setenv("NASA_API_URL", "")

	cfg := config.LoadApod()
	require.Empty(t, cfg.KeyPath)
	require.Empty(t, cfg.APIURL)
}

func TestLoadQuotesDefaults(t *testing.T) {
	t.Setenv("QUOTES_API_URL", "")
	t.Setenv("QUOTES_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := config.LoadQuotes()
	require.Equal(t, config.DefaultQuotesURL, cfg.APIURL)
	require.Equal(t, 5*time.Second, cfg.Timeout)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadQuotesOverrides(t *testing.T) {
	t.Setenv("QUOTES_API_URL", "http://localhost:9000/random")
	t.Setenv("QUOTES_TIMEOUT", "750ms")

	cfg := config.LoadQuotes()
	require.Equal(t, "http://localhost:9000/random", cfg.APIURL)
	require.Equal(t, 750*time.Millisecond, cfg.Timeout)
}

func TestLoadQuotesBadTimeout(t *testing.T) {
	for _, raw := range []string{"soon", "-1s", "0"} {
		t.Setenv("QUOTES_TIMEOUT", raw)
		require.Equal(t, 5*time.Second, config.LoadQuotes().Timeout, raw)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	require.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.env")
	require.NoError(t, os.WriteFile(path, []byte("NASA_API_URL=http://from-dotenv\nNASA_API_KEY_PATH=/from/dotenv\n"), 0o600))

	// an existing value is not overwritten
	t.Setenv("NASA_API_URL", "http://from-env")
	t.Setenv("NASA_API_KEY_PATH", "")
	require.NoError(t, os.Unsetenv("NASA_API_KEY_PATH"))

	require.NoError(t, config.LoadDotEnv(path))

	cfg := config.LoadApod()
	require.Equal(t, "http://from-env", cfg.APIURL)
	require.Equal(t, "/from/dotenv", cfg.KeyPath)
}
