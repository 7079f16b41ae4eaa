package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "/admin", cfg.BasePath)
	assert.Equal(t, "pt-BR", cfg.Locale)
	assert.Equal(t, "America/Sao_Paulo", cfg.Timezone)
	assert.Equal(t, "http://www.ipeadata.gov.br/api/odata4", cfg.IPEABaseURL)
	assert.Equal(t, "https://brasilapi.com.br/api", cfg.BrasilAPIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, time.Minute, cfg.ClockInterval)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
	assert.Empty(t, cfg.Manifest)
}

func TestLoadWithOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"STATBOARD_ADDR":     "127.0.0.1:9000",
		"STATBOARD_LOCALE":   "en",
		"STATBOARD_TIMEZONE": "UTC",
		"STATBOARD_MANIFEST": "indicators.yaml",
		"FETCH_TIMEOUT":      "5s",
		"PLACEHOLDER_SEED":   "42",
		"LOG_FORMAT":         "json",
		"LOG_LEVEL":          "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "indicators.yaml", cfg.Manifest)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, uint64(42), cfg.PlaceholderSeed)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadWithRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	cases := map[string]map[string]string{
		"timezone":   {"STATBOARD_TIMEZONE": "Mars/Olympus"},
		"log level":  {"LOG_LEVEL": "loud"},
		"log format": {"LOG_FORMAT": "xml"},
		"timeout":    {"FETCH_TIMEOUT": "0s"},
		"clock":      {"CLOCK_INTERVAL": "-1m"},
		"duration":   {"CACHE_TTL": "soon"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("STATBOARD_TITLE=Painel de Teste\n"), 0o600))
	t.Setenv("STATBOARD_TITLE", "")
	require.NoError(t, os.Unsetenv("STATBOARD_TITLE"))

	cfg, err := Load(context.Background(), path, filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "Painel de Teste", cfg.Title)
}

func TestNewLoggerFormats(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")
	logger.Info().Msg("hidden")
	logger.Warn().Str("region", "saneamento").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"region":"saneamento"`)
	assert.Contains(t, out, `"level":"warn"`)
}
