// Package config loads statboard settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
)

// Config holds every setting the statboard binary reads.
type Config struct {
	// Server
	Addr     string `env:"STATBOARD_ADDR,default=:8080"`
	BasePath string `env:"STATBOARD_BASE_PATH,default=/admin"`

	// Presentation
	Title    string `env:"STATBOARD_TITLE"`
	Locale   string `env:"STATBOARD_LOCALE,default=pt-BR"`
	Timezone string `env:"STATBOARD_TIMEZONE,default=America/Sao_Paulo"`
	Manifest string `env:"STATBOARD_MANIFEST"`
	// Templates overrides the embedded page templates with a directory.
	Templates string `env:"STATBOARD_TEMPLATES"`

	// Data sources
	IPEABaseURL      string        `env:"IPEA_BASE_URL,default=http://www.ipeadata.gov.br/api/odata4"`
	BrasilAPIBaseURL string        `env:"BRASILAPI_BASE_URL,default=https://brasilapi.com.br/api"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT,default=30s"`
	CacheTTL         time.Duration `env:"CACHE_TTL,default=10m"`
	RateLimit        float64       `env:"FETCH_RATE_LIMIT,default=5"`
	RateBurst        int           `env:"FETCH_RATE_BURST,default=5"`
	PlaceholderSeed  uint64        `env:"PLACEHOLDER_SEED,default=0"`

	// Scheduling
	ClockInterval time.Duration `env:"CLOCK_INTERVAL,default=1m"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL,default=info"`
	LogFormat string `env:"LOG_FORMAT,default=console"`
}

// Load reads the configuration from the process environment. Values found
// in the given .env files are applied first without overriding variables
// that are already set; missing files are skipped.
func Load(ctx context.Context, envFiles ...string) (*Config, error) {
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads the configuration through lookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the dashboard cannot run with.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("config: invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("config: invalid LOG_FORMAT %q", c.LogFormat)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config: FETCH_TIMEOUT must be positive")
	}
	if c.ClockInterval <= 0 {
		return fmt.Errorf("config: CLOCK_INTERVAL must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: FETCH_RATE_LIMIT must not be negative")
	}
	return nil
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid STATBOARD_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Logger builds the zerolog logger described by LOG_LEVEL and LOG_FORMAT.
func (c *Config) Logger() zerolog.Logger {
	return NewLogger(os.Stderr, c.LogLevel, c.LogFormat)
}

// NewLogger builds a console or JSON logger writing to w. Unknown levels
// fall back to info.
func NewLogger(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	var out io.Writer = w
	if strings.EqualFold(format, "console") {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}
