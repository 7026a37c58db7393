// Package config resolves command defaults from the environment.
//
// Variables are read with the TABSKEMA_ prefix; an optional .env file is
// loaded first and never overrides variables that are already set.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/reoring/tabskema/i18n"
	"github.com/reoring/tabskema/internal/logging"
)

// Prefix is prepended to every variable name.
const Prefix = "TABSKEMA_"

// ErrInvalid wraps every value that fails validation after parsing.
var ErrInvalid = errors.New("config: invalid value")

// Config holds the command defaults. Flags override these values.
type Config struct {
	// Format of the validation report: text or json.
	Format string `env:"FORMAT" envDefault:"text"`
	// Lang selects the message catalog.
	Lang string `env:"LANG" envDefault:"en"`
	// Delimiter is the CSV field separator.
	Delimiter string `env:"DELIMITER" envDefault:","`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Load reads the given .env files (default ".env"; missing files are
// skipped) and parses the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	var errs []error
	switch c.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: format %q (want text or json)", ErrInvalid, c.Format))
	}
	if !i18n.Supported(c.Lang) {
		errs = append(errs, fmt.Errorf("%w: lang %q", ErrInvalid, c.Lang))
	}
	if len([]rune(c.Delimiter)) != 1 {
		errs = append(errs, fmt.Errorf("%w: delimiter %q must be a single character", ErrInvalid, c.Delimiter))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	if _, err := logging.ParseFormat(c.LogFormat); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalid, err))
	}
	return errors.Join(errs...)
}

// Comma returns the delimiter as a rune.
func (c Config) Comma() rune {
	for _, r := range c.Delimiter {
		return r
	}
	return ','
}

// Logger builds the command logger from the log settings. Invalid settings
// fall back to the logging defaults.
func (c Config) Logger(opts ...logging.Option) *slog.Logger {
	base := make([]logging.Option, 0, len(opts)+2)
	if l, err := logging.ParseLevel(c.LogLevel); err == nil {
		base = append(base, logging.WithLevel(l))
	}
	if f, err := logging.ParseFormat(c.LogFormat); err == nil {
		base = append(base, logging.WithFormat(f))
	}
	return logging.New(append(base, opts...)...)
}
