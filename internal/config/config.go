// Package config loads the service configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/hoverdict/deconj"
)

// Config is the full service configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `toml:"addr"`
	// Rules is a rule corpus file. Empty means the embedded corpus.
	Rules string `toml:"rules"`
	// Watch reloads Rules when the file changes.
	Watch bool `toml:"watch"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	Cache  CacheConfig  `toml:"cache"`
	CORS   CORSConfig   `toml:"cors"`
	Limits LimitsConfig `toml:"limits"`
}

// CacheConfig sizes the result cache.
type CacheConfig struct {
	Size int      `toml:"size"`
	TTL  Duration `toml:"ttl"`
}

// CORSConfig lists origins allowed to call the API.
type CORSConfig struct {
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LimitsConfig mirrors deconj.Limits.
type LimitsConfig struct {
	MaxExtraRunes int `toml:"max_extra_runes"`
	MaxExtraSteps int `toml:"max_extra_steps"`
}

// Duration is a time.Duration written as a string such as "10m".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", b, err)
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration the way UnmarshalText reads it.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Cache:    CacheConfig{Size: deconj.DefaultCacheSize},
		CORS:     CORSConfig{AllowedOrigins: []string{"*"}},
		Limits: LimitsConfig{
			MaxExtraRunes: deconj.DefaultLimits.MaxExtraRunes,
			MaxExtraSteps: deconj.DefaultLimits.MaxExtraSteps,
		},
	}
}

// Load reads path over the defaults. An empty path returns Default().
// Unknown keys are rejected so typos do not pass silently.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%s: %s", path, strict.String())
		}
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("cache.size must not be negative, got %d", c.Cache.Size)
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}
	if c.Watch && c.Rules == "" {
		return errors.New("watch requires a rules file")
	}
	return nil
}

// DeconjLimits converts the [limits] table for deconj.WithLimits.
func (c Config) DeconjLimits() deconj.Limits {
	return deconj.Limits{
		MaxExtraRunes: c.Limits.MaxExtraRunes,
		MaxExtraSteps: c.Limits.MaxExtraSteps,
	}
}

// ParseLevel maps a log_level value to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}
