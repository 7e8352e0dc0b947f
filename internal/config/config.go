// Package config loads runtime settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/hammamikhairi/moat/internal/logger"
)

// Config holds every runtime setting. Command-line flags override these
// values after Load.
type Config struct {
	LogLevel string `env:"MOAT_LOG_LEVEL" envDefault:"normal"`
	LogFile  string `env:"MOAT_LOG_FILE" envDefault:".moat-logs/moat.log"`
	// CatalogPath points at an alternate YAML catalog. Empty means the
	// built-in catalog.
	CatalogPath string `env:"MOAT_CATALOG"`
	// Style is the glamour style for the mission briefing: auto, dark,
	// light or notty.
	Style string `env:"MOAT_STYLE" envDefault:"auto"`
	Sound bool   `env:"MOAT_SOUND" envDefault:"false"`
}

// Load reads .env files (if present) and parses the environment.
func Load(files ...string) (Config, error) {
	// Missing .env files are fine.
	_ = godotenv.Load(files...)

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values that have a fixed set of choices.
func (c Config) Validate() error {
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("MOAT_LOG_LEVEL: %w", err)
	}
	switch c.Style {
	case "auto", "dark", "light", "notty", "ascii", "dracula", "pink":
	default:
		return fmt.Errorf("MOAT_STYLE: unknown style %q", c.Style)
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() logger.Level {
	lvl, _ := logger.ParseLevel(c.LogLevel)
	return lvl
}
