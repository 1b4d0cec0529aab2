// Package config loads pipeparse settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. PIPEPARSE_FORMAT.
const Prefix = "PIPEPARSE"

// Output formats understood by the CLI.
var Formats = []string{"tree", "inline", "stages", "json", "yaml", "cbor", "digest"}

// Telemetry modes.
var TelemetryModes = []string{"off", "basic", "timing"}

// Config holds all application configuration.
//
// Each field is read from PIPEPARSE_<NAME>; envconfig falls back to the bare
// name, so the conventional NO_COLOR is honoured too.
type Config struct {
	Debug     bool   `envconfig:"DEBUG" default:"false"`
	NoColor   bool   `envconfig:"NO_COLOR" default:"false"`
	Format    string `envconfig:"FORMAT" default:"tree"`
	Telemetry string `envconfig:"TELEMETRY" default:"off"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Debug:     false,
		NoColor:   false,
		Format:    "tree",
		Telemetry: "off",
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return fmt.Errorf("unknown format %q", c.Format)
	}
	if !slices.Contains(TelemetryModes, c.Telemetry) {
		return fmt.Errorf("unknown telemetry mode %q", c.Telemetry)
	}
	return nil
}

// LogLevel is Debug when debugging is on, Info otherwise.
func (c *Config) LogLevel() slog.Level {
	if c.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
