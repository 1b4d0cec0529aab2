package lexer

import (
	"log/slog"
	"time"
)

// Opt represents a tokenizer configuration option
type Opt func(*Config)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Token counts only
	TelemetryTiming                      // Token counts + timing per kind
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Method call tracing
	DebugDetailed                   // Character-level tracing
)

// Config holds tokenizer configuration
type Config struct {
	telemetry TelemetryMode
	debug     DebugLevel
	logger    *slog.Logger
}

// WithTelemetryBasic enables basic telemetry (token counts only)
func WithTelemetryBasic() Opt {
	return func(c *Config) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing per kind)
func WithTelemetryTiming() Opt {
	return func(c *Config) {
		c.telemetry = TelemetryTiming
	}
}

// WithTelemetry sets the telemetry mode directly
func WithTelemetry(mode TelemetryMode) Opt {
	return func(c *Config) {
		c.telemetry = mode
	}
}

// WithDebugPaths enables debug path tracing (development only)
func WithDebugPaths() Opt {
	return func(c *Config) {
		c.debug = DebugPaths
	}
}

// WithDebugDetailed enables detailed debug tracing (development only)
func WithDebugDetailed() Opt {
	return func(c *Config) {
		c.debug = DebugDetailed
	}
}

// WithLogger routes token-level debug logs to logger
func WithLogger(logger *slog.Logger) Opt {
	return func(c *Config) {
		c.logger = logger
	}
}

// TokenTelemetry holds per-kind telemetry (production-safe)
type TokenTelemetry struct {
	Kind      Kind
	Count     int
	TotalTime time.Duration
	AvgTime   time.Duration
	MinTime   time.Duration
	MaxTime   time.Duration
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string   // "enter_scan", "skip_separator", "emit_WORD"
	Position  Position // Source position when the event fired
	Context   string   // Current character, lexeme being built, etc.
}
