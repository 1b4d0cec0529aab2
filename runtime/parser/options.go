package parser

import (
	"log/slog"
	"time"

	"github.com/aledsdavies/pipeparse/runtime/lexer"
)

// Opt represents a parser configuration option
type Opt func(*Config)

// TelemetryMode controls telemetry collection (production-safe)
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Node counts only
	TelemetryTiming                      // Node counts + timing
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff      DebugLevel = iota // No debug info (default)
	DebugPaths                      // Method call tracing
	DebugDetailed                   // Token-level tracing
)

// Config holds parser configuration
type Config struct {
	telemetry TelemetryMode
	debug     DebugLevel
	logger    *slog.Logger
	lexerOpts []lexer.Opt
}

// WithTelemetryBasic enables basic telemetry (node counts only)
func WithTelemetryBasic() Opt {
	return func(c *Config) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry (counts + timing)
func WithTelemetryTiming() Opt {
	return func(c *Config) {
		c.telemetry = TelemetryTiming
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

// WithLogger routes parser debug logs to logger. The logger is also handed
// to tokenizers created by ParseString and ParseSource.
func WithLogger(logger *slog.Logger) Opt {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithLexerOpts passes options to tokenizers created by ParseString and
// ParseSource. Parse ignores them; its tokenizer is already built.
func WithLexerOpts(opts ...lexer.Opt) Opt {
	return func(c *Config) {
		c.lexerOpts = append(c.lexerOpts, opts...)
	}
}

// ParseTelemetry holds parser metrics (production-safe)
type ParseTelemetry struct {
	CommandCount int           // Command nodes built
	PipeCount    int           // Pipe nodes built
	WordCount    int           // Words collected across all commands
	ErrorCount   int           // Error nodes built
	ParseTime    time.Duration // Time spent in the recursive descent
	TotalTime    time.Duration // Including tokenizer construction for ParseString
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string         // "enter_pipeline", "exit_command", etc.
	Position  lexer.Position // Position of the lookahead token
	Context   string         // Additional context
}
