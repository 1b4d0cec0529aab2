package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/pipeparse/runtime/config"
	"github.com/aledsdavies/pipeparse/runtime/parser"
)

// errParseFailed exits 1 after the parse result has already been reported
var errParseFailed = errors.New("parse failed")

// app carries the streams and resolved settings shared by all subcommands
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// stdinPiped reports whether stdin carries data rather than a terminal
	stdinPiped func() bool

	// flags
	debug     bool
	noColor   bool
	telemetry string

	cfg      *config.Config
	logger   *slog.Logger
	useColor bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:      stdin,
		stdout:     stdout,
		stderr:     stderr,
		stdinPiped: hasPipedInput,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, newApp(os.Stdin, os.Stdout, os.Stderr), os.Args[1:])
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit code
func run(ctx context.Context, a *app, args []string) int {
	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errParseFailed) {
			FormatError(a.stderr, err, a.useColor)
		}
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pipeparse",
		Short:         "Tokenize and parse shell-style command pipelines",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging on stderr")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&a.telemetry, "telemetry", "", "Report parse telemetry on stderr: off, basic or timing")

	rootCmd.AddCommand(newParseCmd(a), newTokensCmd(a), newWatchCmd(a))
	return rootCmd
}

// setup loads the environment config and lets explicit flags override it
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return &CLIError{
			Type:    "config",
			Message: "invalid environment configuration",
			Details: err.Error(),
			Hint:    fmt.Sprintf("Check the %s_* environment variables", config.Prefix),
		}
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if flags.Changed("no-color") {
		cfg.NoColor = a.noColor
	}
	if flags.Changed("telemetry") {
		if err := checkChoice("telemetry mode", a.telemetry, config.TelemetryModes); err != nil {
			return err
		}
		cfg.Telemetry = a.telemetry
	}

	a.cfg = cfg
	a.useColor = ShouldUseColor(cfg.NoColor, a.stdout)
	a.logger = newLogger(a.stderr, cfg.LogLevel())
	a.logger.Debug("config loaded", "format", cfg.Format, "telemetry", cfg.Telemetry, "color", a.useColor)
	return nil
}

// parserOpts maps the resolved settings onto parser options
func (a *app) parserOpts() []parser.Opt {
	opts := []parser.Opt{parser.WithLogger(a.logger)}
	switch a.cfg.Telemetry {
	case "basic":
		opts = append(opts, parser.WithTelemetryBasic())
	case "timing":
		opts = append(opts, parser.WithTelemetryTiming())
	}
	return opts
}

// checkChoice rejects values outside choices, suggesting the closest one
func checkChoice(what, value string, choices []string) error {
	if slices.Contains(choices, value) {
		return nil
	}

	err := &CLIError{
		Type:    "usage",
		Message: fmt.Sprintf("unknown %s %q", what, value),
		Details: fmt.Sprintf("Valid values: %v", choices),
	}
	if suggestion := findClosestMatch(value, choices); suggestion != "" {
		err.Hint = fmt.Sprintf("Did you mean %q?", suggestion)
	}
	return err
}

// newLogger builds the stderr text logger; timestamps are dropped so debug
// traces diff cleanly
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) == 0 && attr.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return attr
		},
	}))
}
