package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/pipeparse/runtime/lexer"
)

func newTokensCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "tokens [pipeline]",
		Short: "Print the token stream of a pipeline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, _, err := a.openSource(args, file)
			if err != nil {
				return err
			}

			tok := lexer.New(src, a.lexerOpts()...)
			defer tok.Release()

			for tok.HasNext() {
				token := tok.Next()
				a.printToken(token)
				token.Release()
			}
			// END stays buffered so every scanned token is printed exactly once
			a.printToken(tok.Peek())

			displayTokenTelemetry(a.stderr, tok.Telemetry())
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the pipeline from a file (- for stdin)")
	return cmd
}

// lexerOpts maps the resolved settings onto tokenizer options
func (a *app) lexerOpts() []lexer.Opt {
	opts := []lexer.Opt{lexer.WithLogger(a.logger)}
	switch a.cfg.Telemetry {
	case "basic":
		opts = append(opts, lexer.WithTelemetryBasic())
	case "timing":
		opts = append(opts, lexer.WithTelemetryTiming())
	}
	return opts
}

// printToken prints one token as: KIND "lexeme" line:col
func (a *app) printToken(token lexer.Token) {
	kind := token.Kind.String()
	switch token.Kind {
	case lexer.PIPE:
		kind = Colorize(kind, ColorYellow, a.useColor)
	case lexer.END:
		kind = Colorize(kind, ColorGray, a.useColor)
	}
	_, _ = fmt.Fprintf(a.stdout, "%-4s %q %d:%d\n", kind, token.String(), token.Position.Line, token.Position.Column)
}
