package main

import (
	"github.com/spf13/cobra"

	"github.com/aledsdavies/pipeparse/core/ast"
	"github.com/aledsdavies/pipeparse/runtime/config"
	"github.com/aledsdavies/pipeparse/runtime/parser"
	"github.com/aledsdavies/pipeparse/runtime/source"
)

func newParseCmd(a *app) *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "parse [pipeline]",
		Short: "Parse a pipeline and print its syntax tree",
		Long: `Parse a pipeline given inline, read from --file, or piped on stdin.

Exits 1 when the input is not a valid pipeline.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := a.resolveFormat(cmd, format)
			if err != nil {
				return err
			}

			src, name, err := a.openSource(args, file)
			if err != nil {
				return err
			}
			return a.parseAndDisplay(src, name, format)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the pipeline from a file (- for stdin)")
	cmd.Flags().StringVar(&format, "format", "", "Output format: tree, inline, stages, json, yaml, cbor or digest")
	return cmd
}

// resolveFormat prefers an explicit --format over PIPEPARSE_FORMAT
func (a *app) resolveFormat(cmd *cobra.Command, format string) (string, error) {
	if !cmd.Flags().Changed("format") {
		return a.cfg.Format, nil
	}
	if err := checkChoice("format", format, config.Formats); err != nil {
		return "", err
	}
	return format, nil
}

// parseAndDisplay parses src and prints the result. A failed parse is still
// printed before errParseFailed is returned.
func (a *app) parseAndDisplay(src *source.Bytes, name, format string) error {
	result := parser.ParseSource(src, a.parserOpts()...)
	defer ast.Release(result.Root)

	if err := display(a.stdout, result.Root, format, a.useColor); err != nil {
		return err
	}
	displayTelemetry(a.stderr, result.Telemetry)

	if e := ast.FirstError(result.Root); e != nil {
		FormatError(a.stderr, parseError(name, result.Root, e), a.useColor)
		return errParseFailed
	}
	return nil
}
