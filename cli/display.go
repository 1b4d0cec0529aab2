package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/pipeparse/core/ast"
	"github.com/aledsdavies/pipeparse/core/astfmt"
	"github.com/aledsdavies/pipeparse/core/astfmt/formatter"
	"github.com/aledsdavies/pipeparse/runtime/lexer"
	"github.com/aledsdavies/pipeparse/runtime/parser"
)

// display renders root in the named output format
func display(w io.Writer, root ast.Node, format string, useColor bool) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "tree":
		formatter.FormatTree(w, root, useColor)
		return nil
	case "inline":
		_, err = fmt.Fprintln(w, formatter.FormatInline(root, useColor))
		return err
	case "stages":
		_, err = io.WriteString(w, formatter.FormatStages(root))
		return err
	case "json":
		data, err = astfmt.MarshalJSON(root)
	case "yaml":
		data, err = astfmt.MarshalYAML(root)
	case "cbor":
		data, err = astfmt.MarshalBinary(root)
	case "digest":
		var digest string
		digest, err = astfmt.Digest(root)
		data = []byte(digest + "\n")
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

// displayTelemetry reports parser metrics on one line
func displayTelemetry(w io.Writer, t *parser.ParseTelemetry) {
	if t == nil {
		return
	}
	_, _ = fmt.Fprintf(w, "telemetry: commands=%d pipes=%d words=%d errors=%d",
		t.CommandCount, t.PipeCount, t.WordCount, t.ErrorCount)
	if t.TotalTime > 0 {
		_, _ = fmt.Fprintf(w, " parse=%s total=%s", t.ParseTime, t.TotalTime)
	}
	_, _ = fmt.Fprintln(w)
}

// displayTokenTelemetry reports per-kind token counts on one line
func displayTokenTelemetry(w io.Writer, telemetry map[lexer.Kind]*lexer.TokenTelemetry) {
	if telemetry == nil {
		return
	}
	_, _ = fmt.Fprint(w, "telemetry:")
	for _, kind := range []lexer.Kind{lexer.WORD, lexer.PIPE, lexer.END} {
		tel, ok := telemetry[kind]
		if !ok {
			continue
		}
		_, _ = fmt.Fprintf(w, " %s=%d", strings.ToLower(kind.String()), tel.Count)
		if tel.TotalTime > 0 {
			_, _ = fmt.Fprintf(w, "/%s", tel.TotalTime)
		}
	}
	_, _ = fmt.Fprintln(w)
}
