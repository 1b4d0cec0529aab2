package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/aledsdavies/pipeparse/core/ast"
)

// CLIError represents a formatted CLI error with context
type CLIError struct {
	Type    string // "usage", "config", "parse", "watch"
	Message string
	Details string // Additional context
	Hint    string // How to fix it
}

// Error implements the error interface
func (e *CLIError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Details != "" {
		b.WriteString("\n")
		b.WriteString(e.Details)
	}
	if e.Hint != "" {
		b.WriteString("\n")
		b.WriteString(e.Hint)
	}
	return b.String()
}

// FormatError formats an error for CLI output with colors
func FormatError(w io.Writer, err error, useColor bool) {
	if err == nil {
		return
	}

	switch e := err.(type) {
	case *CLIError:
		formatCLIError(w, e, useColor)
	default:
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Error())
	}
}

// formatCLIError formats CLI errors
func formatCLIError(w io.Writer, err *CLIError, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Error: ", ColorRed, useColor), err.Message)

	if err.Details != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", err.Details)
	}

	if err.Hint != "" {
		_, _ = fmt.Fprintf(w, "%s%s\n", Colorize("Hint: ", ColorYellow, useColor), err.Hint)
	}
}

// parseError describes the first error node of a failed parse. The hint
// depends on whether the error replaced the whole input or a stage after '|'.
func parseError(name string, root ast.Node, e *ast.ErrorNode) *CLIError {
	err := &CLIError{
		Type:    "parse",
		Message: fmt.Sprintf("%s:%s: %s", name, e.Pos.String(), e.Message),
	}

	atRoot := root == ast.Node(e)
	switch {
	case e.Message == ast.MsgEndOfStream && atRoot:
		err.Hint = "The input is empty; pass a pipeline such as 'ls | wc'"
	case e.Message == ast.MsgEndOfStream:
		err.Hint = "A pipe must be followed by a command"
	case e.Message == ast.MsgExpectedWord && atRoot:
		err.Hint = "A pipeline must start with a command, not '|'"
	case e.Message == ast.MsgExpectedWord:
		err.Hint = "Every stage must start with a word; remove the extra '|'"
	}
	return err
}
