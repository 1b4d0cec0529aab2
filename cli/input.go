package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/pipeparse/runtime/source"
)

// openSource handles the 3 modes of input:
// 1. An inline pipeline given as the argument
// 2. A file with -f, or stdin with -f -
// 3. Piped stdin when neither is given
func (a *app) openSource(args []string, file string) (*source.Bytes, string, error) {
	switch {
	case len(args) > 0 && file != "":
		return nil, "", &CLIError{
			Type:    "usage",
			Message: "both an inline pipeline and --file were given",
			Hint:    "Pass one input source",
		}
	case len(args) > 0:
		return source.NewString(args[0]), "<arg>", nil
	case file == "-":
		return a.readSource(a.stdin, "<stdin>")
	case file != "":
		f, err := os.Open(file)
		if err != nil {
			return nil, "", fmt.Errorf("error opening file %s: %w", file, err)
		}
		defer func() { _ = f.Close() }()
		return a.readSource(f, file)
	case a.stdinPiped():
		return a.readSource(a.stdin, "<stdin>")
	default:
		return nil, "", &CLIError{
			Type:    "usage",
			Message: "no input",
			Hint:    "Pass a pipeline as an argument, use --file, or pipe text on stdin",
		}
	}
}

func (a *app) readSource(r io.Reader, name string) (*source.Bytes, string, error) {
	src, err := source.FromReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("error reading %s: %w", name, err)
	}
	return src, name, nil
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	// Check if stdin is not a character device (i.e., it's piped)
	// Note: We don't check Size() > 0 because pipes may not report size correctly
	return (stat.Mode() & os.ModeCharDevice) == 0
}
