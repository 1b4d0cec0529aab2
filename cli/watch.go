package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		file   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "watch --file path",
		Short: "Re-parse a file every time it changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" || file == "-" {
				return &CLIError{
					Type:    "usage",
					Message: "watch needs a file",
					Hint:    "Pass the file to watch with --file",
				}
			}
			format, err := a.resolveFormat(cmd, format)
			if err != nil {
				return err
			}
			return a.watch(cmd, file, format)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "File to watch")
	cmd.Flags().StringVar(&format, "format", "", "Output format: tree, inline, stages, json, yaml, cbor or digest")
	return cmd
}

// watch parses file once, then again on every write until the command's
// context is cancelled. Parse failures are reported and watching continues.
func (a *app) watch(cmd *cobra.Command, file, format string) error {
	path, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("error resolving %s: %w", file, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are still seen
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return &CLIError{
			Type:    "watch",
			Message: fmt.Sprintf("cannot watch %s", file),
			Details: err.Error(),
		}
	}
	a.logger.Info("watching", "file", path)

	// Registered before the first parse, so no write is missed
	if err := a.reparse(file, format); err != nil {
		return err
	}

	ctx := cmd.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			a.logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			if err := a.reparse(file, format); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		}
	}
}

// reparse prints one parse of file under a header. Only unexpected errors
// stop the watch; a missing file or a failed parse is reported and skipped.
func (a *app) reparse(file, format string) error {
	_, _ = fmt.Fprintln(a.stdout, Colorize("--- "+file+" ---", ColorCyan, a.useColor))

	src, name, err := a.openSource(nil, file)
	if errors.Is(err, os.ErrNotExist) {
		FormatError(a.stderr, err, a.useColor)
		return nil
	}
	if err != nil {
		return err
	}

	err = a.parseAndDisplay(src, name, format)
	if errors.Is(err, errParseFailed) {
		return nil
	}
	return err
}
