// Package commands provides CLI command handlers for docmerge.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/internal/cliutil"
	"github.com/erraggy/docmerge/merger"
)

// Output format constants for reports.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = codec.StdinPath

// ValidateOutputFormat validates a report format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// ValidateOutputPath checks that outputPath does not name one of the inputs.
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	return codec.CheckOutputPath(outputPath, inputPaths)
}

// FormatDocPath returns a display-friendly path for a document.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatDocPath(docPath string) string {
	if docPath == StdinFilePath {
		return "<stdin>"
	}
	return docPath
}

// Writef writes formatted output to the writer.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// newLogger returns a debug-level text logger on w when verbose is set,
// and a no-op logger otherwise.
func newLogger(verbose bool, w io.Writer) merger.Logger {
	if !verbose {
		return merger.NopLogger{}
	}
	return merger.NewSlogAdapter(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

// stderrPalette returns a palette that colors only when stderr is a terminal.
func stderrPalette() *cliutil.Palette {
	return cliutil.NewPalette(cliutil.ColorEnabled(os.Stderr))
}
