// Package jsonout provides the machine-readable output mode: the whole
// report set marshalled as JSON to standard output. This is the
// "return value" counterpart to the human-facing formats, intended for
// piping into other tooling.
package jsonout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"esxi-report/internal/model"
)

// Writer implements report.ReportWriter for JSON output.
type Writer struct {
	out io.Writer
}

// NewWriter creates a new JSON writer. A nil out defaults to stdout.
func NewWriter(out io.Writer) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{out: out}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "json"
}

// Write marshals the report set to the output stream. The outputPath
// is ignored: JSON goes to the stream, not to a file.
func (w *Writer) Write(set *model.ReportSet, outputPath string) error {
	if set == nil {
		return fmt.Errorf("report set is nil")
	}

	enc := json.NewEncoder(w.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("failed to encode report set: %w", err)
	}
	return nil
}
