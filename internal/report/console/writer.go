// Package console provides the screen output mode: report collections
// rendered as text tables on standard output.
package console

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"esxi-report/internal/model"
)

// Writer implements report.ReportWriter for screen output.
type Writer struct {
	out      io.Writer
	timezone *time.Location
}

// NewWriter creates a new screen writer. A nil out defaults to stdout;
// a nil timezone defaults to UTC.
func NewWriter(out io.Writer, timezone *time.Location) *Writer {
	if out == nil {
		out = os.Stdout
	}
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{out: out, timezone: timezone}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "screen"
}

// Write renders each requested collection as a table, followed by the
// skipped-host summary. The outputPath is ignored.
func (w *Writer) Write(set *model.ReportSet, outputPath string) error {
	if set == nil {
		return fmt.Errorf("report set is nil")
	}

	fmt.Fprintf(w.out, "Report generated %s\n",
		set.GeneratedAt.In(w.timezone).Format("2006-01-02 15:04:05 MST"))

	for _, kind := range set.Kinds {
		collection := set.Collections[kind]
		if collection == nil {
			continue
		}

		fmt.Fprintf(w.out, "\n%s (%d hosts)\n", kind.Title(), len(collection.Records))
		w.renderCollection(collection)
	}

	w.RenderSkipped(set.Skipped)
	return nil
}

// renderCollection renders one collection as a table.
func (w *Writer) renderCollection(collection *model.ReportCollection) {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(toRow(collection.Header()))
	for _, record := range collection.Records {
		t.AppendRow(toRow(record.Row()))
	}
	t.Render()
}

// RenderSkipped renders the skipped-host summary table. The summary is
// shown at the end of every run, whatever output format was chosen.
func (w *Writer) RenderSkipped(skipped []model.SkipRecord) {
	if len(skipped) == 0 {
		return
	}

	fmt.Fprintf(w.out, "\nSkipped Hosts (%d)\n", len(skipped))
	t := table.NewWriter()
	t.SetOutputMirror(w.out)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(toRow(model.SkipHeader()))
	for _, skip := range skipped {
		t.AppendRow(table.Row{skip.Hostname, string(skip.ConnectionState)})
	}
	t.Render()
}

// toRow converts a string slice into a table row.
func toRow(values []string) table.Row {
	row := make(table.Row, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
