// Package csv provides CSV report generation for the ESXi report tool.
// Each non-empty collection is written to its own file next to the
// output base path; the skip list gets a file of its own.
package csv

import (
	stdcsv "encoding/csv"
	"fmt"
	"os"

	"esxi-report/internal/model"
)

// Writer implements report.ReportWriter for CSV format.
type Writer struct{}

// NewWriter creates a new CSV report writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "csv"
}

// Write renders one CSV file per requested report kind, named
// "<base>_<kind>.csv", plus "<base>_skipped.csv" when hosts were
// skipped. Collections that stayed empty still produce a header-only
// file so downstream tooling sees a stable file set.
func (w *Writer) Write(set *model.ReportSet, outputBase string) error {
	if set == nil {
		return fmt.Errorf("report set is nil")
	}

	for _, kind := range set.Kinds {
		collection := set.Collections[kind]
		if collection == nil {
			continue
		}

		path := fmt.Sprintf("%s_%s.csv", outputBase, kind)
		if err := w.writeCollection(collection, path); err != nil {
			return err
		}
	}

	if len(set.Skipped) > 0 {
		path := outputBase + "_skipped.csv"
		if err := w.writeSkipped(set.Skipped, path); err != nil {
			return err
		}
	}

	return nil
}

// writeCollection writes one collection's header and rows.
func (w *Writer) writeCollection(collection *model.ReportCollection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := stdcsv.NewWriter(f)
	if err := cw.Write(collection.Header()); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, record := range collection.Records {
		if err := cw.Write(record.Row()); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// writeSkipped writes the skipped-host summary.
func (w *Writer) writeSkipped(skipped []model.SkipRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := stdcsv.NewWriter(f)
	if err := cw.Write(model.SkipHeader()); err != nil {
		return fmt.Errorf("failed to write header to %s: %w", path, err)
	}
	for _, skip := range skipped {
		if err := cw.Write([]string{skip.Hostname, string(skip.ConnectionState)}); err != nil {
			return fmt.Errorf("failed to write row to %s: %w", path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
