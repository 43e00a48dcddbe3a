// Package report provides report generation for the ESXi report tool.
// It defines the ReportWriter interface and a registry covering the
// screen, CSV, Excel and JSON output formats.
package report

import (
	"esxi-report/internal/model"
)

// ReportWriter defines the interface for rendering a report set.
// File-based implementations treat outputPath as the destination base
// path (extension handling is format specific); stream-based
// implementations (screen, json) ignore it.
type ReportWriter interface {
	// Write renders the report set. Returns an error if rendering or
	// file writing fails.
	Write(set *model.ReportSet, outputPath string) error

	// Format returns the format identifier for this writer.
	// Known values are "screen", "csv", "excel" and "json".
	Format() string
}
