// Package report provides report generation for the ESXi report tool.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"esxi-report/internal/model"
	"esxi-report/internal/report/console"
	"esxi-report/internal/report/csv"
	"esxi-report/internal/report/excel"
	"esxi-report/internal/report/jsonout"
)

// Registry manages report writers for the supported output formats.
type Registry struct {
	writers map[string]ReportWriter
	logger  zerolog.Logger
}

// NewRegistry creates a registry with the screen, CSV, Excel and JSON
// writers pre-registered. If timezone is nil, UTC is used.
func NewRegistry(timezone *time.Location, logger zerolog.Logger) *Registry {
	if timezone == nil {
		timezone = time.UTC
	}

	r := &Registry{
		writers: make(map[string]ReportWriter),
		logger:  logger.With().Str("component", "report-registry").Logger(),
	}

	for _, w := range []ReportWriter{
		console.NewWriter(nil, timezone),
		csv.NewWriter(),
		excel.NewWriter(timezone),
		jsonout.NewWriter(nil),
	} {
		r.writers[w.Format()] = w
	}

	return r
}

// Get returns a writer for the specified format.
// Format names are case-insensitive.
func (r *Registry) Get(format string) (ReportWriter, error) {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))

	writer, ok := r.writers[normalizedFormat]
	if !ok {
		supported := r.GetAll()
		return nil, fmt.Errorf("unsupported report format %q, supported formats: %s",
			format, strings.Join(supported, ", "))
	}

	return writer, nil
}

// GetAll returns all supported format names in sorted order.
func (r *Registry) GetAll() []string {
	formats := make([]string, 0, len(r.writers))
	for format := range r.writers {
		formats = append(formats, format)
	}
	sort.Strings(formats)
	return formats
}

// Has checks if the specified format is supported.
func (r *Registry) Has(format string) bool {
	normalizedFormat := strings.ToLower(strings.TrimSpace(format))
	_, ok := r.writers[normalizedFormat]
	return ok
}

// WriteAll renders the set in every requested format. Formats render
// concurrently; the pipeline that produced the set is already done, so
// record order is fixed by now. A failing Excel render downgrades to
// CSV with a warning rather than failing the run; other failures are
// collected and returned.
func (r *Registry) WriteAll(set *model.ReportSet, formats []string, outputBase string) error {
	var g errgroup.Group

	for _, format := range formats {
		g.Go(func() error {
			writer, err := r.Get(format)
			if err != nil {
				return err
			}

			if err := writer.Write(set, outputBase); err != nil {
				if writer.Format() == "excel" {
					// Spreadsheet export must never fail the run.
					r.logger.Warn().Err(err).Msg("spreadsheet export failed, falling back to CSV")
					fallback, fbErr := r.Get("csv")
					if fbErr != nil {
						return fbErr
					}
					return fallback.Write(set, outputBase)
				}
				return fmt.Errorf("%s export failed: %w", format, err)
			}
			return nil
		})
	}

	return g.Wait()
}
