// Package excel provides spreadsheet report generation for the ESXi
// report tool. It implements the report.ReportWriter interface and
// renders one named worksheet per report kind plus a skipped-host
// sheet.
package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"esxi-report/internal/model"
)

const (
	// Sheet for skipped hosts
	sheetSkipped = "Skipped Hosts"

	// Default sheet to remove
	defaultSheet = "Sheet1"

	// Colors (RGB without #)
	colorHeaderBg = "4472C4" // Blue background for header
	colorHeaderFg = "FFFFFF" // White text for header

	// Column widths
	defaultColWidth = 18.0
	wideColWidth    = 30.0
)

// Writer implements report.ReportWriter for Excel format.
type Writer struct {
	timezone *time.Location
}

// NewWriter creates a new Excel report writer.
// If timezone is nil, it defaults to UTC.
func NewWriter(timezone *time.Location) *Writer {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Writer{
		timezone: timezone,
	}
}

// Format returns the format identifier for this writer.
func (w *Writer) Format() string {
	return "excel"
}

// Write generates an Excel report with one worksheet per report kind.
func (w *Writer) Write(set *model.ReportSet, outputPath string) error {
	if set == nil {
		return fmt.Errorf("report set is nil")
	}

	// Ensure output path has .xlsx extension
	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := w.createHeaderStyle(f)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	var firstSheet string
	for _, kind := range set.Kinds {
		collection := set.Collections[kind]
		if collection == nil {
			continue
		}
		if err := w.createKindSheet(f, collection, headerStyle); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", kind, err)
		}
		if firstSheet == "" {
			firstSheet = kind.Title()
		}
	}

	if err := w.createSkippedSheet(f, set.Skipped, headerStyle); err != nil {
		return fmt.Errorf("failed to create skipped sheet: %w", err)
	}

	// Remove default Sheet1
	f.DeleteSheet(defaultSheet)

	// Set active sheet to the first report kind
	if firstSheet != "" {
		if idx, err := f.GetSheetIndex(firstSheet); err == nil {
			f.SetActiveSheet(idx)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}

// createKindSheet renders one collection onto its own worksheet.
func (w *Writer) createKindSheet(f *excelize.File, collection *model.ReportCollection, headerStyle int) error {
	sheet := collection.Kind.Title()
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := collection.Header()
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	// Style the header row
	if len(header) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, 1)
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		f.SetCellStyle(sheet, first, last, headerStyle)
	}

	for i, record := range collection.Records {
		for col, value := range record.Row() {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	w.setColumnWidths(f, sheet, header)
	return nil
}

// createSkippedSheet renders the skipped-host summary worksheet.
// The sheet exists even when nothing was skipped so readers see the
// check happened.
func (w *Writer) createSkippedSheet(f *excelize.File, skipped []model.SkipRecord, headerStyle int) error {
	if _, err := f.NewSheet(sheetSkipped); err != nil {
		return err
	}

	header := model.SkipHeader()
	for col, name := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetSkipped, cell, name); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	f.SetCellStyle(sheetSkipped, first, last, headerStyle)

	for i, skip := range skipped {
		row := []string{skip.Hostname, string(skip.ConnectionState)}
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheetSkipped, cell, value); err != nil {
				return err
			}
		}
	}

	w.setColumnWidths(f, sheetSkipped, header)
	return nil
}

// createHeaderStyle creates the style used for all header rows.
func (w *Writer) createHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:  true,
			Color: colorHeaderFg,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{colorHeaderBg},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// setColumnWidths widens the hostname column and applies the default
// width everywhere else.
func (w *Writer) setColumnWidths(f *excelize.File, sheet string, header []string) {
	for col := range header {
		name, _ := excelize.ColumnNumberToName(col + 1)
		width := defaultColWidth
		if col == 0 {
			width = wideColWidth
		}
		f.SetColWidth(sheet, name, name, width)
	}
}
