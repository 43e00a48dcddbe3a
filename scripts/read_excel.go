//go:build ignore
// +build ignore

// This script dumps a generated Excel report to stdout so its sheets and
// cell contents can be checked without opening a spreadsheet application.
// Run with: go run scripts/read_excel.go <report.xlsx>
package main

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: read_excel <report.xlsx>")
		os.Exit(1)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		fmt.Printf("=== %s ===\n", sheet)
		rows, err := f.GetRows(sheet)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading sheet %s: %v\n", sheet, err)
			continue
		}
		for _, row := range rows {
			fmt.Println(row)
		}
		fmt.Println()
	}
}
