//go:build ignore
// +build ignore

// This script generates a sample Excel report for manual verification.
// Run with: go run scripts/verify_excel.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"esxi-report/internal/model"
	"esxi-report/internal/report/excel"
)

func main() {
	set := createSampleData()

	writer := excel.NewWriter(time.UTC)

	outputPath := filepath.Join(".", "sample_esxi_report.xlsx")
	if err := writer.Write(set, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Excel report generated: %s\n", outputPath)
	fmt.Println("\nPlease open the file to verify:")
	fmt.Println("  - One sheet per report kind, plus a Skipped Hosts sheet")
	fmt.Println("  - Header row has a blue background with white bold text")
	fmt.Println("  - First column is wide enough for host names")
}

func createSampleData() *model.ReportSet {
	kinds := []model.ReportKind{model.KindHardware, model.KindConfiguration}
	set := model.NewReportSet(kinds, time.Now().UTC())
	set.Version = "dev"

	set.Append(&model.HardwareRecord{
		Hostname:     "esx01.lab.local",
		Cluster:      "prod-cluster",
		Manufacturer: "Dell Inc.",
		Model:        "PowerEdge R750",
		SerialNumber: "ABC1234",
		BIOSVersion:  "1.8.2",
		CPUModel:     "Intel(R) Xeon(R) Gold 6338",
		CPUSockets:   2,
		CPUCores:     64,
		MemoryGB:     512,
		NICCount:     4,
		NICFirmware:  "vmnic0: 22.31.6; vmnic1: 22.31.6",
		RACAddress:   "10.0.0.11",
		RACFirmware:  "6.10.30.00",
	})
	set.Append(&model.ConfigurationRecord{
		Hostname:    "esx01.lab.local",
		Version:     "8.0.2",
		Build:       "22380479",
		InstallType: model.InstallInstallable,
		NTPServers:  "ntp1.lab.local; ntp2.lab.local",
		Uptime:      "42d 3h 17m",
	})
	set.AddSkip(model.SkipRecord{
		Hostname:        "esx02.lab.local",
		ConnectionState: model.StateNotResponding,
	})

	set.Finalize(time.Now().UTC())
	return set
}
