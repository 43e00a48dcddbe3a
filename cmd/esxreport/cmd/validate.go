// Package cmd implements CLI commands for the ESXi report tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"esxi-report/internal/config"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long:  "Load and validate the configuration file, checking format, required fields, value ranges and cross-field constraints.",
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate executes the validate command logic.
func runValidate(cmd *cobra.Command, args []string) {
	configPath := GetConfigFile()

	// Load and validate configuration (Load internally calls Validate)
	_, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ config validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ config file is valid: %s\n", configPath)
}
