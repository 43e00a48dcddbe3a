// Package cmd implements CLI commands for the ESXi report tool.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"esxi-report/internal/client/rac"
	"esxi-report/internal/client/updatemgr"
	"esxi-report/internal/client/vcenter"
	"esxi-report/internal/config"
	"esxi-report/internal/model"
	"esxi-report/internal/report"
	"esxi-report/internal/report/console"
	"esxi-report/internal/service"
)

// Scope flags. Explicit flags take precedence over the scope file, which
// takes precedence over the scope section of the config file. When all of
// them are empty the report covers every host in the inventory.
var (
	flagHosts       []string
	flagClusters    []string
	flagDatacenters []string
	flagAll         bool
	flagScopeFile   string
)

// Report selection and output flags.
var (
	flagHardware        bool
	flagConfiguration   bool
	flagNetworkPhysical bool
	flagNetworkVMkernel bool
	flagNetworkVSwitch  bool
	flagPatching        bool
	flagFormats         []string
	flagOutputDir       string
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Collect host facts and generate reports",
	Long: `Resolve the host scope, skip unreachable hosts, collect the requested
fact kinds for each reachable host, and render the aggregated results in
the requested output formats.

When no report switch is given the hardware report is produced. When no
scope flag is given the scope comes from the scope file or the config
file, falling back to every host in the inventory.`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVar(&flagHosts, "host", nil, "host name to report on (repeatable)")
	runCmd.Flags().StringSliceVar(&flagClusters, "cluster", nil, "cluster whose hosts to report on (repeatable)")
	runCmd.Flags().StringSliceVar(&flagDatacenters, "datacenter", nil, "datacenter whose hosts to report on (repeatable)")
	runCmd.Flags().BoolVar(&flagAll, "all", false, "report on every host in the inventory")
	runCmd.Flags().StringVar(&flagScopeFile, "scope-file", "", "YAML file listing hosts, clusters and datacenters")

	runCmd.Flags().BoolVar(&flagHardware, "hardware", false, "collect the hardware report (default when no kind is selected)")
	runCmd.Flags().BoolVar(&flagConfiguration, "configuration", false, "collect the configuration report")
	runCmd.Flags().BoolVar(&flagNetworkPhysical, "network-physical", false, "collect the physical NIC report")
	runCmd.Flags().BoolVar(&flagNetworkVMkernel, "network-vmkernel", false, "collect the VMkernel NIC report")
	runCmd.Flags().BoolVar(&flagNetworkVSwitch, "network-vswitch", false, "collect the virtual switch report")
	runCmd.Flags().BoolVar(&flagPatching, "patching", false, "collect the patch compliance report")

	runCmd.Flags().StringSliceVarP(&flagFormats, "format", "f", nil, "output formats (screen, csv, excel, json)")
	runCmd.Flags().StringVarP(&flagOutputDir, "output", "o", "", "output directory for file formats")
}

// runReport executes the run command logic.
func runReport(cmd *cobra.Command, args []string) error {
	printBanner()

	// 1. Load configuration
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Setup logging
	logger, err := setupLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}

	logger.Info().
		Str("version", Version).
		Str("config", GetConfigFile()).
		Msg("Starting host report run")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Determine scope and report kinds
	selector, err := buildSelector(cfg)
	if err != nil {
		return err
	}
	kinds := selectedKinds()

	// 4. Create vCenter client and establish a session
	vcClient := vcenter.NewClient(&cfg.VCenter, &cfg.HTTP.Retry, logger)
	if err := vcClient.Login(ctx); err != nil {
		return fmt.Errorf("failed to log in to %s: %w", cfg.VCenter.Endpoint, err)
	}

	var racClient *rac.Client
	if cfg.RAC.Enabled {
		racClient = rac.NewClient(&cfg.RAC, logger)
	}
	umClient := updatemgr.NewClient(vcClient.HTTPClient(), &cfg.UpdateManager, logger)

	// 5. Wire the report pipeline
	resolver := service.NewResolver(vcClient, logger)
	gate := service.NewGate(vcClient, logger)
	collector := service.NewCollector(vcClient, racClient, umClient, logger)

	reporter, err := service.NewReporter(cfg, resolver, gate, collector, umClient, logger,
		service.WithVersion(Version))
	if err != nil {
		return fmt.Errorf("failed to create reporter: %w", err)
	}

	// 6. Run the pipeline
	set, err := reporter.Run(ctx, selector, kinds)
	if err != nil {
		return fmt.Errorf("report run failed: %w", err)
	}

	// 7. Render the results
	registry := report.NewRegistry(reporter.GetTimezone(), logger)
	formats := outputFormats(cfg, registry)

	if set.Empty() {
		fmt.Println("\n⚠️  No information was gathered; no report files were written.")
		printSkipped(set, reporter)
		return nil
	}

	outputBase := resolveOutputBase(cfg, reporter.GetTimezone(), logger)
	if err := registry.WriteAll(set, formats, outputBase); err != nil {
		return fmt.Errorf("failed to write reports: %w", err)
	}

	printSummary(set, formats, outputBase)
	// The screen writer already ends with the skipped-host table.
	if !containsFormat(formats, "screen") {
		printSkipped(set, reporter)
	}
	return nil
}

func containsFormat(formats []string, name string) bool {
	for _, format := range formats {
		if format == name {
			return true
		}
	}
	return false
}

// buildSelector derives the host scope from flags, the scope file, or the
// config file, in that order of precedence.
func buildSelector(cfg *config.Config) (*model.HostSelector, error) {
	fromFlags := &model.HostSelector{
		Hosts:       flagHosts,
		Clusters:    flagClusters,
		Datacenters: flagDatacenters,
		All:         flagAll,
	}
	if !fromFlags.IsEmpty() {
		return fromFlags, nil
	}

	if flagScopeFile != "" {
		selector, err := config.LoadScopeFile(flagScopeFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load scope file: %w", err)
		}
		return selector, nil
	}

	return &model.HostSelector{
		Hosts:       cfg.Scope.Hosts,
		Clusters:    cfg.Scope.Clusters,
		Datacenters: cfg.Scope.Datacenters,
	}, nil
}

// selectedKinds maps the report switches to report kinds. With no switch
// set the hardware report is the default.
func selectedKinds() []model.ReportKind {
	var kinds []model.ReportKind
	if flagHardware {
		kinds = append(kinds, model.KindHardware)
	}
	if flagConfiguration {
		kinds = append(kinds, model.KindConfiguration)
	}
	if flagNetworkPhysical {
		kinds = append(kinds, model.KindNetworkPhysical)
	}
	if flagNetworkVMkernel {
		kinds = append(kinds, model.KindNetworkVMkernel)
	}
	if flagNetworkVSwitch {
		kinds = append(kinds, model.KindNetworkVSwitch)
	}
	if flagPatching {
		kinds = append(kinds, model.KindPatching)
	}
	if len(kinds) == 0 {
		kinds = []model.ReportKind{model.KindHardware}
	}
	return kinds
}

// outputFormats returns the formats from the flag or the config, dropping
// unknown names with a warning rather than failing the run.
func outputFormats(cfg *config.Config, registry *report.Registry) []string {
	requested := flagFormats
	if len(requested) == 0 {
		requested = cfg.Report.Formats
	}
	if len(requested) == 0 {
		requested = []string{"screen"}
	}

	var formats []string
	for _, format := range requested {
		name := strings.ToLower(strings.TrimSpace(format))
		if !registry.Has(name) {
			fmt.Printf("⚠️  Unknown output format %q, skipping (available: %s)\n",
				format, strings.Join(registry.GetAll(), ", "))
			continue
		}
		formats = append(formats, name)
	}
	if len(formats) == 0 {
		formats = []string{"screen"}
	}
	return formats
}

// resolveOutputBase picks the output directory (flag over config) and joins
// it with the generated filename base. A missing directory falls back to
// the current working directory with a warning instead of failing the run.
func resolveOutputBase(cfg *config.Config, timezone *time.Location, logger zerolog.Logger) string {
	dir := flagOutputDir
	if dir == "" {
		dir = cfg.Report.OutputDir
	}

	if dir != "" {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logger.Warn().
				Str("output_dir", dir).
				Msg("Output directory does not exist, falling back to the current directory")
			dir = ""
		}
	}
	if dir == "" {
		dir = "."
	}

	return filepath.Join(dir, generateFilename(cfg.Report.FilenameTemplate, timezone))
}

// generateFilename renders the filename template. The template may reference
// {{.Date}}; rendering failures fall back to a plain timestamped name.
func generateFilename(filenameTemplate string, timezone *time.Location) string {
	if filenameTemplate == "" {
		filenameTemplate = "esxi_report_{{.Date}}"
	}

	data := struct {
		Date string
	}{
		Date: time.Now().In(timezone).Format("2006-01-02_15-04-05"),
	}

	tmpl, err := template.New("filename").Parse(filenameTemplate)
	if err != nil {
		return "esxi_report_" + data.Date
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "esxi_report_" + data.Date
	}
	return buf.String()
}

// setupLogger configures zerolog according to the config file and the
// --log-level flag. The flag wins when both are set.
func setupLogger(cfg *config.Config) (zerolog.Logger, error) {
	levelName := cfg.Logging.Level
	if GetLogLevel() != "" {
		levelName = GetLogLevel()
	}

	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level %s: %w", levelName, err)
	}

	var logger zerolog.Logger
	if cfg.Logging.Format == "console" {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		logger = zerolog.New(output).Level(level).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	return logger, nil
}

// printBanner prints the tool banner.
func printBanner() {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║          ESXi Host Report             ║")
	fmt.Println("╚═══════════════════════════════════════╝")
}

// printSummary prints the run summary after the reports were written.
func printSummary(set *model.ReportSet, formats []string, outputBase string) {
	fmt.Println("\n✅ Report run finished")
	fmt.Printf("   Records:  %d\n", set.RecordCount())
	for _, kind := range set.Kinds {
		if collection := set.Collections[kind]; collection != nil {
			fmt.Printf("     %-18s %d\n", kind.Title()+":", len(collection.Records))
		}
	}
	fmt.Printf("   Skipped:  %d host(s)\n", len(set.Skipped))
	fmt.Printf("   Duration: %s\n", set.Duration.Round(time.Second))
	fmt.Printf("   Formats:  %s\n", strings.Join(formats, ", "))
	for _, format := range formats {
		switch format {
		case "csv":
			fmt.Printf("   CSV:      %s_<kind>.csv\n", outputBase)
		case "excel":
			fmt.Printf("   Excel:    %s.xlsx\n", outputBase)
		}
	}
}

// printSkipped renders the skipped-host table. Skips are always shown so an
// operator can see at a glance which hosts were left out of the report.
func printSkipped(set *model.ReportSet, reporter *service.Reporter) {
	if len(set.Skipped) == 0 {
		return
	}
	writer := console.NewWriter(os.Stdout, reporter.GetTimezone())
	writer.RenderSkipped(set.Skipped)
}
