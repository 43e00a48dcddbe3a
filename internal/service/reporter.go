// Package service provides the host-resolution and report-aggregation
// pipeline for the ESXi report tool.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"esxi-report/internal/client/updatemgr"
	"esxi-report/internal/config"
	"esxi-report/internal/model"
)

const defaultTimezone = "UTC"

// Reporter orchestrates one report run: scope resolution, the patch
// scan prerequisite, the per-host gate/collect loop, and aggregation.
// Hosts are processed strictly one at a time in resolved order.
type Reporter struct {
	resolver  *Resolver
	gate      *Gate
	collector *Collector
	um        *updatemgr.Client
	config    *config.Config
	timezone  *time.Location
	version   string
	logger    zerolog.Logger
}

// ReporterOption is a functional option for configuring a Reporter.
type ReporterOption func(*Reporter)

// NewReporter creates a new Reporter with the given dependencies.
func NewReporter(
	cfg *config.Config,
	resolver *Resolver,
	gate *Gate,
	collector *Collector,
	um *updatemgr.Client,
	logger zerolog.Logger,
	opts ...ReporterOption,
) (*Reporter, error) {
	// Determine timezone from config or use default
	tzName := defaultTimezone
	if cfg != nil && cfg.Report.Timezone != "" {
		tzName = cfg.Report.Timezone
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %s: %w", tzName, err)
	}

	r := &Reporter{
		resolver:  resolver,
		gate:      gate,
		collector: collector,
		um:        um,
		config:    cfg,
		timezone:  loc,
		version:   "dev",
		logger:    logger.With().Str("component", "reporter").Logger(),
	}

	// Apply options
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// WithVersion sets the tool version to include in the report set.
func WithVersion(version string) ReporterOption {
	return func(r *Reporter) {
		r.version = version
	}
}

// Run executes the complete report workflow:
//  1. resolves the host scope (fatal when no session exists)
//  2. prepares the patch-scan prerequisite when patching was requested
//  3. gates and collects each host sequentially
//  4. finalizes the aggregated report set
func (r *Reporter) Run(ctx context.Context, selector *model.HostSelector, kinds []model.ReportKind) (*model.ReportSet, error) {
	startTime := time.Now().In(r.timezone)
	r.logger.Info().
		Time("start_time", startTime).
		Str("timezone", r.timezone.String()).
		Int("kinds", len(kinds)).
		Msg("starting report run")

	set := model.NewReportSet(kinds, startTime)
	set.Version = r.version

	// Step 1: Resolve scope
	resolution, err := r.resolver.Resolve(ctx, selector)
	if err != nil {
		r.logger.Error().Err(err).Msg("scope resolution failed")
		return nil, err
	}

	// Step 2: Patch-scan prerequisite
	var baseline *updatemgr.Baseline
	if kindRequested(kinds, model.KindPatching) {
		baseline, err = r.prepareScan(ctx, resolution.Entities)
		if err != nil {
			// A missing baseline is fatal; scan degradations are not.
			return nil, err
		}
	}

	// Step 3: Per-host loop, strictly sequential in resolved order
	for _, ref := range resolution.Hosts {
		state, reachable := r.gate.Check(ctx, ref)
		if !reachable {
			set.AddSkip(model.SkipRecord{Hostname: ref.Name, ConnectionState: state})
			continue
		}

		for _, record := range r.collector.Collect(ctx, ref, kinds, baseline) {
			set.Append(record)
		}
	}

	// Step 4: Finalize
	set.Finalize(time.Now().In(r.timezone))

	if set.Empty() {
		r.logger.Warn().
			Int("skipped", len(set.Skipped)).
			Msg("no information gathered")
	}

	r.logger.Info().
		Int("hosts_resolved", len(resolution.Hosts)).
		Int("records", set.RecordCount()).
		Int("skipped", len(set.Skipped)).
		Dur("duration", set.Duration).
		Msg("report run completed")

	return set, nil
}

// prepareScan resolves the baseline (fatal when the pattern matches
// nothing), attaches it to each scope entity, triggers the scans, and
// waits for them. Attach, trigger and wait failures degrade to
// warnings: the affected hosts report empty compliance fields.
func (r *Reporter) prepareScan(ctx context.Context, entities []ScopeEntity) (*updatemgr.Baseline, error) {
	pattern := ""
	if r.config != nil {
		pattern = r.config.UpdateManager.BaselinePattern
	}

	baseline, err := r.um.FindBaseline(ctx, pattern)
	if err != nil {
		return nil, fmt.Errorf("baseline lookup failed: %w", err)
	}
	if baseline == nil {
		return nil, fmt.Errorf("no baseline matches pattern %q", pattern)
	}

	r.logger.Info().Str("baseline", baseline.Name).Msg("baseline resolved, triggering scans")

	var tasks []*updatemgr.ScanTask
	for _, entity := range entities {
		if err := r.um.AttachBaseline(ctx, baseline.ID, entity.ID); err != nil {
			r.logger.Warn().Err(err).Str("entity", entity.Name).Msg("baseline attach failed")
			continue
		}

		task, err := r.um.TriggerScan(ctx, entity.ID)
		if err != nil {
			r.logger.Warn().Err(err).Str("entity", entity.Name).Msg("scan trigger failed")
			continue
		}
		tasks = append(tasks, task)
	}

	// Compliance reads require completed scans. A scan that times out
	// or fails leaves its hosts with empty compliance fields.
	for _, task := range tasks {
		if err := r.um.WaitForScan(ctx, task); err != nil {
			r.logger.Warn().Err(err).Str("entity", task.Entity).Msg("scan did not complete")
		}
	}

	return baseline, nil
}

// GetTimezone returns the configured timezone.
func (r *Reporter) GetTimezone() *time.Location {
	return r.timezone
}

// GetVersion returns the configured version.
func (r *Reporter) GetVersion() string {
	return r.version
}

// kindRequested reports whether a kind is part of the requested set.
func kindRequested(kinds []model.ReportKind, kind model.ReportKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
