// Package updatemgr provides a client for the patch baseline and
// compliance service.
package updatemgr

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"esxi-report/internal/config"
)

// Client is a client for the update manager API. It shares the vCenter
// endpoint and session model but covers the baseline/scan/compliance
// surface only.
type Client struct {
	pollInterval time.Duration
	scanTimeout  time.Duration
	httpClient   *resty.Client
	logger       zerolog.Logger
}

// NewClient creates a new update manager client reusing an existing
// authenticated resty client (session header included).
func NewClient(httpClient *resty.Client, cfg *config.UpdateManagerConfig, logger zerolog.Logger) *Client {
	pollInterval := cfg.ScanPollInterval
	if pollInterval == 0 {
		pollInterval = 10 * time.Second
	}
	scanTimeout := cfg.ScanTimeout
	if scanTimeout == 0 {
		scanTimeout = 15 * time.Minute
	}

	return &Client{
		pollInterval: pollInterval,
		scanTimeout:  scanTimeout,
		httpClient:   httpClient,
		logger:       logger.With().Str("component", "updatemgr-client").Logger(),
	}
}

// FindBaseline looks up baselines whose names match the given pattern.
// No match is not an error here; the caller decides whether that is
// fatal (it is, when the patching report was requested).
func (c *Client) FindBaseline(ctx context.Context, pattern string) (*Baseline, error) {
	c.logger.Debug().Str("pattern", pattern).Msg("looking up baseline")

	var baselines []Baseline
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&baselines).
		SetQueryParam("pattern", pattern).
		Get("/api/updatemgr/baselines")

	if err != nil {
		return nil, fmt.Errorf("baseline lookup failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("baseline lookup returned status %d: %s",
			resp.StatusCode(), string(resp.Body()))
	}
	if len(baselines) == 0 {
		return nil, nil
	}

	c.logger.Debug().Str("baseline", baselines[0].Name).Msg("baseline resolved")
	return &baselines[0], nil
}

// AttachBaseline attaches a baseline to a scope entity (host, cluster
// or datacenter identifier).
func (c *Client) AttachBaseline(ctx context.Context, baselineID, entity string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]string{"entity": entity}).
		Post("/api/updatemgr/baselines/" + baselineID + "/attach")

	if err != nil {
		return fmt.Errorf("failed to attach baseline to %s: %w", entity, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("attach baseline returned status %d for %s", resp.StatusCode(), entity)
	}
	return nil
}

// TriggerScan starts an asynchronous compliance scan for an entity and
// returns the task handle.
func (c *Client) TriggerScan(ctx context.Context, entity string) (*ScanTask, error) {
	c.logger.Debug().Str("entity", entity).Msg("triggering compliance scan")

	var task ScanTask
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&task).
		SetBody(map[string]string{"entity": entity}).
		Post("/api/updatemgr/scans")

	if err != nil {
		return nil, fmt.Errorf("failed to trigger scan for %s: %w", entity, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusAccepted {
		return nil, fmt.Errorf("trigger scan returned status %d for %s", resp.StatusCode(), entity)
	}

	task.Entity = entity
	return &task, nil
}

// PollTask reads the current progress of a scan task.
func (c *Client) PollTask(ctx context.Context, taskID string) (*TaskProgress, error) {
	var progress TaskProgress
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&progress).
		Get("/api/updatemgr/tasks/" + taskID)

	if err != nil {
		return nil, fmt.Errorf("failed to poll task %s: %w", taskID, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("poll task returned status %d for %s", resp.StatusCode(), taskID)
	}
	return &progress, nil
}

// WaitForScan polls a scan task on the fixed interval until it
// completes, the configured timeout elapses, or ctx is cancelled.
// A timeout is returned as an error so the caller can degrade the
// affected hosts' compliance fields instead of blocking forever.
func (c *Client) WaitForScan(ctx context.Context, task *ScanTask) error {
	if task == nil {
		return fmt.Errorf("scan task is nil")
	}

	deadline := time.NewTimer(c.scanTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		progress, err := c.PollTask(ctx, task.TaskID)
		if err != nil {
			return err
		}
		if progress.Done() {
			c.logger.Debug().Str("task", task.TaskID).Msg("scan task completed")
			return nil
		}
		if progress.State == "error" {
			return fmt.Errorf("scan task %s failed on the server", task.TaskID)
		}

		c.logger.Debug().
			Str("task", task.TaskID).
			Int("percent", progress.PercentComplete).
			Msg("scan task in progress")

		select {
		case <-ctx.Done():
			return fmt.Errorf("scan wait cancelled: %w", ctx.Err())
		case <-deadline.C:
			return fmt.Errorf("scan task %s did not complete within %v", task.TaskID, c.scanTimeout)
		case <-ticker.C:
		}
	}
}

// GetCompliance reads a host's compliance standing against a baseline.
func (c *Client) GetCompliance(ctx context.Context, host, baselineID string) (*ComplianceResult, error) {
	var result ComplianceResult
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetQueryParams(map[string]string{
			"host":     host,
			"baseline": baselineID,
		}).
		Get("/api/updatemgr/compliance")

	if err != nil {
		return nil, fmt.Errorf("failed to read compliance for %s: %w", host, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("compliance read returned status %d for %s", resp.StatusCode(), host)
	}
	return &result, nil
}
