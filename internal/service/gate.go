// Package service provides the host-resolution and report-aggregation
// pipeline for the ESXi report tool.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"esxi-report/internal/client/vcenter"
	"esxi-report/internal/model"
)

// Gate classifies resolved hosts as reachable or skipped. The state is
// queried fresh at processing time because it can change between
// enumeration and processing.
type Gate struct {
	client *vcenter.Client
	logger zerolog.Logger
}

// NewGate creates a new reachability gate.
func NewGate(client *vcenter.Client, logger zerolog.Logger) *Gate {
	return &Gate{
		client: client,
		logger: logger.With().Str("component", "gate").Logger(),
	}
}

// Check returns the host's current connection state and whether it is
// reachable. Lookup failures and unknown names classify as unreachable
// with whatever state was observed (possibly empty).
func (g *Gate) Check(ctx context.Context, ref model.HostRef) (model.ConnectionState, bool) {
	host, err := g.client.GetHost(ctx, ref.Name)
	if err != nil {
		g.logger.Warn().Err(err).Str("host", ref.Name).Msg("state lookup failed")
		return "", false
	}
	if host == nil {
		g.logger.Warn().Str("host", ref.Name).Msg("host unknown to the endpoint")
		return "", false
	}

	state := host.ToConnectionState()
	if !state.Reachable() {
		g.logger.Warn().
			Str("host", ref.Name).
			Str("state", string(state)).
			Msg("host unreachable, skipping")
		return state, false
	}

	g.logger.Debug().Str("host", ref.Name).Str("state", string(state)).Msg("host reachable")
	return state, true
}
