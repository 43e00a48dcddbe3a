// Package service provides the host-resolution and report-aggregation
// pipeline for the ESXi report tool.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"esxi-report/internal/client/vcenter"
	"esxi-report/internal/model"
)

// ScopeEntity is one inventory entity the scope resolved through.
// Patch scans are attached and triggered per entity, not per host.
type ScopeEntity struct {
	ID   string // managed object identifier ("root" for the all scope)
	Name string
	Kind model.SelectorKind
}

// Resolution is the outcome of resolving a HostSelector: the ordered
// host list plus the entities the scope went through.
type Resolution struct {
	Hosts    []model.HostRef
	Entities []ScopeEntity
}

// Resolver turns a HostSelector into an ordered host list using the
// vCenter inventory.
type Resolver struct {
	client *vcenter.Client
	logger zerolog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(client *vcenter.Client, logger zerolog.Logger) *Resolver {
	return &Resolver{
		client: client,
		logger: logger.With().Str("component", "resolver").Logger(),
	}
}

// Resolve expands the selector into host references. Hosts are sorted
// by name within each selector group; groups are concatenated in
// resolution order and duplicates across groups are preserved.
//
// A missing session is the only fatal error here. A name that resolves
// to nothing, or a lookup that fails, is skipped with a warning.
func (r *Resolver) Resolve(ctx context.Context, selector *model.HostSelector) (*Resolution, error) {
	// Fatal precondition, checked once up front.
	if !r.client.SessionActive(ctx) {
		return nil, fmt.Errorf("no active session on the management endpoint")
	}

	if selector == nil {
		selector = &model.HostSelector{}
	}

	kind := selector.Kind()
	r.logger.Info().Str("scope", string(kind)).Msg("resolving host scope")

	switch kind {
	case model.SelectorHosts:
		return r.resolveExplicitHosts(selector.Names()), nil
	case model.SelectorClusters:
		return r.resolveClusters(ctx, selector.Names()), nil
	case model.SelectorDatacenters:
		return r.resolveDatacenters(ctx, selector.Names()), nil
	default:
		return r.resolveAll(ctx)
	}
}

// resolveExplicitHosts uses each trimmed name verbatim. Existence is
// not checked here; a bad name surfaces later through the reachability
// gate's skip channel.
func (r *Resolver) resolveExplicitHosts(names []string) *Resolution {
	res := &Resolution{}
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		res.Hosts = append(res.Hosts, model.HostRef{Name: name})
		res.Entities = append(res.Entities, ScopeEntity{ID: name, Name: name, Kind: model.SelectorHosts})
	}
	r.logger.Debug().Int("count", len(res.Hosts)).Msg("explicit host scope resolved")
	return res
}

// resolveClusters looks each cluster name up and appends its hosts,
// sorted by name, in the order the names were given.
func (r *Resolver) resolveClusters(ctx context.Context, names []string) *Resolution {
	res := &Resolution{}
	for _, name := range names {
		cluster, err := r.client.FindCluster(ctx, name)
		if err != nil {
			r.logger.Warn().Err(err).Str("cluster", name).Msg("cluster lookup failed, skipping name")
			continue
		}
		if cluster == nil {
			r.logger.Warn().Str("cluster", name).Msg("cluster not found, skipping name")
			continue
		}

		hosts, err := r.client.ListHostsByCluster(ctx, cluster.Cluster)
		if err != nil {
			r.logger.Warn().Err(err).Str("cluster", name).Msg("host listing failed, skipping name")
			continue
		}
		if len(hosts) == 0 {
			r.logger.Warn().Str("cluster", name).Msg("cluster contains no hosts")
		}

		res.Entities = append(res.Entities, ScopeEntity{ID: cluster.Cluster, Name: name, Kind: model.SelectorClusters})
		for _, h := range hosts {
			res.Hosts = append(res.Hosts, model.HostRef{Name: h.Name, Cluster: name})
		}
	}
	r.logger.Debug().Int("count", len(res.Hosts)).Msg("cluster scope resolved")
	return res
}

// resolveDatacenters looks each datacenter name up and appends its
// hosts, sorted by name, in the order the names were given.
func (r *Resolver) resolveDatacenters(ctx context.Context, names []string) *Resolution {
	res := &Resolution{}
	for _, name := range names {
		datacenter, err := r.client.FindDatacenter(ctx, name)
		if err != nil {
			r.logger.Warn().Err(err).Str("datacenter", name).Msg("datacenter lookup failed, skipping name")
			continue
		}
		if datacenter == nil {
			r.logger.Warn().Str("datacenter", name).Msg("datacenter not found, skipping name")
			continue
		}

		hosts, err := r.client.ListHostsByDatacenter(ctx, datacenter.Datacenter)
		if err != nil {
			r.logger.Warn().Err(err).Str("datacenter", name).Msg("host listing failed, skipping name")
			continue
		}
		if len(hosts) == 0 {
			r.logger.Warn().Str("datacenter", name).Msg("datacenter contains no hosts")
		}

		res.Entities = append(res.Entities, ScopeEntity{ID: datacenter.Datacenter, Name: name, Kind: model.SelectorDatacenters})
		for _, h := range hosts {
			res.Hosts = append(res.Hosts, model.HostRef{Name: h.Name, Datacenter: name})
		}
	}
	r.logger.Debug().Int("count", len(res.Hosts)).Msg("datacenter scope resolved")
	return res
}

// resolveAll fetches every host known to the connected endpoint.
// Unlike per-name lookups there is nothing to skip to, so a listing
// failure is returned to the caller.
func (r *Resolver) resolveAll(ctx context.Context) (*Resolution, error) {
	hosts, err := r.client.ListHosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}

	res := &Resolution{
		Entities: []ScopeEntity{{ID: "root", Name: "root", Kind: model.SelectorAll}},
	}
	for _, h := range hosts {
		res.Hosts = append(res.Hosts, model.HostRef{Name: h.Name, Cluster: h.Cluster, Datacenter: h.Datacenter})
	}
	r.logger.Debug().Int("count", len(res.Hosts)).Msg("all-hosts scope resolved")
	return res, nil
}
