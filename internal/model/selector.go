// Package model provides data models for the ESXi report tool.
package model

import "strings"

// SelectorKind identifies which variant of a HostSelector is active.
type SelectorKind string

const (
	SelectorHosts       SelectorKind = "hosts"       // explicit host names
	SelectorClusters    SelectorKind = "clusters"    // cluster names
	SelectorDatacenters SelectorKind = "datacenters" // datacenter names
	SelectorAll         SelectorKind = "all"         // every host on the endpoint
)

// HostSelector describes the host scope for a single invocation.
// Exactly one variant is considered active, with precedence
// hosts > clusters > datacenters > all. An empty selector is
// equivalent to "all".
type HostSelector struct {
	Hosts       []string `json:"hosts,omitempty" yaml:"hosts"`
	Clusters    []string `json:"clusters,omitempty" yaml:"clusters"`
	Datacenters []string `json:"datacenters,omitempty" yaml:"datacenters"`
	All         bool     `json:"all,omitempty" yaml:"all"`
}

// Kind returns the active selector variant following the precedence order.
// A selector with no input at all resolves to SelectorAll.
func (s *HostSelector) Kind() SelectorKind {
	switch {
	case len(s.Hosts) > 0:
		return SelectorHosts
	case len(s.Clusters) > 0:
		return SelectorClusters
	case len(s.Datacenters) > 0:
		return SelectorDatacenters
	default:
		return SelectorAll
	}
}

// Names returns the trimmed, non-empty name list of the active variant.
// For SelectorAll the result is nil.
func (s *HostSelector) Names() []string {
	var raw []string
	switch s.Kind() {
	case SelectorHosts:
		raw = s.Hosts
	case SelectorClusters:
		raw = s.Clusters
	case SelectorDatacenters:
		raw = s.Datacenters
	default:
		return nil
	}

	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// IsEmpty reports whether no scope input was supplied at all.
// Callers treat this as "all hosts" rather than an error.
func (s *HostSelector) IsEmpty() bool {
	return !s.All && len(s.Hosts) == 0 && len(s.Clusters) == 0 && len(s.Datacenters) == 0
}
