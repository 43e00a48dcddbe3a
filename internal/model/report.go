// Package model provides data models for the ESXi report tool.
package model

import "time"

// ReportKind identifies one of the independent report collections.
type ReportKind string

const (
	KindHardware        ReportKind = "hardware"
	KindConfiguration   ReportKind = "configuration"
	KindNetworkPhysical ReportKind = "network-physical"
	KindNetworkVMkernel ReportKind = "network-vmkernel"
	KindNetworkVSwitch  ReportKind = "network-vswitch"
	KindPatching        ReportKind = "patching"
)

// AllKinds lists every report kind in canonical order.
var AllKinds = []ReportKind{
	KindHardware,
	KindConfiguration,
	KindNetworkPhysical,
	KindNetworkVMkernel,
	KindNetworkVSwitch,
	KindPatching,
}

// Title returns the human-readable name used for worksheet titles
// and console section headers.
func (k ReportKind) Title() string {
	switch k {
	case KindHardware:
		return "Hardware"
	case KindConfiguration:
		return "Configuration"
	case KindNetworkPhysical:
		return "Physical NICs"
	case KindNetworkVMkernel:
		return "VMkernel NICs"
	case KindNetworkVSwitch:
		return "Virtual Switches"
	case KindPatching:
		return "Patch Compliance"
	default:
		return string(k)
	}
}

// Record is one host's collected facts for one report kind.
// Records are immutable after creation; Row returns the flat field
// values in the same order as Header returns the field names.
type Record interface {
	Kind() ReportKind
	Header() []string
	Row() []string
}

// ReportCollection is an ordered sequence of records of one kind,
// appended in host-processing order. No dedup, no re-ordering.
type ReportCollection struct {
	Kind    ReportKind `json:"kind"`
	Records []Record   `json:"records"`
}

// NewReportCollection creates an empty collection for the given kind.
func NewReportCollection(kind ReportKind) *ReportCollection {
	return &ReportCollection{
		Kind:    kind,
		Records: make([]Record, 0),
	}
}

// Append adds a record to the collection. Records of the wrong kind
// are ignored rather than corrupting the collection.
func (c *ReportCollection) Append(r Record) {
	if r == nil || r.Kind() != c.Kind {
		return
	}
	c.Records = append(c.Records, r)
}

// Header returns the column names for this collection's kind.
// An empty collection still knows its schema.
func (c *ReportCollection) Header() []string {
	if len(c.Records) > 0 {
		return c.Records[0].Header()
	}
	return HeaderFor(c.Kind)
}

// ReportSet accumulates all collections and the skip list for one run.
type ReportSet struct {
	GeneratedAt time.Time                          `json:"generated_at"`
	Duration    time.Duration                      `json:"duration"`
	Version     string                             `json:"version,omitempty"`
	Collections map[ReportKind]*ReportCollection   `json:"collections"`
	Kinds       []ReportKind                       `json:"kinds"`
	Skipped     []SkipRecord                       `json:"skipped"`
}

// NewReportSet creates a ReportSet with one empty collection per
// requested kind, preserving the requested order.
func NewReportSet(kinds []ReportKind, generatedAt time.Time) *ReportSet {
	set := &ReportSet{
		GeneratedAt: generatedAt,
		Collections: make(map[ReportKind]*ReportCollection, len(kinds)),
		Kinds:       append([]ReportKind(nil), kinds...),
		Skipped:     make([]SkipRecord, 0),
	}
	for _, kind := range kinds {
		set.Collections[kind] = NewReportCollection(kind)
	}
	return set
}

// Append routes a record to its kind's collection. Records for kinds
// that were not requested are dropped.
func (s *ReportSet) Append(r Record) {
	if r == nil {
		return
	}
	if c, ok := s.Collections[r.Kind()]; ok {
		c.Append(r)
	}
}

// AddSkip records a host that failed the reachability check.
func (s *ReportSet) AddSkip(skip SkipRecord) {
	s.Skipped = append(s.Skipped, skip)
}

// RecordCount returns the total number of records across all collections.
func (s *ReportSet) RecordCount() int {
	total := 0
	for _, c := range s.Collections {
		total += len(c.Records)
	}
	return total
}

// Empty reports whether no collection received any record. A run where
// every host was skipped is empty even though the skip list is not.
func (s *ReportSet) Empty() bool {
	return s.RecordCount() == 0
}

// Finalize stamps the run duration once all hosts are processed.
func (s *ReportSet) Finalize(endTime time.Time) {
	s.Duration = endTime.Sub(s.GeneratedAt)
}
