// Package model provides data models for the ESXi report tool.
package model

// ConnectionState represents a host's connection state as reported
// by the management endpoint.
type ConnectionState string

const (
	StateConnected     ConnectionState = "Connected"
	StateMaintenance   ConnectionState = "Maintenance"
	StateDisconnected  ConnectionState = "Disconnected"
	StateNotResponding ConnectionState = "NotResponding"
)

// Reachable reports whether the state allows fact collection.
// Hosts in maintenance mode still answer API queries, so they count.
func (s ConnectionState) Reachable() bool {
	return s == StateConnected || s == StateMaintenance
}

// HostRef identifies a single managed host within a resolved scope.
// Cluster and Datacenter record where the reference came from; both may
// be empty for explicitly named hosts, which are never resolved against
// the inventory before the reachability check.
type HostRef struct {
	Name       string `json:"name"`
	Cluster    string `json:"cluster,omitempty"`
	Datacenter string `json:"datacenter,omitempty"`
}

// SkipRecord captures a host that failed the reachability check,
// together with the last connection state observed (possibly empty
// when the lookup itself failed).
type SkipRecord struct {
	Hostname        string          `json:"hostname"`
	ConnectionState ConnectionState `json:"connection_state"`
}
