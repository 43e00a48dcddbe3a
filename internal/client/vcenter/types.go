// Package vcenter provides a client for the vCenter automation REST API.
package vcenter

import (
	"sort"

	"esxi-report/internal/model"
)

// HostSummary represents one host entry from the host list endpoint.
type HostSummary struct {
	Host            string `json:"host"`             // managed object identifier
	Name            string `json:"name"`             // host name
	ConnectionState string `json:"connection_state"` // CONNECTED, DISCONNECTED, NOT_RESPONDING
	PowerState      string `json:"power_state"`
	InMaintenance   bool   `json:"in_maintenance_mode"`
	Cluster         string `json:"cluster,omitempty"`
	Datacenter      string `json:"datacenter,omitempty"`
}

// ConnectionState maps the API's state enums onto the model states.
// Maintenance mode is reported separately by the API but is a state of
// its own in the reports.
func (h *HostSummary) ToConnectionState() model.ConnectionState {
	switch h.ConnectionState {
	case "CONNECTED":
		if h.InMaintenance {
			return model.StateMaintenance
		}
		return model.StateConnected
	case "DISCONNECTED":
		return model.StateDisconnected
	case "NOT_RESPONDING":
		return model.StateNotResponding
	default:
		return model.ConnectionState(h.ConnectionState)
	}
}

// ClusterSummary represents one cluster entry from the cluster list endpoint.
type ClusterSummary struct {
	Cluster string `json:"cluster"` // managed object identifier
	Name    string `json:"name"`
}

// DatacenterSummary represents one datacenter entry from the datacenter
// list endpoint.
type DatacenterSummary struct {
	Datacenter string `json:"datacenter"` // managed object identifier
	Name       string `json:"name"`
}

// HardwareInfo contains a host's hardware inventory.
type HardwareInfo struct {
	Manufacturer string  `json:"manufacturer"`
	Model        string  `json:"model"`
	SerialNumber string  `json:"serial_number"`
	BIOSVersion  string  `json:"bios_version"`
	CPU          CPUInfo `json:"cpu"`
	MemoryBytes  int64   `json:"memory_bytes"`
}

// CPUInfo contains CPU hardware information.
type CPUInfo struct {
	Model   string `json:"model"`
	Sockets int    `json:"sockets"`
	Cores   int    `json:"cores"`
	Threads int    `json:"threads"`
}

// MemoryGB returns the total memory rounded down to whole gigabytes.
func (h *HardwareInfo) MemoryGB() int {
	return int(h.MemoryBytes / (1024 * 1024 * 1024))
}

// PCIDevice represents a single PCI device on a host.
type PCIDevice struct {
	Address    string `json:"address"`
	DeviceName string `json:"device_name"`
	Class      string `json:"class"` // e.g., "network", "storage"
}

// PhysicalNIC represents one physical network adapter.
type PhysicalNIC struct {
	Device      string `json:"device"` // e.g., vmnic0
	Driver      string `json:"driver"`
	MACAddress  string `json:"mac_address"`
	LinkSpeedMb int    `json:"link_speed_mb"`
	LinkUp      bool   `json:"link_up"`
}

// NICFirmwareInfo is the NIC firmware version reported by the host agent.
type NICFirmwareInfo struct {
	Version string `json:"version"`
}

// VersionInfo contains product and build information for a host.
type VersionInfo struct {
	Product string `json:"product"`
	Version string `json:"version"`
	Build   string `json:"build"`
}

// BootDeviceInfo describes what device a host booted from.
type BootDeviceInfo struct {
	Device    string `json:"device"`
	Type      string `json:"type"` // usb, sd, pxe, disk
	Stateless bool   `json:"stateless"`
}

// BootTimeInfo carries the host's last boot timestamp.
type BootTimeInfo struct {
	BootTime string `json:"boot_time"` // RFC 3339
}

// ImageProfileInfo carries the host's image profile descriptor.
type ImageProfileInfo struct {
	Name string `json:"name"`
}

// VIB represents one installed software package on a host.
type VIB struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Vendor      string `json:"vendor"`
	InstallDate string `json:"install_date"` // RFC 3339
}

// NTPInfo carries the host's configured NTP servers.
type NTPInfo struct {
	Servers []string `json:"servers"`
}

// SyslogInfo carries the host's remote syslog target.
type SyslogInfo struct {
	RemoteHost string `json:"remote_host"`
}

// VMkernelNIC represents one VMkernel network adapter.
type VMkernelNIC struct {
	Device     string   `json:"device"` // e.g., vmk0
	IPAddress  string   `json:"ip_address"`
	SubnetMask string   `json:"subnet_mask"`
	MACAddress string   `json:"mac_address"`
	MTU        int      `json:"mtu"`
	Portgroup  string   `json:"portgroup"`
	Services   []string `json:"services"` // management, vmotion, ...
}

// VirtualSwitch represents one standard or distributed virtual switch.
type VirtualSwitch struct {
	Name       string   `json:"name"`
	Uplinks    []string `json:"uplinks"`
	Portgroups []string `json:"portgroups"`
	MTU        int      `json:"mtu"`
}

// NeighborInfo is the switch/port identity reported by a discovery
// protocol probe. Empty fields mean the protocol saw nothing.
type NeighborInfo struct {
	Protocol string `json:"protocol"` // cdp or lldp
	SwitchID string `json:"switch_id"`
	PortID   string `json:"port_id"`
}

// Empty reports whether the probe yielded no neighbor data.
func (n *NeighborInfo) Empty() bool {
	return n == nil || (n.SwitchID == "" && n.PortID == "")
}

// sortHostsByName orders host summaries by name in place.
func sortHostsByName(hosts []HostSummary) {
	sort.Slice(hosts, func(i, j int) bool {
		return hosts[i].Name < hosts[j].Name
	})
}
