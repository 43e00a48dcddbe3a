// Package model provides data models for the ESXi report tool.
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// listSeparator joins multi-value fields (NIC names, NTP servers, ...)
// into a single cell. Semicolon keeps CSV output unambiguous.
const listSeparator = "; "

// JoinList flattens a multi-value field into a single cell value.
func JoinList(values []string) string {
	return strings.Join(values, listSeparator)
}

// SplitList is the inverse of JoinList.
func SplitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, listSeparator)
}

// FormatUptime renders the time since boot as "Nd Nh Nm".
// A zero boot time yields an empty string (boot-time query failed).
func FormatUptime(bootTime, now time.Time) string {
	if bootTime.IsZero() || now.Before(bootTime) {
		return ""
	}
	d := now.Sub(bootTime)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
}

// InstallType classifies how ESXi was deployed on a host, derived
// from boot-device metadata.
type InstallType string

const (
	InstallEmbedded     InstallType = "Embedded"      // USB/SD embedded flash
	InstallPXEStateless InstallType = "PXE Stateless" // stateless cached PXE
	InstallPXE          InstallType = "PXE"
	InstallInstallable  InstallType = "Installable" // regular disk install
)

// HardwareRecord is one host's hardware inventory row.
// HBAFirmware stays empty: the upstream API cannot retrieve it, but the
// column is kept so report layouts stay stable.
type HardwareRecord struct {
	Hostname     string `json:"hostname"`
	Cluster      string `json:"cluster,omitempty"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	BIOSVersion  string `json:"bios_version,omitempty"`
	CPUModel     string `json:"cpu_model,omitempty"`
	CPUSockets   int    `json:"cpu_sockets,omitempty"`
	CPUCores     int    `json:"cpu_cores,omitempty"`
	MemoryGB     int    `json:"memory_gb,omitempty"`
	NICCount     int    `json:"nic_count,omitempty"`
	NICFirmware  string `json:"nic_firmware,omitempty"`
	HBACount     int    `json:"hba_count,omitempty"`
	HBAFirmware  string `json:"hba_firmware,omitempty"`
	RACAddress   string `json:"rac_address,omitempty"`
	RACFirmware  string `json:"rac_firmware,omitempty"`
}

func (r *HardwareRecord) Kind() ReportKind { return KindHardware }

func (r *HardwareRecord) Header() []string {
	return []string{
		"Hostname", "Cluster", "Manufacturer", "Model", "Serial Number",
		"BIOS Version", "CPU Model", "CPU Sockets", "CPU Cores", "Memory (GB)",
		"NIC Count", "Firmware Version", "HBA Count", "HBA Firmware",
		"RAC Address", "RAC Firmware",
	}
}

func (r *HardwareRecord) Row() []string {
	return []string{
		r.Hostname, r.Cluster, r.Manufacturer, r.Model, r.SerialNumber,
		r.BIOSVersion, r.CPUModel, itoa(r.CPUSockets), itoa(r.CPUCores),
		itoa(r.MemoryGB), itoa(r.NICCount), r.NICFirmware, itoa(r.HBACount),
		r.HBAFirmware, r.RACAddress, r.RACFirmware,
	}
}

// ConfigurationRecord is one host's software/configuration row.
type ConfigurationRecord struct {
	Hostname     string      `json:"hostname"`
	Cluster      string      `json:"cluster,omitempty"`
	Product      string      `json:"product,omitempty"`
	Version      string      `json:"version,omitempty"`
	Build        string      `json:"build,omitempty"`
	ImageProfile string      `json:"image_profile,omitempty"`
	InstallType  InstallType `json:"install_type,omitempty"`
	BootDevice   string      `json:"boot_device,omitempty"`
	Uptime       string      `json:"uptime,omitempty"`
	LastPatched  string      `json:"last_patched,omitempty"`
	NTPServers   string      `json:"ntp_servers,omitempty"`
	SyslogServer string      `json:"syslog_server,omitempty"`
}

func (r *ConfigurationRecord) Kind() ReportKind { return KindConfiguration }

func (r *ConfigurationRecord) Header() []string {
	return []string{
		"Hostname", "Cluster", "Product", "Version", "Build", "Image Profile",
		"Install Type", "Boot Device", "Uptime", "Last Patched",
		"NTP Servers", "Syslog Server",
	}
}

func (r *ConfigurationRecord) Row() []string {
	return []string{
		r.Hostname, r.Cluster, r.Product, r.Version, r.Build, r.ImageProfile,
		string(r.InstallType), r.BootDevice, r.Uptime, r.LastPatched,
		r.NTPServers, r.SyslogServer,
	}
}

// PhysicalNICRecord is one host's physical adapter row. Per-NIC values
// are flattened into list cells in adapter order.
type PhysicalNICRecord struct {
	Hostname          string `json:"hostname"`
	NICCount          int    `json:"nic_count,omitempty"`
	Names             string `json:"names,omitempty"`
	Drivers           string `json:"drivers,omitempty"`
	MACAddresses      string `json:"mac_addresses,omitempty"`
	LinkSpeedsMb      string `json:"link_speeds_mb,omitempty"`
	NeighborSwitch    string `json:"neighbor_switch,omitempty"`
	NeighborPort      string `json:"neighbor_port,omitempty"`
	DiscoveryProtocol string `json:"discovery_protocol,omitempty"`
}

func (r *PhysicalNICRecord) Kind() ReportKind { return KindNetworkPhysical }

func (r *PhysicalNICRecord) Header() []string {
	return []string{
		"Hostname", "NIC Count", "Names", "Drivers", "MAC Addresses",
		"Link Speeds (Mb)", "Neighbor Switch", "Neighbor Port",
		"Discovery Protocol",
	}
}

func (r *PhysicalNICRecord) Row() []string {
	return []string{
		r.Hostname, itoa(r.NICCount), r.Names, r.Drivers, r.MACAddresses,
		r.LinkSpeedsMb, r.NeighborSwitch, r.NeighborPort, r.DiscoveryProtocol,
	}
}

// VMkernelRecord is one host's VMkernel adapter row.
type VMkernelRecord struct {
	Hostname     string `json:"hostname"`
	AdapterCount int    `json:"adapter_count,omitempty"`
	Names        string `json:"names,omitempty"`
	IPAddresses  string `json:"ip_addresses,omitempty"`
	SubnetMasks  string `json:"subnet_masks,omitempty"`
	MACAddresses string `json:"mac_addresses,omitempty"`
	MTUs         string `json:"mtus,omitempty"`
	Portgroups   string `json:"portgroups,omitempty"`
	Services     string `json:"services,omitempty"`
}

func (r *VMkernelRecord) Kind() ReportKind { return KindNetworkVMkernel }

func (r *VMkernelRecord) Header() []string {
	return []string{
		"Hostname", "Adapter Count", "Names", "IP Addresses", "Subnet Masks",
		"MAC Addresses", "MTUs", "Portgroups", "Services",
	}
}

func (r *VMkernelRecord) Row() []string {
	return []string{
		r.Hostname, itoa(r.AdapterCount), r.Names, r.IPAddresses,
		r.SubnetMasks, r.MACAddresses, r.MTUs, r.Portgroups, r.Services,
	}
}

// VSwitchRecord is one host's virtual-switch row. SwitchType records
// which probe produced the data: standard switches are tried first,
// distributed switches only when no standard switch exists.
type VSwitchRecord struct {
	Hostname       string `json:"hostname"`
	SwitchType     string `json:"switch_type,omitempty"`
	SwitchCount    int    `json:"switch_count,omitempty"`
	Names          string `json:"names,omitempty"`
	Uplinks        string `json:"uplinks,omitempty"`
	PortgroupCount int    `json:"portgroup_count,omitempty"`
	Portgroups     string `json:"portgroups,omitempty"`
	MTUs           string `json:"mtus,omitempty"`
}

func (r *VSwitchRecord) Kind() ReportKind { return KindNetworkVSwitch }

func (r *VSwitchRecord) Header() []string {
	return []string{
		"Hostname", "Switch Type", "Switch Count", "Names", "Uplinks",
		"Portgroup Count", "Portgroups", "MTUs",
	}
}

func (r *VSwitchRecord) Row() []string {
	return []string{
		r.Hostname, r.SwitchType, itoa(r.SwitchCount), r.Names, r.Uplinks,
		itoa(r.PortgroupCount), r.Portgroups, r.MTUs,
	}
}

// PatchRecord is one host's patch-compliance row.
type PatchRecord struct {
	Hostname          string `json:"hostname"`
	Baseline          string `json:"baseline,omitempty"`
	ComplianceStatus  string `json:"compliance_status,omitempty"`
	CompliantCount    int    `json:"compliant_count,omitempty"`
	NonCompliantCount int    `json:"non_compliant_count,omitempty"`
	MissingPatches    string `json:"missing_patches,omitempty"`
	Build             string `json:"build,omitempty"`
	LastPatched       string `json:"last_patched,omitempty"`
}

func (r *PatchRecord) Kind() ReportKind { return KindPatching }

func (r *PatchRecord) Header() []string {
	return []string{
		"Hostname", "Baseline", "Compliance Status", "Compliant",
		"Non-Compliant", "Missing Patches", "Build", "Last Patched",
	}
}

func (r *PatchRecord) Row() []string {
	return []string{
		r.Hostname, r.Baseline, r.ComplianceStatus, itoa(r.CompliantCount),
		itoa(r.NonCompliantCount), r.MissingPatches, r.Build, r.LastPatched,
	}
}

// HeaderFor returns the column names for a kind without needing a record.
func HeaderFor(kind ReportKind) []string {
	switch kind {
	case KindHardware:
		return (&HardwareRecord{}).Header()
	case KindConfiguration:
		return (&ConfigurationRecord{}).Header()
	case KindNetworkPhysical:
		return (&PhysicalNICRecord{}).Header()
	case KindNetworkVMkernel:
		return (&VMkernelRecord{}).Header()
	case KindNetworkVSwitch:
		return (&VSwitchRecord{}).Header()
	case KindPatching:
		return (&PatchRecord{}).Header()
	default:
		return nil
	}
}

// SkipHeader returns the column names for the skipped-host summary.
func SkipHeader() []string {
	return []string{"Hostname", "Connection State"}
}

// itoa renders a count field, keeping zero values visible as "0".
func itoa(v int) string {
	return strconv.Itoa(v)
}
