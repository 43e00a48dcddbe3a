// Package service provides the host-resolution and report-aggregation
// pipeline for the ESXi report tool.
package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"esxi-report/internal/client/rac"
	"esxi-report/internal/client/updatemgr"
	"esxi-report/internal/client/vcenter"
	"esxi-report/internal/model"
)

// Collector produces one FactRecord per reachable host per requested
// report kind. Sub-queries run independently: a failing sub-query
// degrades its fields to empty values but never suppresses the record.
type Collector struct {
	vc     *vcenter.Client
	rac    *rac.Client // nil when the RAC probe is disabled
	um     *updatemgr.Client
	logger zerolog.Logger
}

// NewCollector creates a new Collector. racClient may be nil when the
// out-of-band probe is disabled; RAC fields then stay empty.
func NewCollector(vc *vcenter.Client, racClient *rac.Client, um *updatemgr.Client, logger zerolog.Logger) *Collector {
	return &Collector{
		vc:     vc,
		rac:    racClient,
		um:     um,
		logger: logger.With().Str("component", "collector").Logger(),
	}
}

// Collect gathers the requested report kinds for one reachable host.
// The result always contains exactly one record per requested kind.
func (c *Collector) Collect(ctx context.Context, ref model.HostRef, kinds []model.ReportKind, baseline *updatemgr.Baseline) []model.Record {
	records := make([]model.Record, 0, len(kinds))
	for _, kind := range kinds {
		switch kind {
		case model.KindHardware:
			records = append(records, c.collectHardware(ctx, ref))
		case model.KindConfiguration:
			records = append(records, c.collectConfiguration(ctx, ref))
		case model.KindNetworkPhysical:
			records = append(records, c.collectPhysicalNICs(ctx, ref))
		case model.KindNetworkVMkernel:
			records = append(records, c.collectVMkernelNICs(ctx, ref))
		case model.KindNetworkVSwitch:
			records = append(records, c.collectVSwitches(ctx, ref))
		case model.KindPatching:
			records = append(records, c.collectPatching(ctx, ref, baseline))
		}
	}
	return records
}

// warnSubQuery logs a failed sub-query. The record is still emitted
// with the affected fields empty.
func (c *Collector) warnSubQuery(err error, host, query string) {
	c.logger.Warn().Err(err).Str("host", host).Str("query", query).Msg("sub-query failed, field left empty")
}

// collectHardware builds the hardware record for one host.
// HBA firmware stays empty: the management API cannot retrieve it.
func (c *Collector) collectHardware(ctx context.Context, ref model.HostRef) *model.HardwareRecord {
	record := &model.HardwareRecord{
		Hostname: ref.Name,
		Cluster:  ref.Cluster,
	}

	if hw, err := c.vc.GetHardware(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "hardware")
	} else {
		record.Manufacturer = hw.Manufacturer
		record.Model = hw.Model
		record.SerialNumber = hw.SerialNumber
		record.BIOSVersion = hw.BIOSVersion
		record.CPUModel = hw.CPU.Model
		record.CPUSockets = hw.CPU.Sockets
		record.CPUCores = hw.CPU.Cores
		record.MemoryGB = hw.MemoryGB()
	}

	if nics, err := c.vc.GetNICs(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "nics")
	} else {
		record.NICCount = len(nics)
	}

	if fw, err := c.vc.GetNICFirmware(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "nic-firmware")
	} else {
		record.NICFirmware = fw.Version
	}

	if devices, err := c.vc.GetPCIDevices(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "pci-devices")
	} else {
		for _, d := range devices {
			if d.Class == "storage" {
				record.HBACount++
			}
		}
	}

	if c.rac != nil {
		if info, err := c.rac.Probe(ctx, ref.Name); err != nil {
			c.warnSubQuery(err, ref.Name, "rac-probe")
		} else {
			record.RACAddress = info.Address
			record.RACFirmware = info.Firmware
		}
	}

	return record
}

// collectConfiguration builds the configuration record for one host.
func (c *Collector) collectConfiguration(ctx context.Context, ref model.HostRef) *model.ConfigurationRecord {
	record := &model.ConfigurationRecord{
		Hostname: ref.Name,
		Cluster:  ref.Cluster,
	}

	var build string
	if version, err := c.vc.GetVersion(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "version")
	} else {
		record.Product = version.Product
		record.Version = version.Version
		record.Build = version.Build
		build = version.Build
	}

	if profile, err := c.vc.GetImageProfile(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "image-profile")
	} else {
		record.ImageProfile = profile.Name
	}

	if boot, err := c.vc.GetBootDevice(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "boot-device")
	} else {
		record.BootDevice = boot.Device
		record.InstallType = deriveInstallType(boot)
	}

	if bootTime, err := c.vc.GetBootTime(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "boot-time")
	} else if t, err := time.Parse(time.RFC3339, bootTime.BootTime); err != nil {
		c.warnSubQuery(err, ref.Name, "boot-time")
	} else {
		record.Uptime = model.FormatUptime(t, time.Now())
	}

	if vibs, err := c.vc.GetVIBs(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "vibs")
	} else {
		record.LastPatched = deriveLastPatched(vibs, build)
	}

	if ntp, err := c.vc.GetNTP(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "ntp")
	} else {
		record.NTPServers = model.JoinList(ntp.Servers)
	}

	if syslog, err := c.vc.GetSyslog(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "syslog")
	} else {
		record.SyslogServer = syslog.RemoteHost
	}

	return record
}

// collectPhysicalNICs builds the physical-network record for one host.
func (c *Collector) collectPhysicalNICs(ctx context.Context, ref model.HostRef) *model.PhysicalNICRecord {
	record := &model.PhysicalNICRecord{Hostname: ref.Name}

	if nics, err := c.vc.GetNICs(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "nics")
	} else {
		record.NICCount = len(nics)
		names := make([]string, 0, len(nics))
		drivers := make([]string, 0, len(nics))
		macs := make([]string, 0, len(nics))
		speeds := make([]string, 0, len(nics))
		for _, nic := range nics {
			names = append(names, nic.Device)
			drivers = append(drivers, nic.Driver)
			macs = append(macs, nic.MACAddress)
			speeds = append(speeds, strconv.Itoa(nic.LinkSpeedMb))
		}
		record.Names = model.JoinList(names)
		record.Drivers = model.JoinList(drivers)
		record.MACAddresses = model.JoinList(macs)
		record.LinkSpeedsMb = model.JoinList(speeds)
	}

	// Neighbor identity: CDP first, LLDP only when CDP saw nothing.
	// First non-empty result wins; results are never merged.
	if neighbor := c.discoverNeighbor(ctx, ref.Name); !neighbor.Empty() {
		record.NeighborSwitch = neighbor.SwitchID
		record.NeighborPort = neighbor.PortID
		record.DiscoveryProtocol = neighbor.Protocol
	}

	return record
}

// discoverNeighbor tries the discovery protocols in fixed order and
// returns the first non-empty result.
func (c *Collector) discoverNeighbor(ctx context.Context, host string) *vcenter.NeighborInfo {
	probes := []func(context.Context, string) (*vcenter.NeighborInfo, error){
		c.vc.GetCDPNeighbor,
		c.vc.GetLLDPNeighbor,
	}

	for _, probe := range probes {
		neighbor, err := probe(ctx, host)
		if err != nil {
			c.warnSubQuery(err, host, "discovery")
			continue
		}
		if !neighbor.Empty() {
			return neighbor
		}
	}
	return &vcenter.NeighborInfo{}
}

// collectVMkernelNICs builds the VMkernel-network record for one host.
func (c *Collector) collectVMkernelNICs(ctx context.Context, ref model.HostRef) *model.VMkernelRecord {
	record := &model.VMkernelRecord{Hostname: ref.Name}

	nics, err := c.vc.GetVMkernelNICs(ctx, ref.Name)
	if err != nil {
		c.warnSubQuery(err, ref.Name, "vmkernel-nics")
		return record
	}

	record.AdapterCount = len(nics)
	names := make([]string, 0, len(nics))
	ips := make([]string, 0, len(nics))
	masks := make([]string, 0, len(nics))
	macs := make([]string, 0, len(nics))
	mtus := make([]string, 0, len(nics))
	portgroups := make([]string, 0, len(nics))
	services := make([]string, 0, len(nics))
	for _, nic := range nics {
		names = append(names, nic.Device)
		ips = append(ips, nic.IPAddress)
		masks = append(masks, nic.SubnetMask)
		macs = append(macs, nic.MACAddress)
		mtus = append(mtus, strconv.Itoa(nic.MTU))
		portgroups = append(portgroups, nic.Portgroup)
		services = append(services, strings.Join(nic.Services, ","))
	}
	record.Names = model.JoinList(names)
	record.IPAddresses = model.JoinList(ips)
	record.SubnetMasks = model.JoinList(masks)
	record.MACAddresses = model.JoinList(macs)
	record.MTUs = model.JoinList(mtus)
	record.Portgroups = model.JoinList(portgroups)
	record.Services = model.JoinList(services)

	return record
}

// collectVSwitches builds the virtual-switch record for one host.
// Standard switches are probed first; distributed switches are only
// queried when the host has no standard switch. First non-empty result
// wins, the two are never merged.
func (c *Collector) collectVSwitches(ctx context.Context, ref model.HostRef) *model.VSwitchRecord {
	record := &model.VSwitchRecord{Hostname: ref.Name}

	switches, err := c.vc.GetStandardSwitches(ctx, ref.Name)
	if err != nil {
		c.warnSubQuery(err, ref.Name, "vswitches")
	} else if len(switches) > 0 {
		fillVSwitchRecord(record, "standard", switches)
		return record
	}

	switches, err = c.vc.GetDistributedSwitches(ctx, ref.Name)
	if err != nil {
		c.warnSubQuery(err, ref.Name, "dvswitches")
		return record
	}
	if len(switches) > 0 {
		fillVSwitchRecord(record, "distributed", switches)
	}

	return record
}

// fillVSwitchRecord flattens switch details into the record's list cells.
func fillVSwitchRecord(record *model.VSwitchRecord, switchType string, switches []vcenter.VirtualSwitch) {
	record.SwitchType = switchType
	record.SwitchCount = len(switches)

	names := make([]string, 0, len(switches))
	uplinks := make([]string, 0, len(switches))
	mtus := make([]string, 0, len(switches))
	var portgroups []string
	for _, sw := range switches {
		names = append(names, sw.Name)
		uplinks = append(uplinks, strings.Join(sw.Uplinks, ","))
		mtus = append(mtus, strconv.Itoa(sw.MTU))
		portgroups = append(portgroups, sw.Portgroups...)
	}
	record.Names = model.JoinList(names)
	record.Uplinks = model.JoinList(uplinks)
	record.MTUs = model.JoinList(mtus)
	record.PortgroupCount = len(portgroups)
	record.Portgroups = model.JoinList(portgroups)
}

// collectPatching builds the patch-compliance record for one host.
// A nil baseline (scan prerequisites failed earlier) degrades all
// compliance fields but still emits the record.
func (c *Collector) collectPatching(ctx context.Context, ref model.HostRef, baseline *updatemgr.Baseline) *model.PatchRecord {
	record := &model.PatchRecord{Hostname: ref.Name}

	var build string
	if version, err := c.vc.GetVersion(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "version")
	} else {
		record.Build = version.Build
		build = version.Build
	}

	if vibs, err := c.vc.GetVIBs(ctx, ref.Name); err != nil {
		c.warnSubQuery(err, ref.Name, "vibs")
	} else {
		record.LastPatched = deriveLastPatched(vibs, build)
	}

	if baseline == nil {
		return record
	}
	record.Baseline = baseline.Name

	compliance, err := c.um.GetCompliance(ctx, ref.Name, baseline.ID)
	if err != nil {
		c.warnSubQuery(err, ref.Name, "compliance")
		return record
	}

	record.ComplianceStatus = compliance.Status
	record.CompliantCount = len(compliance.Compliant)
	record.NonCompliantCount = len(compliance.NonCompliant)
	missing := make([]string, 0, len(compliance.NonCompliant))
	for _, p := range compliance.NonCompliant {
		missing = append(missing, p.Name)
	}
	record.MissingPatches = model.JoinList(missing)

	return record
}

// deriveInstallType classifies the deployment from boot-device metadata.
func deriveInstallType(boot *vcenter.BootDeviceInfo) model.InstallType {
	switch boot.Type {
	case "usb", "sd":
		return model.InstallEmbedded
	case "pxe":
		if boot.Stateless {
			return model.InstallPXEStateless
		}
		return model.InstallPXE
	default:
		return model.InstallInstallable
	}
}

// deriveLastPatched returns the newest install date among the packages
// whose version carries the host's build number, formatted as a date.
// An unknown build or no matching package yields an empty value.
func deriveLastPatched(vibs []vcenter.VIB, build string) string {
	if build == "" {
		return ""
	}

	var newest time.Time
	for _, vib := range vibs {
		if !strings.Contains(vib.Version, build) {
			continue
		}
		installed, err := time.Parse(time.RFC3339, vib.InstallDate)
		if err != nil {
			continue
		}
		if installed.After(newest) {
			newest = installed
		}
	}

	if newest.IsZero() {
		return ""
	}
	return newest.Format("2006-01-02")
}
