package vcenter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"esxi-report/internal/model"
)

func TestHostSummary_ToConnectionState(t *testing.T) {
	tests := []struct {
		name     string
		summary  HostSummary
		expected model.ConnectionState
	}{
		{"connected", HostSummary{ConnectionState: "CONNECTED"}, model.StateConnected},
		{"connected in maintenance", HostSummary{ConnectionState: "CONNECTED", InMaintenance: true}, model.StateMaintenance},
		{"disconnected", HostSummary{ConnectionState: "DISCONNECTED"}, model.StateDisconnected},
		{"disconnected maintenance flag is irrelevant", HostSummary{ConnectionState: "DISCONNECTED", InMaintenance: true}, model.StateDisconnected},
		{"not responding", HostSummary{ConnectionState: "NOT_RESPONDING"}, model.StateNotResponding},
		{"unknown state passes through", HostSummary{ConnectionState: "WEIRD"}, model.ConnectionState("WEIRD")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.summary.ToConnectionState())
		})
	}
}

func TestHardwareInfo_MemoryGB(t *testing.T) {
	hw := &HardwareInfo{MemoryBytes: 512 * 1024 * 1024 * 1024}
	assert.Equal(t, 512, hw.MemoryGB())

	// Rounds down, never up
	hw.MemoryBytes = 512*1024*1024*1024 - 1
	assert.Equal(t, 511, hw.MemoryGB())
}

func TestNeighborInfo_Empty(t *testing.T) {
	var nilInfo *NeighborInfo
	assert.True(t, nilInfo.Empty())
	assert.True(t, (&NeighborInfo{Protocol: "cdp"}).Empty())
	assert.False(t, (&NeighborInfo{SwitchID: "sw1"}).Empty())
	assert.False(t, (&NeighborInfo{PortID: "Gi1/0/1"}).Empty())
}
