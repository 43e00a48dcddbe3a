package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esxi-report/internal/client/updatemgr"
	"esxi-report/internal/client/vcenter"
	"esxi-report/internal/config"
	"esxi-report/internal/model"
)

// inventoryHandler serves a small fixed inventory: cluster "prod" with
// esx01 (connected), esx02 (disconnected) and esx03 (maintenance),
// plus hardware data for the reachable hosts.
func inventoryHandler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/vcenter/cluster":
		writeJSON(w, http.StatusOK, []vcenter.ClusterSummary{{Cluster: "domain-c8", Name: "prod"}})
	case r.URL.Path == "/api/vcenter/host":
		switch {
		case r.URL.Query().Get("clusters") == "domain-c8":
			writeJSON(w, http.StatusOK, []vcenter.HostSummary{
				{Name: "esx01", ConnectionState: "CONNECTED"},
				{Name: "esx02", ConnectionState: "DISCONNECTED"},
				{Name: "esx03", ConnectionState: "CONNECTED", InMaintenance: true},
			})
		case r.URL.Query().Get("names") == "esx01":
			writeJSON(w, http.StatusOK, []vcenter.HostSummary{{Name: "esx01", ConnectionState: "CONNECTED"}})
		case r.URL.Query().Get("names") == "esx02":
			writeJSON(w, http.StatusOK, []vcenter.HostSummary{{Name: "esx02", ConnectionState: "DISCONNECTED"}})
		case r.URL.Query().Get("names") == "esx03":
			writeJSON(w, http.StatusOK, []vcenter.HostSummary{{Name: "esx03", ConnectionState: "CONNECTED", InMaintenance: true}})
		default:
			writeJSON(w, http.StatusOK, []vcenter.HostSummary{})
		}
	case r.URL.Path == "/api/esx/hosts/esx01/hardware":
		writeJSON(w, http.StatusOK, &vcenter.HardwareInfo{Manufacturer: "Dell Inc.", Model: "PowerEdge R750"})
	case r.URL.Path == "/api/esx/hosts/esx03/hardware":
		writeJSON(w, http.StatusOK, &vcenter.HardwareInfo{Manufacturer: "HPE", Model: "ProLiant DL380"})
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestReporter(t *testing.T, cfg *config.Config, vc *vcenter.Client, um *updatemgr.Client) *Reporter {
	t.Helper()
	reporter, err := NewReporter(
		cfg,
		NewResolver(vc, zerolog.Nop()),
		NewGate(vc, zerolog.Nop()),
		NewCollector(vc, nil, um, zerolog.Nop()),
		um,
		zerolog.Nop(),
		WithVersion("test"),
	)
	require.NoError(t, err)
	return reporter
}

func TestReporter_Run_SkipsUnreachableHosts(t *testing.T) {
	vc := newVCenterClient(t, inventoryHandler)
	reporter := newTestReporter(t, &config.Config{}, vc, nil)

	set, err := reporter.Run(context.Background(),
		&model.HostSelector{Clusters: []string{"prod"}},
		[]model.ReportKind{model.KindHardware})
	require.NoError(t, err)

	// Two reachable hosts produced records, the disconnected one was skipped.
	collection := set.Collections[model.KindHardware]
	require.NotNil(t, collection)
	require.Len(t, collection.Records, 2)
	assert.Equal(t, "esx01", collection.Records[0].Row()[0])
	assert.Equal(t, "esx03", collection.Records[1].Row()[0])

	require.Len(t, set.Skipped, 1)
	assert.Equal(t, "esx02", set.Skipped[0].Hostname)
	assert.Equal(t, model.StateDisconnected, set.Skipped[0].ConnectionState)

	assert.Equal(t, "test", set.Version)
	assert.False(t, set.Empty())
}

func TestReporter_Run_EveryHostSkippedIsEmpty(t *testing.T) {
	vc := newVCenterClient(t, func(w http.ResponseWriter, r *http.Request) {
		// One host in the inventory, unreachable at processing time.
		writeJSON(w, http.StatusOK, []vcenter.HostSummary{
			{Name: "esx02", ConnectionState: "DISCONNECTED"},
		})
	})
	reporter := newTestReporter(t, &config.Config{}, vc, nil)

	set, err := reporter.Run(context.Background(),
		&model.HostSelector{Hosts: []string{"esx02"}},
		[]model.ReportKind{model.KindHardware})
	require.NoError(t, err)

	assert.True(t, set.Empty())
	assert.Len(t, set.Skipped, 1)
}

func TestReporter_Run_ResolutionFailureIsFatal(t *testing.T) {
	vc := vcenter.NewClient(
		&config.VCenterConfig{Endpoint: "http://127.0.0.1:1", Username: "u", Password: "p"},
		&config.RetryConfig{MaxRetries: 0},
		zerolog.Nop(),
	)
	reporter := newTestReporter(t, &config.Config{}, vc, nil)

	_, err := reporter.Run(context.Background(), &model.HostSelector{All: true},
		[]model.ReportKind{model.KindHardware})
	require.Error(t, err)
}

func TestReporter_Run_PatchingRequiresBaseline(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/updatemgr/baselines" {
			writeJSON(w, http.StatusOK, []updatemgr.Baseline{})
			return
		}
		inventoryHandler(w, r)
	}

	vc := newVCenterClient(t, handler)
	cfg := &config.Config{}
	cfg.UpdateManager.BaselinePattern = "Critical*"
	um := updatemgr.NewClient(vc.HTTPClient(), &cfg.UpdateManager, zerolog.Nop())
	reporter := newTestReporter(t, cfg, vc, um)

	_, err := reporter.Run(context.Background(),
		&model.HostSelector{Clusters: []string{"prod"}},
		[]model.ReportKind{model.KindPatching})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no baseline matches pattern "Critical*"`)
}

func TestReporter_Run_PatchingWorkflow(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/updatemgr/baselines":
			writeJSON(w, http.StatusOK, []updatemgr.Baseline{{ID: "bl-17", Name: "Critical Host Patches"}})
		case "/api/updatemgr/baselines/bl-17/attach":
			w.WriteHeader(http.StatusNoContent)
		case "/api/updatemgr/scans":
			writeJSON(w, http.StatusAccepted, &updatemgr.ScanTask{TaskID: "task-42"})
		case "/api/updatemgr/tasks/task-42":
			writeJSON(w, http.StatusOK, &updatemgr.TaskProgress{TaskID: "task-42", State: "success", PercentComplete: 100})
		case "/api/updatemgr/compliance":
			writeJSON(w, http.StatusOK, &updatemgr.ComplianceResult{
				Host:   r.URL.Query().Get("host"),
				Status: "compliant",
			})
		case "/api/esx/hosts/esx01/version", "/api/esx/hosts/esx03/version":
			writeJSON(w, http.StatusOK, &vcenter.VersionInfo{Build: "22380479"})
		default:
			inventoryHandler(w, r)
		}
	}

	vc := newVCenterClient(t, handler)
	cfg := &config.Config{}
	cfg.UpdateManager.BaselinePattern = "Critical*"
	cfg.UpdateManager.ScanPollInterval = time.Millisecond
	cfg.UpdateManager.ScanTimeout = time.Second
	um := updatemgr.NewClient(vc.HTTPClient(), &cfg.UpdateManager, zerolog.Nop())
	reporter := newTestReporter(t, cfg, vc, um)

	set, err := reporter.Run(context.Background(),
		&model.HostSelector{Clusters: []string{"prod"}},
		[]model.ReportKind{model.KindPatching})
	require.NoError(t, err)

	collection := set.Collections[model.KindPatching]
	require.Len(t, collection.Records, 2)

	record := collection.Records[0].(*model.PatchRecord)
	assert.Equal(t, "Critical Host Patches", record.Baseline)
	assert.Equal(t, "compliant", record.ComplianceStatus)
}

func TestReporter_InvalidTimezoneFailsConstruction(t *testing.T) {
	cfg := &config.Config{}
	cfg.Report.Timezone = "Mars/Olympus_Mons"

	_, err := NewReporter(cfg, nil, nil, nil, nil, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestKindRequested(t *testing.T) {
	kinds := []model.ReportKind{model.KindHardware, model.KindPatching}
	assert.True(t, kindRequested(kinds, model.KindPatching))
	assert.False(t, kindRequested(kinds, model.KindConfiguration))
}
