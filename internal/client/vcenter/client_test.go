package vcenter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esxi-report/internal/config"
)

// newTestClient creates a client against a test server with retries
// effectively disabled so failure tests stay fast.
func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	return NewClient(
		&config.VCenterConfig{
			Endpoint: server.URL,
			Username: "svc-report",
			Password: "secret",
			Timeout:  5 * time.Second,
		},
		&config.RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond},
		zerolog.Nop(),
	)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/session", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "svc-report", user)
		assert.Equal(t, "secret", pass)

		writeJSON(w, http.StatusCreated, "session-token-123")
	}))
	defer server.Close()

	client := newTestClient(t, server)
	require.NoError(t, client.Login(context.Background()))
	assert.Equal(t, "session-token-123", client.sessionID)
}

func TestClient_Login_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.Login(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestClient_SessionActive(t *testing.T) {
	t.Run("no session yet", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("no request expected before login")
		}))
		defer server.Close()

		client := newTestClient(t, server)
		assert.False(t, client.SessionActive(context.Background()))
	})

	t.Run("live session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				writeJSON(w, http.StatusCreated, "tok")
			case http.MethodGet:
				assert.Equal(t, "tok", r.Header.Get("vmware-api-session-id"))
				writeJSON(w, http.StatusOK, map[string]string{"user": "svc-report"})
			}
		}))
		defer server.Close()

		client := newTestClient(t, server)
		require.NoError(t, client.Login(context.Background()))
		assert.True(t, client.SessionActive(context.Background()))
	})

	t.Run("expired session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				writeJSON(w, http.StatusCreated, "tok")
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		client := newTestClient(t, server)
		require.NoError(t, client.Login(context.Background()))
		assert.False(t, client.SessionActive(context.Background()))
	})
}

func TestClient_ListHosts_SortedByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vcenter/host", r.URL.Path)
		writeJSON(w, http.StatusOK, []HostSummary{
			{Host: "host-3", Name: "esx03", ConnectionState: "CONNECTED"},
			{Host: "host-1", Name: "esx01", ConnectionState: "CONNECTED"},
			{Host: "host-2", Name: "esx02", ConnectionState: "DISCONNECTED"},
		})
	}))
	defer server.Close()

	client := newTestClient(t, server)
	hosts, err := client.ListHosts(context.Background())
	require.NoError(t, err)

	require.Len(t, hosts, 3)
	assert.Equal(t, "esx01", hosts[0].Name)
	assert.Equal(t, "esx02", hosts[1].Name)
	assert.Equal(t, "esx03", hosts[2].Name)
}

func TestClient_FindCluster(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/vcenter/cluster", r.URL.Path)
		if r.URL.Query().Get("names") == "prod" {
			writeJSON(w, http.StatusOK, []ClusterSummary{{Cluster: "domain-c8", Name: "prod"}})
			return
		}
		writeJSON(w, http.StatusOK, []ClusterSummary{})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	t.Run("found", func(t *testing.T) {
		cluster, err := client.FindCluster(context.Background(), "prod")
		require.NoError(t, err)
		require.NotNil(t, cluster)
		assert.Equal(t, "domain-c8", cluster.Cluster)
	})

	t.Run("not found is nil, not an error", func(t *testing.T) {
		cluster, err := client.FindCluster(context.Background(), "missing")
		require.NoError(t, err)
		assert.Nil(t, cluster)
	})
}

func TestClient_GetHost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("names") == "esx01" {
			writeJSON(w, http.StatusOK, []HostSummary{
				{Host: "host-1", Name: "esx01", ConnectionState: "CONNECTED", InMaintenance: true},
			})
			return
		}
		writeJSON(w, http.StatusOK, []HostSummary{})
	}))
	defer server.Close()

	client := newTestClient(t, server)

	host, err := client.GetHost(context.Background(), "esx01")
	require.NoError(t, err)
	require.NotNil(t, host)
	assert.True(t, host.InMaintenance)

	unknown, err := client.GetHost(context.Background(), "esx99")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestClient_Get_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	_, err := client.GetHardware(context.Background(), "esx01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestClient_RetriesOn5xx(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, &VersionInfo{Product: "VMware ESXi", Version: "8.0.2", Build: "22380479"})
	}))
	defer server.Close()

	client := NewClient(
		&config.VCenterConfig{Endpoint: server.URL, Username: "u", Password: "p"},
		&config.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond},
		zerolog.Nop(),
	)

	info, err := client.GetVersion(context.Background(), "esx01")
	require.NoError(t, err)
	assert.Equal(t, "22380479", info.Build)
	assert.Equal(t, int32(2), calls.Load())
}

func TestRetryCondition(t *testing.T) {
	assert.True(t, retryCondition(nil, assert.AnError))
	assert.False(t, retryCondition(nil, nil))
}
