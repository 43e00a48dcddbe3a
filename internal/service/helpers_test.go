package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"esxi-report/internal/client/vcenter"
	"esxi-report/internal/config"
)

// newVCenterClient starts a test server that answers the session
// endpoints itself and delegates everything else to handler, then
// returns a logged-in client. Retries are effectively disabled so
// failure scenarios stay fast.
func newVCenterClient(t *testing.T, handler http.HandlerFunc) *vcenter.Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/session" {
			if r.Method == http.MethodPost {
				writeJSON(w, http.StatusCreated, "test-token")
				return
			}
			w.WriteHeader(http.StatusOK)
			return
		}
		if handler == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := vcenter.NewClient(
		&config.VCenterConfig{
			Endpoint: server.URL,
			Username: "svc-report",
			Password: "secret",
			Timeout:  5 * time.Second,
		},
		&config.RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond},
		zerolog.Nop(),
	)
	require.NoError(t, client.Login(context.Background()))
	return client
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
