package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appsmith/internal/config"
)

func testServer(registry *prom.Registry) *Server {
	cfg := &config.Config{
		Secret:      "s3cret",
		GitHubToken: "tok",
		GitHubOwner: "octo",
		GroqAPIKey:  "key",
	}
	return New(cfg, nil, nil, registry)
}

func TestAdminMuxRoutes(t *testing.T) {
	s := testServer(prom.NewRegistry())
	mux := s.adminMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var health map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health["status"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/builds", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var builds map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &builds))
	require.EqualValues(t, 0, builds["count"])

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminMuxSkipsMetricsWithoutRegistry(t *testing.T) {
	s := testServer(nil)
	mux := s.adminMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartStopLifecycle(t *testing.T) {
	s := testServer(nil)
	s.cfg.Server.ListenPort = 0
	s.cfg.Server.AdminPort = 0

	ctx := t.Context()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Stop(ctx))
}
