package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/appsmith/internal/history"
	"git.home.luguber.info/inful/appsmith/internal/server/responses"
)

func seedStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	base := time.Now().Add(-time.Hour)
	records := []history.Record{
		{ID: "r1", Task: "demo1", Round: 1, Status: "success", CreatedAt: base},
		{ID: "r2", Task: "demo1", Round: 2, Status: "success", CreatedAt: base.Add(time.Minute)},
		{ID: "r3", Task: "other", Round: 1, Status: "error", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, rec := range records {
		require.NoError(t, store.Append(t.Context(), rec))
	}
	return store
}

func TestHandleBuildsListsNewestFirst(t *testing.T) {
	h := NewMonitoringHandlers(seedStore(t))

	rec := httptest.NewRecorder()
	h.HandleBuilds(rec, httptest.NewRequest(http.MethodGet, "/builds", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.BuildListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 3, resp.Count)
	require.Equal(t, "r3", resp.Builds[0].ID)
}

func TestHandleBuildsLimit(t *testing.T) {
	h := NewMonitoringHandlers(seedStore(t))

	rec := httptest.NewRecorder()
	h.HandleBuilds(rec, httptest.NewRequest(http.MethodGet, "/builds?limit=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.BuildListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	require.Equal(t, "r3", resp.Builds[0].ID)
}

func TestHandleBuildsTaskFilterOldestFirst(t *testing.T) {
	h := NewMonitoringHandlers(seedStore(t))

	rec := httptest.NewRecorder()
	h.HandleBuilds(rec, httptest.NewRequest(http.MethodGet, "/builds?task=demo1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.BuildListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	require.Equal(t, "r1", resp.Builds[0].ID)
	require.Equal(t, "r2", resp.Builds[1].ID)
}

func TestHandleBuildsWithoutStore(t *testing.T) {
	h := NewMonitoringHandlers(nil)

	rec := httptest.NewRecorder()
	h.HandleBuilds(rec, httptest.NewRequest(http.MethodGet, "/builds", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.BuildListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 0, resp.Count)
	require.NotNil(t, resp.Builds)
}

func TestHandleHealth(t *testing.T) {
	h := NewMonitoringHandlers(nil)

	rec := httptest.NewRecorder()
	h.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp responses.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
}
