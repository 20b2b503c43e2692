package handlers

import (
	"net/http"
	"strconv"
	"time"

	"git.home.luguber.info/inful/appsmith/internal/history"
	"git.home.luguber.info/inful/appsmith/internal/server/responses"
	"git.home.luguber.info/inful/appsmith/internal/version"
)

// MonitoringHandlers serves health and build-history endpoints on the admin mux.
type MonitoringHandlers struct {
	store     *history.Store
	startTime time.Time
}

// NewMonitoringHandlers constructs a new MonitoringHandlers. store may be nil,
// in which case the builds listing reports an empty set.
func NewMonitoringHandlers(store *history.Store) *MonitoringHandlers {
	return &MonitoringHandlers{store: store, startTime: time.Now()}
}

// HandleHealth reports process liveness.
func (h *MonitoringHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, responses.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
	})
}

// HandleBuilds lists recent build records, newest first. Optional ?limit=N,
// or ?task=NAME for the full per-task history oldest first.
func (h *MonitoringHandlers) HandleBuilds(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	var records []history.Record
	if h.store != nil {
		var err error
		if taskName := r.URL.Query().Get("task"); taskName != "" {
			records, err = h.store.ByTask(r.Context(), taskName)
		} else {
			records, err = h.store.Recent(r.Context(), limit)
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}
	if records == nil {
		records = []history.Record{}
	}

	writeJSON(w, http.StatusOK, responses.BuildListResponse{Builds: records, Count: len(records)})
}
