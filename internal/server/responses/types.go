// Package responses defines API response types used by appsmith HTTP handlers.
package responses

import (
	"time"

	"git.home.luguber.info/inful/appsmith/internal/history"
)

// BuildResponse is the body returned by the build endpoint. Success and
// failure both travel on a 200 response; callers must inspect Status.
type BuildResponse struct {
	Status    string `json:"status"`
	RepoURL   string `json:"repo_url,omitempty"`
	PagesURL  string `json:"pages_url,omitempty"`
	CommitSHA string `json:"commit_sha,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
}

// BuildListResponse lists recent build history records.
type BuildListResponse struct {
	Builds []history.Record `json:"builds"`
	Count  int              `json:"count"`
}
