// Package handlers provides the HTTP handlers for the build and admin
// endpoints.
package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"git.home.luguber.info/inful/appsmith/internal/config"
	"git.home.luguber.info/inful/appsmith/internal/errors"
	"git.home.luguber.info/inful/appsmith/internal/pipeline"
	"git.home.luguber.info/inful/appsmith/internal/server/responses"
	"git.home.luguber.info/inful/appsmith/internal/task"
)

// BuildHandlers contains the HTTP handler for build requests.
type BuildHandlers struct {
	cfg          *config.Config
	pipe         *pipeline.Pipeline
	errorAdapter *errors.HTTPErrorAdapter
}

// NewBuildHandlers constructs a new BuildHandlers.
func NewBuildHandlers(cfg *config.Config, pipe *pipeline.Pipeline) *BuildHandlers {
	return &BuildHandlers{
		cfg:          cfg,
		pipe:         pipe,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleBuild receives a task request, authorizes it, runs the pipeline, and
// serializes the Result. Pipeline failures are reported in a 200 body with
// status "error"; only authorization and malformed input get non-2xx codes,
// and authorization is checked before any external call.
func (h *BuildHandlers) HandleBuild(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		err := errors.ValidationError("invalid HTTP method").
			WithContext("method", r.Method).
			WithContext("allowed_method", "POST").
			Build()
		h.errorAdapter.WriteErrorResponse(w, err)
		return
	}

	var req task.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		derr := errors.ValidationError("invalid JSON payload").
			WithContext("content_type", r.Header.Get("Content-Type")).
			WithContext("error", err.Error()).
			Build()
		h.errorAdapter.WriteErrorResponse(w, derr)
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.cfg.Secret)) != 1 {
		h.errorAdapter.WriteErrorResponse(w, errors.AuthError("invalid secret"))
		return
	}

	if err := req.Validate(); err != nil {
		derr := errors.ValidationError("invalid task request").
			WithContext("error", err.Error()).
			Build()
		h.errorAdapter.WriteErrorResponse(w, derr)
		return
	}

	result := h.pipe.Run(r.Context(), &req)

	resp := responses.BuildResponse{
		Status:    "success",
		RepoURL:   result.RepoURL,
		PagesURL:  result.PagesURL,
		CommitSHA: result.CommitSHA,
	}
	if !result.OK {
		resp = responses.BuildResponse{Status: "error", Message: result.Message}
	}

	writeJSON(w, http.StatusOK, resp)
}
