// Package task defines the inbound task request for the build endpoint.
package task

import (
	"fmt"
	"net/url"
	"regexp"
)

// Attachment is a named reference supplied alongside a task brief.
type Attachment struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Request is a parsed build request. Immutable once received; lifetime is one
// HTTP request.
type Request struct {
	Email         string       `json:"email"`
	Secret        string       `json:"secret"`
	Task          string       `json:"task"`
	Round         int          `json:"round"`
	Nonce         string       `json:"nonce"`
	Brief         string       `json:"brief"`
	Checks        []string     `json:"checks"`
	EvaluationURL string       `json:"evaluation_url"`
	Attachments   []Attachment `json:"attachments,omitempty"`
}

// GitHub repository name rules: alphanumerics, hyphen, underscore, dot.
var repoNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// Validate checks structural validity of the request. The shared-secret match
// is a separate authorization concern handled by the HTTP layer.
func (r *Request) Validate() error {
	if r.Task == "" {
		return fmt.Errorf("task name is required")
	}
	if !repoNamePattern.MatchString(r.Task) {
		return fmt.Errorf("task name %q is not a valid repository name", r.Task)
	}
	if r.Round < 1 {
		return fmt.Errorf("round must be >= 1, got %d", r.Round)
	}
	if r.EvaluationURL == "" {
		return fmt.Errorf("evaluation_url is required")
	}
	if _, err := url.ParseRequestURI(r.EvaluationURL); err != nil {
		return fmt.Errorf("evaluation_url is not a valid URL: %w", err)
	}
	return nil
}
