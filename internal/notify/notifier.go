// Package notify delivers the completion payload to the caller-supplied
// evaluation endpoint with a bounded retry schedule.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/appsmith/internal/logfields"
)

// deliverySchedule is the fixed attempt schedule: five attempts with these
// delays before each one. A hardcoded design constant, not a configurable
// backoff policy.
var deliverySchedule = []time.Duration{
	0,
	1 * time.Second,
	2 * time.Second,
	4 * time.Second,
	8 * time.Second,
}

// attemptTimeout bounds each individual delivery attempt.
const attemptTimeout = 10 * time.Second

// Payload is the completion notification sent to the evaluation endpoint.
type Payload struct {
	Email     string `json:"email"`
	Task      string `json:"task"`
	Round     int    `json:"round"`
	Nonce     string `json:"nonce"`
	RepoURL   string `json:"repo_url"`
	CommitSHA string `json:"commit_sha"`
	PagesURL  string `json:"pages_url"`
}

// Notifier posts completion payloads. Delivery is at-most-effort: exhausting
// the schedule is logged but never surfaced as an error.
type Notifier struct {
	httpClient *http.Client
	schedule   []time.Duration
	sleep      func(time.Duration)
}

// NewNotifier creates a Notifier with the fixed delivery schedule.
func NewNotifier() *Notifier {
	return &Notifier{
		httpClient: &http.Client{Timeout: attemptTimeout},
		schedule:   deliverySchedule,
		sleep:      time.Sleep,
	}
}

// Notify posts the payload to url, retrying per the schedule. Only an exact
// HTTP 200 counts as delivered; any other status or transport failure moves
// to the next attempt. Reports whether delivery succeeded; it never returns
// an error, and callers' own success is independent of the outcome.
func (n *Notifier) Notify(ctx context.Context, url string, payload Payload) bool {
	body, err := json.Marshal(payload)
	if err != nil {
		slog.Error("notify: marshal payload", logfields.Error(err))
		return false
	}

	for i, delay := range n.schedule {
		if delay > 0 {
			n.sleep(delay)
		}

		if n.attempt(ctx, url, body) {
			slog.Info("evaluation endpoint notified",
				logfields.Task(payload.Task),
				logfields.Round(payload.Round),
				logfields.Attempt(i+1))
			return true
		}

		slog.Debug("notify attempt failed",
			logfields.Task(payload.Task),
			logfields.Attempt(i+1))
	}

	slog.Warn("failed to notify evaluation endpoint after all retries",
		logfields.Task(payload.Task),
		logfields.Round(payload.Round),
		slog.String("url", url))
	return false
}

func (n *Notifier) attempt(ctx context.Context, url string, body []byte) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK
}
