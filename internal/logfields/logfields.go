package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyTask       = "task"
	KeyRound      = "round"
	KeyRepo       = "repository"
	KeyStage      = "stage"
	KeyAttempt    = "attempt"
	KeyStatus     = "status"
	KeyCommitSHA  = "commit_sha"
	KeyDurationMS = "duration_ms"
	KeyRequestID  = "request_id"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Task(name string) slog.Attr      { return slog.String(KeyTask, name) }
func Round(n int) slog.Attr           { return slog.Int(KeyRound, n) }
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Attempt(n int) slog.Attr         { return slog.Int(KeyAttempt, n) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }
func CommitSHA(sha string) slog.Attr  { return slog.String(KeyCommitSHA, sha) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
