// Package history persists per-request build records in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Record is one completed (or failed) build request.
type Record struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Round     int       `json:"round"`
	Status    string    `json:"status"`
	RepoURL   string    `json:"repo_url,omitempty"`
	CommitSHA string    `json:"commit_sha,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store implements build history using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewStore creates a new SQLite-backed history store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		task TEXT NOT NULL,
		round INTEGER NOT NULL,
		status TEXT NOT NULL,
		repo_url TEXT,
		commit_sha TEXT,
		message TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_builds_task ON builds(task);
	CREATE INDEX IF NOT EXISTS idx_builds_created_at ON builds(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Append stores a build record.
func (s *Store) Append(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO builds (id, task, round, status, repo_url, commit_sha, message, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Task, rec.Round, rec.Status, rec.RepoURL, rec.CommitSHA, rec.Message, rec.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert build record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = defaultRecentLimit
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, task, round, status, repo_url, commit_sha, message, created_at FROM builds ORDER BY created_at DESC, id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// ByTask returns all records for a task name, oldest first.
func (s *Store) ByTask(ctx context.Context, taskName string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, task, round, status, repo_url, commit_sha, message, created_at FROM builds WHERE task = ? ORDER BY created_at, id",
		taskName,
	)
	if err != nil {
		return nil, fmt.Errorf("query build records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

const defaultRecentLimit = 50

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var records []Record
	for rows.Next() {
		var rec Record
		var createdUnix int64
		if err := rows.Scan(&rec.ID, &rec.Task, &rec.Round, &rec.Status, &rec.RepoURL, &rec.CommitSHA, &rec.Message, &createdUnix); err != nil {
			return nil, fmt.Errorf("scan build record: %w", err)
		}
		rec.CreatedAt = time.Unix(createdUnix, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
