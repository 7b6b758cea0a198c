// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package journal keeps a local record of submitted tasks in SQLite so a
// later invocation can list them and resume waiting on one.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/ocean-bridge/pkg/types"
)

const dbFile = "tasks.db"

// Entry is one journaled task submission.
type Entry struct {
	TaskID      string
	DeviceID    string
	ProblemType string
	Shots       int
	State       string
	Bucket      string
	KeyPrefix   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Journal manages the task journal database.
type Journal struct {
	db *sql.DB
}

// Open opens or creates the journal database at cfg.Dir/tasks.db,
// creating the schema if it does not exist.
func Open(cfg types.JournalConfig) (*Journal, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	j := &Journal{db: db}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal schema: %w", err)
	}
	return j, nil
}

// Close releases the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) createSchema() error {
	_, err := j.db.Exec(`CREATE TABLE IF NOT EXISTS tasks (
		task_id TEXT PRIMARY KEY,
		device_id TEXT NOT NULL,
		problem_type TEXT,
		shots INTEGER,
		state TEXT NOT NULL,
		bucket TEXT,
		key_prefix TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

// Record inserts a journal entry for a freshly submitted task.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO tasks (task_id, device_id, problem_type, shots, state, bucket, key_prefix, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TaskID, e.DeviceID, e.ProblemType, e.Shots, e.State,
		e.Bucket, e.KeyPrefix, e.CreatedAt.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("recording task %s: %w", e.TaskID, err)
	}
	return nil
}

// UpdateState records the latest observed lifecycle state for a task.
func (j *Journal) UpdateState(ctx context.Context, taskID, state string) error {
	res, err := j.db.ExecContext(ctx,
		`UPDATE tasks SET state = ?, updated_at = ? WHERE task_id = ?`,
		state, time.Now().UTC().Format(time.RFC3339), taskID)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", taskID, err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("task %s not in journal", taskID)
	}
	return nil
}

// Get returns the journal entry for one task.
func (j *Journal) Get(ctx context.Context, taskID string) (*Entry, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT task_id, device_id, problem_type, shots, state, bucket, key_prefix, created_at, updated_at
		 FROM tasks WHERE task_id = ?`, taskID)
	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s not in journal", taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading task %s: %w", taskID, err)
	}
	return e, nil
}

// List returns all journal entries, newest first.
func (j *Journal) List(ctx context.Context) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT task_id, device_id, problem_type, shots, state, bucket, key_prefix, created_at, updated_at
		 FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("reading task row: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func scanEntry(scan func(...any) error) (*Entry, error) {
	var e Entry
	var created, updated string
	if err := scan(&e.TaskID, &e.DeviceID, &e.ProblemType, &e.Shots, &e.State,
		&e.Bucket, &e.KeyPrefix, &created, &updated); err != nil {
		return nil, err
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	e.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &e, nil
}
