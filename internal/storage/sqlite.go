package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (but does not yet initialize) a SQLite-backed Store
// at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Init creates the schema if it does not already exist. Safe to call
// repeatedly.
func (s *SQLiteStore) Init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		suite TEXT NOT NULL,
		name TEXT NOT NULL,
		language TEXT NOT NULL,
		run_at DATETIME NOT NULL,
		iterations INTEGER NOT NULL,
		nanos_per_op REAL NOT NULL,
		ops_per_sec REAL NOT NULL,
		cv_percent REAL NOT NULL,
		is_stable BOOLEAN NOT NULL,
		bytes_per_op REAL,
		allocs_per_op REAL,
		success_ratio REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_runs_suite_name_language_run_at
		ON runs(suite, name, language, run_at);
	CREATE INDEX IF NOT EXISTS idx_runs_name_language
		ON runs(name, language);
	CREATE INDEX IF NOT EXISTS idx_runs_run_at
		ON runs(run_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("storage: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveRun inserts a single run record.
func (s *SQLiteStore) SaveRun(r *Run) error {
	if r == nil {
		return fmt.Errorf("storage: run cannot be nil")
	}
	_, err := s.db.Exec(`
		INSERT INTO runs
			(suite, name, language, run_at, iterations, nanos_per_op, ops_per_sec,
			 cv_percent, is_stable, bytes_per_op, allocs_per_op, success_ratio)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.Suite, r.Name, r.Language, r.RunAt, r.Iterations, r.NanosPerOp, r.OpsPerSec,
		r.CVPercent, r.IsStable, r.BytesPerOp, r.AllocsPerOp, r.SuccessRatio,
	)
	if err != nil {
		return fmt.Errorf("storage: insert run: %w", err)
	}
	return nil
}

// LatestBefore returns the most recent run strictly before at, or nil if
// none exists.
func (s *SQLiteStore) LatestBefore(suite, name, language string, at time.Time) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT id, suite, name, language, run_at, iterations, nanos_per_op, ops_per_sec,
		       cv_percent, is_stable, bytes_per_op, allocs_per_op, success_ratio
		FROM runs
		WHERE suite = ? AND name = ? AND language = ? AND run_at < ?
		ORDER BY run_at DESC
		LIMIT 1
	`, suite, name, language, at)

	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: query latest before: %w", err)
	}
	return r, nil
}

// History returns up to limit runs for (name, language), oldest first.
func (s *SQLiteStore) History(name, language string, limit int) ([]*Run, error) {
	query := `
		SELECT id, suite, name, language, run_at, iterations, nanos_per_op, ops_per_sec,
		       cv_percent, is_stable, bytes_per_op, allocs_per_op, success_ratio
		FROM runs
		WHERE name = ? AND language = ?
		ORDER BY run_at DESC
	`
	args := []any{name, language}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query history: %w", err)
	}
	defer rows.Close()

	var history []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan run: %w", err)
		}
		history = append(history, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate history: %w", err)
	}

	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}
	return history, nil
}

// Prune deletes runs older than retentionDays.
func (s *SQLiteStore) Prune(retentionDays int) error {
	if retentionDays <= 0 {
		return fmt.Errorf("storage: retention days must be positive")
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	if _, err := s.db.Exec(`DELETE FROM runs WHERE run_at < ?`, cutoff); err != nil {
		return fmt.Errorf("storage: prune: %w", err)
	}
	return nil
}

// rowScanner abstracts over *sql.Row and *sql.Rows, both of which expose
// Scan with the same signature.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.ID, &r.Suite, &r.Name, &r.Language, &r.RunAt, &r.Iterations,
		&r.NanosPerOp, &r.OpsPerSec, &r.CVPercent, &r.IsStable,
		&r.BytesPerOp, &r.AllocsPerOp, &r.SuccessRatio,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
