package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o750); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A second pooled connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		build_id TEXT NOT NULL UNIQUE,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		project TEXT NOT NULL,
		version TEXT,
		outcome TEXT NOT NULL,
		sources INTEGER NOT NULL,
		doxygen_version TEXT,
		index_path TEXT,
		unmatched TEXT,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record stores run.
func (s *SQLiteStore) Record(ctx context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var unmatched []byte
	if len(run.Unmatched) > 0 {
		var err error
		unmatched, err = json.Marshal(run.Unmatched)
		if err != nil {
			return fmt.Errorf("marshal unmatched keys: %w", err)
		}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (build_id, started_at, duration_ms, project, version, outcome, sources,
			doxygen_version, index_path, unmatched, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.BuildID, run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), run.Project, run.Version,
		run.Outcome, run.Sources, run.DoxygenVersion, run.IndexPath, string(unmatched), run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

const selectRuns = `SELECT id, build_id, started_at, duration_ms, project, version, outcome, sources,
	doxygen_version, index_path, unmatched, error FROM runs`

// List returns the most recent runs first. limit <= 0 returns all runs.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, selectRuns+" ORDER BY started_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return runs, nil
}

// Get returns the run with buildID.
func (s *SQLiteStore) Get(ctx context.Context, buildID string) (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRowContext(ctx, selectRuns+" WHERE build_id = ?", buildID))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, buildID)
	}
	return run, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		run                            Run
		startedMS, durationMS          int64
		version, doxygenVersion, index sql.NullString
		unmatched, errText             sql.NullString
	)
	err := row.Scan(&run.ID, &run.BuildID, &startedMS, &durationMS, &run.Project, &version,
		&run.Outcome, &run.Sources, &doxygenVersion, &index, &unmatched, &errText)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	run.StartedAt = time.UnixMilli(startedMS)
	run.Duration = time.Duration(durationMS) * time.Millisecond
	run.Version = version.String
	run.DoxygenVersion = doxygenVersion.String
	run.IndexPath = index.String
	run.Error = errText.String
	if unmatched.String != "" {
		if err := json.Unmarshal([]byte(unmatched.String), &run.Unmatched); err != nil {
			return Run{}, fmt.Errorf("unmarshal unmatched keys: %w", err)
		}
	}
	return run, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
