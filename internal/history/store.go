// Package history persists a summary of every build run in SQLite.
package history

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no run has the requested build ID.
var ErrNotFound = errors.New("run not found")

// Run is the stored summary of one build.
type Run struct {
	ID             int64
	BuildID        string
	StartedAt      time.Time
	Duration       time.Duration
	Project        string
	Version        string
	Outcome        string
	Sources        int
	DoxygenVersion string
	IndexPath      string
	Unmatched      []string
	Error          string
}

// Store records and lists runs.
type Store interface {
	Record(ctx context.Context, run Run) error
	List(ctx context.Context, limit int) ([]Run, error)
	Get(ctx context.Context, buildID string) (Run, error)
	Close() error
}

// NoopStore discards runs (default when history is not configured).
type NoopStore struct{}

func (NoopStore) Record(context.Context, Run) error        { return nil }
func (NoopStore) List(context.Context, int) ([]Run, error) { return nil, nil }
func (NoopStore) Get(context.Context, string) (Run, error) { return Run{}, ErrNotFound }
func (NoopStore) Close() error                             { return nil }
