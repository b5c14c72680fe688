package storage

import "time"

// Run is one (suite, benchmark, language) pair's persisted measurement at a
// point in time — the unit this package stores and queries.
type Run struct {
	ID       int64
	Suite    string
	Name     string
	Language string
	RunAt    time.Time

	Iterations  int64
	NanosPerOp  float64
	OpsPerSec   float64
	CVPercent   float64 // 0 when the run carried no distribution
	IsStable    bool
	BytesPerOp  *float64
	AllocsPerOp *float64
	SuccessRatio *float64 // non-nil only for async benchmarks
}

// Store persists Runs and answers history queries over them.
type Store interface {
	Init() error
	Close() error

	// SaveRun appends one run. Runs are immutable once written; there is
	// no update path, only insert and prune.
	SaveRun(r *Run) error

	// LatestBefore returns the most recent run for (suite, name, language)
	// strictly before at, or nil if there is none — the "vs last run"
	// baseline internal/reporter's summary compares against.
	LatestBefore(suite, name, language string, at time.Time) (*Run, error)

	// History returns up to limit runs for (name, language) across all
	// suites, oldest first. limit <= 0 means unbounded.
	History(name, language string, limit int) ([]*Run, error)

	// Prune deletes runs older than retentionDays.
	Prune(retentionDays int) error
}
