package executor

import (
	"time"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/codegen"
	"github.com/polybench-dev/polybench/internal/ir"
	"github.com/polybench-dev/polybench/internal/parser"
)

// Job is one (benchmark, language) pair ready to compile and run.
type Job struct {
	Spec  *ir.BenchmarkSpec
	Suite *ir.SuiteIR
	Lang  codegen.Language

	// ModuleRoot is the resolved per-language module root (spec.md §6
	// "Workspace layout consumed"), used to resolve shared toolchain
	// dependencies (node_modules, a vendored Cargo registry, a Python
	// virtualenv) that the scratch build directory doesn't carry itself.
	ModuleRoot string

	// StdlibNames are the `use std::` module names in scope for this
	// benchmark (ir.BenchmarkIR.StdlibImports); Execute resolves these into
	// snippets for codegen and env var names for the cache fingerprint.
	StdlibNames []string

	// ExtraEnv holds resolved values for whatever env vars the resolved
	// stdlib modules require (e.g. ANVIL_RPC_URL), set by whatever
	// provisioned them (the anvil node spawned by globalSetup).
	ExtraEnv map[string]string

	Timeout time.Duration // 0 = no timeout
}

// Name returns the benchmark name, a small convenience since Job embeds
// Spec rather than duplicating its fields.
func (j *Job) Name() string { return j.Spec.Name }

// Result is one Job's outcome.
type Result struct {
	Job      *Job
	Parsed   *parser.Result // nil when Err != nil
	Err      error
	CacheHit bool
	Attempts int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// BatchConfig controls ExecuteBatch's concurrency, retry, and fairness
// pacing (spec.md §4.7, §4.9).
type BatchConfig struct {
	Parallel           int // concurrent benchmark executions
	CompileConcurrency int // concurrent compiler invocations (distinct knob)
	Retry              int
	FailFast           bool

	Fairness           ast.FairnessMode
	FairnessRatePerSec float64 // subprocess-spawn pacing under FairnessStrict
}

// EventType identifies a ProgressEvent's lifecycle stage (spec.md §4.9).
type EventType int

const (
	EventScheduled EventType = iota
	EventRunning
	EventRetrying
	EventCompleted
	EventFailed
	EventCancelled
)

func (e EventType) String() string {
	switch e {
	case EventScheduled:
		return "scheduled"
	case EventRunning:
		return "running"
	case EventRetrying:
		return "retrying"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ProgressEvent is one lifecycle update during ExecuteBatch. internal/cmd
// bridges these to structured log/slog records.
type ProgressEvent struct {
	Type      EventType
	Job       *Job
	Result    *Result
	Err       error
	Timestamp time.Time
}

type ProgressHandler func(*ProgressEvent)

// ParserRegistry resolves the decoder for a job's language.
type ParserRegistry interface {
	GetParser(language string) (parser.Parser, error)
	RegisterParser(p parser.Parser)
}
