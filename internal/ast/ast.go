// Package ast defines the source-preserving AST for a .bench file. Every
// node carries the diag.Span it was parsed from, and every construct that
// can fail to parse has a paired Error variant carrying a span and message
// (spec.md §4.2, §9) so the parser can recover and keep going.
package ast

import "github.com/polybench-dev/polybench/internal/diag"

// Node is implemented by every AST node.
type Node interface {
	Span() diag.Span
}

// ErrorNode marks a location the parser could not make sense of. Downstream
// consumers branch on type and skip these for non-editor flows.
type ErrorNode struct {
	SpanVal diag.Span
	Message string
}

func (e *ErrorNode) Span() diag.Span { return e.SpanVal }

// File is the root of a parsed .bench document. Declaration order is
// preserved in Suites so reporting and codegen stay deterministic.
type File struct {
	SpanVal     diag.Span
	UseStds     []string // "use std::xxx" module names, in source order
	GlobalSetup *GlobalSetup
	Suites      []*Suite
	Errors      []*ErrorNode // parse errors collected in error-tolerant mode
}

func (f *File) Span() diag.Span { return f.SpanVal }

// GlobalSetup models a `globalSetup { anvil.spawnAnvil(fork: "...") }` block.
type GlobalSetup struct {
	SpanVal    diag.Span
	AnvilFork  string // empty if no fork URL given
	HasAnvil   bool
}

func (g *GlobalSetup) Span() diag.Span { return g.SpanVal }

// RunMode selects how a suite/benchmark is scheduled.
type RunMode string

const (
	RunModeTimeBased      RunMode = "timeBased"
	RunModeIterationBased RunMode = "iterationBased"
)

// SuiteType distinguishes ordinary throughput suites from memory-tracked ones.
type SuiteType string

const (
	SuiteTypePerformance SuiteType = "performance"
	SuiteTypeMemory      SuiteType = "memory"
)

// Order controls whether benchmarks within a suite run sequentially or the
// orchestrator may run language invocations concurrently (spec.md §5).
type Order string

const (
	OrderSequential Order = "sequential"
	OrderParallel   Order = "parallel"
)

// FairnessMode selects strict alternation vs free scheduling between the two
// language invocations being compared for a benchmark (spec.md §5).
type FairnessMode string

const (
	FairnessStrict  FairnessMode = "strict"
	FairnessRelaxed FairnessMode = "relaxed"
)

// AsyncSamplingPolicy is the closed sum type from spec.md §4.6/§9.
type AsyncSamplingPolicy string

const (
	AsyncTimeBudgeted AsyncSamplingPolicy = "timeBudgeted"
	AsyncFixedCap     AsyncSamplingPolicy = "fixedCap"
)

// Suite is a named group of fixtures and benchmarks sharing defaults
// (spec.md §3 Suite).
type Suite struct {
	SpanVal             diag.Span
	Name                string
	SuiteType           SuiteType
	RunMode             RunMode
	SameDataset         bool
	Iterations          *int64
	Warmup              *int64
	TargetTimeMs        *int64
	Timeout             *int64
	Requires            []string
	Order               Order
	Baseline            string // language name, empty if unset
	Sink                *bool
	Count               *int64
	OutlierDetection    *bool
	CVThreshold         *float64
	FairnessMode        FairnessMode
	FairnessSeed        *int64
	AsyncSamplingPolicy AsyncSamplingPolicy
	AsyncWarmupCap      *int64
	AsyncSampleCap      *int64

	Setups          map[string]*StructuredSetup // lang -> setup
	Fixtures        []*Fixture
	Benchmarks      []*Benchmark
	ChartDirectives []*ChartDirective
	GlobalSetup     *GlobalSetup // per-suite override, rare; usually file-level
}

func (s *Suite) Span() diag.Span { return s.SpanVal }

// StructuredSetup is a `setup <lang> { import {} declare {} init {} helpers {} }`
// block. Each section is captured as raw source text plus the span it came
// from (spec.md §3 StructuredSetup).
type StructuredSetup struct {
	SpanVal      diag.Span
	Language     string
	Imports      *CodeBlock
	Declarations *CodeBlock
	Init         *CodeBlock
	InitIsAsync  bool
	Helpers      *CodeBlock
}

func (s *StructuredSetup) Span() diag.Span { return s.SpanVal }

// CodeBlock is raw source text captured verbatim (including nested braces)
// between the opening and closing delimiters of a code slot (spec.md §4.2).
type CodeBlock struct {
	SpanVal diag.Span
	Source  string
}

func (c *CodeBlock) Span() diag.Span { return c.SpanVal }

// DataSource is the oneOf for a fixture's bytes (spec.md §3 Fixture).
type DataSourceKind int

const (
	DataSourceInline DataSourceKind = iota
	DataSourceFile
	DataSourceHex
	DataSourceHexFile
	DataSourceCode // per-language code, no universal bytes
)

type DataSource struct {
	Kind     DataSourceKind
	Inline   string // literal string payload (for Inline/Hex)
	FilePath string // for File/HexFile
	Encoding string // "raw" | "utf8" | "hex" | "base64"
	Format   string // "" | "json" | "csv" — supersedes Encoding
	Selector string // JSON path or CSV column/header
}

// FixtureParam is a typed parameter of a parameterized fixture.
type FixtureParam struct {
	Name string
	Type string
}

// Fixture is immutable test data bound to an identifier (spec.md §3 Fixture).
type Fixture struct {
	SpanVal        diag.Span
	Name           string
	Description    string
	Shape          string
	Params         []FixtureParam
	DataSource     *DataSource // nil if purely per-language code
	Implementations map[string]*CodeBlock // lang -> code, for per-language fixtures
}

func (f *Fixture) Span() diag.Span { return f.SpanVal }

// BenchKind distinguishes synchronous from asynchronous benchmarks.
type BenchKind string

const (
	BenchSync  BenchKind = "sync"
	BenchAsync BenchKind = "async"
)

// Benchmark is a single measured unit (spec.md §3 Benchmark).
type Benchmark struct {
	SpanVal          diag.Span
	Name             string
	Kind             BenchKind
	Description      string
	Iterations       *int64
	Warmup           *int64
	TargetTimeMs     *int64
	Timeout          *int64
	Tags             []string
	Skip             map[string]*CodeBlock
	Validate         map[string]*CodeBlock
	Before           map[string]*CodeBlock
	After            map[string]*CodeBlock
	Each             map[string]*CodeBlock
	Sink             *bool
	OutlierDetection *bool
	CVThreshold      *float64
	Count            *int64
	Implementations  map[string]*CodeBlock // lang -> benchmark body, required
}

func (b *Benchmark) Span() diag.Span { return b.SpanVal }

// ChartDirective is a `charting.drawX(k: v, ...)` call collected inside a
// suite's `after` block. Rendering itself is out of scope (spec.md §1); only
// the directive's name and keyword arguments are retained.
type ChartDirective struct {
	SpanVal diag.Span
	Name    string
	Args    map[string]string
}

func (c *ChartDirective) Span() diag.Span { return c.SpanVal }
