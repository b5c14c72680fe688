// Package ir lowers a parsed *ast.File into a language-neutral,
// execution-ready BenchmarkIR: defaults resolved, fixture bytes decoded,
// fixture references detected, and fairness settings propagated to every
// benchmark (spec.md §4.5).
package ir

import "github.com/polybench-dev/polybench/internal/ast"

// Mode is the harness execution strategy a BenchmarkSpec runs under,
// derived strictly from the owning suite's run mode (spec.md §4.5).
type Mode int

const (
	ModeAuto  Mode = iota // timeBased: auto-calibrated, time-budgeted
	ModeFixed             // iterationBased: a fixed iteration count
)

func (m Mode) String() string {
	if m == ModeFixed {
		return "fixed"
	}
	return "auto"
}

// Fixed defaulting constants (spec.md §4.5): benchmark value → suite value
// → these constants, in that order.
const (
	DefaultIterations          = int64(1000)
	DefaultWarmup              = int64(1000)
	DefaultTargetTimeMs        = int64(3000)
	DefaultTimeout             = int64(30_000)
	DefaultCVThreshold         = 5.0
	DefaultAsyncWarmupCap      = int64(5)
	DefaultAsyncSampleCap      = int64(50)
	DefaultAsyncSamplingPolicy = ast.AsyncTimeBudgeted
	DefaultOutlierDetection    = true
	DefaultSink                = true
	DefaultCount               = int64(1)

	// DefaultFairnessSeed seeds the async harnesses' reservoir-sampling RNG
	// when a suite declares no fairnessSeed of its own. That RNG is not an
	// LCG in every language: the Go harness uses math/rand, the Python one
	// random.Random, and the Rust and TypeScript ones a xorshift64 state.
	DefaultFairnessSeed = int64(0x2545F4914F6CDD1D)
)

// AnvilConfig is the global-setup-derived local Ethereum node configuration
// (spec.md §6 "anvil.spawnAnvil(fork: ...)"); its lifecycle brackets the
// entire run and its RPC URL is published to every subprocess via
// ANVIL_RPC_URL.
type AnvilConfig struct {
	ForkURL string
}

// FixtureIR is a fixture with its bytes already decoded (nil for
// parameterized or per-language-code-only fixtures, per spec.md §4.4).
type FixtureIR struct {
	Name            string
	Description     string
	Shape           string
	Params          []ast.FixtureParam
	Data            []byte
	Implementations map[string]*ast.CodeBlock
}

// BenchmarkSpec is a single benchmark with every setting resolved: its own
// value, else the owning suite's, else the fixed constant (spec.md §4.5).
type BenchmarkSpec struct {
	Name         string
	Kind             ast.BenchKind
	Description      string
	Iterations       int64
	Warmup           int64
	TargetTimeMs     int64
	Timeout          int64
	Tags             []string
	Sink             bool // forced true for async benchmarks regardless of setting
	OutlierDetection bool
	CVThreshold      float64
	Count            int64

	Mode           Mode
	MemoryTracking bool

	FairnessMode        ast.FairnessMode
	FairnessSeed        int64
	AsyncSamplingPolicy ast.AsyncSamplingPolicy
	AsyncWarmupCap      int64
	AsyncSampleCap      int64

	FixtureRefs []string // declaration-order, deduplicated, first-occurrence wins

	Skip            map[string]*ast.CodeBlock
	Validate        map[string]*ast.CodeBlock
	Before          map[string]*ast.CodeBlock
	After           map[string]*ast.CodeBlock
	Each            map[string]*ast.CodeBlock
	Implementations map[string]*ast.CodeBlock
}

// SuiteIR carries a suite's fully resolved defaults plus its lowered
// fixtures and benchmarks (spec.md §4.5).
type SuiteIR struct {
	Name        string
	SuiteType   ast.SuiteType
	Mode        Mode
	SameDataset bool
	Order       ast.Order
	Baseline    string

	Setups     map[string]*ast.StructuredSetup // lang -> setup, carried through for codegen
	Fixtures   []*FixtureIR
	Benchmarks []*BenchmarkSpec
}

// BenchmarkIR is the root execution-ready artifact: the union of stdlib
// imports, the optional Anvil configuration, every suite in declaration
// order, and every chart directive in declaration order (spec.md §4.5).
type BenchmarkIR struct {
	StdlibImports   []string
	Anvil           *AnvilConfig
	Suites          []*SuiteIR
	ChartDirectives []*ast.ChartDirective
}
