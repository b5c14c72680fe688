package comparator

import "github.com/polybench-dev/polybench/internal/measurement"

// Verdict is a comparison outcome for one benchmark.
type Verdict string

const (
	Faster Verdict = "faster"
	TieV   Verdict = "tie"
)

// TieEpsilon is the ratio threshold spec.md §9's third Open Question
// resolves to 5%: a speedup within this of 1.0 is a Tie rather than a win.
const TieEpsilon = 0.05

// AsyncSpreadWarnThreshold is the cross-language success-ratio spread, in
// percentage points, above which a benchmark's async reliability figures
// are flagged as disagreeing across languages (SPEC_FULL.md §8).
const AsyncSpreadWarnThreshold = 5.0

// PairResult is one unordered (languageA, languageB) pairing's speedup for
// a benchmark (spec.md §4.8 "pairwise speedups").
type PairResult struct {
	LanguageA, LanguageB string
	Faster               string // language with the lower nanos_per_op; "" if Tie
	Speedup              float64 // slower/faster nanos_per_op, >= 1
	Verdict              Verdict
}

// BenchmarkComparison is one benchmark's cross-language comparison.
type BenchmarkComparison struct {
	Name         string
	Measurements map[string]*measurement.Measurement
	Pairs        []PairResult

	// Winner is the fastest language overall, "" when the top two are
	// within TieEpsilon of each other.
	Winner  string
	Verdict Verdict

	// BaselineSpeedup is Winner's nanos_per_op speedup versus Baseline
	// (1.0 when Winner == Baseline or the benchmark tied).
	Baseline        string
	BaselineSpeedup float64

	AsyncSpreadWarning bool
	AsyncSpreadPoints  float64
}

// SuiteSummary aggregates a suite's per-benchmark comparisons (spec.md
// §4.8 "per-language win counter, tie counter, running geometric mean").
type SuiteSummary struct {
	WinCounts            map[string]int
	TieCount             int
	GeometricMeanSpeedup float64
	Baseline             string
}
