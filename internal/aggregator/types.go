package aggregator

import "github.com/polybench-dev/polybench/internal/measurement"

// BenchmarkRuns is the input to Aggregate: every independent run's decoded
// measurement for one (benchmark, language) pair, in execution order.
type BenchmarkRuns struct {
	Name     string
	Language string
	Runs     []*measurement.Measurement
}

// AggregatedResult is one (benchmark, language) pair's multi-run outcome:
// a representative Measurement (the run whose NanosPerOp is closest to the
// median across runs) carrying a populated RunAggregate.
type AggregatedResult struct {
	Name     string
	Language string
	Measured *measurement.Measurement
}

// AggregatedSuite is every benchmark/language pair's aggregated result,
// ready for export or for internal/comparator and internal/reporter to
// consume.
type AggregatedSuite struct {
	Results  []*AggregatedResult
	Metadata map[string]string
}

// ExportFormat selects AggregatedSuite's serialization.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"
)
