package aggregator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/polybench-dev/polybench/internal/measurement"
)

// Aggregator folds repeated runs of the same (benchmark, language) pair into
// one representative result.
type Aggregator struct {
	CVThreshold float64
}

// New returns an Aggregator using cvThreshold for the multi-run stability
// check (spec.md §9 "is_stable = cv_percent ≤ cv_threshold", reused here
// against the spread of per-run medians rather than per-iteration samples).
func New(cvThreshold float64) *Aggregator {
	return &Aggregator{CVThreshold: cvThreshold}
}

// Aggregate folds a single (benchmark, language) pair's independent runs
// into one AggregatedResult. When count == 1 the lone run passes through
// unchanged aside from a zero-value RunAggregate; when count > 1 the
// returned Measurement is the run whose NanosPerOp sits closest to the
// median across runs, its RunAggregate populated via
// measurement.AggregateRuns.
func (a *Aggregator) Aggregate(br BenchmarkRuns) (*AggregatedResult, error) {
	if len(br.Runs) == 0 {
		return nil, fmt.Errorf("aggregator: %s/%s has no runs to aggregate", br.Name, br.Language)
	}
	if len(br.Runs) == 1 {
		out := *br.Runs[0]
		return &AggregatedResult{Name: br.Name, Language: br.Language, Measured: &out}, nil
	}

	medians := make([]float64, len(br.Runs))
	for i, r := range br.Runs {
		medians[i] = r.NanosPerOp
	}
	runAgg := measurement.AggregateRuns(medians, a.CVThreshold)

	out := *medianRun(br.Runs)
	out.Runs = runAgg
	return &AggregatedResult{Name: br.Name, Language: br.Language, Measured: &out}, nil
}

// AggregateSuite runs Aggregate over every group, in order, stopping at the
// first error — a benchmark with zero runs for a language is a caller bug,
// not a per-entry condition to skip past.
func (a *Aggregator) AggregateSuite(groups []BenchmarkRuns, metadata map[string]string) (*AggregatedSuite, error) {
	results := make([]*AggregatedResult, 0, len(groups))
	for _, g := range groups {
		r, err := a.Aggregate(g)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return &AggregatedSuite{Results: results, Metadata: metadata}, nil
}

// medianRun returns the run whose NanosPerOp is closest to the median of
// all runs' NanosPerOp, breaking ties toward the earlier run in sorted order.
func medianRun(runs []*measurement.Measurement) *measurement.Measurement {
	sorted := append([]*measurement.Measurement(nil), runs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].NanosPerOp < sorted[j].NanosPerOp })
	return sorted[(len(sorted)-1)/2]
}

// Export serializes an AggregatedSuite to the requested format.
func Export(suite *AggregatedSuite, format ExportFormat) ([]byte, error) {
	if suite == nil {
		return nil, fmt.Errorf("aggregator: suite cannot be nil")
	}
	switch format {
	case FormatJSON:
		return exportJSON(suite)
	case FormatCSV:
		return exportCSV(suite)
	default:
		return nil, fmt.Errorf("aggregator: unsupported export format %q", format)
	}
}

func exportJSON(suite *AggregatedSuite) ([]byte, error) {
	data, err := json.MarshalIndent(suite, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("aggregator: marshal json: %w", err)
	}
	return data, nil
}

func exportCSV(suite *AggregatedSuite) ([]byte, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	header := []string{"name", "language", "iterations", "nanos_per_op", "ops_per_sec", "cv_percent", "is_stable", "run_count"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("aggregator: write csv header: %w", err)
	}

	for _, r := range suite.Results {
		m := r.Measured
		cv := ""
		if m.Distribution != nil {
			cv = fmt.Sprintf("%.4f", m.Distribution.CVPercent)
		}
		stable := ""
		runCount := ""
		if m.Runs != nil {
			stable = fmt.Sprintf("%t", m.Runs.IsStable)
			runCount = fmt.Sprintf("%d", m.Runs.RunCount)
		}
		row := []string{
			r.Name,
			r.Language,
			fmt.Sprintf("%d", m.Iterations),
			fmt.Sprintf("%.2f", m.NanosPerOp),
			fmt.Sprintf("%.2f", m.OpsPerSec),
			cv,
			stable,
			runCount,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("aggregator: write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("aggregator: csv writer: %w", err)
	}
	return []byte(buf.String()), nil
}
