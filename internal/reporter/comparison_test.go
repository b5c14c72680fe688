package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/polybench-dev/polybench/internal/comparator"
)

func sampleComparisons() ([]*comparator.BenchmarkComparison, *comparator.SuiteSummary) {
	comparisons := []*comparator.BenchmarkComparison{
		{
			Name: "bench_sort", Winner: "rust", Verdict: comparator.Faster,
			Baseline: "go", BaselineSpeedup: 2.0,
		},
		{
			Name: "bench_hash", Winner: "go", Verdict: comparator.TieV,
			Baseline: "go", BaselineSpeedup: 1.0,
			AsyncSpreadWarning: true, AsyncSpreadPoints: 7.5,
		},
	}
	summary := &comparator.SuiteSummary{
		WinCounts:            map[string]int{"rust": 1, "go": 1},
		TieCount:             1,
		GeometricMeanSpeedup: 1.41,
		Baseline:             "go",
	}
	return comparisons, summary
}

func TestWriteComparisonTableShowsWinnersAndWarnings(t *testing.T) {
	comparisons, summary := sampleComparisons()
	var buf bytes.Buffer
	if err := WriteComparison(&buf, comparisons, summary, FormatTable, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "bench_sort") || !strings.Contains(out, "rust") {
		t.Fatalf("expected winner row, got:\n%s", out)
	}
	if !strings.Contains(out, "async success ratios spread") {
		t.Fatalf("expected async spread warning, got:\n%s", out)
	}
	if !strings.Contains(out, "Geometric mean speedup") {
		t.Fatalf("expected summary footer, got:\n%s", out)
	}
}

func TestWriteComparisonCSVHasOneRowPerBenchmark(t *testing.T) {
	comparisons, _ := sampleComparisons()
	var buf bytes.Buffer
	if err := WriteComparison(&buf, comparisons, nil, FormatCSV, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d: %v", len(lines), lines)
	}
}

func TestWriteComparisonMarkdownIncludesGeometricMean(t *testing.T) {
	comparisons, summary := sampleComparisons()
	var buf bytes.Buffer
	if err := WriteComparison(&buf, comparisons, summary, FormatMD, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "1.41x") {
		t.Fatalf("expected geometric mean in markdown output, got:\n%s", buf.String())
	}
}
