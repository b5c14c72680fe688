package reporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/polybench-dev/polybench/internal/analyzer"
)

func sampleTrendReport() *TrendReport {
	return &TrendReport{
		Trends: []*analyzer.Trend{
			{Name: "bench_sort", Language: "go", Direction: "degrading", SlopeNsPerDay: 12.5, RSquared: 0.9, ChangePercent: 8.0, DataPoints: 5},
		},
		Anomalies: []*analyzer.Anomaly{
			{Name: "bench_sort", Language: "go", RunAt: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Value: 5000, ZScore: 3.4, Severity: "critical"},
		},
		Reliability: []analyzer.ReliabilityFlag{
			{BenchmarkName: "bench_hash", SpreadPoints: 9.0},
		},
		UnstableNames: []string{"bench_hash"},
	}
}

func TestWriteTrendTableIncludesAnomaliesAndReliability(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrend(&buf, sampleTrendReport(), FormatTable, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "bench_sort") || !strings.Contains(out, "degrading") {
		t.Fatalf("expected trend row, got:\n%s", out)
	}
	if !strings.Contains(out, "critical") {
		t.Fatalf("expected anomaly line, got:\n%s", out)
	}
	if !strings.Contains(out, "bench_hash") {
		t.Fatalf("expected reliability warning, got:\n%s", out)
	}
}

func TestWriteTrendJSONIncludesAllSections(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrend(&buf, sampleTrendReport(), FormatJSON, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, field := range []string{`"trends"`, `"anomalies"`, `"reliability"`, `"unstable_names"`} {
		if !strings.Contains(out, field) {
			t.Fatalf("expected %s in JSON output, got:\n%s", field, out)
		}
	}
}

func TestWriteTrendNilReportProducesHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTrend(&buf, nil, FormatCSV, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected only the header line, got %v", lines)
	}
}
