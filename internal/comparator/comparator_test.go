package comparator

import (
	"testing"

	"github.com/polybench-dev/polybench/internal/measurement"
)

func measured(nanosPerOp float64) *measurement.Measurement {
	return measurement.FromSamples(1000, int64(nanosPerOp*1000), nil)
}

func withAsync(m *measurement.Measurement, successRatio float64) *measurement.Measurement {
	return m.WithAsync(98, 2, nil, measurement.AsyncDetails{SuccessRatio: successRatio})
}

func TestCompareSingleLanguageHasNoPairsOrWinner(t *testing.T) {
	c := New("", nil)
	bc := c.Compare("bench_sort", map[string]*measurement.Measurement{"go": measured(1000)})
	if len(bc.Pairs) != 0 || bc.Winner != "" {
		t.Fatalf("expected no comparison for a single language, got %+v", bc)
	}
}

func TestCompareTwoLanguagesPicksFasterAsWinner(t *testing.T) {
	c := New("", nil)
	bc := c.Compare("bench_sort", map[string]*measurement.Measurement{
		"go":   measured(1000),
		"rust": measured(500),
	})
	if bc.Winner != "rust" {
		t.Fatalf("expected rust to win, got %q", bc.Winner)
	}
	if len(bc.Pairs) != 1 || bc.Pairs[0].Faster != "rust" || bc.Pairs[0].Speedup != 2.0 {
		t.Fatalf("unexpected pair result: %+v", bc.Pairs)
	}
}

func TestCompareWithinEpsilonIsTie(t *testing.T) {
	c := New("", nil)
	bc := c.Compare("bench_sort", map[string]*measurement.Measurement{
		"go":   measured(1000),
		"rust": measured(1030), // 3% slower, within the 5% epsilon
	})
	if bc.Verdict != TieV || bc.Winner != "" {
		t.Fatalf("expected a tie within epsilon, got %+v", bc)
	}
	if bc.Pairs[0].Verdict != TieV {
		t.Fatalf("expected the pair itself to report a tie, got %+v", bc.Pairs[0])
	}
}

func TestCompareBaselineSpeedupUsesDeclaredBaseline(t *testing.T) {
	c := New("python", nil)
	bc := c.Compare("bench_sort", map[string]*measurement.Measurement{
		"go":     measured(1000),
		"python": measured(4000),
	})
	if bc.Baseline != "python" {
		t.Fatalf("expected declared baseline python, got %q", bc.Baseline)
	}
	if bc.BaselineSpeedup != 4.0 {
		t.Fatalf("expected a 4x speedup over baseline, got %v", bc.BaselineSpeedup)
	}
}

func TestCompareBaselineFallsBackToFirstInLanguageOrder(t *testing.T) {
	c := New("", []string{"rust", "go"})
	bc := c.Compare("bench_sort", map[string]*measurement.Measurement{
		"go":   measured(1000),
		"rust": measured(500),
	})
	if bc.Baseline != "rust" {
		t.Fatalf("expected fallback baseline rust (first in declaration order), got %q", bc.Baseline)
	}
}

func TestCompareBaselineFallsBackWhenDeclaredBaselineAbsent(t *testing.T) {
	c := New("java", []string{"go", "rust"})
	bc := c.Compare("bench_sort", map[string]*measurement.Measurement{
		"go":   measured(1000),
		"rust": measured(500),
	})
	if bc.Baseline != "go" {
		t.Fatalf("expected fallback to go when declared baseline java is absent, got %q", bc.Baseline)
	}
}

func TestAsyncSpreadWarnsOnDisagreement(t *testing.T) {
	c := New("", nil)
	bc := c.Compare("bench_fetch", map[string]*measurement.Measurement{
		"go":   withAsync(measured(1000), 0.99),
		"rust": withAsync(measured(900), 0.90),
	})
	if !bc.AsyncSpreadWarning {
		t.Fatalf("expected a spread warning for a 9 point disagreement")
	}
	if bc.AsyncSpreadPoints < 8.9 || bc.AsyncSpreadPoints > 9.1 {
		t.Fatalf("expected ~9 points of spread, got %v", bc.AsyncSpreadPoints)
	}
}

func TestAsyncSpreadSilentWithinThreshold(t *testing.T) {
	c := New("", nil)
	bc := c.Compare("bench_fetch", map[string]*measurement.Measurement{
		"go":   withAsync(measured(1000), 0.99),
		"rust": withAsync(measured(900), 0.97),
	})
	if bc.AsyncSpreadWarning {
		t.Fatalf("expected no spread warning within threshold, got %v points", bc.AsyncSpreadPoints)
	}
}

func TestCompareSuiteAggregatesWinCountsAndTies(t *testing.T) {
	c := New("", nil)
	names := []string{"bench_a", "bench_b", "bench_c"}
	perBenchmark := map[string]map[string]*measurement.Measurement{
		"bench_a": {"go": measured(1000), "rust": measured(500)},
		"bench_b": {"go": measured(500), "rust": measured(1000)},
		"bench_c": {"go": measured(1000), "rust": measured(1010)},
	}

	comparisons, summary := c.CompareSuite(names, perBenchmark)
	if len(comparisons) != 3 {
		t.Fatalf("expected 3 comparisons, got %d", len(comparisons))
	}
	if summary.WinCounts["rust"] != 1 || summary.WinCounts["go"] != 1 {
		t.Fatalf("expected one win each for go and rust, got %+v", summary.WinCounts)
	}
	if summary.TieCount != 1 {
		t.Fatalf("expected 1 tie, got %d", summary.TieCount)
	}
	if summary.GeometricMeanSpeedup <= 0 {
		t.Fatalf("expected a positive geometric mean speedup, got %v", summary.GeometricMeanSpeedup)
	}
}

func TestCachedComparatorServesRepeatedCallsFromCache(t *testing.T) {
	cc := NewCachedComparator(New("", nil), 10)
	measurements := map[string]*measurement.Measurement{"go": measured(1000), "rust": measured(500)}

	first := cc.Compare("bench_sort", measurements)
	second := cc.Compare("bench_sort", measurements)
	if first != second {
		t.Fatalf("expected the cached call to return the same pointer")
	}
	if size, _ := cc.CacheStats(); size != 1 {
		t.Fatalf("expected 1 cached entry, got %d", size)
	}
}

func TestCachedComparatorClearCache(t *testing.T) {
	cc := NewCachedComparator(New("", nil), 10)
	measurements := map[string]*measurement.Measurement{"go": measured(1000), "rust": measured(500)}
	cc.Compare("bench_sort", measurements)
	cc.ClearCache()
	if size, _ := cc.CacheStats(); size != 0 {
		t.Fatalf("expected an empty cache after ClearCache, got %d", size)
	}
}
