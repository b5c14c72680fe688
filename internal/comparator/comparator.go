package comparator

import (
	"math"
	"sort"

	"github.com/polybench-dev/polybench/internal/measurement"
)

// Comparator computes cross-language comparisons for a suite's benchmarks.
type Comparator struct {
	// Baseline is the declared baseline language, or "" when the suite
	// declared none — in which case LanguageOrder's first entry present
	// in a benchmark's measurements is used (spec.md §9 Open Question 2).
	Baseline      string
	LanguageOrder []string
}

// New returns a Comparator for a suite declaring baseline (possibly "")
// and languageOrder (the suite's declaration order, for the no-baseline
// fallback).
func New(baseline string, languageOrder []string) *Comparator {
	return &Comparator{Baseline: baseline, LanguageOrder: languageOrder}
}

// Compare compares one benchmark's per-language measurements. A benchmark
// measured in fewer than two languages has nothing to compare and returns
// a BenchmarkComparison with no Pairs and no Winner.
func (c *Comparator) Compare(name string, measurements map[string]*measurement.Measurement) *BenchmarkComparison {
	bc := &BenchmarkComparison{Name: name, Measurements: measurements}
	if len(measurements) < 2 {
		return bc
	}

	langs := sortedLanguages(measurements)
	for i := 0; i < len(langs); i++ {
		for j := i + 1; j < len(langs); j++ {
			bc.Pairs = append(bc.Pairs, pairResult(langs[i], langs[j], measurements))
		}
	}

	fastest := langs[0]
	for _, l := range langs[1:] {
		if measurements[l].NanosPerOp < measurements[fastest].NanosPerOp {
			fastest = l
		}
	}
	second := secondFastest(langs, fastest, measurements)

	ratio := 1.0
	if second != "" && measurements[fastest].NanosPerOp > 0 {
		ratio = measurements[second].NanosPerOp / measurements[fastest].NanosPerOp
	}
	if second == "" || ratio-1 <= TieEpsilon {
		bc.Verdict = TieV
	} else {
		bc.Verdict = Faster
		bc.Winner = fastest
	}

	bc.Baseline = c.resolveBaseline(langs, measurements)
	if bc.Winner != "" && measurements[bc.Baseline] != nil && measurements[bc.Winner].NanosPerOp > 0 {
		bc.BaselineSpeedup = measurements[bc.Baseline].NanosPerOp / measurements[bc.Winner].NanosPerOp
	} else {
		bc.BaselineSpeedup = 1.0
	}

	bc.AsyncSpreadWarning, bc.AsyncSpreadPoints = asyncSpread(measurements)
	return bc
}

// CompareSuite runs Compare over every named benchmark, in the given
// order, and folds the results into a SuiteSummary.
func (c *Comparator) CompareSuite(names []string, perBenchmark map[string]map[string]*measurement.Measurement) ([]*BenchmarkComparison, *SuiteSummary) {
	summary := &SuiteSummary{WinCounts: make(map[string]int)}
	comparisons := make([]*BenchmarkComparison, 0, len(names))
	var logSpeedups []float64

	for _, name := range names {
		bc := c.Compare(name, perBenchmark[name])
		comparisons = append(comparisons, bc)
		if summary.Baseline == "" {
			summary.Baseline = bc.Baseline
		}
		if len(bc.Measurements) < 2 {
			continue
		}
		if bc.Verdict == TieV {
			summary.TieCount++
			continue
		}
		summary.WinCounts[bc.Winner]++
		if bc.BaselineSpeedup > 0 {
			logSpeedups = append(logSpeedups, math.Log(bc.BaselineSpeedup))
		}
	}

	if len(logSpeedups) > 0 {
		var sum float64
		for _, v := range logSpeedups {
			sum += v
		}
		summary.GeometricMeanSpeedup = math.Exp(sum / float64(len(logSpeedups)))
	}
	return comparisons, summary
}

func (c *Comparator) resolveBaseline(langs []string, measurements map[string]*measurement.Measurement) string {
	if c.Baseline != "" {
		if _, ok := measurements[c.Baseline]; ok {
			return c.Baseline
		}
	}
	for _, l := range c.LanguageOrder {
		if _, ok := measurements[l]; ok {
			return l
		}
	}
	return langs[0]
}

func pairResult(a, b string, measurements map[string]*measurement.Measurement) PairResult {
	pr := PairResult{LanguageA: a, LanguageB: b}
	ma, mb := measurements[a], measurements[b]
	if ma.NanosPerOp <= 0 || mb.NanosPerOp <= 0 {
		pr.Verdict = TieV
		return pr
	}

	var faster, slower string
	var fasterM, slowerM *measurement.Measurement
	if ma.NanosPerOp <= mb.NanosPerOp {
		faster, slower, fasterM, slowerM = a, b, ma, mb
	} else {
		faster, slower, fasterM, slowerM = b, a, mb, ma
	}
	pr.Speedup = slowerM.NanosPerOp / fasterM.NanosPerOp
	if pr.Speedup-1 <= TieEpsilon {
		pr.Verdict = TieV
	} else {
		pr.Verdict = Faster
		pr.Faster = faster
	}
	_ = slower
	return pr
}

func secondFastest(langs []string, fastest string, measurements map[string]*measurement.Measurement) string {
	second := ""
	for _, l := range langs {
		if l == fastest {
			continue
		}
		if second == "" || measurements[l].NanosPerOp < measurements[second].NanosPerOp {
			second = l
		}
	}
	return second
}

// asyncSpread reports whether this benchmark's per-language async success
// ratios disagree by more than AsyncSpreadWarnThreshold percentage points
// (SPEC_FULL.md §8's supplemented cross-language reliability check).
// Languages with no async stats (sync benchmarks) are ignored.
func asyncSpread(measurements map[string]*measurement.Measurement) (bool, float64) {
	var ratios []float64
	for _, m := range measurements {
		if m.Async != nil {
			ratios = append(ratios, m.Async.Details.SuccessRatio)
		}
	}
	if len(ratios) < 2 {
		return false, 0
	}
	min, max := ratios[0], ratios[0]
	for _, r := range ratios[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	spreadPoints := (max - min) * 100
	return spreadPoints > AsyncSpreadWarnThreshold, spreadPoints
}

func sortedLanguages(measurements map[string]*measurement.Measurement) []string {
	langs := make([]string, 0, len(measurements))
	for l := range measurements {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}
