package ir

import (
	"regexp"
	"sort"
	"strings"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/diag"
	"github.com/polybench-dev/polybench/internal/fixture"
)

// languageOrder fixes a deterministic scan order for per-language
// implementation maps, since ast.Benchmark.Implementations is a Go map and
// carries no source order of its own. Fixture-reference detection (spec.md
// §4.5) needs a stable order to be reproducibly "declaration order,
// deduplicated, first-occurrence wins" across languages.
var languageOrder = []string{"go", "ts", "typescript", "rust", "python", "c", "csharp", "zig"}

// Lower turns a parsed *ast.File into a BenchmarkIR, decoding fixtures
// relative to baseDir (spec.md §4.4) along the way. Fixture decode and
// file-read failures are returned as diag.Errors and the failing fixture is
// left out of its suite's Fixtures; the suite itself and every other suite
// are still lowered, so a caller can report every problem in one pass and
// decide whether to stop. Duplicate `use std::` names are collapsed.
func Lower(f *ast.File, baseDir string) (*BenchmarkIR, []*diag.Error) {
	var errs []*diag.Error

	ir := &BenchmarkIR{}
	seenStd := make(map[string]bool, len(f.UseStds))
	for _, name := range f.UseStds {
		if !seenStd[name] {
			seenStd[name] = true
			ir.StdlibImports = append(ir.StdlibImports, name)
		}
	}
	if f.GlobalSetup != nil && f.GlobalSetup.HasAnvil {
		ir.Anvil = &AnvilConfig{ForkURL: f.GlobalSetup.AnvilFork}
	}

	for _, s := range f.Suites {
		suiteIR, suiteErrs := lowerSuite(s, baseDir)
		errs = append(errs, suiteErrs...)
		if suiteIR != nil {
			ir.Suites = append(ir.Suites, suiteIR)
		}
		ir.ChartDirectives = append(ir.ChartDirectives, s.ChartDirectives...)
	}
	return ir, errs
}

func lowerSuite(s *ast.Suite, baseDir string) (*SuiteIR, []*diag.Error) {
	var errs []*diag.Error

	suiteType := s.SuiteType
	if suiteType == "" {
		suiteType = ast.SuiteTypePerformance
	}
	runMode := s.RunMode
	if runMode == "" {
		runMode = ast.RunModeTimeBased
	}
	mode := ModeAuto
	if runMode == ast.RunModeIterationBased {
		mode = ModeFixed
	}
	order := s.Order
	if order == "" {
		order = ast.OrderSequential
	}

	sir := &SuiteIR{
		Name:        s.Name,
		SuiteType:   suiteType,
		Mode:        mode,
		SameDataset: s.SameDataset,
		Order:       order,
		Baseline:    s.Baseline,
		Setups:      s.Setups,
	}

	fixtureNames := make([]string, 0, len(s.Fixtures))
	for _, fx := range s.Fixtures {
		fixtureNames = append(fixtureNames, fx.Name)

		var data []byte
		if fx.DataSource != nil {
			decoded, err := fixture.Decode(fx.DataSource, baseDir, fx.Name)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			data = decoded
		}
		sir.Fixtures = append(sir.Fixtures, &FixtureIR{
			Name:            fx.Name,
			Description:     fx.Description,
			Shape:           fx.Shape,
			Params:          fx.Params,
			Data:            data,
			Implementations: fx.Implementations,
		})
	}

	for _, b := range s.Benchmarks {
		sir.Benchmarks = append(sir.Benchmarks, lowerBenchmark(b, s, mode, suiteType == ast.SuiteTypeMemory, fixtureNames))
	}

	return sir, errs
}

func lowerBenchmark(b *ast.Benchmark, s *ast.Suite, mode Mode, memoryTracking bool, fixtureNames []string) *BenchmarkSpec {
	spec := &BenchmarkSpec{
		Name:            b.Name,
		Kind:            b.Kind,
		Description:     b.Description,
		Tags:            b.Tags,
		Mode:            mode,
		MemoryTracking:  memoryTracking,
		FairnessMode:    s.FairnessMode,
		FairnessSeed:    derefInt64(s.FairnessSeed, DefaultFairnessSeed),
		Skip:            b.Skip,
		Validate:        b.Validate,
		Before:          b.Before,
		After:           b.After,
		Each:            b.Each,
		Implementations: b.Implementations,
	}

	spec.Iterations = cascadeInt64(b.Iterations, s.Iterations, DefaultIterations)
	spec.Warmup = cascadeInt64(b.Warmup, s.Warmup, DefaultWarmup)
	spec.TargetTimeMs = cascadeInt64(b.TargetTimeMs, s.TargetTimeMs, DefaultTargetTimeMs)
	spec.Timeout = cascadeInt64(b.Timeout, s.Timeout, DefaultTimeout)
	spec.Count = cascadeInt64(b.Count, s.Count, DefaultCount)

	spec.Sink = cascadeBool(b.Sink, s.Sink, DefaultSink)
	if b.Kind == ast.BenchAsync {
		// Invariant (spec.md §4.3): async benchmarks always use the sink,
		// regardless of any explicit setting.
		spec.Sink = true
	}
	spec.OutlierDetection = cascadeBool(b.OutlierDetection, s.OutlierDetection, DefaultOutlierDetection)
	spec.CVThreshold = cascadeFloat64(b.CVThreshold, s.CVThreshold, DefaultCVThreshold)

	spec.AsyncSamplingPolicy = s.AsyncSamplingPolicy
	if spec.AsyncSamplingPolicy == "" {
		spec.AsyncSamplingPolicy = DefaultAsyncSamplingPolicy
	}
	spec.AsyncWarmupCap = derefInt64(s.AsyncWarmupCap, DefaultAsyncWarmupCap)
	spec.AsyncSampleCap = derefInt64(s.AsyncSampleCap, DefaultAsyncSampleCap)

	spec.FixtureRefs = detectFixtureRefs(b, fixtureNames)
	return spec
}

func cascadeInt64(own, suite *int64, fallback int64) int64 {
	if own != nil {
		return *own
	}
	if suite != nil {
		return *suite
	}
	return fallback
}

func cascadeBool(own, suite *bool, fallback bool) bool {
	if own != nil {
		return *own
	}
	if suite != nil {
		return *suite
	}
	return fallback
}

func cascadeFloat64(own, suite *float64, fallback float64) float64 {
	if own != nil {
		return *own
	}
	if suite != nil {
		return *suite
	}
	return fallback
}

func derefInt64(v *int64, fallback int64) int64 {
	if v != nil {
		return *v
	}
	return fallback
}

// detectFixtureRefs scans a benchmark's implementation code — in a fixed,
// deterministic language order since Implementations is a map — for
// whole-word occurrences of known fixture names, returning them in
// declaration order, deduplicated, first-occurrence wins (spec.md §4.5).
// This is a best-effort lexical pass, intentionally not a real parse of
// the embedded language: false positives are harmless since an unused
// fixture just emits a dead local (spec.md §9).
func detectFixtureRefs(b *ast.Benchmark, fixtureNames []string) []string {
	if len(fixtureNames) == 0 {
		return nil
	}
	pattern := wordBoundaryAlternation(fixtureNames)

	seen := make(map[string]bool, len(fixtureNames))
	var refs []string
	for _, lang := range languageOrder {
		cb, ok := b.Implementations[lang]
		if !ok {
			continue
		}
		for _, match := range pattern.FindAllString(cb.Source, -1) {
			if seen[match] {
				continue
			}
			seen[match] = true
			refs = append(refs, match)
		}
	}
	return refs
}

// wordBoundaryAlternation builds a single \b(name1|name2|...)\b regexp,
// names sorted longest-first so a name that is a prefix of another
// (e.g. "data" vs "dataset") never shadows the longer match.
func wordBoundaryAlternation(names []string) *regexp.Regexp {
	sorted := append([]string(nil), names...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	for i, n := range sorted {
		sorted[i] = regexp.QuoteMeta(n)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(sorted, "|") + `)\b`)
}
