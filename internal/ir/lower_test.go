package ir

import (
	"testing"

	"github.com/polybench-dev/polybench/internal/ast"
)

func ptrInt64(v int64) *int64       { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrFloat64(v float64) *float64 { return &v }

func TestLowerAppliesDefaultingCascade(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name:      "s",
				SuiteType: ast.SuiteTypePerformance,
				RunMode:   ast.RunModeTimeBased,
				Warmup:    ptrInt64(200),
				Benchmarks: []*ast.Benchmark{
					{Name: "b", Kind: ast.BenchSync, Implementations: map[string]*ast.CodeBlock{"go": {Source: "_ = 1"}}},
				},
			},
		},
	}
	irOut, errs := Lower(f, ".")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	spec := irOut.Suites[0].Benchmarks[0]
	if spec.Iterations != DefaultIterations {
		t.Fatalf("iterations = %d, want fallback %d", spec.Iterations, DefaultIterations)
	}
	if spec.Warmup != 200 {
		t.Fatalf("warmup = %d, want suite override 200", spec.Warmup)
	}
	if spec.TargetTimeMs != DefaultTargetTimeMs {
		t.Fatalf("targetTimeMs = %d, want fallback %d", spec.TargetTimeMs, DefaultTargetTimeMs)
	}
	if irOut.Suites[0].Mode != ModeAuto {
		t.Fatalf("mode = %v, want ModeAuto", irOut.Suites[0].Mode)
	}
}

func TestLowerBenchmarkOwnValueWinsOverSuite(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name:      "s",
				RunMode:   ast.RunModeIterationBased,
				Iterations: ptrInt64(500),
				Benchmarks: []*ast.Benchmark{
					{Name: "b", Implementations: map[string]*ast.CodeBlock{"go": {}}, Iterations: ptrInt64(42)},
				},
			},
		},
	}
	irOut, errs := Lower(f, ".")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	spec := irOut.Suites[0].Benchmarks[0]
	if spec.Iterations != 42 {
		t.Fatalf("iterations = %d, want benchmark override 42", spec.Iterations)
	}
	if irOut.Suites[0].Mode != ModeFixed {
		t.Fatalf("mode = %v, want ModeFixed", irOut.Suites[0].Mode)
	}
}

func TestLowerAsyncBenchmarkForcesSink(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name: "s",
				Sink: ptrBool(false),
				Benchmarks: []*ast.Benchmark{
					{Name: "b", Kind: ast.BenchAsync, Implementations: map[string]*ast.CodeBlock{"go": {}}},
				},
			},
		},
	}
	irOut, _ := Lower(f, ".")
	if !irOut.Suites[0].Benchmarks[0].Sink {
		t.Fatalf("expected async benchmark to force Sink=true")
	}
}

func TestLowerMemoryTrackingFromSuiteType(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{Name: "s", SuiteType: ast.SuiteTypeMemory, Benchmarks: []*ast.Benchmark{
				{Name: "b", Implementations: map[string]*ast.CodeBlock{"go": {}}},
			}},
		},
	}
	irOut, _ := Lower(f, ".")
	if !irOut.Suites[0].Benchmarks[0].MemoryTracking {
		t.Fatalf("expected memory tracking enabled for suiteType=memory")
	}
}

func TestLowerFixtureRefsDeclarationOrderDedup(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name: "s",
				Fixtures: []*ast.Fixture{
					{Name: "payload", DataSource: &ast.DataSource{Kind: ast.DataSourceInline, Inline: "ab", Encoding: "hex"}},
					{Name: "seed", DataSource: &ast.DataSource{Kind: ast.DataSourceInline, Inline: "cd", Encoding: "hex"}},
				},
				Benchmarks: []*ast.Benchmark{
					{
						Name: "b",
						Implementations: map[string]*ast.CodeBlock{
							"go": {Source: "use(seed); use(payload); use(seed)"},
						},
					},
				},
			},
		},
	}
	irOut, errs := Lower(f, ".")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	refs := irOut.Suites[0].Benchmarks[0].FixtureRefs
	want := []string{"seed", "payload"}
	if len(refs) != len(want) {
		t.Fatalf("refs = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Fatalf("refs[%d] = %q, want %q (refs=%v)", i, refs[i], want[i], refs)
		}
	}
}

func TestLowerFixtureDecodeErrorIsNonFatalAcrossSuites(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name: "bad",
				Fixtures: []*ast.Fixture{
					{Name: "broken", DataSource: &ast.DataSource{Kind: ast.DataSourceInline, Inline: "xyz", Encoding: "hex"}},
				},
				Benchmarks: []*ast.Benchmark{{Name: "b", Implementations: map[string]*ast.CodeBlock{"go": {}}}},
			},
			{
				Name:       "good",
				Benchmarks: []*ast.Benchmark{{Name: "b", Implementations: map[string]*ast.CodeBlock{"go": {}}}},
			},
		},
	}
	irOut, errs := Lower(f, ".")
	if len(errs) == 0 {
		t.Fatalf("expected a fixture decode error")
	}
	if len(irOut.Suites) != 2 {
		t.Fatalf("expected lowering to continue past the broken suite's fixture, got %d suites", len(irOut.Suites))
	}
	if irOut.Suites[1].Name != "good" {
		t.Fatalf("expected second suite to lower cleanly: %+v", irOut.Suites[1])
	}
}

func TestLowerAnvilConfigFromGlobalSetup(t *testing.T) {
	f := &ast.File{
		GlobalSetup: &ast.GlobalSetup{HasAnvil: true, AnvilFork: "https://rpc.example/v1"},
		Suites: []*ast.Suite{
			{Name: "s", Benchmarks: []*ast.Benchmark{{Name: "b", Implementations: map[string]*ast.CodeBlock{"go": {}}}}},
		},
	}
	irOut, _ := Lower(f, ".")
	if irOut.Anvil == nil || irOut.Anvil.ForkURL != "https://rpc.example/v1" {
		t.Fatalf("anvil config not propagated: %+v", irOut.Anvil)
	}
}

func TestLowerChartDirectivesCollectedAcrossSuites(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name:            "s1",
				Benchmarks:      []*ast.Benchmark{{Name: "b", Implementations: map[string]*ast.CodeBlock{"go": {}}}},
				ChartDirectives: []*ast.ChartDirective{{Name: "drawLatencyDistribution", Args: map[string]string{"bins": "10"}}},
			},
		},
	}
	irOut, _ := Lower(f, ".")
	if len(irOut.ChartDirectives) != 1 || irOut.ChartDirectives[0].Name != "drawLatencyDistribution" {
		t.Fatalf("chart directives not collected: %+v", irOut.ChartDirectives)
	}
}

func TestLowerCVThresholdCascade(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name:        "s",
				CVThreshold: ptrFloat64(10.0),
				Benchmarks: []*ast.Benchmark{
					{Name: "a", Implementations: map[string]*ast.CodeBlock{"go": {}}},
					{Name: "b", Implementations: map[string]*ast.CodeBlock{"go": {}}, CVThreshold: ptrFloat64(2.5)},
				},
			},
		},
	}
	irOut, _ := Lower(f, ".")
	if irOut.Suites[0].Benchmarks[0].CVThreshold != 10.0 {
		t.Fatalf("benchmark a should inherit suite cvThreshold")
	}
	if irOut.Suites[0].Benchmarks[1].CVThreshold != 2.5 {
		t.Fatalf("benchmark b should use its own cvThreshold override")
	}
}

func TestLowerFairnessSeedDefaultsWhenUnset(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name: "s",
				Benchmarks: []*ast.Benchmark{
					{Name: "a", Implementations: map[string]*ast.CodeBlock{"go": {}}},
				},
			},
		},
	}
	irOut, _ := Lower(f, ".")
	if irOut.Suites[0].Benchmarks[0].FairnessSeed != DefaultFairnessSeed {
		t.Fatalf("fairnessSeed = %d, want fallback %d", irOut.Suites[0].Benchmarks[0].FairnessSeed, DefaultFairnessSeed)
	}
}

func TestLowerFairnessSeedFromSuite(t *testing.T) {
	f := &ast.File{
		Suites: []*ast.Suite{
			{
				Name:         "s",
				FairnessSeed: ptrInt64(42),
				Benchmarks: []*ast.Benchmark{
					{Name: "a", Implementations: map[string]*ast.CodeBlock{"go": {}}},
				},
			},
		},
	}
	irOut, _ := Lower(f, ".")
	if irOut.Suites[0].Benchmarks[0].FairnessSeed != 42 {
		t.Fatalf("fairnessSeed = %d, want suite-declared 42", irOut.Suites[0].Benchmarks[0].FairnessSeed)
	}
}
