package validate

import (
	"strings"
	"testing"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/diag"
)

func ptrInt64(v int64) *int64 { return &v }

func minimalBenchmark(name string, langs ...string) *ast.Benchmark {
	impls := make(map[string]*ast.CodeBlock, len(langs))
	for _, l := range langs {
		impls[l] = &ast.CodeBlock{Source: "noop()"}
	}
	return &ast.Benchmark{Name: name, Implementations: impls}
}

func hasSummaryContaining(errs []*diag.Error, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Summary, substr) {
			return true
		}
	}
	return false
}

func TestValidateMissingSuiteTypeAndRunMode(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{Name: "s", Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go")}},
	}}
	res := Validate(f)
	if res.OK() {
		t.Fatalf("expected errors for missing suiteType/runMode")
	}
	if !hasSummaryContaining(res.Errors, "missing suiteType") {
		t.Errorf("expected a missing suiteType error, got %v", res.Errors)
	}
	if !hasSummaryContaining(res.Errors, "missing runMode") {
		t.Errorf("expected a missing runMode error, got %v", res.Errors)
	}
}

func TestValidateRunModeExclusivityAtSuiteScope(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:       "s",
			SuiteType:  ast.SuiteTypePerformance,
			RunMode:    ast.RunModeTimeBased,
			Iterations: ptrInt64(100),
			Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go")},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Errors, "iterations set under runMode=timeBased") {
		t.Fatalf("expected exclusivity error, got %v", res.Errors)
	}
}

func TestValidateRunModeExclusivityAtBenchmarkScope(t *testing.T) {
	b := minimalBenchmark("b", "go")
	b.TargetTimeMs = ptrInt64(5000)
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:       "s",
			SuiteType:  ast.SuiteTypePerformance,
			RunMode:    ast.RunModeIterationBased,
			Benchmarks: []*ast.Benchmark{b},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Errors, "targetTime set under runMode=iterationBased") {
		t.Fatalf("expected exclusivity error at benchmark scope, got %v", res.Errors)
	}
}

func TestValidateEmptyBenchmarkIsError(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:       "s",
			SuiteType:  ast.SuiteTypePerformance,
			RunMode:    ast.RunModeTimeBased,
			Benchmarks: []*ast.Benchmark{{Name: "empty"}},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Errors, "no implementations") {
		t.Fatalf("expected empty-benchmark error, got %v", res.Errors)
	}
}

func TestValidateFixtureWithNoDataImplementationsOrParams(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:       "s",
			SuiteType:  ast.SuiteTypePerformance,
			RunMode:    ast.RunModeTimeBased,
			Fixtures:   []*ast.Fixture{{Name: "empty_fixture"}},
			Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go")},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Errors, `fixture "empty_fixture"`) {
		t.Fatalf("expected empty-fixture error, got %v", res.Errors)
	}
}

func TestValidateFixtureWithOnlyParamsIsFine(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:      "s",
			SuiteType: ast.SuiteTypePerformance,
			RunMode:   ast.RunModeTimeBased,
			Fixtures: []*ast.Fixture{
				{Name: "sized", Params: []ast.FixtureParam{{Name: "n", Type: "int"}}},
			},
			Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go")},
		},
	}}
	res := Validate(f)
	if hasSummaryContaining(res.Errors, "sized") {
		t.Fatalf("parameterized fixture should not be flagged: %v", res.Errors)
	}
}

func TestValidateSpawnAnvilOutsideGlobalSetup(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:        "s",
			SuiteType:   ast.SuiteTypePerformance,
			RunMode:     ast.RunModeTimeBased,
			GlobalSetup: &ast.GlobalSetup{HasAnvil: true},
			Benchmarks: []*ast.Benchmark{
				{Name: "b", Implementations: map[string]*ast.CodeBlock{
					"go": {Source: "anvil.spawnAnvil(fork: \"x\")"},
				}},
			},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Errors, "spawnAnvil() invoked outside a globalSetup block") {
		t.Fatalf("expected spawnAnvil misuse error, got %v", res.Errors)
	}
}

func TestValidateMissingRequiredLanguage(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:       "s",
			SuiteType:  ast.SuiteTypePerformance,
			RunMode:    ast.RunModeTimeBased,
			Requires:   []string{"go", "rust"},
			Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go")},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Errors, `missing required language "rust"`) {
		t.Fatalf("expected missing-language error, got %v", res.Errors)
	}
}

func TestValidateHookForUnimplementedLanguageWarns(t *testing.T) {
	b := minimalBenchmark("b", "go")
	b.Skip = map[string]*ast.CodeBlock{"rust": {Source: "true"}}
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:       "s",
			SuiteType:  ast.SuiteTypePerformance,
			RunMode:    ast.RunModeTimeBased,
			Benchmarks: []*ast.Benchmark{b},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Warnings, `hook declared for language "rust"`) {
		t.Fatalf("expected hook-language warning, got %v", res.Warnings)
	}
	if !res.OK() {
		t.Fatalf("warnings must not affect OK(): %v", res.Errors)
	}
}

func TestValidateBaselineWithoutImplementationWarns(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:       "s",
			SuiteType:  ast.SuiteTypePerformance,
			RunMode:    ast.RunModeTimeBased,
			Baseline:   "python",
			Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go", "rust")},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Warnings, `baseline language "python" has no implementation`) {
		t.Fatalf("expected baseline warning, got %v", res.Warnings)
	}
}

func TestValidateGoSetupMissingInitWarns(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:      "s",
			SuiteType: ast.SuiteTypePerformance,
			RunMode:   ast.RunModeTimeBased,
			Setups: map[string]*ast.StructuredSetup{
				"go": {Language: "go", Imports: &ast.CodeBlock{Source: `"fmt"`}},
			},
			Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go")},
		},
	}}
	res := Validate(f)
	if !hasSummaryContaining(res.Warnings, "go setup is missing init") {
		t.Fatalf("expected missing-init warning, got %v", res.Warnings)
	}
}

func TestValidateCleanFileProducesNoProblems(t *testing.T) {
	f := &ast.File{Suites: []*ast.Suite{
		{
			Name:        "s",
			SuiteType:   ast.SuiteTypePerformance,
			RunMode:     ast.RunModeTimeBased,
			SameDataset: true,
			Baseline:    "go",
			Fixtures: []*ast.Fixture{
				{Name: "payload", DataSource: &ast.DataSource{Kind: ast.DataSourceInline, Inline: "ab", Encoding: "hex"}},
			},
			Benchmarks: []*ast.Benchmark{minimalBenchmark("b", "go", "rust")},
		},
	}}
	res := Validate(f)
	if !res.OK() || len(res.Warnings) != 0 {
		t.Fatalf("expected a clean result, got errors=%v warnings=%v", res.Errors, res.Warnings)
	}
}
