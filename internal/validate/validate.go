// Package validate runs the semantic checks spec.md §4.3 requires before a
// parsed *ast.File is safe to lower: required suite-header fields, mutually
// exclusive run-mode settings, non-empty benchmarks and fixtures, and
// anvil/language-coverage rules. It never aborts on its own —
// callers decide whether to stop a run on Result.Errors.
package validate

import (
	"fmt"
	"strings"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/diag"
)

// Result collects every problem found across the whole file. Spec.md §7:
// "Parse/validation/fixture errors abort the run" — Errors is fatal,
// Warnings is not.
type Result struct {
	Errors   []*diag.Error
	Warnings []*diag.Error
}

// OK reports whether the file is safe to lower.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Validate runs every check in spec.md §4.3 against f.
func Validate(f *ast.File) Result {
	var r Result

	for _, s := range f.Suites {
		validateSuite(s, &r)
	}
	return r
}

func validateSuite(s *ast.Suite, r *Result) {
	if s.SuiteType == "" {
		r.Errors = append(r.Errors, suiteErr(s, "missing suiteType"))
	}
	if s.RunMode == "" {
		r.Errors = append(r.Errors, suiteErr(s, "missing runMode"))
	}

	checkRunModeExclusivity(s.RunMode, s.Iterations, s.TargetTimeMs, func(msg string) {
		r.Errors = append(r.Errors, suiteErr(s, msg))
	})

	for lang, setup := range s.Setups {
		if (lang == "go" || lang == "rust") && setup.Init == nil &&
			(setup.Imports != nil || setup.Declarations != nil || setup.Helpers != nil) {
			r.Warnings = append(r.Warnings, suiteErr(s, fmt.Sprintf("%s setup is missing init while other sections are present", lang)))
		}
	}

	for _, fx := range s.Fixtures {
		if fx.DataSource == nil && len(fx.Implementations) == 0 && len(fx.Params) == 0 {
			r.Errors = append(r.Errors, suiteErr(s, fmt.Sprintf("fixture %q has neither data, implementations, nor params", fx.Name)))
		}
	}

	if s.GlobalSetup != nil {
		checkSpawnAnvilOutsideGlobalSetup(s, r)
	}

	for _, b := range s.Benchmarks {
		validateBenchmark(s, b, r)
	}
}

func validateBenchmark(s *ast.Suite, b *ast.Benchmark, r *Result) {
	if len(b.Implementations) == 0 {
		r.Errors = append(r.Errors, benchErr(s, b, "benchmark has no implementations"))
	}

	checkRunModeExclusivity(s.RunMode, b.Iterations, b.TargetTimeMs, func(msg string) {
		r.Errors = append(r.Errors, benchErr(s, b, msg))
	})

	for _, lang := range s.Requires {
		if _, ok := b.Implementations[lang]; !ok {
			r.Errors = append(r.Errors, benchErr(s, b, fmt.Sprintf("missing required language %q", lang)))
		}
	}

	for _, hookSet := range []map[string]*ast.CodeBlock{b.Skip, b.Validate, b.Before, b.After, b.Each} {
		for lang := range hookSet {
			if _, ok := b.Implementations[lang]; !ok {
				r.Warnings = append(r.Warnings, benchErr(s, b, fmt.Sprintf("hook declared for language %q, which has no implementation", lang)))
			}
		}
	}

	if s.Baseline != "" {
		if _, ok := b.Implementations[s.Baseline]; !ok {
			r.Warnings = append(r.Warnings, benchErr(s, b, fmt.Sprintf("baseline language %q has no implementation", s.Baseline)))
		}
	}
}

// checkRunModeExclusivity enforces the §4.3 rule at whatever scope it's
// called from (suite or benchmark): iterations is mutually exclusive with
// targetTime, governed by the effective runMode.
func checkRunModeExclusivity(runMode ast.RunMode, iterations, targetTimeMs *int64, report func(string)) {
	switch runMode {
	case ast.RunModeTimeBased:
		if iterations != nil {
			report("iterations set under runMode=timeBased")
		}
	case ast.RunModeIterationBased:
		if targetTimeMs != nil {
			report("targetTime set under runMode=iterationBased")
		}
	}
}

// checkSpawnAnvilOutsideGlobalSetup flags a literal call to spawnAnvil(
// found in any embedded code block other than the suite/file-level
// globalSetup block itself — a lexical check, the same "don't parse the
// embedded language" approach the fixture-reference detector uses
// (spec.md §4.5/§9).
func checkSpawnAnvilOutsideGlobalSetup(s *ast.Suite, r *Result) {
	scan := func(cb *ast.CodeBlock, where string) {
		if cb != nil && strings.Contains(cb.Source, "spawnAnvil(") {
			r.Errors = append(r.Errors, suiteErr(s, "spawnAnvil() invoked outside a globalSetup block ("+where+")"))
		}
	}
	for lang, setup := range s.Setups {
		scan(setup.Imports, lang+" setup import")
		scan(setup.Declarations, lang+" setup declare")
		scan(setup.Init, lang+" setup init")
		scan(setup.Helpers, lang+" setup helpers")
	}
	for _, fx := range s.Fixtures {
		for lang, cb := range fx.Implementations {
			scan(cb, "fixture "+fx.Name+" ("+lang+")")
		}
	}
	for _, b := range s.Benchmarks {
		for _, hookSet := range []map[string]*ast.CodeBlock{b.Skip, b.Validate, b.Before, b.After, b.Each, b.Implementations} {
			for lang, cb := range hookSet {
				scan(cb, "benchmark "+b.Name+" ("+lang+")")
			}
		}
	}
}

func suiteErr(s *ast.Suite, msg string) *diag.Error {
	return diag.At(diag.KindValidation, s.Span(), fmt.Sprintf("suite %q: %s", s.Name, msg))
}

func benchErr(s *ast.Suite, b *ast.Benchmark, msg string) *diag.Error {
	return diag.At(diag.KindValidation, b.Span(), fmt.Sprintf("suite %q, benchmark %q: %s", s.Name, b.Name, msg))
}
