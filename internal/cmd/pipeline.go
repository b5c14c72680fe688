package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/cache"
	"github.com/polybench-dev/polybench/internal/codegen"
	"github.com/polybench-dev/polybench/internal/diag"
	"github.com/polybench-dev/polybench/internal/dslparser"
	"github.com/polybench-dev/polybench/internal/executor"
	"github.com/polybench-dev/polybench/internal/ir"
	"github.com/polybench-dev/polybench/internal/validate"
)

// loadAndLower reads path, parses it, validates it, and lowers it to a
// BenchmarkIR. Every stage can produce diagnostics; parse/validate/lower
// errors are all fatal (spec.md §7 "Parse/validation/fixture errors abort
// the run"), so the first non-empty error set short-circuits the rest.
func loadAndLower(path string) (*ir.BenchmarkIR, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f := dslparser.Parse(string(src), path)
	if len(f.Errors) > 0 {
		return nil, fmt.Errorf("%s: %s", path, joinErrorNodes(f.Errors))
	}

	vr := validate.Validate(f)
	for _, w := range vr.Warnings {
		slog.Warn(w.Error())
	}
	if !vr.OK() {
		return nil, fmt.Errorf("%s: %s", path, joinDiagErrors(vr.Errors))
	}

	lowered, lowerErrs := ir.Lower(f, filepath.Dir(path))
	if len(lowerErrs) > 0 {
		return nil, fmt.Errorf("%s: %s", path, joinDiagErrors(lowerErrs))
	}
	return lowered, nil
}

func joinErrorNodes(nodes []*ast.ErrorNode) string {
	msg := ""
	for i, n := range nodes {
		if i > 0 {
			msg += "; "
		}
		msg += n.Message
	}
	return msg
}

func joinDiagErrors(errs []*diag.Error) string {
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return msg
}

// jobPlan is one lowered benchmark's scheduled work across its languages,
// kept alongside the IR node that produced it so results can be grouped
// back up by suite/name/language once the batch completes.
type jobPlan struct {
	Suite string
	Name  string
	Lang  codegen.Language
	Job   *executor.Job
}

// planJobs expands a lowered BenchmarkIR into one executor.Job per
// (benchmark, language, run) triple, resolving each language's module root
// lazily (and once) via executor.ResolveModuleRoot. langFilter, when
// non-empty, restricts planning to the named languages. Each pair gets runs
// jobs, or the benchmark's own count when runs is 1 and count is larger.
func planJobs(irRoot *ir.BenchmarkIR, startDir string, langFilter map[string]bool, runs int, timeoutOverride time.Duration) ([]*jobPlan, error) {
	if runs <= 0 {
		runs = 1
	}

	roots := make(map[codegen.Language]string)
	resolveRoot := func(lang codegen.Language) (string, error) {
		if r, ok := roots[lang]; ok {
			return r, nil
		}
		r, err := executor.ResolveModuleRoot(startDir, lang)
		if err != nil {
			return "", err
		}
		roots[lang] = r
		return r, nil
	}

	extraEnv := map[string]string{}
	if irRoot.Anvil != nil {
		if rpcURL := os.Getenv("ANVIL_RPC_URL"); rpcURL != "" {
			extraEnv["ANVIL_RPC_URL"] = rpcURL
		}
	}

	var plans []*jobPlan
	for _, suite := range irRoot.Suites {
		for _, b := range suite.Benchmarks {
			for langKey, impl := range b.Implementations {
				if impl == nil {
					continue
				}
				if len(langFilter) > 0 && !langFilter[langKey] {
					continue
				}
				lang := codegen.Language(langKey)
				root, err := resolveRoot(lang)
				if err != nil {
					return nil, fmt.Errorf("suite %q, benchmark %q: %w", suite.Name, b.Name, err)
				}

				timeout := time.Duration(b.Timeout) * time.Millisecond
				if timeoutOverride > 0 {
					timeout = timeoutOverride
				}

				n := runs
				if n == 1 && b.Count > 1 {
					n = int(b.Count)
				}
				for i := 0; i < n; i++ {
					plans = append(plans, &jobPlan{
						Suite: suite.Name,
						Name:  b.Name,
						Lang:  lang,
						Job: &executor.Job{
							Spec:        b,
							Suite:       suite,
							Lang:        lang,
							ModuleRoot:  root,
							StdlibNames: irRoot.StdlibImports,
							ExtraEnv:    extraEnv,
							Timeout:     timeout,
						},
					})
				}
			}
		}
	}
	return plans, nil
}

// groupKey identifies one (suite, benchmark, language) result group.
type groupKey struct {
	Suite, Name, Language string
}

func defaultCacheDir() string {
	return filepath.Join(".polybench", "cache")
}

func openCache(dir string) (*cache.Cache, error) {
	if dir == "" {
		dir = defaultCacheDir()
	}
	return cache.Open(dir)
}
