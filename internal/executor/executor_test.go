package executor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/cache"
	"github.com/polybench-dev/polybench/internal/codegen"
	"github.com/polybench-dev/polybench/internal/ir"
)

// fakeClock never actually sleeps; it records how many times Sleep was
// called so retry tests run instantly and still assert on backoff count.
type fakeClock struct {
	now        time.Time
	sleepCalls int
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Sleep(time.Duration) { c.sleepCalls++ }

// fakeCompiler never shells out to a real toolchain: it writes a tiny
// shell script that prints a fixed output-contract line, standing in for
// whatever a real compiled artifact would print (SPEC_FULL.md's no-
// mocking-frameworks test-tooling guidance — this is a fake of the narrow
// Compiler interface, not a mock of an external library).
type fakeCompiler struct {
	buildCalls int
	failUntil  int // Build fails for calls 1..failUntil, then succeeds
	stdout     string
}

func (f *fakeCompiler) Build(ctx context.Context, lang codegen.Language, source, moduleRoot, dir string) (runSpec, error) {
	f.buildCalls++
	if f.buildCalls <= f.failUntil {
		return runSpec{}, fmt.Errorf("simulated toolchain failure #%d", f.buildCalls)
	}
	out := f.stdout
	if out == "" {
		out = `{"iterations":10,"total_nanos":1000,"nanos_per_op":100,"ops_per_sec":10000000,"samples":[100,100,100]}`
	}
	script := "#!/bin/sh\ncat <<'EOF'\n" + out + "\nEOF\n"
	path := filepath.Join(dir, "run.sh")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		return runSpec{}, err
	}
	return runSpec{Program: "/bin/sh", Args: []string{path}}, nil
}

func testJob(t *testing.T, name string) *Job {
	t.Helper()
	spec := &ir.BenchmarkSpec{
		Name:                name,
		Kind:                ast.BenchSync,
		Mode:                ir.ModeFixed,
		Iterations:          1000,
		Warmup:              100,
		TargetTimeMs:        3000,
		Timeout:             30000,
		Sink:                true,
		AsyncSamplingPolicy: ast.AsyncTimeBudgeted,
		AsyncWarmupCap:      5,
		AsyncSampleCap:      50,
		Implementations: map[string]*ast.CodeBlock{
			"go": {Source: "\treturn 42, nil"},
		},
	}
	return &Job{
		Spec:       spec,
		Suite:      &ir.SuiteIR{Name: "s"},
		Lang:       codegen.Go,
		ModuleRoot: t.TempDir(),
		Timeout:    5 * time.Second,
	}
}

func newTestExecutor(t *testing.T, compiler Compiler, clock Clock) (*Executor, func()) {
	t.Helper()
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	opts := []Option{WithCompiler(compiler)}
	if clock != nil {
		opts = append(opts, WithClock(clock))
	}
	return New(c, opts...), func() { c.Close() }
}

func TestExecuteCompilesOnceAndReusesCacheOnSecondRun(t *testing.T) {
	fc := &fakeCompiler{}
	exec, closeFn := newTestExecutor(t, fc, nil)
	defer closeFn()

	job := testJob(t, "bench_sum")

	res1, err := exec.Execute(context.Background(), job, nil, nil)
	if err != nil {
		t.Fatalf("first execute: %v", err)
	}
	if res1.CacheHit {
		t.Fatal("expected a cache miss on first run")
	}
	if res1.Parsed == nil || res1.Parsed.Measured == nil {
		t.Fatal("expected a decoded measurement")
	}
	if res1.Parsed.Measured.NanosPerOp != 100 {
		t.Fatalf("expected nanos_per_op 100, got %v", res1.Parsed.Measured.NanosPerOp)
	}

	res2, err := exec.Execute(context.Background(), job, nil, nil)
	if err != nil {
		t.Fatalf("second execute: %v", err)
	}
	if !res2.CacheHit {
		t.Fatal("expected a cache hit on second run")
	}
	if fc.buildCalls != 1 {
		t.Fatalf("expected exactly one compile, got %d", fc.buildCalls)
	}
}

func TestExecuteSurfacesCompileFailureAsDiagnostic(t *testing.T) {
	fc := &fakeCompiler{failUntil: 99}
	exec, closeFn := newTestExecutor(t, fc, nil)
	defer closeFn()

	job := testJob(t, "bench_fail")
	res, err := exec.Execute(context.Background(), job, nil, nil)
	if err == nil {
		t.Fatal("expected an error")
	}
	if res.Err == nil {
		t.Fatal("expected res.Err to be set")
	}
}

func TestExecuteWithRetryRetriesThenSucceeds(t *testing.T) {
	fc := &fakeCompiler{failUntil: 2}
	clock := &fakeClock{now: time.Unix(0, 0)}
	exec, closeFn := newTestExecutor(t, fc, clock)
	defer closeFn()

	job := testJob(t, "bench_retry")
	cfg := BatchConfig{Retry: 3}
	res := exec.executeWithRetry(context.Background(), job, cfg, nil, nil)
	if res.Err != nil {
		t.Fatalf("expected eventual success, got: %v", res.Err)
	}
	if res.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", res.Attempts)
	}
	if clock.sleepCalls != 2 {
		t.Fatalf("expected 2 backoff sleeps, got %d", clock.sleepCalls)
	}
}

func TestExecuteWithRetryGivesUpAfterConfiguredRetries(t *testing.T) {
	fc := &fakeCompiler{failUntil: 99}
	clock := &fakeClock{now: time.Unix(0, 0)}
	exec, closeFn := newTestExecutor(t, fc, clock)
	defer closeFn()

	job := testJob(t, "bench_givesup")
	cfg := BatchConfig{Retry: 2}
	res := exec.executeWithRetry(context.Background(), job, cfg, nil, nil)
	if res.Err == nil {
		t.Fatal("expected a final error after exhausting retries")
	}
	if res.Attempts != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", res.Attempts)
	}
}

func TestExecuteBatchRunsEveryJobAndFillsAsyncPolicyOnlyWhenAsync(t *testing.T) {
	fc := &fakeCompiler{}
	exec, closeFn := newTestExecutor(t, fc, nil)
	defer closeFn()

	jobs := []*Job{testJob(t, "bench_a"), testJob(t, "bench_b"), testJob(t, "bench_c")}
	results, err := exec.ExecuteBatch(context.Background(), jobs, BatchConfig{Parallel: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("job %s failed: %v", r.Job.Name(), r.Err)
		}
		if r.Parsed != nil && r.Parsed.Measured.Async != nil {
			t.Errorf("job %s: sync benchmark decoded an async section", r.Job.Name())
		}
	}
}

func TestExecuteBatchFailFastReportsFailedJob(t *testing.T) {
	fc := &fakeCompiler{failUntil: 1}
	exec, closeFn := newTestExecutor(t, fc, nil)
	defer closeFn()

	jobs := []*Job{testJob(t, "bench_first")}
	results, err := exec.ExecuteBatch(context.Background(), jobs, BatchConfig{Parallel: 1, FailFast: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Fatalf("expected the sole job to fail, got %+v", results)
	}
}
