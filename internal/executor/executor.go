// Package executor compiles generated benchmark source through the compile
// cache and runs the resulting artifact as a subprocess, turning the
// codegen+cache+parser packages into decoded per-(benchmark,language)
// results (spec.md §4.7 "Runtime Orchestrator"). Concurrency is provided by
// sourcegraph/conc's panic-safe worker pool, bounded-compile fan-in by
// golang.org/x/sync/semaphore, and fairness-strict subprocess pacing by
// golang.org/x/time/rate.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/cache"
	"github.com/polybench-dev/polybench/internal/codegen"
	"github.com/polybench-dev/polybench/internal/diag"
	"github.com/polybench-dev/polybench/internal/parser"
	"github.com/polybench-dev/polybench/internal/stdlib"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// maxCapturedOutputBytes bounds how much stdout/stderr a single subprocess
// invocation ever holds in memory; a runaway benchmark that spams stdout
// doesn't get to exhaust the orchestrator's own memory for it.
const maxCapturedOutputBytes = 8 << 20

// Executor compiles and runs benchmark jobs. The zero value is not usable;
// construct with New.
type Executor struct {
	cache    *cache.Cache
	compiler Compiler
	clock    Clock
	registry ParserRegistry
	progress ProgressHandler
}

// Option configures an Executor at construction time.
type Option func(*Executor)

func WithCompiler(c Compiler) Option          { return func(e *Executor) { e.compiler = c } }
func WithClock(c Clock) Option                { return func(e *Executor) { e.clock = c } }
func WithParserRegistry(r ParserRegistry) Option { return func(e *Executor) { e.registry = r } }
func WithProgressHandler(h ProgressHandler) Option {
	return func(e *Executor) { e.progress = h }
}

// New returns an Executor backed by c, defaulting to a real process
// compiler, wall clock, and the built-in parser registry.
func New(c *cache.Cache, opts ...Option) *Executor {
	e := &Executor{
		cache:    c,
		compiler: ProcessCompiler{},
		clock:    realClock{},
		registry: NewParserRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) emit(evt EventType, job *Job, res *Result, err error) {
	if e.progress == nil {
		return
	}
	e.progress(&ProgressEvent{Type: evt, Job: job, Result: res, Err: err, Timestamp: e.clock.Now()})
}

// Execute runs job once: resolve its stdlib modules, generate source, get a
// compiled artifact (cache hit or a fresh compile, bounded by compileSem if
// non-nil), run it, and decode the result. A non-nil returned error is
// always also res.Err; callers that only care about one value can ignore
// whichever they don't need.
func (e *Executor) Execute(ctx context.Context, job *Job, compileSem *semaphore.Weighted, limiter *rate.Limiter) (*Result, error) {
	start := e.clock.Now()
	res := &Result{Job: job, StartTime: start}
	e.emit(EventRunning, job, nil, nil)

	fail := func(err error) (*Result, error) {
		res.Err = err
		res.EndTime = e.clock.Now()
		res.Duration = res.EndTime.Sub(res.StartTime)
		e.emit(EventFailed, job, res, err)
		return res, err
	}

	mods, err := stdlib.Resolve(job.StdlibNames)
	if err != nil {
		return fail(diag.ForLanguage(diag.KindValidation, string(job.Lang), err.Error()))
	}
	source, err := codegen.Emit(job.Lang, job.Spec, job.Suite, mods)
	if err != nil {
		return fail(diag.ForLanguage(diag.KindCompileFailure, string(job.Lang), err.Error()))
	}
	envVars := stdlib.EnvVars(mods)
	key := cache.Key(string(job.Lang), source, cache.EnvFingerprint(envVars))

	dir, hit, err := e.cache.Lookup(key)
	if err != nil {
		return fail(diag.Wrap(diag.KindCompileFailure, "cache lookup failed", err))
	}
	if !hit {
		if compileSem != nil {
			if err := compileSem.Acquire(ctx, 1); err != nil {
				return fail(diag.Wrap(diag.KindTimeout, "waiting for a free compiler slot", err))
			}
			defer compileSem.Release(1)
		}
		dir, err = e.cache.Publish(key, string(job.Lang), func(scratch string) error {
			spec, buildErr := e.compiler.Build(ctx, job.Lang, source, job.ModuleRoot, scratch)
			if buildErr != nil {
				return buildErr
			}
			return writeRunCmd(scratch, spec)
		})
		if err != nil {
			return fail(err)
		}
	} else {
		res.CacheHit = true
	}

	run, err := readRunCmd(dir)
	if err != nil {
		return fail(diag.Wrap(diag.KindCompileFailure, "recovering cached run command", err))
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fail(diag.Wrap(diag.KindTimeout, "waiting for a fairness-paced spawn slot", err))
		}
	}

	runCtx := ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}

	stdout, stderr, runErr := runSubprocess(runCtx, run, job.ModuleRoot, job.ExtraEnv)
	if runErr != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return fail(diag.ForLanguage(diag.KindTimeout, string(job.Lang),
				fmt.Sprintf("exceeded %s", job.Timeout)).WithDetail(string(stderr), 2000))
		}
		return fail(diag.ForLanguage(diag.KindRuntimeFailure, string(job.Lang), runErr.Error()).
			WithDetail(string(stderr), 2000))
	}

	p, err := e.registry.GetParser(string(job.Lang))
	if err != nil {
		return fail(diag.ForLanguage(diag.KindToolchainMissing, string(job.Lang), err.Error()))
	}
	parsed, err := p.Parse(job.Name(), stdout, stderr)
	if err != nil {
		var de *parser.DecodeError
		if errors.As(err, &de) {
			return fail(diag.ForLanguage(diag.KindOutputMalformed, string(job.Lang), de.Error()))
		}
		return fail(diag.ForLanguage(diag.KindOutputMalformed, string(job.Lang), err.Error()))
	}
	parsed.Measured = parsed.Measured.WithAsyncPolicy(job.Spec.AsyncSamplingPolicy, job.Spec.AsyncWarmupCap, job.Spec.AsyncSampleCap)

	res.Parsed = parsed
	res.EndTime = e.clock.Now()
	res.Duration = res.EndTime.Sub(res.StartTime)
	e.emit(EventCompleted, job, res, nil)
	return res, nil
}

// runSubprocess runs run.Program with run.Args, returning captured and
// size-capped stdout/stderr.
func runSubprocess(ctx context.Context, run runSpec, dir string, extraEnv map[string]string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, run.Program, run.Args...)
	cmd.Dir = dir
	env := os.Environ()
	for k, v := range extraEnv {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &capWriter{buf: &stdout, max: maxCapturedOutputBytes}
	cmd.Stderr = &capWriter{buf: &stderr, max: maxCapturedOutputBytes}
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// capWriter bounds how many bytes accumulate in buf, silently discarding
// anything past max rather than growing unboundedly for a chatty process.
type capWriter struct {
	buf *bytes.Buffer
	max int
}

func (w *capWriter) Write(p []byte) (int, error) {
	remaining := w.max - w.buf.Len()
	if remaining <= 0 {
		return len(p), nil
	}
	if len(p) > remaining {
		w.buf.Write(p[:remaining])
	} else {
		w.buf.Write(p)
	}
	return len(p), nil
}

// executeWithRetry retries a job up to cfg.Retry additional times on
// failure, sleeping a fixed backoff between attempts (mirroring the
// teacher's own fixed-backoff retry loop).
func (e *Executor) executeWithRetry(ctx context.Context, job *Job, cfg BatchConfig, compileSem *semaphore.Weighted, limiter *rate.Limiter) *Result {
	var res *Result
	for attempt := 1; ; attempt++ {
		var err error
		res, err = e.Execute(ctx, job, compileSem, limiter)
		res.Attempts = attempt
		if err == nil || attempt > cfg.Retry {
			return res
		}
		e.emit(EventRetrying, job, res, err)
		e.clock.Sleep(time.Second)
	}
}

// ExecuteBatch runs every job in jobs, bounded to cfg.Parallel concurrent
// executions (via sourcegraph/conc's panic-safe pool) and cfg.
// CompileConcurrency concurrent compiler invocations (via a weighted
// semaphore shared across the whole batch). Under ast.FairnessStrict,
// subprocess spawns are additionally paced by a token-bucket rate limiter
// so neither language gets a head start from scheduling luck (spec.md
// §4.9). A FailFast batch stops scheduling new jobs once the first failure
// is observed, but jobs already running are allowed to finish.
func (e *Executor) ExecuteBatch(ctx context.Context, jobs []*Job, cfg BatchConfig) ([]*Result, error) {
	if cfg.Parallel <= 0 {
		cfg.Parallel = 1
	}

	var compileSem *semaphore.Weighted
	if cfg.CompileConcurrency > 0 {
		compileSem = semaphore.NewWeighted(int64(cfg.CompileConcurrency))
	}
	var limiter *rate.Limiter
	if cfg.Fairness == ast.FairnessStrict && cfg.FairnessRatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.FairnessRatePerSec), 1)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := pool.NewWithResults[*Result]().WithMaxGoroutines(cfg.Parallel)
	for _, job := range jobs {
		job := job
		e.emit(EventScheduled, job, nil, nil)
		p.Go(func() *Result {
			if runCtx.Err() != nil {
				return &Result{Job: job, Err: context.Canceled}
			}
			res := e.executeWithRetry(ctx, job, cfg, compileSem, limiter)
			if cfg.FailFast && res.Err != nil {
				cancel()
			}
			return res
		})
	}
	return p.Wait(), nil
}
