package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/polybench-dev/polybench/internal/aggregator"
	"github.com/polybench-dev/polybench/internal/ast"
	"github.com/polybench-dev/polybench/internal/comparator"
	"github.com/polybench-dev/polybench/internal/executor"
	"github.com/polybench-dev/polybench/internal/ir"
	"github.com/polybench-dev/polybench/internal/measurement"
	"github.com/polybench-dev/polybench/internal/reporter"
	"github.com/polybench-dev/polybench/internal/storage"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Lower, compile, execute, and report a .bench suite",
	Long: `Run parses a .bench file, validates and lowers it, compiles and executes
every (benchmark, language) pair it names, aggregates repeated runs, persists
the result history, and prints a summary (and, when more than one language
ran, a cross-language comparison).

Example:
  polybench run --file suites/sorting.bench
  polybench run --file suites/sorting.bench --languages go,rust --runs 5`,
	RunE: runSuite,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("file", "f", "", "path to the .bench suite to run (required)")
	runCmd.Flags().StringP("languages", "l", "", "comma-separated language filter (default: every implemented language)")
	runCmd.Flags().IntP("runs", "r", 1, "independent runs per (benchmark, language) pair, aggregated together (1 = each benchmark's own count)")
	runCmd.Flags().IntP("parallel", "p", 0, "concurrent job executions (default from config, else 4)")
	runCmd.Flags().Int("compile-concurrency", 0, "concurrent compiler invocations (0 = unbounded)")
	runCmd.Flags().Int("retry", 0, "retries per failed job")
	runCmd.Flags().Bool("failfast", false, "cancel remaining jobs after the first failure")
	runCmd.Flags().Duration("timeout", 0, "override every job's timeout (0 = use the suite's own)")
	runCmd.Flags().StringP("baseline", "b", "", "baseline language for the cross-language comparison (default: the first declared language present)")
	runCmd.Flags().StringP("format", "o", "table", "report format: table, json, md, or csv")
	runCmd.Flags().String("cache-dir", "", "compile cache directory (default .polybench/cache)")
	runCmd.Flags().String("db", "polybench.db", "sqlite database path for result history")
	runCmd.Flags().Bool("no-persist", false, "skip writing results to the history database")

	_ = runCmd.MarkFlagRequired("file")
}

func runSuite(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	flags := cmd.Flags()

	path, _ := flags.GetString("file")
	langCSV, _ := flags.GetString("languages")
	runs, _ := flags.GetInt("runs")
	parallel, _ := flags.GetInt("parallel")
	compileConcurrency, _ := flags.GetInt("compile-concurrency")
	retry, _ := flags.GetInt("retry")
	failFast, _ := flags.GetBool("failfast")
	timeout, _ := flags.GetDuration("timeout")
	baseline, _ := flags.GetString("baseline")
	formatStr, _ := flags.GetString("format")
	cacheDir, _ := flags.GetString("cache-dir")
	dbPath, _ := flags.GetString("db")
	noPersist, _ := flags.GetBool("no-persist")

	if parallel <= 0 {
		parallel = viper.GetInt("execution.parallel")
	}
	if parallel <= 0 {
		parallel = 4
	}
	if compileConcurrency <= 0 {
		compileConcurrency = viper.GetInt("execution.compile_concurrency")
	}
	if retry <= 0 {
		retry = viper.GetInt("execution.retry")
	}

	lowered, err := loadAndLower(path)
	if err != nil {
		return err
	}

	var langFilter map[string]bool
	if langCSV != "" {
		langFilter = make(map[string]bool)
		for _, l := range strings.Split(langCSV, ",") {
			langFilter[strings.TrimSpace(l)] = true
		}
	}

	plans, err := planJobs(lowered, ".", langFilter, runs, timeout)
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		return fmt.Errorf("no (benchmark, language) pairs matched %q", path)
	}

	slog.Info("planned jobs", "count", len(plans), "parallel", parallel)

	c, err := openCache(cacheDir)
	if err != nil {
		return fmt.Errorf("opening compile cache: %w", err)
	}
	defer c.Close()

	jobs := make([]*executor.Job, len(plans))
	for i, p := range plans {
		jobs[i] = p.Job
	}

	fairnessRate := viper.GetFloat64("execution.fairness_rate")
	if fairnessRate <= 0 {
		fairnessRate = 5.0
	}

	exec := executor.New(c, executor.WithProgressHandler(logProgress))
	start := time.Now()
	results, err := exec.ExecuteBatch(ctx, jobs, executor.BatchConfig{
		Parallel:           parallel,
		CompileConcurrency: compileConcurrency,
		Retry:              retry,
		FailFast:           failFast,
		Fairness:           batchFairness(lowered),
		FairnessRatePerSec: fairnessRate,
	})
	if err != nil {
		return fmt.Errorf("executing batch: %w", err)
	}
	slog.Info("batch complete", "duration", time.Since(start).Round(time.Millisecond))

	groups := make(map[groupKey][]*measurement.Measurement)
	suiteOf := make(map[groupKey]string)
	var order []groupKey
	var failures int
	for i, res := range results {
		plan := plans[i]
		if res.Err != nil {
			failures++
			slog.Error("job failed", "suite", plan.Suite, "benchmark", plan.Name, "language", plan.Lang, "error", res.Err)
			continue
		}
		key := groupKey{Suite: plan.Suite, Name: plan.Name, Language: string(plan.Lang)}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
			suiteOf[key] = plan.Suite
		}
		groups[key] = append(groups[key], res.Parsed.Measured)
	}

	if len(groups) == 0 {
		return fmt.Errorf("every job failed (%d of %d)", failures, len(plans))
	}

	agg := aggregator.New(viper.GetFloat64("aggregator.cv_threshold"))
	var runGroups []aggregator.BenchmarkRuns
	for _, key := range order {
		runGroups = append(runGroups, aggregator.BenchmarkRuns{Name: key.Name, Language: key.Language, Runs: groups[key]})
	}
	aggSuite, err := agg.AggregateSuite(runGroups, map[string]string{"source": path})
	if err != nil {
		return fmt.Errorf("aggregating results: %w", err)
	}

	now := time.Now()
	previous := loadPreviousRuns(dbPath, order, now)

	if !noPersist {
		if err := persistRuns(dbPath, order, suiteOf, aggSuite, now); err != nil {
			slog.Warn("failed to persist run history", "error", err)
		}
	}

	format := reporter.Format(formatStr)
	if err := reporter.WriteSummary(os.Stdout, aggSuite, format, &reporter.Options{Title: path, Previous: previous}); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	if languagesUsed(order) > 1 {
		if err := writeComparison(aggSuite, baseline, format); err != nil {
			return fmt.Errorf("writing comparison: %w", err)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d jobs failed", failures, len(plans))
	}
	return nil
}

// batchFairness reports ast.FairnessStrict if any lowered suite asked for
// it — mixing a strict and a relaxed suite in one run still paces every
// spawn, since relaxed suites have nothing to lose from the pacing.
func batchFairness(irRoot *ir.BenchmarkIR) ast.FairnessMode {
	for _, suite := range irRoot.Suites {
		for _, b := range suite.Benchmarks {
			if b.FairnessMode == ast.FairnessStrict {
				return ast.FairnessStrict
			}
		}
	}
	return ast.FairnessRelaxed
}

func languagesUsed(keys []groupKey) int {
	seen := make(map[string]bool)
	for _, k := range keys {
		seen[k.Language] = true
	}
	return len(seen)
}

func writeComparison(aggSuite *aggregator.AggregatedSuite, baseline string, format reporter.Format) error {
	perBenchmark := make(map[string]map[string]*measurement.Measurement)
	var names []string
	seen := make(map[string]bool)
	for _, r := range aggSuite.Results {
		if perBenchmark[r.Name] == nil {
			perBenchmark[r.Name] = make(map[string]*measurement.Measurement)
		}
		perBenchmark[r.Name][r.Language] = r.Measured
		if !seen[r.Name] {
			seen[r.Name] = true
			names = append(names, r.Name)
		}
	}
	sort.Strings(names)

	comp := comparator.New(baseline, nil)
	comparisons, summary := comp.CompareSuite(names, perBenchmark)
	return reporter.WriteComparison(os.Stdout, comparisons, summary, format, &reporter.Options{})
}

// loadPreviousRuns looks up each group's most recent run recorded strictly
// before at, so reporter.WriteSummary can print "vs last run" deltas
// (SPEC_FULL.md §8, storage.SQLiteStore.LatestBefore). Missing or
// unopenable history is reported but never fatal — a first-ever run simply
// renders with no deltas.
func loadPreviousRuns(dbPath string, order []groupKey, at time.Time) map[string]reporter.PreviousRun {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		slog.Warn("could not open run history for vs-last-run deltas", "error", err)
		return nil
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		slog.Warn("could not init run history for vs-last-run deltas", "error", err)
		return nil
	}

	previous := make(map[string]reporter.PreviousRun)
	for _, key := range order {
		prev, err := store.LatestBefore(key.Suite, key.Name, key.Language, at)
		if err != nil {
			slog.Warn("could not load prior run", "suite", key.Suite, "benchmark", key.Name, "language", key.Language, "error", err)
			continue
		}
		if prev != nil {
			previous[reporter.PreviousKey(key.Name, key.Language)] = reporter.PreviousRun{NanosPerOp: prev.NanosPerOp}
		}
	}
	return previous
}

func persistRuns(dbPath string, order []groupKey, suiteOf map[groupKey]string, aggSuite *aggregator.AggregatedSuite, now time.Time) error {
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		return err
	}

	for i, r := range aggSuite.Results {
		key := order[i]
		m := r.Measured
		run := &storage.Run{
			Suite:      suiteOf[key],
			Name:       r.Name,
			Language:   r.Language,
			RunAt:      now,
			Iterations: m.Iterations,
			NanosPerOp: m.NanosPerOp,
			OpsPerSec:  m.OpsPerSec,
		}
		if m.Distribution != nil {
			run.CVPercent = m.Distribution.CVPercent
		}
		if m.Runs != nil {
			run.IsStable = m.Runs.IsStable
		} else {
			run.IsStable = run.CVPercent <= 5.0
		}
		if m.Memory != nil {
			bytesPerOp := m.Memory.BytesPerOp
			allocsPerOp := m.Memory.AllocsPerOp
			run.BytesPerOp = &bytesPerOp
			run.AllocsPerOp = &allocsPerOp
		}
		if m.Async != nil {
			ratio := m.Async.Details.SuccessRatio
			run.SuccessRatio = &ratio
		}
		if err := store.SaveRun(run); err != nil {
			return fmt.Errorf("saving run %s/%s: %w", run.Name, run.Language, err)
		}
	}
	return nil
}

func logProgress(evt *executor.ProgressEvent) {
	switch evt.Type {
	case executor.EventRetrying:
		slog.Warn("retrying", "benchmark", evt.Job.Name(), "language", evt.Job.Lang, "error", evt.Err)
	case executor.EventFailed:
		slog.Error("failed", "benchmark", evt.Job.Name(), "language", evt.Job.Lang, "error", evt.Err)
	case executor.EventCompleted:
		slog.Debug("completed", "benchmark", evt.Job.Name(), "language", evt.Job.Lang, "cache_hit", evt.Result.CacheHit)
	}
}
