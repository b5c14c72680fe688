package codegen

// goTemplate renders a standalone Go program implementing the measurement
// harness from spec.md §4.6: sync auto-calibration (adaptive batching then
// a bounded sample-collection pass) or fixed-iteration timing, async
// sequential sampling with TimeBudgeted/FixedCap policies and reservoir
// sampling, optional memory-delta tracking via runtime.ReadMemStats, and a
// JSON result written as the last stdout line. The benchmark body is
// expected to end in `return <value>, nil` (sync) or
// `return <value>, err` (async) so the harness can both time it and feed
// its result to the sink, the same "last expression is the result" shape
// Go's own `testing.B` loop bodies use informally.
const goTemplate = `package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
{{if eq .Kind "async"}}	"math/rand"
{{else}}	"sort"
{{end}}{{if .MemoryTracking}}	"runtime"
{{end}}{{- range .Imports}}
	{{.}}
{{- end}}
)

{{- range .StdlibSnippets}}
{{.}}
{{- end}}

{{.Declarations}}

{{.Helpers}}

var polybenchSink interface{}
var _ = os.Args // keeps "os" imported when no branch below calls os.Exit

{{- range .FixturePrelude}}
var {{.Name}} = {{.Expr}}
{{- end}}

func polybenchRunOnce() (interface{}, error) {
{{.BenchmarkBody}}
}

func polybenchInit() {
{{if .InitIsAsync}}// init is async in source form; executed synchronously here since
	// the host process is not itself suspended by subprocess-internal awaits.
{{end}}{{.Init}}
}

func main() {
	polybenchInit()
{{if .BeforeHook}}
	if err := func() error { {{.BeforeHook}}; return nil }(); err != nil {
		fmt.Fprintln(os.Stderr, "before hook failed:", err)
		os.Exit(1)
	}
{{end}}
{{if .MemoryTracking}}	var memBefore, memAfter runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&memBefore)
{{end}}

{{if eq .Kind "async"}}
	warmupCap := int64({{.AsyncWarmupCap}})
	sampleCap := int64({{.AsyncSampleCap}})
	for i := int64(0); i < warmupCap; i++ {
{{if .EachHook}}		func() { {{.EachHook}} }()
{{end}}		_, _ = polybenchRunOnce()
	}

	var samples []float64
	var successfulCount, errorCount int64
	var errorSamples []string
	var successfulResults []interface{}
	totalNanos := int64(0)
	targetNanos := int64({{.TargetTimeMs}}) * 1_000_000
	rng := rand.New(rand.NewSource({{.FairnessSeed}}))
	iter := int64(0)
	for {
{{if eq (print .AsyncPolicy) "fixedCap"}}		if iter >= sampleCap {
			break
		}
{{else}}		if totalNanos >= targetNanos {
			break
		}
{{end}}
{{if .EachHook}}		func() { {{.EachHook}} }()
{{end}}
		start := time.Now()
		res, err := func() (result interface{}, rerr error) {
			defer func() {
				if p := recover(); p != nil {
					rerr = fmt.Errorf("panic: %v", p)
				}
			}()
			return polybenchRunOnce()
		}()
		elapsed := time.Since(start).Nanoseconds()
		totalNanos += elapsed

		if err != nil {
			errorCount++
			if int64(len(errorSamples)) < sampleCap {
				msg := err.Error()
				if len(msg) > 120 {
					msg = msg[:120]
				}
				errorSamples = append(errorSamples, msg)
			}
		} else {
			successfulCount++
			if int64(len(samples)) < sampleCap {
				samples = append(samples, float64(elapsed))
				successfulResults = append(successfulResults, res)
			} else {
				j := rng.Int63n(iter + 1)
				if j < sampleCap {
					samples[j] = float64(elapsed)
					successfulResults[j] = res
				}
			}
		}
		iter++
	}

{{if .MemoryTracking}}	runtime.ReadMemStats(&memAfter)
{{end}}
{{if .AfterHook}}	func() { {{.AfterHook}} }()
{{end}}

	out := struct {
		Iterations        int64         ` + "`json:\"iterations\"`" + `
		TotalNanos        int64         ` + "`json:\"total_nanos\"`" + `
		NanosPerOp        float64       ` + "`json:\"nanos_per_op\"`" + `
		OpsPerSec         float64       ` + "`json:\"ops_per_sec\"`" + `
		Samples           []float64     ` + "`json:\"samples\"`" + `
		SuccessfulResults []interface{} ` + "`json:\"successful_results,omitempty\"`" + `
		SuccessfulCount   int64         ` + "`json:\"successful_count\"`" + `
		ErrorCount        int64         ` + "`json:\"error_count\"`" + `
		ErrorSamples      []string      ` + "`json:\"error_samples,omitempty\"`" + `
	}{
		Iterations:        iter,
		TotalNanos:        totalNanos,
		Samples:           samples,
		SuccessfulResults: successfulResults,
		SuccessfulCount:   successfulCount,
		ErrorCount:        errorCount,
		ErrorSamples:      errorSamples,
	}
	if iter > 0 {
		out.NanosPerOp = float64(totalNanos) / float64(iter)
		if out.NanosPerOp > 0 {
			out.OpsPerSec = 1e9 / out.NanosPerOp
		}
	}
	polybenchSink = successfulResults
	b, _ := json.Marshal(out)
	fmt.Println(string(b))
	return
{{else}}
{{if eq .Mode.String "fixed"}}	iterations := int64({{.Iterations}})
	warmup := int64({{.Warmup}})
	for i := int64(0); i < warmup; i++ {
{{if .EachHook}}		func() { {{.EachHook}} }()
{{end}}		_, _ = polybenchRunOnce()
	}
	samples := make([]float64, 0, iterations)
	totalNanos := int64(0)
	for i := int64(0); i < iterations; i++ {
{{if .EachHook}}		func() { {{.EachHook}} }()
{{end}}		start := time.Now()
		res, err := polybenchRunOnce()
		elapsed := time.Since(start).Nanoseconds()
		if err != nil {
			fmt.Fprintln(os.Stderr, "benchmark error:", err)
			os.Exit(1)
		}
		totalNanos += elapsed
		samples = append(samples, float64(elapsed))
		polybenchSink = res
	}
{{else}}	targetNanos := int64({{.TargetTimeMs}}) * 1_000_000
	batch := int64(1)
	totalIterations := int64(0)
	totalNanos := int64(0)
	for totalNanos < targetNanos {
		start := time.Now()
		for i := int64(0); i < batch; i++ {
{{if .EachHook}}			func() { {{.EachHook}} }()
{{end}}			res, err := polybenchRunOnce()
			if err != nil {
				fmt.Fprintln(os.Stderr, "benchmark error:", err)
				os.Exit(1)
			}
			polybenchSink = res
		}
		elapsed := time.Since(start).Nanoseconds()
		totalIterations += batch
		totalNanos += elapsed

		remaining := targetNanos - totalNanos
		if elapsed == 0 {
			batch *= 10
			continue
		}
		predicted := float64(batch) * float64(remaining) / float64(elapsed)
		switch {
		case float64(remaining) < float64(elapsed):
			batch = int64(predicted)
			if batch < 1 {
				batch = 1
			}
		case float64(remaining) < float64(targetNanos)/5:
			batch = int64(0.9 * predicted)
		default:
			grown := int64(float64(batch) * 1.1)
			if grown > batch*10 {
				grown = batch * 10
			}
			if grown <= batch {
				grown = batch + 1
			}
			batch = grown
		}
	}

	sampleCount := totalIterations
	if sampleCount > 1000 {
		sampleCount = 1000
	}
	samples := make([]float64, 0, sampleCount)
	for i := int64(0); i < sampleCount; i++ {
{{if .EachHook}}		func() { {{.EachHook}} }()
{{end}}		start := time.Now()
		res, err := polybenchRunOnce()
		elapsed := time.Since(start).Nanoseconds()
		if err != nil {
			fmt.Fprintln(os.Stderr, "benchmark error:", err)
			os.Exit(1)
		}
		samples = append(samples, float64(elapsed))
		polybenchSink = res
	}
{{end}}
{{if .MemoryTracking}}	runtime.ReadMemStats(&memAfter)
{{end}}
{{if .AfterHook}}	func() { {{.AfterHook}} }()
{{end}}
	sort.Float64s(samples)
	out := struct {
		Iterations  int64     ` + "`json:\"iterations\"`" + `
		TotalNanos  int64     ` + "`json:\"total_nanos\"`" + `
		NanosPerOp  float64   ` + "`json:\"nanos_per_op\"`" + `
		OpsPerSec   float64   ` + "`json:\"ops_per_sec\"`" + `
		BytesPerOp  float64   ` + "`json:\"bytes_per_op,omitempty\"`" + `
		AllocsPerOp float64   ` + "`json:\"allocs_per_op,omitempty\"`" + `
		Samples     []float64 ` + "`json:\"samples\"`" + `
	}{}
	out.Samples = samples
{{if eq .Mode.String "fixed"}}	out.Iterations = iterations
{{else}}	out.Iterations = totalIterations
{{end}}	out.TotalNanos = totalNanos
	if out.Iterations > 0 {
		out.NanosPerOp = float64(totalNanos) / float64(out.Iterations)
		if out.NanosPerOp > 0 {
			out.OpsPerSec = 1e9 / out.NanosPerOp
		}
	}
{{if .MemoryTracking}}	if out.Iterations > 0 {
		out.BytesPerOp = float64(memAfter.TotalAlloc-memBefore.TotalAlloc) / float64(out.Iterations)
		out.AllocsPerOp = float64(memAfter.Mallocs-memBefore.Mallocs) / float64(out.Iterations)
	}
{{end}}	b, _ := json.Marshal(out)
	fmt.Println(string(b))
	_ = polybenchSink
{{end}}
}
`
