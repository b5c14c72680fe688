package codegen

// pythonTemplate renders a standalone CPython script using
// `time.perf_counter_ns()` for timing and a module-level list as the sink
// (CPython has no compiler to fool, but a mutable global still defeats
// the interpreter's rare constant-folding and gives a consistent shape
// across languages, per spec.md §4.6's "idiomatic primitive per language").
const pythonTemplate = `import json
import random
import sys
import time
import tracemalloc
{{- range .Imports}}
{{.}}
{{- end}}

{{- range .StdlibSnippets}}
{{.}}
{{- end}}

{{.Declarations}}

{{.Helpers}}

_polybench_sink = None

{{- range .FixturePrelude}}
{{.Name}} = {{.Expr}}
{{- end}}

def polybench_run_once():
{{.BenchmarkBody}}


def polybench_init():
{{.Init}}


def main():
    global _polybench_sink
    polybench_init()
{{if .BeforeHook}}    {{.BeforeHook}}
{{end}}
{{if .MemoryTracking}}    tracemalloc.start()
{{end}}

{{if eq .Kind "async"}}
    warmup_cap = {{.AsyncWarmupCap}}
    sample_cap = {{.AsyncSampleCap}}
    for _ in range(warmup_cap):
{{if .EachHook}}        {{.EachHook}}
{{end}}        try:
            polybench_run_once()
        except Exception:
            pass

    samples = []
    error_samples = []
    successful_count = 0
    error_count = 0
    total_nanos = 0
    target_nanos = {{.TargetTimeMs}} * 1_000_000
    _polybench_rng = random.Random({{.FairnessSeed}})
    i = 0
    while True:
{{if eq (print .AsyncPolicy) "fixedCap"}}        if i >= sample_cap:
            break
{{else}}        if total_nanos >= target_nanos:
            break
{{end}}
{{if .EachHook}}        {{.EachHook}}
{{end}}
        start = time.perf_counter_ns()
        try:
            res = polybench_run_once()
            err = None
        except Exception as e:
            res = None
            err = e
        elapsed = time.perf_counter_ns() - start
        total_nanos += elapsed

        if err is not None:
            error_count += 1
            if len(error_samples) < sample_cap:
                error_samples.append(str(err)[:120])
        else:
            successful_count += 1
            if len(samples) < sample_cap:
                samples.append(float(elapsed))
            else:
                j = _polybench_rng.randint(0, i)
                if j < sample_cap:
                    samples[j] = float(elapsed)
        i += 1

{{if .AfterHook}}    {{.AfterHook}}
{{end}}
    _polybench_sink = samples
    nanos_per_op = (total_nanos / i) if i > 0 else 0.0
    ops_per_sec = (1e9 / nanos_per_op) if nanos_per_op > 0 else 0.0
    out = {
        "iterations": i,
        "total_nanos": total_nanos,
        "nanos_per_op": nanos_per_op,
        "ops_per_sec": ops_per_sec,
        "samples": samples,
        "successful_count": successful_count,
        "error_count": error_count,
        "error_samples": error_samples,
    }
    print(json.dumps(out))
{{else}}
{{if eq .Mode.String "fixed"}}    iterations = {{.Iterations}}
    warmup = {{.Warmup}}
    for _ in range(warmup):
{{if .EachHook}}        {{.EachHook}}
{{end}}        polybench_run_once()
    samples = []
    total_nanos = 0
    for _ in range(iterations):
{{if .EachHook}}        {{.EachHook}}
{{end}}        start = time.perf_counter_ns()
        res = polybench_run_once()
        elapsed = time.perf_counter_ns() - start
        total_nanos += elapsed
        samples.append(float(elapsed))
        _polybench_sink = res
    final_iterations = iterations
{{else}}    target_nanos = {{.TargetTimeMs}} * 1_000_000
    batch = 1
    total_iterations = 0
    total_nanos = 0
    while total_nanos < target_nanos:
        start = time.perf_counter_ns()
        for _ in range(batch):
{{if .EachHook}}            {{.EachHook}}
{{end}}            _polybench_sink = polybench_run_once()
        elapsed = time.perf_counter_ns() - start
        total_iterations += batch
        total_nanos += elapsed
        remaining = target_nanos - total_nanos
        if elapsed == 0:
            batch *= 10
            continue
        predicted = batch * remaining / elapsed
        if remaining < elapsed:
            batch = max(1, int(predicted))
        elif remaining < target_nanos / 5:
            batch = int(0.9 * predicted)
        else:
            grown = int(batch * 1.1)
            if grown > batch * 10:
                grown = batch * 10
            if grown <= batch:
                grown = batch + 1
            batch = grown
    sample_count = min(1000, total_iterations)
    samples = []
    for _ in range(sample_count):
{{if .EachHook}}        {{.EachHook}}
{{end}}        start = time.perf_counter_ns()
        res = polybench_run_once()
        elapsed = time.perf_counter_ns() - start
        samples.append(float(elapsed))
        _polybench_sink = res
    final_iterations = total_iterations
{{end}}
{{if .AfterHook}}    {{.AfterHook}}
{{end}}
    bytes_per_op = None
{{if .MemoryTracking}}    current, peak = tracemalloc.get_traced_memory()
    tracemalloc.stop()
    if final_iterations > 0:
        bytes_per_op = peak / final_iterations
{{end}}

    nanos_per_op = (total_nanos / final_iterations) if final_iterations > 0 else 0.0
    ops_per_sec = (1e9 / nanos_per_op) if nanos_per_op > 0 else 0.0
    out = {
        "iterations": final_iterations,
        "total_nanos": total_nanos,
        "nanos_per_op": nanos_per_op,
        "ops_per_sec": ops_per_sec,
        "samples": samples,
    }
    if bytes_per_op is not None:
        out["bytes_per_op"] = bytes_per_op
    print(json.dumps(out))
{{end}}


if __name__ == "__main__":
    main()
`
