package codegen

// tsTemplate renders a standalone Node/Bun TypeScript program implementing
// the same measurement harness shape as golang.go, adapted to the
// language's idioms: `performance.now()` for sub-millisecond timing,
// `process.memoryUsage()` for the memory-tracking delta, and genuine
// `async`/`await` for benchAsync bodies (spec.md §4.6 "each language uses
// the idiomatic primitive").
const tsTemplate = `{{- range .Imports}}
{{.}}
{{- end}}

{{- range .StdlibSnippets}}
{{.}}
{{- end}}

{{.Declarations}}

{{.Helpers}}

let polybenchSink: unknown;

let polybenchRngState = BigInt.asUintN(64, BigInt({{.FairnessSeed}}));
function polybenchNextRand(bound: number): number {
  polybenchRngState ^= polybenchRngState << 13n;
  polybenchRngState = BigInt.asUintN(64, polybenchRngState);
  polybenchRngState ^= polybenchRngState >> 7n;
  polybenchRngState ^= polybenchRngState << 17n;
  polybenchRngState = BigInt.asUintN(64, polybenchRngState);
  return Number(polybenchRngState % BigInt(bound));
}

{{- range .FixturePrelude}}
const {{.Name}} = {{.Expr}};
{{- end}}

async function polybenchRunOnce(): Promise<unknown> {
{{.BenchmarkBody}}
}

async function polybenchInit() {
{{.Init}}
}

async function main() {
  await polybenchInit();
{{if .BeforeHook}}  {{.BeforeHook}};
{{end}}
  const memBefore = process.memoryUsage();

{{if eq .Kind "async"}}
  const warmupCap = {{.AsyncWarmupCap}};
  const sampleCap = {{.AsyncSampleCap}};
  for (let i = 0; i < warmupCap; i++) {
{{if .EachHook}}    {{.EachHook}};
{{end}}    await polybenchRunOnce().catch(() => undefined);
  }

  const samples: number[] = [];
  const successfulResults: unknown[] = [];
  const errorSamples: string[] = [];
  let successfulCount = 0, errorCount = 0, totalNanos = 0, iter = 0;
  const targetNanos = {{.TargetTimeMs}} * 1e6;

  while (true) {
{{if eq (print .AsyncPolicy) "fixedCap"}}    if (iter >= sampleCap) break;
{{else}}    if (totalNanos >= targetNanos) break;
{{end}}
{{if .EachHook}}    {{.EachHook}};
{{end}}
    const start = performance.now();
    let res: unknown, err: unknown;
    try {
      res = await polybenchRunOnce();
    } catch (e) {
      err = e;
    }
    const elapsedNanos = (performance.now() - start) * 1e6;
    totalNanos += elapsedNanos;

    if (err !== undefined) {
      errorCount++;
      if (errorSamples.length < sampleCap) {
        errorSamples.push(String(err).slice(0, 120));
      }
    } else {
      successfulCount++;
      if (samples.length < sampleCap) {
        samples.push(elapsedNanos);
        successfulResults.push(res);
      } else {
        const j = polybenchNextRand(iter + 1);
        if (j < sampleCap) {
          samples[j] = elapsedNanos;
          successfulResults[j] = res;
        }
      }
    }
    iter++;
  }

{{if .AfterHook}}  {{.AfterHook}};
{{end}}
  const memAfter = process.memoryUsage();
  polybenchSink = successfulResults;
  const out = {
    iterations: iter,
    total_nanos: Math.round(totalNanos),
    nanos_per_op: iter > 0 ? totalNanos / iter : 0,
    ops_per_sec: iter > 0 && totalNanos > 0 ? 1e9 / (totalNanos / iter) : 0,
    samples,
    successful_results: successfulResults,
    successful_count: successfulCount,
    error_count: errorCount,
    error_samples: errorSamples,
  };
  console.log(JSON.stringify(out));
  void memBefore; void memAfter;
{{else}}
{{if eq .Mode.String "fixed"}}  const iterations = {{.Iterations}};
  const warmup = {{.Warmup}};
  for (let i = 0; i < warmup; i++) {
{{if .EachHook}}    {{.EachHook}};
{{end}}    await polybenchRunOnce();
  }
  const samples: number[] = [];
  let totalNanos = 0;
  for (let i = 0; i < iterations; i++) {
{{if .EachHook}}    {{.EachHook}};
{{end}}    const start = performance.now();
    const res = await polybenchRunOnce();
    const elapsedNanos = (performance.now() - start) * 1e6;
    totalNanos += elapsedNanos;
    samples.push(elapsedNanos);
    polybenchSink = res;
  }
{{else}}  const targetNanos = {{.TargetTimeMs}} * 1e6;
  let batch = 1, totalIterations = 0, totalNanos = 0;
  while (totalNanos < targetNanos) {
    const start = performance.now();
    for (let i = 0; i < batch; i++) {
{{if .EachHook}}      {{.EachHook}};
{{end}}      polybenchSink = await polybenchRunOnce();
    }
    const elapsed = (performance.now() - start) * 1e6;
    totalIterations += batch;
    totalNanos += elapsed;
    const remaining = targetNanos - totalNanos;
    if (elapsed === 0) {
      batch *= 10;
      continue;
    }
    const predicted = (batch * remaining) / elapsed;
    if (remaining < elapsed) {
      batch = Math.max(1, Math.floor(predicted));
    } else if (remaining < targetNanos / 5) {
      batch = Math.floor(0.9 * predicted);
    } else {
      let grown = Math.floor(batch * 1.1);
      if (grown > batch * 10) grown = batch * 10;
      if (grown <= batch) grown = batch + 1;
      batch = grown;
    }
  }
  let sampleCount = Math.min(1000, totalIterations);
  const samples: number[] = [];
  for (let i = 0; i < sampleCount; i++) {
{{if .EachHook}}    {{.EachHook}};
{{end}}    const start = performance.now();
    const res = await polybenchRunOnce();
    const elapsedNanos = (performance.now() - start) * 1e6;
    samples.push(elapsedNanos);
    polybenchSink = res;
  }
{{end}}
{{if .AfterHook}}  {{.AfterHook}};
{{end}}
  const memAfter = process.memoryUsage();
  const iterCount = {{if eq .Mode.String "fixed"}}iterations{{else}}totalIterations{{end}};
  const out: Record<string, unknown> = {
    iterations: iterCount,
    total_nanos: Math.round(totalNanos),
    nanos_per_op: iterCount > 0 ? totalNanos / iterCount : 0,
    ops_per_sec: iterCount > 0 && totalNanos > 0 ? 1e9 / (totalNanos / iterCount) : 0,
    samples,
  };
{{if .MemoryTracking}}  if (iterCount > 0) {
    out.bytes_per_op = (memAfter.heapUsed - memBefore.heapUsed) / iterCount;
  }
{{end}}  console.log(JSON.stringify(out));
{{end}}
}

main();
`
