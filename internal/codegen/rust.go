package codegen

// rustTemplate renders a standalone Rust binary (a single `fn main`, built
// with the suite's declared crate as a conventional binary target rather
// than `cargo bench`, so the same subprocess-timing protocol applies
// uniformly across languages per spec.md §4.6) using `std::time::Instant`
// for timing and `std::hint::black_box` as the dead-code-elimination
// barrier.
const rustTemplate = `use std::time::Instant;
use std::hint::black_box;
{{- range .Imports}}
{{.}}
{{- end}}

{{- range .StdlibSnippets}}
{{.}}
{{- end}}

{{.Declarations}}

{{.Helpers}}

{{- range .FixturePrelude}}
fn {{.Name}}() -> Vec<u8> { {{.Expr}} }
{{- end}}

fn polybench_run_once() -> Result<Box<dyn std::fmt::Debug>, String> {
{{.BenchmarkBody}}
}

fn polybench_init() {
{{.Init}}
}

fn main() {
    polybench_init();
{{if .BeforeHook}}    { {{.BeforeHook}} }
{{end}}

{{if eq .Kind "async"}}
    let warmup_cap: i64 = {{.AsyncWarmupCap}};
    let sample_cap: i64 = {{.AsyncSampleCap}};
    for _ in 0..warmup_cap {
{{if .EachHook}}        { {{.EachHook}} }
{{end}}        let _ = polybench_run_once();
    }

    let mut samples: Vec<f64> = Vec::new();
    let mut error_samples: Vec<String> = Vec::new();
    let mut successful_count: i64 = 0;
    let mut error_count: i64 = 0;
    let mut total_nanos: i64 = 0;
    let target_nanos: i64 = {{.TargetTimeMs}} * 1_000_000;
    let mut iter: i64 = 0;
    let mut rng_state: u64 = {{.FairnessSeed}}i64 as u64;

    loop {
{{if eq (print .AsyncPolicy) "fixedCap"}}        if iter >= sample_cap { break; }
{{else}}        if total_nanos >= target_nanos { break; }
{{end}}
{{if .EachHook}}        { {{.EachHook}} }
{{end}}
        let start = Instant::now();
        let res = std::panic::catch_unwind(std::panic::AssertUnwindSafe(polybench_run_once));
        let elapsed = start.elapsed().as_nanos() as i64;
        total_nanos += elapsed;

        match res {
            Ok(Ok(_)) => {
                successful_count += 1;
                if (samples.len() as i64) < sample_cap {
                    samples.push(elapsed as f64);
                } else {
                    rng_state ^= rng_state << 13;
                    rng_state ^= rng_state >> 7;
                    rng_state ^= rng_state << 17;
                    let j = (rng_state % (iter as u64 + 1)) as i64;
                    if j < sample_cap {
                        samples[j as usize] = elapsed as f64;
                    }
                }
            }
            Ok(Err(e)) => {
                error_count += 1;
                if (error_samples.len() as i64) < sample_cap {
                    let mut msg = format!("{:?}", e);
                    msg.truncate(120);
                    error_samples.push(msg);
                }
            }
            Err(_) => {
                error_count += 1;
            }
        }
        iter += 1;
    }

{{if .AfterHook}}    { {{.AfterHook}} }
{{end}}
    let nanos_per_op = if iter > 0 { total_nanos as f64 / iter as f64 } else { 0.0 };
    let ops_per_sec = if nanos_per_op > 0.0 { 1e9 / nanos_per_op } else { 0.0 };
    println!(
        "{{"{{"}}\"iterations\":{},\"total_nanos\":{},\"nanos_per_op\":{},\"ops_per_sec\":{},\"samples\":{:?},\"successful_count\":{},\"error_count\":{},\"error_samples\":{:?}{{"}}"}}",
        iter, total_nanos, nanos_per_op, ops_per_sec, samples, successful_count, error_count, error_samples
    );
{{else}}
{{if eq .Mode.String "fixed"}}    let iterations: i64 = {{.Iterations}};
    let warmup: i64 = {{.Warmup}};
    for _ in 0..warmup {
{{if .EachHook}}        { {{.EachHook}} }
{{end}}        let _ = polybench_run_once();
    }
    let mut samples: Vec<f64> = Vec::with_capacity(iterations as usize);
    let mut total_nanos: i64 = 0;
    for _ in 0..iterations {
{{if .EachHook}}        { {{.EachHook}} }
{{end}}        let start = Instant::now();
        let res = polybench_run_once().expect("benchmark error");
        let elapsed = start.elapsed().as_nanos() as i64;
        total_nanos += elapsed;
        samples.push(elapsed as f64);
        black_box(res);
    }
    let final_iterations = iterations;
{{else}}    let target_nanos: i64 = {{.TargetTimeMs}} * 1_000_000;
    let mut batch: i64 = 1;
    let mut total_iterations: i64 = 0;
    let mut total_nanos: i64 = 0;
    while total_nanos < target_nanos {
        let start = Instant::now();
        for _ in 0..batch {
{{if .EachHook}}            { {{.EachHook}} }
{{end}}            let res = polybench_run_once().expect("benchmark error");
            black_box(res);
        }
        let elapsed = start.elapsed().as_nanos() as i64;
        total_iterations += batch;
        total_nanos += elapsed;
        let remaining = target_nanos - total_nanos;
        if elapsed == 0 {
            batch *= 10;
            continue;
        }
        let predicted = (batch as f64) * (remaining as f64) / (elapsed as f64);
        if (remaining as f64) < (elapsed as f64) {
            batch = (predicted as i64).max(1);
        } else if (remaining as f64) < (target_nanos as f64) / 5.0 {
            batch = (0.9 * predicted) as i64;
        } else {
            let mut grown = (batch as f64 * 1.1) as i64;
            if grown > batch * 10 { grown = batch * 10; }
            if grown <= batch { grown = batch + 1; }
            batch = grown;
        }
    }
    let sample_count = total_iterations.min(1000);
    let mut samples: Vec<f64> = Vec::with_capacity(sample_count as usize);
    for _ in 0..sample_count {
{{if .EachHook}}        { {{.EachHook}} }
{{end}}        let start = Instant::now();
        let res = polybench_run_once().expect("benchmark error");
        let elapsed = start.elapsed().as_nanos() as i64;
        samples.push(elapsed as f64);
        black_box(res);
    }
    let final_iterations = total_iterations;
{{end}}
{{if .AfterHook}}    { {{.AfterHook}} }
{{end}}
    let nanos_per_op = if final_iterations > 0 { total_nanos as f64 / final_iterations as f64 } else { 0.0 };
    let ops_per_sec = if nanos_per_op > 0.0 { 1e9 / nanos_per_op } else { 0.0 };
    println!(
        "{{"{{"}}\"iterations\":{},\"total_nanos\":{},\"nanos_per_op\":{},\"ops_per_sec\":{},\"samples\":{:?}{{"}}"}}",
        final_iterations, total_nanos, nanos_per_op, ops_per_sec, samples
    );
{{end}}
}
`
