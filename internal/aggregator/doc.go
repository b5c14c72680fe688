// Package aggregator folds a benchmark's independent runs into one
// representative result.
//
// # Overview
//
// Most benchmarks run once per language and internal/parser's Result is
// already the final figure. When a benchmark's declared count is greater
// than one (spec.md §3's "count" field, §9's multi-run aggregation), the
// runner produces several independent internal/measurement.Measurement
// values for the same (benchmark, language) pair, and this package turns
// them into a single AggregatedResult: the median run by NanosPerOp,
// annotated with a RunAggregate describing how stable the runs were
// relative to each other.
//
// # Usage
//
//	agg := aggregator.New(cvThreshold)
//	suite, err := agg.AggregateSuite(groups, metadata)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data, err := aggregator.Export(suite, aggregator.FormatCSV)
//
// # Stability
//
// IsStable reuses the same coefficient-of-variation threshold a single
// run's per-iteration samples use (internal/measurement.Measurement.IsStable),
// applied instead to the spread of per-run medians — a benchmark whose five
// runs land at wildly different medians is just as suspect as one whose
// samples within a single run are noisy.
//
// # Relationship to other packages
//
// internal/aggregator sits between internal/parser and internal/comparator:
// it answers "was this benchmark's own repeated measurement consistent?",
// while internal/comparator answers "how does language A compare to
// language B?". Baseline-vs-current regression comparison, which the
// benchmarking literature sometimes bundles into the aggregation step,
// lives in internal/comparator instead — that package already owns the
// geometric-mean-vs-baseline and pairwise-speedup logic this system needs,
// and splitting the concerns keeps each package answering one question.
package aggregator
