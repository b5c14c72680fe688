// Package analyzer turns run history and cross-language comparisons into
// trend and anomaly signals for internal/reporter.
//
// # Overview
//
// Trend fits a simple linear regression of nanos_per_op against elapsed
// days across a benchmark's internal/storage run history and classifies
// the direction as improving, degrading, or stable. DetectAnomalies flags
// individual runs whose nanos_per_op is a z-score outlier relative to
// that same history. Neither goes further into hypothesis testing than
// this — confidence intervals and coefficient of variation are as far as
// this system's statistics go; forecasting future runs with predicted
// confidence bounds was dropped for exactly that reason (see DESIGN.md).
//
// ReliabilityFlags and UnstableBenchmarks are thin adapters: the former
// re-exposes internal/comparator's per-benchmark async spread warnings,
// the latter filters internal/aggregator's RunAggregate.IsStable
// classification, so internal/reporter can render "things worth flagging"
// from one vocabulary regardless of which package actually computed it.
package analyzer
