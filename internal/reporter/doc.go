// Package reporter renders internal/aggregator, internal/comparator, and
// internal/analyzer results as text output for a terminal or a file.
//
// # Overview
//
// Three entry points, one per report kind: WriteSummary (a suite's
// aggregated per-benchmark results), WriteComparison (cross-language
// pairwise comparison plus the suite-level win/tie/geometric-mean summary),
// and WriteTrend (historical direction, anomalies, and reliability
// warnings from run history). Each accepts a Format and renders
// independently — there is no shared template engine, just one function
// per (report, format) pair.
//
// # Formats
//
// FormatTable is the default: an olekukonko/tablewriter-rendered table
// plus a short legend and any warnings, meant for a terminal. FormatJSON,
// FormatCSV, and FormatMD serialize the same data for scripting or
// embedding in another document.
//
// # Scope
//
// This package does not render HTML, charts, or any graphical output —
// SVG/Chart.js-style visualization is out of scope; ChartDirective values
// collected during IR lowering are exposed for an external renderer to
// consume, not rendered here (see DESIGN.md). What is in scope is a
// complete text rendering of every field the upstream packages compute.
package reporter
