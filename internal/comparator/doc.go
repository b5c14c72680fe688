// Package comparator computes cross-language comparisons for a suite's
// benchmarks.
//
// # Overview
//
// For each benchmark with two or more languages measured, Comparator
// computes every pairwise speedup, decides an overall winner (or a Tie
// when the top two languages are within TieEpsilon of each other), and
// reports the winner's speedup against the suite's baseline language
// (spec.md §4.8). CompareSuite folds a whole suite's comparisons into a
// SuiteSummary: win counts per language, a tie counter, and a running
// geometric mean of winners' baseline speedups.
//
// # Baseline resolution
//
//	c := comparator.New(declaredBaseline, languageDeclarationOrder)
//
// When declaredBaseline is absent from a benchmark's measurements (it
// wasn't implemented for that benchmark, or the suite declared none),
// resolution falls back to the first language in languageDeclarationOrder
// that IS present (spec.md §9 Open Question 2).
//
// # Reliability spread
//
// Compare also flags a benchmark whose async success ratios disagree by
// more than AsyncSpreadWarnThreshold percentage points across languages —
// a speedup number next to an unreliable async result is misleading on
// its own (SPEC_FULL.md §8).
//
// # Caching
//
// CachedComparator wraps a Comparator with an LRU cache keyed on a
// benchmark's measured figures, for callers that render the same
// comparison more than once in a single invocation (a text table and a
// JSON export, say).
package comparator
