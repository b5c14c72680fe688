// Package executor is the runtime orchestrator: given a lowered
// ir.BenchmarkSpec and the language(s) it targets, it resolves stdlib
// modules, renders source via internal/codegen, compiles it through
// internal/cache (or reuses a cached artifact), runs the result as a
// subprocess under a timeout, and decodes its output via internal/parser
// (spec.md §4.7).
//
// Compiling and running are two independently bounded concerns: Build is
// tried against compileSem's weight as well as cache (two benchmarks that
// hash to the same artifact never both compile), while subprocess spawns
// are additionally rate-limited under ast.FairnessStrict so neither
// language's batch gets scheduled ahead of the other by luck.
package executor
