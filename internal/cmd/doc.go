// Package cmd wires the polybench pipeline — dslparser, validate, ir,
// executor, aggregator, comparator, storage, analyzer, and reporter — into
// a cobra CLI: run (compile, execute, aggregate, persist, compare, report),
// trend (historical direction and anomalies), and cache (inspect/evict the
// compile cache).
package cmd
