// Package storage persists benchmark runs to SQLite for history and
// baseline lookups.
//
// # Overview
//
// Every (suite, benchmark, language) measurement is written as one Run
// row, keyed loosely by (suite, name, language, run_at). This lets a
// later invocation ask two questions without re-executing anything:
// "what did this benchmark's last run on this language look like"
// (LatestBefore, the "vs last run" delta internal/reporter prints) and
// "show me this benchmark's trend over its last N runs on this language"
// (History).
//
// # Usage
//
//	store, err := storage.NewSQLiteStore("./polybench.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//	if err := store.Init(); err != nil {
//	    log.Fatal(err)
//	}
//
//	cached := storage.NewCachedStore(store, 256)
//	if err := cached.SaveRun(run); err != nil {
//	    log.Fatal(err)
//	}
//
// # Schema
//
//	CREATE TABLE runs (
//	    id INTEGER PRIMARY KEY AUTOINCREMENT,
//	    suite TEXT NOT NULL,
//	    name TEXT NOT NULL,
//	    language TEXT NOT NULL,
//	    run_at DATETIME NOT NULL,
//	    iterations INTEGER NOT NULL,
//	    nanos_per_op REAL NOT NULL,
//	    ops_per_sec REAL NOT NULL,
//	    cv_percent REAL NOT NULL,
//	    is_stable BOOLEAN NOT NULL,
//	    bytes_per_op REAL,
//	    allocs_per_op REAL,
//	    success_ratio REAL,
//	    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
//	);
//
// There is deliberately no separate "suites" table: a run already carries
// its suite name, and nothing in this system needs suite-level rows
// independent of their runs (no suite-wide metadata blob, no foreign key
// to maintain).
//
// # Retention
//
// Prune deletes runs older than a caller-supplied retention window. There
// is no automatic scheduling; internal/cmd decides when to call it.
//
// # Concurrency
//
// SQLiteStore is safe for concurrent reads; database/sql's connection
// pool serializes writes the way SQLite itself requires. CachedStore adds
// a read cache on top and is likewise safe for concurrent use — SaveRun
// clears the whole cache rather than trying to invalidate selectively,
// which is cheap at this system's scale (one suite's worth of runs per
// invocation).
package storage
