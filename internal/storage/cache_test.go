package storage

import (
	"testing"
	"time"
)

func TestCachedStoreServesHistoryFromCache(t *testing.T) {
	s := openTestStore(t)
	_ = s.SaveRun(sampleRun("demo", "bench_sort", "go", time.Now(), 1000))
	cached := NewCachedStore(s, 16)

	first, err := cached.History("bench_sort", "go", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 run, got %d", len(first))
	}
	if cached.CacheSize() != 1 {
		t.Fatalf("expected the lookup to populate the cache, got size %d", cached.CacheSize())
	}

	// A write directly through the underlying store bypasses the cache,
	// so a cache hit should still return the stale pre-write result.
	_ = s.SaveRun(sampleRun("demo", "bench_sort", "go", time.Now(), 2000))
	second, err := cached.History("bench_sort", "go", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("expected the cached (stale) result with 1 run, got %d", len(second))
	}
}

func TestCachedStoreSaveRunInvalidatesCache(t *testing.T) {
	s := openTestStore(t)
	cached := NewCachedStore(s, 16)
	_, _ = cached.History("bench_sort", "go", 0)
	if cached.CacheSize() != 1 {
		t.Fatalf("expected a populated cache before save, got %d", cached.CacheSize())
	}

	if err := cached.SaveRun(sampleRun("demo", "bench_sort", "go", time.Now(), 1000)); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if cached.CacheSize() != 0 {
		t.Fatalf("expected SaveRun to clear the cache, got size %d", cached.CacheSize())
	}

	history, err := cached.History("bench_sort", "go", 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected the freshly saved run to be visible, got %d", len(history))
	}
}

func TestCachedStoreLatestBeforeCaches(t *testing.T) {
	s := openTestStore(t)
	base := time.Now().Add(-time.Hour)
	_ = s.SaveRun(sampleRun("demo", "bench_sort", "go", base, 1000))
	cached := NewCachedStore(s, 16)

	run, err := cached.LatestBefore("demo", "bench_sort", "go", time.Now())
	if err != nil {
		t.Fatalf("latest before: %v", err)
	}
	if run == nil {
		t.Fatalf("expected a run")
	}
	if cached.CacheSize() != 1 {
		t.Fatalf("expected the lookup to populate the cache, got %d", cached.CacheSize())
	}
}
