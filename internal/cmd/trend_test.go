package cmd

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/polybench-dev/polybench/internal/storage"
)

func seedHistory(t *testing.T, dbPath, name, language string) {
	t.Helper()
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()
	if err := store.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}

	base := time.Now().Add(-5 * 24 * time.Hour)
	for i, nanos := range []float64{100, 105, 110, 120} {
		run := &storage.Run{
			Suite: "s", Name: name, Language: language,
			RunAt: base.Add(time.Duration(i) * 24 * time.Hour),
			Iterations: 1000, NanosPerOp: nanos, OpsPerSec: 1e9 / nanos,
		}
		if err := store.SaveRun(run); err != nil {
			t.Fatalf("seeding run %d: %v", i, err)
		}
	}
}

func TestTrendSucceedsWithSeededHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	seedHistory(t, dbPath, "bench_sort", "go")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"trend", "--name", "bench_sort", "--language", "go", "--db", dbPath})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("trend: %v", err)
	}
}

func TestTrendErrorsWithNoHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	seedHistory(t, dbPath, "bench_sort", "go")

	rootCmd.SetArgs([]string{"trend", "--name", "bench_other", "--language", "go", "--db", dbPath})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err == nil {
		t.Fatal("expected an error for a benchmark/language with no recorded history")
	}
}
