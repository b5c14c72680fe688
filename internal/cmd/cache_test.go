package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/polybench-dev/polybench/internal/cache"
)

func seedCacheEntry(t *testing.T, dir string) {
	t.Helper()
	c, err := cache.Open(dir)
	if err != nil {
		t.Fatalf("opening cache: %v", err)
	}
	defer c.Close()
	if _, err := c.Publish(cache.Key("go", "source", "fp"), "go", func(scratch string) error {
		return nil
	}); err != nil {
		t.Fatalf("publishing seed entry: %v", err)
	}
}

func TestCacheListSucceedsWithSeededEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	seedCacheEntry(t, dir)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cache", "list", "--cache-dir", dir})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cache list: %v", err)
	}
}

func TestCacheStatsSucceedsWithSeededEntry(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	seedCacheEntry(t, dir)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"cache", "stats", "--cache-dir", dir})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("cache stats: %v", err)
	}
}

func TestCacheEvictUnknownKeyIsANoOp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	seedCacheEntry(t, dir)

	rootCmd.SetArgs([]string{"cache", "evict", "not-a-real-key", "--cache-dir", dir})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("evicting an unknown key should be a no-op, got: %v", err)
	}
}
