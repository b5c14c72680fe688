// Package cache is a content-addressed compile cache: the same generated
// source for the same language and the same set of required stdlib env
// vars is only ever compiled once. Compiled artifacts live under a plain
// directory tree keyed by a sha256 hash of their inputs; a bbolt index
// tracks metadata (hash, language, creation time, hit count) so listing and
// eviction don't require walking the filesystem.
//
// Modeled on the bbolt-wrapper shape the reference store package in this
// corpus uses (buckets, JSON-encoded values, atomic-rename-to-replace for
// expensive rewrites) — but content lives on disk, not inside bbolt itself,
// since compiled binaries are too large to be good bbolt values.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketArtifacts = []byte("artifacts")

// Cache is a content-addressed directory store for compiled benchmark
// artifacts, indexed by a bbolt database for fast metadata lookups.
type Cache struct {
	baseDir string
	db      *bolt.DB
}

// Entry is the metadata bbolt holds for one cached artifact.
type Entry struct {
	Key       string    `json:"key"`
	Language  string    `json:"language"`
	Dir       string    `json:"dir"` // absolute path to the published artifact directory
	CreatedAt time.Time `json:"created_at"`
	HitCount  int64     `json:"hit_count"`
}

// Open opens (or creates) the cache rooted at baseDir, with its index at
// baseDir/index.db.
func Open(baseDir string) (*Cache, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: creating base dir: %w", err)
	}
	db, err := bolt.Open(filepath.Join(baseDir, "index.db"), 0o644, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("cache: opening index: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketArtifacts)
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: initializing index: %w", err)
	}
	return &Cache{baseDir: baseDir, db: db}, nil
}

// Close closes the index database. Published artifacts on disk are
// untouched.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Key derives the cache key for a (language, source, envFingerprint)
// triple: the same generated source for the same language, compiled under
// the same environment shape (e.g. which `use std::` modules are in
// scope), always hashes to the same key.
func Key(language, source, envFingerprint string) string {
	h := sha256.New()
	h.Write([]byte(language))
	h.Write([]byte{0})
	h.Write([]byte(source))
	h.Write([]byte{0})
	h.Write([]byte(envFingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the published artifact directory for key, if present. A
// stale index entry whose directory has been removed from disk out-of-band
// is treated as a miss.
func (c *Cache) Lookup(key string) (dir string, ok bool, err error) {
	var e Entry
	found := false
	err = c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketArtifacts).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &e)
	})
	if err != nil || !found {
		return "", false, err
	}
	if _, statErr := os.Stat(e.Dir); statErr != nil {
		return "", false, nil
	}
	c.recordHit(key, e)
	return e.Dir, true, nil
}

func (c *Cache) recordHit(key string, e Entry) {
	e.HitCount++
	b, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketArtifacts).Put([]byte(key), b)
	})
}

// Build is called by Publish with a freshly created, exclusively-owned
// scratch directory; it must leave the compiled artifact (and anything
// else a subsequent execution needs) inside dir.
type Build func(dir string) error

// Publish compiles key's artifact via build into a scratch directory, then
// atomically renames it into place and records it in the index. If key is
// already cached, build is not invoked and the existing directory is
// returned — callers don't need their own "check Lookup first" guard,
// though doing so avoids constructing a Build closure needlessly.
func (c *Cache) Publish(key, language string, build Build) (string, error) {
	if dir, ok, err := c.Lookup(key); err != nil {
		return "", err
	} else if ok {
		return dir, nil
	}

	langDir := filepath.Join(c.baseDir, "artifacts", language)
	if err := os.MkdirAll(langDir, 0o755); err != nil {
		return "", fmt.Errorf("cache: creating language dir: %w", err)
	}
	scratch, err := os.MkdirTemp(langDir, "build-*")
	if err != nil {
		return "", fmt.Errorf("cache: creating scratch dir: %w", err)
	}
	if err := build(scratch); err != nil {
		os.RemoveAll(scratch)
		return "", fmt.Errorf("cache: build failed: %w", err)
	}

	final := filepath.Join(langDir, key)
	if err := os.Rename(scratch, final); err != nil {
		os.RemoveAll(scratch)
		// Another goroutine/process may have published the same key first;
		// treat that as success rather than an error.
		if _, statErr := os.Stat(final); statErr == nil {
			return c.publishIndexEntry(key, language, final)
		}
		return "", fmt.Errorf("cache: publishing artifact: %w", err)
	}
	return c.publishIndexEntry(key, language, final)
}

func (c *Cache) publishIndexEntry(key, language, dir string) (string, error) {
	e := Entry{Key: key, Language: language, Dir: dir, CreatedAt: time.Now().UTC()}
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("cache: encoding index entry: %w", err)
	}
	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketArtifacts).Put([]byte(key), b)
	}); err != nil {
		return "", fmt.Errorf("cache: writing index entry: %w", err)
	}
	return dir, nil
}

// List returns every cached entry, sorted by CreatedAt descending (newest
// first), for `polybench cache list`-style introspection.
func (c *Cache) List() ([]Entry, error) {
	var entries []Entry
	err := c.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketArtifacts).ForEach(func(_, v []byte) error {
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			entries = append(entries, e)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return entries, nil
}

// Evict removes a single entry from both the index and disk.
func (c *Cache) Evict(key string) error {
	var e Entry
	found := false
	if err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketArtifacts).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &e)
	}); err != nil {
		return err
	}
	if err := c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketArtifacts).Delete([]byte(key))
	}); err != nil {
		return err
	}
	if found {
		return os.RemoveAll(e.Dir)
	}
	return nil
}

// Stats reports the total entry count and the combined on-disk size of
// every published artifact directory, for `polybench cache stats`.
func (c *Cache) Stats() (count int, totalBytes int64, err error) {
	entries, err := c.List()
	if err != nil {
		return 0, 0, err
	}
	count = len(entries)
	for _, e := range entries {
		totalBytes += dirSize(e.Dir)
	}
	return count, totalBytes, nil
}

func dirSize(dir string) int64 {
	var size int64
	_ = filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		size += info.Size()
		return nil
	})
	return size
}

// EnvFingerprint builds a stable fingerprint string for a set of required
// environment variable names, for use as Key's envFingerprint argument —
// two benchmarks needing the same stdlib modules hash identically even if
// their resolution order differed.
func EnvFingerprint(envVars []string) string {
	sorted := append([]string(nil), envVars...)
	sort.Strings(sorted)
	out := ""
	for i, v := range sorted {
		if i > 0 {
			out += ","
		}
		out += v
	}
	return out
}

// ArtifactPath is a small helper for Build implementations: the
// conventional executable name inside a scratch/published directory,
// namespaced by a monotonic suffix only when needed to avoid collisions
// (never for this cache, since each key has exactly one directory).
func ArtifactPath(dir, language string) string {
	name := "bench"
	if language == "go" {
		name += ".bin"
	}
	return filepath.Join(dir, name)
}

// FormatBytes renders n bytes in the same human-readable form
// `polybench cache stats` prints, e.g. "12.3 MB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return strconv.FormatInt(n, 10) + " B"
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	units := "KMGTPE"
	return fmt.Sprintf("%.1f %cB", float64(n)/float64(div), units[exp])
}
