package match

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir, nil)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	in := &Result{
		CandidateID:  "c1",
		JobID:        "j1",
		OverallScore: 0.77,
		Category:     "Good Match",
		Timestamp:    time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	if err := cache.Put(in); err != nil {
		t.Fatalf("put: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "match_c1_j1.json")); err != nil {
		t.Fatalf("expected per-pair cache file: %v", err)
	}

	got, ok := cache.Get("c1", "j1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.OverallScore != in.OverallScore || got.Category != in.Category {
		t.Fatalf("got %+v, want %+v", got, in)
	}
	if !got.Timestamp.Equal(in.Timestamp) {
		t.Fatalf("timestamp = %v, want %v", got.Timestamp, in.Timestamp)
	}
}

func TestCacheMiss(t *testing.T) {
	cache, err := NewCache(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	if _, ok := cache.Get("c1", "j1"); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCacheCorruptEntryIsAMiss(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir, nil)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	path := filepath.Join(dir, "match_c1_j1.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o640); err != nil {
		t.Fatalf("write corrupt entry: %v", err)
	}

	if _, ok := cache.Get("c1", "j1"); ok {
		t.Fatal("corrupt entry must not be served")
	}
}

func TestCachePairsDoNotCollide(t *testing.T) {
	cache, err := NewCache(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}

	if err := cache.Put(&Result{CandidateID: "c1", JobID: "j1", OverallScore: 0.2}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := cache.Put(&Result{CandidateID: "c1", JobID: "j2", OverallScore: 0.9}); err != nil {
		t.Fatalf("put: %v", err)
	}

	first, ok := cache.Get("c1", "j1")
	if !ok || first.OverallScore != 0.2 {
		t.Fatalf("pair c1/j1 = %+v, %v", first, ok)
	}
	second, ok := cache.Get("c1", "j2")
	if !ok || second.OverallScore != 0.9 {
		t.Fatalf("pair c1/j2 = %+v, %v", second, ok)
	}
}
