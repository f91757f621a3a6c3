package featurecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPruneRemovesOldEntries(t *testing.T) {
	dir := t.TempDir()
	cache := New(dir, nil)
	for _, key := range []string{"old", "fresh"} {
		if err := cache.Store(key, sampleFeatures()); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(dir, "old.json"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	result := cache.Prune(24 * time.Hour)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors %+v", result.Errors)
	}
	if len(result.Removed) != 1 || filepath.Base(result.Removed[0]) != "old.json" {
		t.Fatalf("unexpected removals %v", result.Removed)
	}
	if _, ok := cache.Load("fresh"); !ok {
		t.Fatal("expected fresh entry kept")
	}
	if _, ok := cache.Load("old"); ok {
		t.Fatal("expected old entry removed")
	}
}

func TestPruneMissingDirectory(t *testing.T) {
	cache := New(filepath.Join(t.TempDir(), "missing"), nil)
	result := cache.Prune(time.Hour)
	if len(result.Removed) != 0 || len(result.Errors) != 0 {
		t.Fatalf("expected empty result, got %+v", result)
	}
	if got := New("", nil).Prune(time.Hour); len(got.Removed) != 0 {
		t.Fatalf("disabled cache should not prune, got %+v", got)
	}
}
