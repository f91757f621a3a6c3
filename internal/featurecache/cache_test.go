package featurecache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dupsweep/internal/timeline"
)

func sampleFeatures() timeline.ClipFeatures {
	return timeline.ClipFeatures{
		ClipID:   "clip-001",
		Duration: 2,
		Frames: []timeline.Frame{
			{Time: 0, ClipID: "clip-001", Histogram: []float64{0.5, 0.5}},
			{Time: 1, ClipID: "clip-001", Histogram: []float64{1, 0}, Motion: &timeline.Motion{VectorX: 0.1}},
		},
		Audio: &timeline.AudioTrack{ClipID: "clip-001", EndTime: 2, Waveform: []float64{0, 0.5, -0.5}},
	}
}

func TestStoreAndLoad(t *testing.T) {
	cache := New(t.TempDir(), nil)
	if err := cache.Store("abc", sampleFeatures()); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok := cache.Load("abc")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.ClipID != "clip-001" || len(got.Frames) != 2 || got.Frames[1].Motion == nil || got.Audio == nil {
		t.Fatalf("unexpected features %+v", got)
	}
	if len(got.Audio.Waveform) != 3 || got.Audio.Waveform[2] != -0.5 {
		t.Fatalf("unexpected waveform %v", got.Audio.Waveform)
	}
}

func TestLoadMiss(t *testing.T) {
	cache := New(t.TempDir(), nil)
	if _, ok := cache.Load("missing"); ok {
		t.Fatal("expected miss")
	}
	if _, ok := cache.Load(""); ok {
		t.Fatal("expected miss for empty key")
	}
}

func TestCorruptEntryIsMiss(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, ok := New(dir, nil).Load("bad"); ok {
		t.Fatal("expected corrupt entry to miss")
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	cache := New("", nil)
	if cache.Enabled() {
		t.Fatal("expected disabled cache")
	}
	if err := cache.Store("abc", sampleFeatures()); err != nil {
		t.Fatalf("Store on disabled cache: %v", err)
	}
	if _, ok := cache.Load("abc"); ok {
		t.Fatal("expected miss on disabled cache")
	}
	if n, err := cache.Clear(); err != nil || n != 0 {
		t.Fatalf("Clear on disabled cache: %d, %v", n, err)
	}
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	if err := New(t.TempDir(), nil).Store(" ", sampleFeatures()); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestClearRemovesEntriesOnly(t *testing.T) {
	dir := t.TempDir()
	cache := New(dir, nil)
	for _, key := range []string{"a", "b"} {
		if err := cache.Store(key, sampleFeatures()); err != nil {
			t.Fatalf("Store: %v", err)
		}
	}
	removed, err := cache.Clear()
	if err != nil || removed != 2 {
		t.Fatalf("Clear = %d, %v", removed, err)
	}
	if _, err := os.Stat(filepath.Join(dir, lockFileName)); err != nil {
		t.Fatalf("expected lock file kept: %v", err)
	}
	if _, ok := cache.Load("a"); ok {
		t.Fatal("expected entries gone")
	}
}

func TestKeyChangesWithParameters(t *testing.T) {
	base := KeyInput{Path: "/m/a.mov", Size: 10, ModTime: time.Unix(100, 0), Interval: 0.5, Bins: 64, Width: 64, Height: 36}
	key := Key(base)
	if len(key) != 16 || key != Key(base) {
		t.Fatalf("expected stable 16-char key, got %q", key)
	}
	variants := []KeyInput{base, base, base, base}
	variants[0].Interval = 0.25
	variants[1].Audio = true
	variants[2].ModTime = time.Unix(101, 0)
	variants[3].Bins = 32
	for i, v := range variants {
		if Key(v) == key {
			t.Fatalf("variant %d produced the same key", i)
		}
	}
}

func TestKeyForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.mov")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	key, err := KeyForFile(path, 0.5, 64, 64, 36, true)
	if err != nil || key == "" {
		t.Fatalf("KeyForFile = %q, %v", key, err)
	}
	if _, err := KeyForFile(filepath.Join(t.TempDir(), "missing"), 0.5, 64, 64, 36, true); err == nil {
		t.Fatal("expected stat error")
	}
}
