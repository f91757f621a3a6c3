package testsupport

import (
	"context"
	"testing"

	"dupsweep/internal/config"
	"dupsweep/internal/store"
	"dupsweep/internal/timeline"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustSaveRun stores a run with the given segments for tests.
func MustSaveRun(t testing.TB, st *store.Store, manifest string, segments []timeline.DuplicateSegment) store.RunRecord {
	t.Helper()

	run, err := st.SaveRun(context.Background(), store.RunRecord{ManifestPath: manifest, Segments: segments})
	if err != nil {
		t.Fatalf("store.SaveRun: %v", err)
	}
	return run
}
