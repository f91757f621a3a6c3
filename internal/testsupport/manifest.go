package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"dupsweep/internal/timeline"
)

// DuplicateManifest builds a two-clip manifest whose first n frames are
// identical, 0.5s apart, with the second clip starting ten seconds later.
// Frames with different indexes share no histogram mass.
func DuplicateManifest(n int) *timeline.Manifest {
	const bins = 16
	clips := []timeline.ClipRef{
		{ID: "clip-a", Name: "Interview A", TrackIndex: 0, ClipIndex: 0, StartTime: 0, EndTime: 10, Duration: 10},
		{ID: "clip-b", Name: "Interview B", TrackIndex: 0, ClipIndex: 1, StartTime: 10, EndTime: 20, Duration: 10},
	}
	motion := &timeline.Motion{VectorX: 1, VectorY: 0, Magnitude: 1}
	m := &timeline.Manifest{
		Sequence:         "Test Sequence",
		CreatedAt:        time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		SamplingInterval: 0.5,
		Clips:            clips,
	}
	for _, clip := range clips {
		for i := 0; i < n; i++ {
			hist := make([]float64, bins)
			hist[i%bins] = 1
			m.Frames = append(m.Frames, timeline.Frame{
				Time:      clip.StartTime + float64(i)*0.5,
				ClipID:    clip.ID,
				Histogram: hist,
				Motion:    motion,
			})
		}
	}
	return m
}

// WriteManifest writes m to dir and returns the file path.
func WriteManifest(t testing.TB, dir string, m *timeline.Manifest) string {
	t.Helper()

	path := filepath.Join(dir, "manifest.json")
	if err := timeline.WriteManifest(path, m); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}
