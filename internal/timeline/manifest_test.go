package timeline_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"dupsweep/internal/timeline"
)

func sampleManifest() *timeline.Manifest {
	return &timeline.Manifest{
		Sequence: "Main Edit",
		Clips: []timeline.ClipRef{
			{ID: "a", Name: "Intro", StartTime: 0, EndTime: 10, Duration: 10},
			{ID: "b", Name: "Intro Copy", ClipIndex: 1, StartTime: 10, EndTime: 20, Duration: 10, Tags: []string{"Keep"}},
		},
		Frames: []timeline.Frame{
			{Time: 0, ClipID: "a", Histogram: []float64{1, 2}},
			{Time: 10, ClipID: "b", Histogram: []float64{1, 2}, Motion: &timeline.Motion{VectorX: 0.5, Magnitude: 0.5}},
		},
		Audio: []timeline.AudioTrack{{ClipID: "a", StartTime: 0, EndTime: 10, Waveform: []float64{0.1, -0.1}}},
	}
}

func TestManifestRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "manifest.json")
	if err := timeline.WriteManifest(path, sampleManifest()); err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	loaded, err := timeline.LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest failed: %v", err)
	}
	if len(loaded.Clips) != 2 || len(loaded.Frames) != 2 || len(loaded.Audio) != 1 {
		t.Fatalf("unexpected manifest contents: %+v", loaded)
	}
	if loaded.Frames[0].Motion != nil {
		t.Fatal("expected first frame to have no motion")
	}
	if loaded.Frames[1].Motion == nil || loaded.Frames[1].Motion.VectorX != 0.5 {
		t.Fatalf("expected motion to survive, got %+v", loaded.Frames[1].Motion)
	}
	if err := loaded.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestReadManifestUsesCamelCaseFields(t *testing.T) {
	doc := `{"sequence":"s","clips":[{"id":"c1","trackIndex":2,"clipIndex":3}],"frames":[{"time":1.5,"clipId":"c1","histogram":[4]}]}`
	m, err := timeline.ReadManifest(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadManifest failed: %v", err)
	}
	if m.Clips[0].TrackIndex != 2 || m.Clips[0].ClipIndex != 3 {
		t.Fatalf("unexpected clip: %+v", m.Clips[0])
	}
	if m.Frames[0].Time != 1.5 || m.Frames[0].ClipID != "c1" {
		t.Fatalf("unexpected frame: %+v", m.Frames[0])
	}
}

func TestValidateRejectsBrokenManifests(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*timeline.Manifest)
		field  string
	}{
		{"no clips", func(m *timeline.Manifest) { m.Clips = nil }, "clips"},
		{"empty id", func(m *timeline.Manifest) { m.Clips[0].ID = " " }, "clips[0].id"},
		{"duplicate id", func(m *timeline.Manifest) { m.Clips[1].ID = "a" }, "clips[1].id"},
		{"unknown frame clip", func(m *timeline.Manifest) { m.Frames[1].ClipID = "zzz" }, "frames[1].clipId"},
		{"unknown audio clip", func(m *timeline.Manifest) { m.Audio[0].ClipID = "zzz" }, "audio[0].clipId"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := sampleManifest()
			tc.mutate(m)
			err := m.Validate()
			var merr *timeline.ManifestError
			if !errors.As(err, &merr) {
				t.Fatalf("expected ManifestError, got %v", err)
			}
			if merr.Field != tc.field {
				t.Fatalf("unexpected field: got %q want %q", merr.Field, tc.field)
			}
		})
	}
}

func TestValidateMatchesClipIDsExactly(t *testing.T) {
	m := &timeline.Manifest{
		Clips:  []timeline.ClipRef{{ID: "a "}, {ID: "a"}},
		Frames: []timeline.Frame{{ClipID: "a ", Time: 0}, {ClipID: "a", Time: 1}},
		Audio:  []timeline.AudioTrack{{ClipID: "a "}},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("expected padded ids to resolve exactly, got %v", err)
	}

	m.Frames[1].ClipID = " a"
	var merr *timeline.ManifestError
	if err := m.Validate(); !errors.As(err, &merr) || merr.Field != "frames[1].clipId" {
		t.Fatalf("expected unknown clip for %q, got %v", m.Frames[1].ClipID, err)
	}
}

func TestValidateEmptyManifestIsNoActiveSequence(t *testing.T) {
	err := (&timeline.Manifest{}).Validate()
	if !errors.Is(err, timeline.ErrNoActiveSequence) {
		t.Fatalf("expected ErrNoActiveSequence, got %v", err)
	}
}

func TestManifestTags(t *testing.T) {
	m := sampleManifest()
	checker := timeline.NewManifestTags(m.Clips)
	ctx := context.Background()

	preserved, err := checker.IsPreserved(ctx, timeline.ClipRef{ID: "b"})
	if err != nil || !preserved {
		t.Fatalf("expected clip b preserved via manifest tag, got %v %v", preserved, err)
	}
	preserved, _ = checker.IsPreserved(ctx, timeline.ClipRef{ID: "a"})
	if preserved {
		t.Fatal("expected clip a not preserved")
	}
	preserved, _ = checker.IsPreserved(ctx, timeline.ClipRef{ID: "x", Tags: []string{" PRESERVE "}})
	if !preserved {
		t.Fatal("expected inline preserve tag to count")
	}
}

func TestAnyTagChecker(t *testing.T) {
	never := timeline.TagCheckerFunc(func(context.Context, timeline.ClipRef) (bool, error) { return false, nil })
	onlyB := timeline.TagCheckerFunc(func(_ context.Context, c timeline.ClipRef) (bool, error) { return c.ID == "b", nil })
	failing := timeline.TagCheckerFunc(func(context.Context, timeline.ClipRef) (bool, error) { return false, errors.New("boom") })

	checker := timeline.AnyTagChecker(never, nil, onlyB)
	if ok, _ := checker.IsPreserved(context.Background(), timeline.ClipRef{ID: "b"}); !ok {
		t.Fatal("expected b preserved")
	}
	if ok, _ := checker.IsPreserved(context.Background(), timeline.ClipRef{ID: "a"}); ok {
		t.Fatal("expected a not preserved")
	}
	if _, err := timeline.AnyTagChecker(failing).IsPreserved(context.Background(), timeline.ClipRef{}); err == nil {
		t.Fatal("expected checker error to propagate")
	}
}

func TestDeriveClipName(t *testing.T) {
	cases := map[string]string{
		"/media/b-roll_take.02.mov": "B Roll Take 02",
		"interview.mp4":             "Interview",
		"":                          "Untitled Clip",
		"/tmp/___.mp4":              "Untitled Clip",
	}
	for input, want := range cases {
		if got := timeline.DeriveClipName(input); got != want {
			t.Fatalf("DeriveClipName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestRefForFallsBackToIDOnly(t *testing.T) {
	ref := timeline.RefFor(nil, "ghost")
	if ref.ID != "ghost" || ref.Name != "ghost" {
		t.Fatalf("unexpected fallback ref: %+v", ref)
	}
}
