package store_test

import (
	"context"
	"testing"

	"dupsweep/internal/testsupport"
	"dupsweep/internal/timeline"
)

func TestTagLifecycle(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	if err := st.AddTag(ctx, "clip-a", " Preserve "); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if err := st.AddTag(ctx, "clip-a", "preserve"); err != nil {
		t.Fatalf("AddTag duplicate should be a no-op: %v", err)
	}
	if err := st.AddTag(ctx, "clip-b", "broll"); err != nil {
		t.Fatalf("AddTag: %v", err)
	}

	tags, err := st.ListTags(ctx, "")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 2 || tags[0].ClipID != "clip-a" || tags[0].Tag != "preserve" || tags[1].Tag != "broll" {
		t.Fatalf("unexpected tags %+v", tags)
	}

	only, err := st.ListTags(ctx, "clip-b")
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(only) != 1 || only[0].ClipID != "clip-b" {
		t.Fatalf("unexpected filtered tags %+v", only)
	}

	removed, err := st.RemoveTag(ctx, "clip-a", "PRESERVE")
	if err != nil || !removed {
		t.Fatalf("RemoveTag: removed=%v err=%v", removed, err)
	}
	removed, err = st.RemoveTag(ctx, "clip-a", "preserve")
	if err != nil || removed {
		t.Fatalf("second RemoveTag: removed=%v err=%v", removed, err)
	}
}

func TestAddTagRequiresValues(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	if err := st.AddTag(ctx, "", "keep"); err == nil {
		t.Fatal("expected error for empty clip id")
	}
	if err := st.AddTag(ctx, "clip-a", "  "); err == nil {
		t.Fatal("expected error for empty tag")
	}
}

func TestIsPreservedMatchesPreserveAndKeep(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	for clip, tag := range map[string]string{"clip-a": "preserve", "clip-b": "Keep", "clip-c": "broll"} {
		if err := st.AddTag(ctx, clip, tag); err != nil {
			t.Fatalf("AddTag: %v", err)
		}
	}

	tests := map[string]bool{"clip-a": true, "clip-b": true, "clip-c": false, "clip-d": false}
	for id, want := range tests {
		got, err := st.IsPreserved(ctx, timeline.ClipRef{ID: id})
		if err != nil {
			t.Fatalf("IsPreserved(%s): %v", id, err)
		}
		if got != want {
			t.Fatalf("IsPreserved(%s) = %v, want %v", id, got, want)
		}
	}
}
