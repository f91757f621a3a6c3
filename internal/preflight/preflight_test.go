package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dupsweep/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_Empty(t *testing.T) {
	if result := CheckDirectoryAccess("test", ""); result.Passed {
		t.Fatal("expected failure for unset path")
	}
}

func TestRunAllWithStubbedTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if !r.Passed {
			t.Fatalf("expected %s to pass, got %s", r.Name, r.Detail)
		}
	}
	want := "State directory,Cache directory,Log directory,FFmpeg,FFprobe"
	if got := strings.Join(names, ","); got != want {
		t.Fatalf("unexpected checks %q", got)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected no failures, got %+v", failed)
	}
}

func TestRunAllReportsMissingTools(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithEmptyPath(), testsupport.WithoutCache())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	failed := Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected ffmpeg and ffprobe to fail, got %+v", failed)
	}
	for _, r := range results {
		if r.Name == "Cache directory" {
			t.Fatal("cache directory should be skipped when caching is disabled")
		}
	}
}
