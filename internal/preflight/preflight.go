package preflight

import (
	"context"
	"fmt"
	"strings"

	"dupsweep/internal/config"
	"dupsweep/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// The cache directory is only checked when caching is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckDirectoryAccess("State directory", cfg.Paths.StateDir)}
	if dir := cfg.FeatureCacheDir(); dir != "" {
		results = append(results, CheckDirectoryAccess("Cache directory", cfg.Paths.CacheDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	for _, status := range CheckSystemDeps(ctx, cfg) {
		results = append(results, fromStatus(status))
	}
	return results
}

// CheckSystemDeps evaluates the external tools used for feature extraction.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for frame and audio extraction",
			VersionArgs: []string{"-hide_banner", "-version"},
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
			VersionArgs: []string{"-hide_banner", "-version"},
		},
	}
	return deps.CheckBinaries(ctx, requirements)
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed && !r.Optional {
			out = append(out, r)
		}
	}
	return out
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	switch {
	case !status.Available:
		result.Detail = status.Detail
	case strings.TrimSpace(status.Version) != "":
		result.Detail = fmt.Sprintf("%s (%s)", status.Path, status.Version)
	default:
		result.Detail = status.Path
	}
	return result
}
