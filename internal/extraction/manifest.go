package extraction

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"dupsweep/internal/timeline"
)

// BuildOptions controls manifest assembly.
type BuildOptions struct {
	Sequence  string
	Interval  float64
	WithAudio bool
	// Progress, when set, is called after each clip is extracted.
	Progress func(done, total int, clip timeline.ClipRef)
}

// BuildManifest extracts every path in order and lays the clips end to end
// on track 0.
func BuildManifest(ctx context.Context, extractor Extractor, paths []string, opts BuildOptions) (*timeline.Manifest, error) {
	if extractor == nil {
		return nil, errors.New("build manifest: extractor is required")
	}
	if len(paths) == 0 {
		return nil, errors.New("build manifest: no media files")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	sequence := strings.TrimSpace(opts.Sequence)
	if sequence == "" {
		sequence = "Untitled Sequence"
	}
	manifest := &timeline.Manifest{
		Sequence:         sequence,
		CreatedAt:        time.Now().UTC(),
		SamplingInterval: opts.Interval,
	}

	cursor := 0.0
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		clip := timeline.ClipRef{
			ID:         fmt.Sprintf("clip-%03d", i+1),
			TrackIndex: 0,
			ClipIndex:  i,
			Name:       timeline.DeriveClipName(abs),
			StartTime:  cursor,
			MediaPath:  abs,
		}
		features, err := extractor.Extract(ctx, clip, opts.Interval, opts.WithAudio)
		if err != nil {
			return nil, err
		}
		clip.Duration = features.Duration
		clip.EndTime = clip.StartTime + features.Duration
		cursor = clip.EndTime

		manifest.Clips = append(manifest.Clips, clip)
		manifest.Frames = append(manifest.Frames, features.Frames...)
		if features.Audio != nil {
			manifest.Audio = append(manifest.Audio, *features.Audio)
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths), clip)
		}
	}
	return manifest, nil
}
