package detector

import (
	"context"
	"log/slog"
	"time"

	"dupsweep/internal/audiorefine"
	"dupsweep/internal/grouping"
	"dupsweep/internal/logging"
	"dupsweep/internal/matcher"
	"dupsweep/internal/similarity"
	"dupsweep/internal/timeline"
)

// Input is the materialized sequence handed to the pipeline.
type Input struct {
	Clips  []timeline.ClipRef
	Frames []timeline.Frame
	Audio  []timeline.AudioTrack
}

// InputFromManifest copies the manifest's collections into an Input.
func InputFromManifest(m *timeline.Manifest) Input {
	if m == nil {
		return Input{}
	}
	return Input{Clips: m.Clips, Frames: m.Frames, Audio: m.Audio}
}

// Stats records what each stage produced.
type Stats struct {
	Frames            int           `json:"frames"`
	Clips             int           `json:"clips"`
	Matches           int           `json:"matches"`
	CandidatePairs    int           `json:"candidatePairs"`
	PairsAfterAudio   int           `json:"pairsAfterAudio"`
	DroppedByDuration int           `json:"droppedByDuration"`
	DroppedByTags     int           `json:"droppedByTags"`
	AudioPassThrough  int           `json:"audioPassThrough"`
	Elapsed           time.Duration `json:"elapsed"`
}

// Result holds the surviving duplicate pairs in emission order.
type Result struct {
	Segments []timeline.DuplicateSegment `json:"segments"`
	Stats    Stats                       `json:"stats"`
}

// Pairs reports how many duplicate pairs the result carries.
func (r Result) Pairs() int { return len(r.Segments) / 2 }

// Detector runs the pipeline. The zero value is usable: no tag checker and
// a discarding logger.
type Detector struct {
	Tags   timeline.TagChecker
	Logger *slog.Logger
}

// Detect runs the pipeline without a tag checker.
func Detect(ctx context.Context, input Input, opts Options) (Result, error) {
	return Detector{}.Detect(ctx, input, opts)
}

// Detect validates input and options then runs every stage in order.
func (d Detector) Detect(ctx context.Context, input Input, opts Options) (Result, error) {
	logger := logging.NewComponentLogger(d.Logger, "detector")
	started := time.Now()

	if err := opts.Validate(); err != nil {
		return Result{}, err
	}
	if len(input.Clips) == 0 {
		return Result{}, &InputError{Field: "clips", Reason: ErrNoActiveSequence.Error(), Err: ErrNoActiveSequence}
	}

	stats := Stats{Frames: len(input.Frames), Clips: len(input.Clips)}
	if len(input.Frames) < 2 {
		logger.Debug("not enough frames to compare", logging.Int("frames", len(input.Frames)))
		stats.Elapsed = time.Since(started)
		return Result{Segments: []timeline.DuplicateSegment{}, Stats: stats}, nil
	}

	clips := make(map[string]timeline.ClipRef, len(input.Clips))
	for _, clip := range input.Clips {
		clips[clip.ID] = clip
	}

	m := matcher.Matcher{Comparator: similarity.Comparator{
		UseHistogram: opts.UseHistogramComparison,
		UseMotion:    opts.UseMotionTracking,
	}}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	matches := m.MatchClips(input.Frames, matcher.ThresholdFromPercent(opts.SimilarityThreshold))
	stats.Matches = len(matches)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	segments := grouping.GroupMatches(matches, clips)
	stats.CandidatePairs = len(segments) / 2

	if opts.UseAudioAnalysis {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		var refined audiorefine.Stats
		segments, refined = audiorefine.NewRefiner(d.Logger).Refine(segments, input.Audio)
		stats.AudioPassThrough = refined.PassThrough
	}
	stats.PairsAfterAudio = len(segments) / 2

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	before := len(segments) / 2
	segments = FilterByDuration(segments, opts.MinDuration)
	stats.DroppedByDuration = before - len(segments)/2

	if opts.IgnoreTaggedClips {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		before = len(segments) / 2
		filtered, err := FilterTagged(ctx, segments, d.Tags)
		if err != nil {
			return Result{}, err
		}
		segments = filtered
		stats.DroppedByTags = before - len(segments)/2
	}

	if segments == nil {
		segments = []timeline.DuplicateSegment{}
	}
	stats.Elapsed = time.Since(started)
	logger.Info("duplicate analysis complete",
		logging.Int("frames", stats.Frames),
		logging.Int("matches", stats.Matches),
		logging.Int("candidate_pairs", stats.CandidatePairs),
		logging.Int("pairs", len(segments)/2),
		logging.Duration("elapsed", stats.Elapsed),
	)
	return Result{Segments: segments, Stats: stats}, nil
}
