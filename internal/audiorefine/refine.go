package audiorefine

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"

	"dupsweep/internal/logging"
	"dupsweep/internal/timeline"
)

// Refinement policy. Values are open to recalibration.
const (
	AcceptThreshold = 0.7
	VisualWeight    = 0.7
	AudioWeight     = 0.3
)

// Stats summarizes one refinement pass.
type Stats struct {
	Accepted    int
	Rejected    int
	PassThrough int
}

// Refiner applies audio refinement and reports what it did.
type Refiner struct {
	logger *slog.Logger
}

// NewRefiner builds a refiner. A nil logger discards output.
func NewRefiner(logger *slog.Logger) *Refiner {
	return &Refiner{logger: logging.NewComponentLogger(logger, "audiorefine")}
}

// RefineWithAudio is Refiner.Refine without logging.
func RefineWithAudio(segments []timeline.DuplicateSegment, tracks []timeline.AudioTrack) []timeline.DuplicateSegment {
	out, _ := NewRefiner(nil).Refine(segments, tracks)
	return out
}

// Refine processes segments two at a time as original/duplicate pairs.
func (r *Refiner) Refine(segments []timeline.DuplicateSegment, tracks []timeline.AudioTrack) ([]timeline.DuplicateSegment, Stats) {
	byClip := make(map[string]timeline.AudioTrack, len(tracks))
	for _, track := range tracks {
		if _, exists := byClip[track.ClipID]; !exists {
			byClip[track.ClipID] = track
		}
	}

	var stats Stats
	pairs, rest := timeline.Pairs(segments)
	out := make([]timeline.DuplicateSegment, 0, len(segments))
	for _, pair := range pairs {
		orig, dup := pair[0], pair[1]
		sliceA, okA := sliceFor(byClip, orig)
		sliceB, okB := sliceFor(byClip, dup)
		if !okA || !okB {
			stats.PassThrough++
			out = append(out, orig, dup)
			continue
		}

		a, b := equalize(sliceA, sliceB)
		score := NormalizedCrossCorrelation(a, b)
		if score < AcceptThreshold {
			stats.Rejected++
			r.logger.Debug("audio rejected duplicate pair",
				logging.String("pair_id", orig.PairID),
				logging.Float64("audio_similarity", score),
			)
			continue
		}

		stats.Accepted++
		orig.Similarity = Reweight(orig.Similarity, score)
		dup.Similarity = Reweight(dup.Similarity, score)
		out = append(out, orig, dup)
	}
	out = append(out, rest...)

	r.logger.Debug("audio refinement complete",
		logging.Int("accepted", stats.Accepted),
		logging.Int("rejected", stats.Rejected),
		logging.Int("pass_through", stats.PassThrough),
	)
	return out, stats
}

// Reweight blends a visual similarity percentage with an audio score in [0,1].
func Reweight(visual int, audio float64) int {
	value := math.Round(float64(visual)*VisualWeight + audio*100*AudioWeight)
	switch {
	case math.IsNaN(value) || value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return int(value)
	}
}

// NormalizedCrossCorrelation returns dot(a,b)/sqrt(dot(a,a)*dot(b,b)).
// Unequal or empty input and zero energy score 0.
func NormalizedCrossCorrelation(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	energyA := floats.Dot(a, a)
	energyB := floats.Dot(b, b)
	if energyA == 0 || energyB == 0 {
		return 0
	}
	return floats.Dot(a, b) / math.Sqrt(energyA*energyB)
}

func sliceFor(tracks map[string]timeline.AudioTrack, seg timeline.DuplicateSegment) ([]float64, bool) {
	track, ok := tracks[seg.TrackItemID]
	if !ok {
		return nil, false
	}
	slice := SliceWaveform(track, seg.StartTime, seg.EndTime)
	return slice, len(slice) > 0
}

// SliceWaveform returns the samples of track covering [start, end], using a
// proportional mapping from time to sample index clamped to the waveform.
func SliceWaveform(track timeline.AudioTrack, start, end float64) []float64 {
	n := len(track.Waveform)
	duration := track.Duration()
	if n == 0 || duration <= 0 {
		return nil
	}
	rate := float64(n) / duration
	from := clampIndex(math.Floor((start-track.StartTime)*rate), n)
	to := clampIndex(math.Floor((end-track.StartTime)*rate), n)
	if to <= from {
		return nil
	}
	return track.Waveform[from:to]
}

func clampIndex(value float64, n int) int {
	switch {
	case math.IsNaN(value) || value < 0:
		return 0
	case value > float64(n):
		return n
	default:
		return int(value)
	}
}

// equalize downsamples the longer slice to the length of the shorter one by
// nearest-index picking.
func equalize(a, b []float64) ([]float64, []float64) {
	switch {
	case len(a) > len(b):
		return Downsample(a, len(b)), b
	case len(b) > len(a):
		return a, Downsample(b, len(a))
	default:
		return a, b
	}
}

// Downsample picks length samples from src at floor(i*len(src)/length).
func Downsample(src []float64, length int) []float64 {
	if length <= 0 || len(src) == 0 {
		return nil
	}
	if length >= len(src) {
		return src
	}
	out := make([]float64, length)
	for i := range out {
		out[i] = src[i*len(src)/length]
	}
	return out
}
