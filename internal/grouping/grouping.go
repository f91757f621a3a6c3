package grouping

import (
	"fmt"
	"math"
	"sort"

	"dupsweep/internal/matcher"
	"dupsweep/internal/timeline"
)

// Grouping policy. Both are hard thresholds, not configuration.
const (
	MaxGapSeconds     = 1.0
	MinSegmentMatches = 3
)

type run struct {
	first   matcher.Match
	last    matcher.Match
	count   int
	sumSims float64
}

func (r *run) extends(m matcher.Match) bool {
	if r.count == 0 {
		return false
	}
	prev := r.last
	return math.Abs(m.FrameA.Time-prev.FrameA.Time) < MaxGapSeconds &&
		math.Abs(m.FrameB.Time-prev.FrameB.Time) < MaxGapSeconds &&
		m.FrameA.ClipID == prev.FrameA.ClipID &&
		m.FrameB.ClipID == prev.FrameB.ClipID
}

func (r *run) add(m matcher.Match) {
	if r.count == 0 {
		r.first = m
	}
	r.last = m
	r.count++
	r.sumSims += m.Similarity
}

func (r *run) meanSimilarity() float64 {
	if r.count == 0 {
		return 0
	}
	return r.sumSims / float64(r.count)
}

// GroupMatches turns matches into duplicate segment pairs in fold order.
// clips supplies labelling metadata; unknown clip ids get id-only refs.
func GroupMatches(matches []matcher.Match, clips map[string]timeline.ClipRef) []timeline.DuplicateSegment {
	if len(matches) == 0 {
		return nil
	}
	sorted := append([]matcher.Match(nil), matches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].FrameA.Time < sorted[j].FrameA.Time
	})

	var out []timeline.DuplicateSegment
	emit := func(r *run) {
		if r.count < MinSegmentMatches {
			return
		}
		out = append(out, buildPair(len(out)/2+1, r, clips)...)
	}

	current := &run{}
	for _, m := range sorted {
		if !current.extends(m) {
			emit(current)
			current = &run{}
		}
		current.add(m)
	}
	emit(current)
	return out
}

// ToPercent rounds a [0,1] similarity to an integer percentage in [0,100].
func ToPercent(value float64) int {
	return clampPercent(math.Round(value * 100))
}

func clampPercent(value float64) int {
	switch {
	case math.IsNaN(value) || value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return int(value)
	}
}

func buildPair(n int, r *run, clips map[string]timeline.ClipRef) []timeline.DuplicateSegment {
	original := timeline.RefFor(clips, r.first.FrameA.ClipID)
	duplicate := timeline.RefFor(clips, r.first.FrameB.ClipID)
	pairID := timeline.PairID(n)
	sim := ToPercent(r.meanSimilarity())

	side := func(role timeline.Role, clip timeline.ClipRef, start, end float64) timeline.DuplicateSegment {
		return timeline.DuplicateSegment{
			ID:            fmt.Sprintf("%s-%s", pairID, role),
			PairID:        pairID,
			Role:          role,
			Name:          segmentName(clip, start),
			TrackItemID:   clip.ID,
			TrackIndex:    clip.TrackIndex,
			ClipIndex:     clip.ClipIndex,
			StartTime:     start,
			EndTime:       end,
			Duration:      end - start,
			Similarity:    sim,
			FrameCount:    r.count,
			OriginalClip:  original,
			DuplicateClip: duplicate,
		}
	}

	return []timeline.DuplicateSegment{
		side(timeline.RoleOriginal, original, r.first.FrameA.Time, r.last.FrameA.Time),
		side(timeline.RoleDuplicate, duplicate, r.first.FrameB.Time, r.last.FrameB.Time),
	}
}

func segmentName(clip timeline.ClipRef, start float64) string {
	name := clip.Name
	if name == "" {
		name = clip.ID
	}
	return fmt.Sprintf("%s @ %.2fs", name, start)
}
