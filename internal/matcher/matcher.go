package matcher

import (
	"dupsweep/internal/similarity"
	"dupsweep/internal/timeline"
)

// Match is a frame pair whose similarity cleared the threshold.
type Match struct {
	FrameA     timeline.Frame
	FrameB     timeline.Frame
	Similarity float64
}

// ClipFrames holds the frames of one clip in their input order.
type ClipFrames struct {
	ClipID string
	Frames []timeline.Frame
}

// ThresholdFromPercent converts a 0-100 similarity setting to a fraction.
func ThresholdFromPercent(percent int) float64 {
	return float64(percent) / 100
}

// Matcher compares frames with a configurable comparator.
type Matcher struct {
	Comparator similarity.Comparator
}

// New returns a matcher using the default comparator.
func New() Matcher {
	return Matcher{Comparator: similarity.DefaultComparator()}
}

// MatchFrames compares every frame of a against every frame of b and keeps
// the pairs scoring at least threshold. Output follows the loop order, a
// outer and b inner.
func (m Matcher) MatchFrames(a, b []timeline.Frame, threshold float64) []Match {
	var matches []Match
	for _, fa := range a {
		for _, fb := range b {
			score := m.Comparator.Score(fa, fb)
			if score >= threshold {
				matches = append(matches, Match{FrameA: fa, FrameB: fb, Similarity: score})
			}
		}
	}
	return matches
}

// MatchClips groups frames by clip and matches every unordered pair of
// distinct clips, concatenating the results.
func (m Matcher) MatchClips(frames []timeline.Frame, threshold float64) []Match {
	groups := GroupByClip(frames)
	var matches []Match
	for i := 0; i < len(groups); i++ {
		for j := i + 1; j < len(groups); j++ {
			matches = append(matches, m.MatchFrames(groups[i].Frames, groups[j].Frames, threshold)...)
		}
	}
	return matches
}

// MatchFrames is Matcher.MatchFrames with the default comparator.
func MatchFrames(a, b []timeline.Frame, threshold float64) []Match {
	return New().MatchFrames(a, b, threshold)
}

// MatchClips is Matcher.MatchClips with the default comparator.
func MatchClips(frames []timeline.Frame, threshold float64) []Match {
	return New().MatchClips(frames, threshold)
}

// GroupByClip splits frames by clip id, keeping clips in first-seen order.
func GroupByClip(frames []timeline.Frame) []ClipFrames {
	index := make(map[string]int)
	var groups []ClipFrames
	for _, frame := range frames {
		pos, ok := index[frame.ClipID]
		if !ok {
			pos = len(groups)
			index[frame.ClipID] = pos
			groups = append(groups, ClipFrames{ClipID: frame.ClipID})
		}
		groups[pos].Frames = append(groups[pos].Frames, frame)
	}
	return groups
}
