package timeline

import (
	"fmt"
	"sort"
)

// Role names the side of a duplicate pair a segment describes.
type Role string

const (
	RoleOriginal  Role = "original"
	RoleDuplicate Role = "duplicate"
)

// DuplicateSegment is one side of a detected duplicate. Segments always come
// in pairs: index 2k is the original side and 2k+1 the duplicate side, and
// both carry the same PairID, OriginalClip and DuplicateClip.
type DuplicateSegment struct {
	ID            string  `json:"id"`
	PairID        string  `json:"pairId"`
	Role          Role    `json:"role"`
	Name          string  `json:"name"`
	TrackItemID   string  `json:"trackItemId"`
	TrackIndex    int     `json:"trackIndex"`
	ClipIndex     int     `json:"clipIndex"`
	StartTime     float64 `json:"startTime"`
	EndTime       float64 `json:"endTime"`
	Duration      float64 `json:"duration"`
	Similarity    int     `json:"similarity"`
	FrameCount    int     `json:"frameCount"`
	OriginalClip  ClipRef `json:"originalClip"`
	DuplicateClip ClipRef `json:"duplicateClip"`
}

// Clip returns the clip this side of the pair lives on.
func (s DuplicateSegment) Clip() ClipRef {
	if s.Role == RoleDuplicate {
		return s.DuplicateClip
	}
	return s.OriginalClip
}

// PairID formats the identifier shared by both sides of the n-th pair.
func PairID(n int) string {
	return fmt.Sprintf("dup-%04d", n)
}

// Pairs splits a segment list into consecutive two-element pairs. A trailing
// unpaired entry is returned separately.
func Pairs(segments []DuplicateSegment) ([][2]DuplicateSegment, []DuplicateSegment) {
	pairs := make([][2]DuplicateSegment, 0, len(segments)/2)
	i := 0
	for ; i+1 < len(segments); i += 2 {
		pairs = append(pairs, [2]DuplicateSegment{segments[i], segments[i+1]})
	}
	return pairs, segments[i:]
}

// SortPairsByStart orders pairs by the start time of their original side,
// keeping both sides of each pair adjacent. The input is not modified.
func SortPairsByStart(segments []DuplicateSegment) []DuplicateSegment {
	pairs, rest := Pairs(segments)
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i][0].StartTime < pairs[j][0].StartTime
	})
	out := make([]DuplicateSegment, 0, len(segments))
	for _, p := range pairs {
		out = append(out, p[0], p[1])
	}
	return append(out, rest...)
}
