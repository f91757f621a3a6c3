package detector

import (
	"context"
	"fmt"

	"dupsweep/internal/timeline"
)

// FilterByDuration drops every pair where either side lasts less than
// minDuration seconds. A trailing unpaired segment is kept when it alone
// qualifies.
func FilterByDuration(segments []timeline.DuplicateSegment, minDuration float64) []timeline.DuplicateSegment {
	pairs, rest := timeline.Pairs(segments)
	out := make([]timeline.DuplicateSegment, 0, len(segments))
	for _, p := range pairs {
		if p[0].Duration < minDuration || p[1].Duration < minDuration {
			continue
		}
		out = append(out, p[0], p[1])
	}
	for _, seg := range rest {
		if seg.Duration >= minDuration {
			out = append(out, seg)
		}
	}
	return out
}

// FilterTagged drops every pair where either side's clip is preserved
// according to checker. A nil checker keeps everything.
func FilterTagged(ctx context.Context, segments []timeline.DuplicateSegment, checker timeline.TagChecker) ([]timeline.DuplicateSegment, error) {
	if checker == nil {
		return segments, nil
	}
	pairs, rest := timeline.Pairs(segments)
	out := make([]timeline.DuplicateSegment, 0, len(segments))
	for _, p := range pairs {
		keep := true
		for _, seg := range p {
			preserved, err := checker.IsPreserved(ctx, seg.Clip())
			if err != nil {
				return nil, fmt.Errorf("check tags for clip %s: %w", seg.Clip().ID, err)
			}
			if preserved {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, p[0], p[1])
		}
	}
	for _, seg := range rest {
		preserved, err := checker.IsPreserved(ctx, seg.Clip())
		if err != nil {
			return nil, fmt.Errorf("check tags for clip %s: %w", seg.Clip().ID, err)
		}
		if !preserved {
			out = append(out, seg)
		}
	}
	return out, nil
}
