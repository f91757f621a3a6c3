package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"dupsweep/internal/timeline"
)

// formatTimecode renders seconds as HH:MM:SS.mmm.
func formatTimecode(seconds float64) string {
	if math.IsNaN(seconds) || seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	m := (ms / 60_000) % 60
	s := (ms / 1000) % 60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

func formatSeconds(seconds float64) string {
	return strconv.FormatFloat(seconds, 'f', 2, 64) + "s"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func segmentRows(segments []timeline.DuplicateSegment) [][]string {
	rows := make([][]string, 0, len(segments))
	for _, seg := range segments {
		rows = append(rows, []string{
			seg.PairID,
			string(seg.Role),
			seg.Name,
			formatTimecode(seg.StartTime),
			formatTimecode(seg.EndTime),
			formatSeconds(seg.Duration),
			strconv.Itoa(seg.Similarity) + "%",
		})
	}
	return rows
}

func writeSegmentTable(out io.Writer, segments []timeline.DuplicateSegment, colorize bool) {
	headers := []string{"Pair", "Role", "Clip", "Start", "End", "Duration", "Similarity"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(out, renderTable(headers, segmentRows(segments), tableOptions{
		aligns:      aligns,
		colorize:    colorize,
		colorColumn: 6,
		colorFor:    similarityColors,
	}))
}

func pairSummary(pairs int) string {
	switch pairs {
	case 0:
		return "No duplicate footage found"
	case 1:
		return "Found 1 duplicate pair"
	default:
		return "Found " + strconv.Itoa(pairs) + " duplicate pairs"
	}
}

func sortSegments(segments []timeline.DuplicateSegment, order string) ([]timeline.DuplicateSegment, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "detection":
		return segments, nil
	case "start":
		return timeline.SortPairsByStart(segments), nil
	default:
		return nil, fmt.Errorf("unsupported sort order %q (want detection or start)", order)
	}
}
