package audio

import (
	"strconv"
	"strings"

	"dupsweep/internal/media/ffprobe"
)

// Selection describes the chosen programme stream.
type Selection struct {
	Primary      ffprobe.Stream
	PrimaryIndex int
	// Skipped lists stream indexes excluded as commentary or description.
	Skipped []int
}

// Found reports whether any audio stream was selected.
func (s Selection) Found() bool {
	return s.PrimaryIndex >= 0
}

// PrimaryLabel returns a human-readable summary of the selected primary stream.
func (s Selection) PrimaryLabel() string {
	if !s.Found() {
		return ""
	}
	return formatStreamSummary(s.Primary)
}

// Select returns the stream that best represents a clip's programme audio.
func Select(streams []ffprobe.Stream) Selection {
	candidates := buildCandidates(streams)
	if len(candidates) == 0 {
		return Selection{PrimaryIndex: -1}
	}

	selection := Selection{PrimaryIndex: -1}
	pool := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		if cand.secondary {
			selection.Skipped = append(selection.Skipped, cand.stream.Index)
			continue
		}
		pool = append(pool, cand)
	}
	if len(pool) == 0 {
		pool = candidates
		selection.Skipped = nil
	}

	best := pool[0]
	for _, cand := range pool[1:] {
		if better(cand, best) {
			best = cand
		}
	}
	selection.Primary = best.stream
	selection.PrimaryIndex = best.stream.Index
	return selection
}

type candidate struct {
	stream         ffprobe.Stream
	order          int
	channels       int
	defaultFlagged bool
	secondary      bool
}

func better(a, b candidate) bool {
	if a.defaultFlagged != b.defaultFlagged {
		return a.defaultFlagged
	}
	if a.channels != b.channels {
		return a.channels > b.channels
	}
	return a.order < b.order
}

var secondaryKeywords = []string{"commentary", "director", "description", "descriptive", "narration"}

func buildCandidates(streams []ffprobe.Stream) []candidate {
	var result []candidate
	order := 0
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		title := strings.ToLower(stream.Tag("title"))
		cand := candidate{
			stream:         stream,
			order:          order,
			channels:       channelCount(stream),
			defaultFlagged: stream.IsDefault(),
			secondary:      stream.Disposition["comment"] == 1 || stream.Disposition["visual_impaired"] == 1,
		}
		for _, keyword := range secondaryKeywords {
			if strings.Contains(title, keyword) {
				cand.secondary = true
				break
			}
		}
		result = append(result, cand)
		order++
	}
	return result
}

func channelCount(stream ffprobe.Stream) int {
	if stream.Channels > 0 {
		return stream.Channels
	}
	layout := strings.ToLower(strings.TrimSpace(stream.ChannelLayout))
	switch {
	case layout == "":
		return 0
	case layout == "mono":
		return 1
	case layout == "stereo":
		return 2
	}
	total := 0
	for _, part := range strings.Split(layout, ".") {
		part = strings.Trim(part, "abcdefghijklmnopqrstuvwxyz ()")
		if n, err := strconv.Atoi(part); err == nil {
			total += n
		}
	}
	return total
}

func formatStreamSummary(stream ffprobe.Stream) string {
	parts := make([]string, 0, 4)
	if lang := stream.Tag("language"); lang != "" {
		parts = append(parts, strings.ToLower(lang))
	}
	codec := stream.CodecLong
	if codec == "" {
		codec = stream.CodecName
	}
	if codec != "" {
		parts = append(parts, codec)
	}
	if ch := channelCount(stream); ch > 0 {
		parts = append(parts, strconv.Itoa(ch)+"ch")
	}
	if title := stream.Tag("title"); title != "" {
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "audio #" + strconv.Itoa(stream.Index)
	}
	return strings.Join(parts, " ")
}
