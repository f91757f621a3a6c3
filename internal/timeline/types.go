package timeline

// Motion is the dominant 2D motion vector of a frame relative to its
// predecessor. Components are normalized to [-1,1].
type Motion struct {
	VectorX   float64 `json:"vectorX"`
	VectorY   float64 `json:"vectorY"`
	Magnitude float64 `json:"magnitude"`
}

// Frame is one sampled frame of a clip.
type Frame struct {
	Time      float64   `json:"time"`
	ClipID    string    `json:"clipId"`
	Histogram []float64 `json:"histogram"`
	Motion    *Motion   `json:"motion,omitempty"`
}

// ClipRef identifies a contiguous unit of source media on a timeline track.
type ClipRef struct {
	ID         string   `json:"id"`
	TrackIndex int      `json:"trackIndex"`
	ClipIndex  int      `json:"clipIndex"`
	Name       string   `json:"name"`
	StartTime  float64  `json:"startTime"`
	EndTime    float64  `json:"endTime"`
	Duration   float64  `json:"duration"`
	MediaPath  string   `json:"mediaPath,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// AudioTrack holds the waveform of one clip.
type AudioTrack struct {
	ClipID    string    `json:"clipId"`
	StartTime float64   `json:"startTime"`
	EndTime   float64   `json:"endTime"`
	Waveform  []float64 `json:"waveform"`
}

// Duration returns the time span the waveform covers.
func (a AudioTrack) Duration() float64 {
	return a.EndTime - a.StartTime
}

// RefFor returns the clip with the given id, or an id-only reference when the
// clip is not present.
func RefFor(clips map[string]ClipRef, id string) ClipRef {
	if clip, ok := clips[id]; ok {
		return clip
	}
	return ClipRef{ID: id, Name: id}
}

// ClipFeatures is everything extracted from one clip's media: sampled frames
// and, when requested and present, its waveform.
type ClipFeatures struct {
	ClipID   string      `json:"clipId"`
	Duration float64     `json:"duration"`
	Frames   []Frame     `json:"frames"`
	Audio    *AudioTrack `json:"audio,omitempty"`
}
