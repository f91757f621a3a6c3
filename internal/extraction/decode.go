package extraction

import (
	"encoding/binary"
	"math"

	"dupsweep/internal/timeline"
)

// DecodeFrames splits raw 8-bit grayscale video into frames of width*height
// pixels. A trailing partial frame is ignored.
func DecodeFrames(raw []byte, clip timeline.ClipRef, interval float64, width, height, bins int) []timeline.Frame {
	size := width * height
	if size <= 0 || bins <= 0 {
		return nil
	}
	count := len(raw) / size
	frames := make([]timeline.Frame, 0, count)
	var prev []byte
	for i := 0; i < count; i++ {
		pixels := raw[i*size : (i+1)*size]
		frame := timeline.Frame{
			Time:      clip.StartTime + float64(i)*interval,
			ClipID:    clip.ID,
			Histogram: Histogram(pixels, bins),
		}
		if prev != nil {
			motion := EstimateMotion(prev, pixels, width, height)
			frame.Motion = &motion
		}
		frames = append(frames, frame)
		prev = pixels
	}
	return frames
}

// Histogram buckets 8-bit luminance values into bins normalized to sum to 1.
func Histogram(pixels []byte, bins int) []float64 {
	hist := make([]float64, bins)
	if len(pixels) == 0 {
		return hist
	}
	for _, p := range pixels {
		hist[int(p)*bins/256]++
	}
	total := float64(len(pixels))
	for i := range hist {
		hist[i] /= total
	}
	return hist
}

// EstimateMotion locates the intensity-weighted centroid of the absolute
// difference between two frames and reports its offset from the frame
// centre, each component in [-1,1]. Identical frames yield zero motion.
func EstimateMotion(prev, cur []byte, width, height int) timeline.Motion {
	var sum, sx, sy float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			if i >= len(prev) || i >= len(cur) {
				continue
			}
			d := math.Abs(float64(cur[i]) - float64(prev[i]))
			sum += d
			sx += d * float64(x)
			sy += d * float64(y)
		}
	}
	if sum == 0 {
		return timeline.Motion{}
	}
	vx := normalizeOffset(sx/sum, width)
	vy := normalizeOffset(sy/sum, height)
	return timeline.Motion{
		VectorX:   vx,
		VectorY:   vy,
		Magnitude: math.Min(1, math.Hypot(vx, vy)/math.Sqrt2),
	}
}

func normalizeOffset(pos float64, extent int) float64 {
	half := float64(extent-1) / 2
	if half <= 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, (pos-half)/half))
}

// DecodePCM converts signed 16-bit little-endian mono samples into a
// waveform in [-1,1].
func DecodePCM(raw []byte, clip timeline.ClipRef, sampleRate int) *timeline.AudioTrack {
	n := len(raw) / 2
	waveform := make([]float64, n)
	for i := 0; i < n; i++ {
		sample := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		waveform[i] = math.Max(-1, float64(sample)/32768)
	}
	duration := 0.0
	if sampleRate > 0 {
		duration = float64(n) / float64(sampleRate)
	}
	return &timeline.AudioTrack{
		ClipID:    clip.ID,
		StartTime: clip.StartTime,
		EndTime:   clip.StartTime + duration,
		Waveform:  waveform,
	}
}
