package similarity

import (
	"math"

	"dupsweep/internal/timeline"
)

// Blend weights for FrameSimilarity. Policy values open to recalibration.
const (
	HistogramWeight = 0.7
	MotionWeight    = 0.3
)

// CompareHistograms returns sum(min)/sum(max) over two equal-length histograms.
func CompareHistograms(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var intersection, union float64
	for i := range a {
		intersection += math.Min(a[i], b[i])
		union += math.Max(a[i], b[i])
	}
	if union == 0 {
		return 0
	}
	return intersection / union
}

// CompareMotion returns the cosine of the angle between two motion vectors
// mapped from [-1,1] onto [0,1].
func CompareMotion(a, b *timeline.Motion) float64 {
	if a == nil || b == nil {
		return 0
	}
	if a.Magnitude == 0 || b.Magnitude == 0 {
		return 0
	}
	normA := math.Hypot(a.VectorX, a.VectorY)
	normB := math.Hypot(b.VectorX, b.VectorY)
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := (a.VectorX*b.VectorX + a.VectorY*b.VectorY) / (normA * normB)
	cos = math.Max(-1, math.Min(1, cos))
	return (cos + 1) / 2
}

// FrameSimilarity blends histogram and motion similarity of two frames.
func FrameSimilarity(a, b timeline.Frame) float64 {
	return DefaultComparator().Score(a, b)
}

// Comparator scores frames with individual features switched on or off. A
// disabled feature contributes 0; the weights are not renormalized.
type Comparator struct {
	UseHistogram bool
	UseMotion    bool
}

// DefaultComparator enables every feature.
func DefaultComparator() Comparator {
	return Comparator{UseHistogram: true, UseMotion: true}
}

// Score returns the weighted similarity of a and b in [0,1].
func (c Comparator) Score(a, b timeline.Frame) float64 {
	var score float64
	if c.UseHistogram {
		score += HistogramWeight * CompareHistograms(a.Histogram, b.Histogram)
	}
	if c.UseMotion && a.Motion != nil && b.Motion != nil {
		score += MotionWeight * CompareMotion(a.Motion, b.Motion)
	}
	return score
}
