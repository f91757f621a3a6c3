package detector

import (
	"math"
	"strings"
)

// AnalysisMode selects the frame sampling density used upstream.
type AnalysisMode string

const (
	ModeSpeed    AnalysisMode = "speed"
	ModeBalanced AnalysisMode = "balanced"
	ModeAccuracy AnalysisMode = "accuracy"
)

// ParseMode normalizes a user supplied mode. Empty input maps to balanced.
func ParseMode(value string) (AnalysisMode, bool) {
	switch AnalysisMode(strings.ToLower(strings.TrimSpace(value))) {
	case "", ModeBalanced:
		return ModeBalanced, true
	case ModeSpeed:
		return ModeSpeed, true
	case ModeAccuracy:
		return ModeAccuracy, true
	default:
		return AnalysisMode(value), false
	}
}

// Interval returns the sampling interval in seconds for the mode.
func (m AnalysisMode) Interval() float64 {
	switch m {
	case ModeSpeed:
		return 1.0
	case ModeAccuracy:
		return 0.25
	default:
		return 0.5
	}
}

// Options controls one analysis run.
type Options struct {
	SimilarityThreshold    int          `json:"similarityThreshold"`
	MinDuration            float64      `json:"minDuration"`
	UseHistogramComparison bool         `json:"useHistogramComparison"`
	UseMotionTracking      bool         `json:"useMotionTracking"`
	UseAudioAnalysis       bool         `json:"useAudioAnalysis"`
	IgnoreTaggedClips      bool         `json:"ignoreTaggedClips"`
	AnalysisMode           AnalysisMode `json:"analysisMode"`
}

// DefaultOptions mirrors the settings a fresh install starts with.
func DefaultOptions() Options {
	return Options{
		SimilarityThreshold:    90,
		MinDuration:            2.0,
		UseHistogramComparison: true,
		UseMotionTracking:      true,
		UseAudioAnalysis:       true,
		IgnoreTaggedClips:      true,
		AnalysisMode:           ModeBalanced,
	}
}

// Validate checks option ranges and normalizes the analysis mode in place.
func (o *Options) Validate() error {
	if o.SimilarityThreshold < 0 || o.SimilarityThreshold > 100 {
		return inputErrorf("similarityThreshold", "must be between 0 and 100, got %d", o.SimilarityThreshold)
	}
	if math.IsNaN(o.MinDuration) || math.IsInf(o.MinDuration, 0) || o.MinDuration < 0 {
		return inputErrorf("minDuration", "must be a non-negative number of seconds, got %v", o.MinDuration)
	}
	mode, ok := ParseMode(string(o.AnalysisMode))
	if !ok {
		return inputErrorf("analysisMode", "unsupported value %q (want speed, balanced or accuracy)", o.AnalysisMode)
	}
	o.AnalysisMode = mode
	if !o.UseHistogramComparison && !o.UseMotionTracking {
		return inputErrorf("useHistogramComparison", "at least one of histogram comparison or motion tracking must be enabled")
	}
	return nil
}

// SamplingInterval is the frame spacing in seconds implied by the mode.
func (o Options) SamplingInterval() float64 {
	mode, _ := ParseMode(string(o.AnalysisMode))
	return mode.Interval()
}
