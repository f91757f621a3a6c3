package config

import (
	"errors"
	"fmt"
	"math"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateExtraction(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	a := c.Analysis
	if a.SimilarityThreshold < 0 || a.SimilarityThreshold > 100 {
		return fmt.Errorf("analysis.similarity_threshold must be between 0 and 100, got %d", a.SimilarityThreshold)
	}
	if math.IsNaN(a.MinDuration) || a.MinDuration < 0 {
		return fmt.Errorf("analysis.min_duration must be non-negative, got %v", a.MinDuration)
	}
	switch a.Mode {
	case "speed", "balanced", "accuracy":
	default:
		return fmt.Errorf("analysis.mode: unsupported value %q (want speed, balanced or accuracy)", a.Mode)
	}
	if !a.UseHistogramComparison && !a.UseMotionTracking {
		return errors.New("analysis: enable at least one of use_histogram_comparison or use_motion_tracking")
	}
	return nil
}

func (c *Config) validateExtraction() error {
	e := c.Extraction
	if e.FrameWidth <= 0 || e.FrameHeight <= 0 {
		return fmt.Errorf("extraction.frame_width and frame_height must be positive, got %dx%d", e.FrameWidth, e.FrameHeight)
	}
	if e.HistogramBins < 1 || e.HistogramBins > 256 {
		return fmt.Errorf("extraction.histogram_bins must be between 1 and 256, got %d", e.HistogramBins)
	}
	if e.AudioSampleRate <= 0 {
		return fmt.Errorf("extraction.audio_sample_rate must be positive, got %d", e.AudioSampleRate)
	}
	if e.TimeoutSeconds < 0 {
		return fmt.Errorf("extraction.timeout_seconds must be non-negative, got %d", e.TimeoutSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.RetentionDays < 0 {
		return fmt.Errorf("logging.retention_days must be non-negative, got %d", c.Logging.RetentionDays)
	}
	return nil
}
