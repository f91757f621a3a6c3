package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeExtraction()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.CacheDir, err = expandPath(strings.TrimSpace(c.Paths.CacheDir)); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	c.Analysis.Mode = strings.ToLower(strings.TrimSpace(c.Analysis.Mode))
	if c.Analysis.Mode == "" {
		c.Analysis.Mode = defaultMode
	}
}

func (c *Config) normalizeExtraction() {
	c.Extraction.FFmpegBinary = binaryWithFallback(c.Extraction.FFmpegBinary, "DUPSWEEP_FFMPEG", defaultFFmpegBinary)
	c.Extraction.FFprobeBinary = binaryWithFallback(c.Extraction.FFprobeBinary, "DUPSWEEP_FFPROBE", defaultFFprobeBinary)
	if c.Paths.CacheDir == "" {
		c.Extraction.CacheEnabled = false
	}
}

func binaryWithFallback(value, envKey, fallback string) string {
	value = strings.TrimSpace(value)
	if value != "" {
		return value
	}
	if env, ok := os.LookupEnv(envKey); ok && strings.TrimSpace(env) != "" {
		return strings.TrimSpace(env)
	}
	return fallback
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "text", "pretty":
		format = "console"
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch level {
	case "":
		level = defaultLogLevel
	case "warning":
		level = "warn"
	}
	c.Logging.Level = level
}
