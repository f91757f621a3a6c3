package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Analysis holds the detection defaults used when no flag overrides them.
type Analysis struct {
	SimilarityThreshold    int     `toml:"similarity_threshold"`
	MinDuration            float64 `toml:"min_duration"`
	UseHistogramComparison bool    `toml:"use_histogram_comparison"`
	UseMotionTracking      bool    `toml:"use_motion_tracking"`
	UseAudioAnalysis       bool    `toml:"use_audio_analysis"`
	IgnoreTaggedClips      bool    `toml:"ignore_tagged_clips"`
	Mode                   string  `toml:"mode"`
}

// Extraction contains ffmpeg feature extraction settings.
type Extraction struct {
	FFmpegBinary    string `toml:"ffmpeg_binary"`
	FFprobeBinary   string `toml:"ffprobe_binary"`
	FrameWidth      int    `toml:"frame_width"`
	FrameHeight     int    `toml:"frame_height"`
	HistogramBins   int    `toml:"histogram_bins"`
	AudioSampleRate int    `toml:"audio_sample_rate"`
	CacheEnabled    bool   `toml:"cache_enabled"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for dupsweep.
//
// Configuration sections by subsystem:
//   - Paths: state database, feature cache and log directories
//   - Analysis: default detection options
//   - Extraction: ffmpeg/ffprobe binaries and sampling geometry
//   - Logging: log format, level, and retention
type Config struct {
	Paths      Paths      `toml:"paths"`
	Analysis   Analysis   `toml:"analysis"`
	Extraction Extraction `toml:"extraction"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, "", false, fmt.Errorf("parse config: %s", strict.String())
			}
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("dupsweep.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state, cache and log directories.
// An empty cache or log directory means the feature is off and is skipped.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.CacheDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath is the SQLite file holding analysis runs and tags.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.StateDir, "dupsweep.db")
}

// FeatureCacheDir returns the extraction cache directory, or "" when the
// cache is disabled.
func (c *Config) FeatureCacheDir() string {
	if !c.Extraction.CacheEnabled {
		return ""
	}
	return filepath.Join(c.Paths.CacheDir, "features")
}

// FFmpegBinary returns the ffmpeg executable used for decoding.
func (c *Config) FFmpegBinary() string {
	return c.Extraction.FFmpegBinary
}

// FFprobeBinary returns the ffprobe executable used for media inspection.
func (c *Config) FFprobeBinary() string {
	return c.Extraction.FFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "dupsweep")
	}
	return "~/.cache/dupsweep"
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
