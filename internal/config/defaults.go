package config

const (
	defaultConfigPath          = "~/.config/dupsweep/config.toml"
	defaultStateDir            = "~/.local/share/dupsweep"
	defaultLogDir              = "~/.local/share/dupsweep/logs"
	defaultSimilarityThreshold = 90
	defaultMinDuration         = 2.0
	defaultMode                = "balanced"
	defaultFFmpegBinary        = "ffmpeg"
	defaultFFprobeBinary       = "ffprobe"
	defaultFrameWidth          = 64
	defaultFrameHeight         = 36
	defaultHistogramBins       = 64
	defaultAudioSampleRate     = 8000
	defaultExtractionTimeout   = 600
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLogRetentionDays    = 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			CacheDir: defaultCacheDir(),
			LogDir:   defaultLogDir,
		},
		Analysis: Analysis{
			SimilarityThreshold:    defaultSimilarityThreshold,
			MinDuration:            defaultMinDuration,
			UseHistogramComparison: true,
			UseMotionTracking:      true,
			UseAudioAnalysis:       true,
			IgnoreTaggedClips:      true,
			Mode:                   defaultMode,
		},
		Extraction: Extraction{
			FrameWidth:      defaultFrameWidth,
			FrameHeight:     defaultFrameHeight,
			HistogramBins:   defaultHistogramBins,
			AudioSampleRate: defaultAudioSampleRate,
			CacheEnabled:    true,
			TimeoutSeconds:  defaultExtractionTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
