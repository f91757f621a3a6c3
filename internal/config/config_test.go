package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dupsweep/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("DUPSWEEP_FFMPEG", "")
	t.Setenv("DUPSWEEP_FFPROBE", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "dupsweep")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if cfg.Paths.CacheDir != filepath.Join(tempHome, ".cache", "dupsweep") {
		t.Fatalf("unexpected cache dir: %q", cfg.Paths.CacheDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantState, "dupsweep.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.FFmpegBinary() != "ffmpeg" || cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("unexpected binaries: %q %q", cfg.FFmpegBinary(), cfg.FFprobeBinary())
	}
	if cfg.Analysis.SimilarityThreshold != 90 || cfg.Analysis.MinDuration != 2.0 || cfg.Analysis.Mode != "balanced" {
		t.Fatalf("unexpected analysis defaults: %+v", cfg.Analysis)
	}
	if !cfg.Analysis.UseHistogramComparison || !cfg.Analysis.UseMotionTracking || !cfg.Analysis.UseAudioAnalysis || !cfg.Analysis.IgnoreTaggedClips {
		t.Fatalf("expected all analysis flags enabled by default: %+v", cfg.Analysis)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.CacheDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dupsweep.toml")

	type payload struct {
		Paths struct {
			StateDir string `toml:"state_dir"`
		} `toml:"paths"`
		Analysis struct {
			SimilarityThreshold int    `toml:"similarity_threshold"`
			Mode                string `toml:"mode"`
		} `toml:"analysis"`
		Extraction struct {
			FFmpegBinary string `toml:"ffmpeg_binary"`
		} `toml:"extraction"`
	}
	custom := payload{}
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Analysis.SimilarityThreshold = 75
	custom.Analysis.Mode = "Accuracy"
	custom.Extraction.FFmpegBinary = "/opt/ffmpeg/bin/ffmpeg"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.StateDir != filepath.Join(tempDir, "state") {
		t.Fatalf("unexpected state dir: %q", cfg.Paths.StateDir)
	}
	if cfg.Analysis.SimilarityThreshold != 75 {
		t.Fatalf("unexpected threshold: %d", cfg.Analysis.SimilarityThreshold)
	}
	if cfg.Analysis.Mode != "accuracy" {
		t.Fatalf("expected mode to be lower-cased, got %q", cfg.Analysis.Mode)
	}
	if cfg.Analysis.MinDuration != 2.0 {
		t.Fatalf("expected untouched defaults to survive, got min_duration %v", cfg.Analysis.MinDuration)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
}

func TestLoadUsesBinaryEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DUPSWEEP_FFMPEG", "/usr/local/bin/ffmpeg7")
	t.Setenv("DUPSWEEP_FFPROBE", "/usr/local/bin/ffprobe7")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/usr/local/bin/ffmpeg7" {
		t.Fatalf("expected env ffmpeg, got %q", cfg.FFmpegBinary())
	}
	if cfg.FFprobeBinary() != "/usr/local/bin/ffprobe7" {
		t.Fatalf("expected env ffprobe, got %q", cfg.FFprobeBinary())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "threshold", body: "[analysis]\nsimilarity_threshold = 140\n", wantErr: "similarity_threshold"},
		{name: "duration", body: "[analysis]\nmin_duration = -1.0\n", wantErr: "min_duration"},
		{name: "mode", body: "[analysis]\nmode = \"turbo\"\n", wantErr: "analysis.mode"},
		{name: "visual", body: "[analysis]\nuse_histogram_comparison = false\nuse_motion_tracking = false\n", wantErr: "use_histogram_comparison"},
		{name: "bins", body: "[extraction]\nhistogram_bins = 0\n", wantErr: "histogram_bins"},
		{name: "format", body: "[logging]\nformat = \"xml\"\n", wantErr: "logging.format"},
		{name: "unknown key", body: "[analysis]\nthreshold = 10\n", wantErr: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "dupsweep.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadDisablesCacheWithoutDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "dupsweep.toml")
	if err := os.WriteFile(path, []byte("[paths]\ncache_dir = \"\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Extraction.CacheEnabled || cfg.FeatureCacheDir() != "" {
		t.Fatalf("expected cache disabled, got enabled=%v dir=%q", cfg.Extraction.CacheEnabled, cfg.FeatureCacheDir())
	}
}

func TestNormalizeLogging(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "dupsweep.toml")
	if err := os.WriteFile(path, []byte("[logging]\nformat = \"TEXT\"\nlevel = \"Warning\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestSampleConfigLoads(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config", "dupsweep.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	def := config.Default()
	if cfg.Analysis != def.Analysis {
		t.Fatalf("sample analysis section drifted from defaults: %+v vs %+v", cfg.Analysis, def.Analysis)
	}
	if cfg.Extraction.HistogramBins != def.Extraction.HistogramBins || cfg.Extraction.AudioSampleRate != def.Extraction.AudioSampleRate {
		t.Fatalf("sample extraction section drifted from defaults: %+v", cfg.Extraction)
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/clips")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "clips") {
		t.Fatalf("unexpected expansion %q", got)
	}
}
