package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dupsweep/internal/config"
	"dupsweep/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	binDir := filepath.Join(base, "bin")
	cfg.Extraction.FFmpegBinary = filepath.Join(binDir, "ffmpeg")
	cfg.Extraction.FFprobeBinary = filepath.Join(binDir, "ffprobe")
	cfg.Extraction.FrameWidth = 2
	cfg.Extraction.FrameHeight = 2
	cfg.Extraction.HistogramBins = 4
	cfg.Extraction.AudioSampleRate = 2
	writeStubTools(t, cfg)

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

// writeStubTools writes fake ffprobe and ffmpeg executables. ffmpeg emits two
// 2x2 gray frames for video requests and three s16le samples for audio.
func writeStubTools(t *testing.T, cfg *config.Config) {
	t.Helper()
	probe := `{"streams":[{"index":0,"codec_type":"video"},{"index":1,"codec_type":"audio","channels":1}],"format":{"duration":"1.0"}}`
	testsupport.WriteExecutable(t, cfg.Extraction.FFprobeBinary,
		versionGuard("ffprobe")+"echo '"+probe+"'\n")
	testsupport.WriteExecutable(t, cfg.Extraction.FFmpegBinary,
		versionGuard("ffmpeg")+
			"for a in \"$@\"; do\n  case \"$a\" in\n"+
			"    rawvideo) printf '\\000\\000\\000\\000\\000\\000\\000\\377' ;;\n"+
			"    s16le) printf '\\000\\000\\000\\100\\000\\200' ;;\n"+
			"  esac\ndone\n")
}

func versionGuard(name string) string {
	return "#!/bin/sh\ncase \" $* \" in\n  *\" -version \"*) echo '" + name + " version 7.1'; exit 0 ;;\nesac\n"
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
state_dir = %q
cache_dir = %q
log_dir = %q

[extraction]
ffmpeg_binary = %q
ffprobe_binary = %q
frame_width = %d
frame_height = %d
histogram_bins = %d
audio_sample_rate = %d

[logging]
level = "error"
`,
		cfg.Paths.StateDir,
		cfg.Paths.CacheDir,
		cfg.Paths.LogDir,
		cfg.Extraction.FFmpegBinary,
		cfg.Extraction.FFprobeBinary,
		cfg.Extraction.FrameWidth,
		cfg.Extraction.FrameHeight,
		cfg.Extraction.HistogramBins,
		cfg.Extraction.AudioSampleRate,
	)
	testsupport.WriteFile(t, path, content)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
