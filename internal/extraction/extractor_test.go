package extraction

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dupsweep/internal/featurecache"
	"dupsweep/internal/testsupport"
	"dupsweep/internal/timeline"
)

const probeJSON = `{"streams":[{"index":0,"codec_type":"video","width":2,"height":2},` +
	`{"index":1,"codec_type":"audio","channels":2,"disposition":{"default":1}}],` +
	`"format":{"duration":"1.000000"}}`

// stubTools writes fake ffprobe and ffmpeg scripts. The ffmpeg stub emits two
// 2x2 gray frames or three s16le samples and appends each invocation to the
// file named by STUB_LOG.
func stubTools(t *testing.T, failFFmpeg bool) (string, string, string) {
	t.Helper()
	dir := t.TempDir()
	logPath := filepath.Join(dir, "calls.log")
	t.Setenv("STUB_LOG", logPath)

	ffprobe := filepath.Join(dir, "ffprobe")
	testsupport.WriteExecutable(t, ffprobe, "#!/bin/sh\necho \"ffprobe\" >> \"$STUB_LOG\"\ncat <<'JSON'\n"+probeJSON+"\nJSON\n")

	body := "#!/bin/sh\necho \"ffmpeg $*\" >> \"$STUB_LOG\"\n"
	if failFFmpeg {
		body += "echo 'Invalid data found when processing input' >&2\nexit 1\n"
	} else {
		body += "for a in \"$@\"; do\n  case \"$a\" in\n" +
			"    rawvideo) printf '\\000\\000\\000\\000\\000\\000\\000\\377' ;;\n" +
			"    s16le) printf '\\000\\000\\000\\100\\000\\200' ;;\n" +
			"  esac\ndone\n"
	}
	ffmpeg := filepath.Join(dir, "ffmpeg")
	testsupport.WriteExecutable(t, ffmpeg, body)
	return ffmpeg, ffprobe, logPath
}

func newTestExtractor(ffmpeg, ffprobe string, cache *featurecache.Cache) *FFmpegExtractor {
	return &FFmpegExtractor{
		FFmpegBinary:    ffmpeg,
		FFprobeBinary:   ffprobe,
		Width:           2,
		Height:          2,
		HistogramBins:   4,
		AudioSampleRate: 2,
		Cache:           cache,
	}
}

func mediaFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "take_one.mov")
	testsupport.WriteFile(t, path, "not really a movie")
	return path
}

func countCalls(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0
		}
		t.Fatalf("read call log: %v", err)
	}
	return strings.Count(string(data), "\n")
}

func TestExtractDecodesFramesAndAudio(t *testing.T) {
	ffmpeg, ffprobe, _ := stubTools(t, false)
	ex := newTestExtractor(ffmpeg, ffprobe, nil)
	clip := timeline.ClipRef{ID: "clip-001", StartTime: 10, MediaPath: mediaFile(t)}

	features, err := ex.Extract(context.Background(), clip, 0.5, true)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if features.Duration != 1 || len(features.Frames) != 2 {
		t.Fatalf("unexpected features %+v", features)
	}
	if features.Frames[0].Time != 10 || features.Frames[1].Time != 10.5 {
		t.Fatalf("frames not offset by clip start: %+v", features.Frames)
	}
	if features.Frames[1].Motion == nil {
		t.Fatal("expected motion on second frame")
	}
	if features.Audio == nil || len(features.Audio.Waveform) != 3 {
		t.Fatalf("unexpected audio %+v", features.Audio)
	}
	if features.Audio.StartTime != 10 || features.Audio.EndTime != 11.5 {
		t.Fatalf("unexpected audio bounds %+v", features.Audio)
	}
}

func TestExtractSkipsAudioWhenNotRequested(t *testing.T) {
	ffmpeg, ffprobe, logPath := stubTools(t, false)
	ex := newTestExtractor(ffmpeg, ffprobe, nil)
	features, err := ex.Extract(context.Background(), timeline.ClipRef{ID: "c", MediaPath: mediaFile(t)}, 0.5, false)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if features.Audio != nil {
		t.Fatal("expected no audio")
	}
	if calls := countCalls(t, logPath); calls != 2 {
		t.Fatalf("expected ffprobe and one ffmpeg call, got %d", calls)
	}
}

func TestExtractUsesCache(t *testing.T) {
	ffmpeg, ffprobe, logPath := stubTools(t, false)
	cache := featurecache.New(t.TempDir(), nil)
	ex := newTestExtractor(ffmpeg, ffprobe, cache)
	media := mediaFile(t)

	if _, err := ex.Extract(context.Background(), timeline.ClipRef{ID: "a", MediaPath: media}, 0.5, true); err != nil {
		t.Fatalf("first Extract: %v", err)
	}
	first := countCalls(t, logPath)

	features, err := ex.Extract(context.Background(), timeline.ClipRef{ID: "b", StartTime: 3, MediaPath: media}, 0.5, true)
	if err != nil {
		t.Fatalf("second Extract: %v", err)
	}
	if countCalls(t, logPath) != first {
		t.Fatal("expected cached extraction to skip external tools")
	}
	if features.ClipID != "b" || features.Frames[0].ClipID != "b" || features.Frames[0].Time != 3 {
		t.Fatalf("cached features not rebased: %+v", features.Frames[0])
	}
	if features.Audio == nil || features.Audio.StartTime != 3 {
		t.Fatalf("cached audio not rebased: %+v", features.Audio)
	}
}

func TestExtractWrapsToolFailure(t *testing.T) {
	ffmpeg, ffprobe, _ := stubTools(t, true)
	ex := newTestExtractor(ffmpeg, ffprobe, nil)
	_, err := ex.Extract(context.Background(), timeline.ClipRef{ID: "c", MediaPath: mediaFile(t)}, 0.5, false)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}
	if !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestExtractValidatesInput(t *testing.T) {
	ex := newTestExtractor("ffmpeg", "ffprobe", nil)
	if _, err := ex.Extract(context.Background(), timeline.ClipRef{ID: "c"}, 0.5, false); err == nil {
		t.Fatal("expected error for missing media path")
	}
	if _, err := ex.Extract(context.Background(), timeline.ClipRef{ID: "c", MediaPath: "/x.mov"}, 0, false); err == nil {
		t.Fatal("expected error for zero interval")
	}
}

func TestNewFFmpegExtractorFromConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ex := NewFFmpegExtractor(cfg, nil, nil)
	if ex.Width != cfg.Extraction.FrameWidth || ex.HistogramBins != cfg.Extraction.HistogramBins {
		t.Fatalf("unexpected extractor %+v", ex)
	}
	if ex.FFmpegBinary != cfg.FFmpegBinary() || ex.Logger == nil {
		t.Fatalf("unexpected binaries or logger %+v", ex)
	}
}
