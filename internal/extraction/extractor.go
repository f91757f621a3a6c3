package extraction

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"dupsweep/internal/config"
	"dupsweep/internal/featurecache"
	"dupsweep/internal/logging"
	"dupsweep/internal/media/audio"
	"dupsweep/internal/media/ffprobe"
	"dupsweep/internal/timeline"
)

// ErrExternalTool marks failures of ffmpeg or ffprobe.
var ErrExternalTool = errors.New("external tool failed")

// Extractor produces features for a single clip.
type Extractor interface {
	Extract(ctx context.Context, clip timeline.ClipRef, interval float64, withAudio bool) (timeline.ClipFeatures, error)
}

// FFmpegExtractor extracts features by shelling out to ffmpeg and ffprobe.
type FFmpegExtractor struct {
	FFmpegBinary    string
	FFprobeBinary   string
	Width           int
	Height          int
	HistogramBins   int
	AudioSampleRate int
	Timeout         time.Duration
	Cache           *featurecache.Cache
	Logger          *slog.Logger
}

// NewFFmpegExtractor builds an extractor from the [extraction] settings.
func NewFFmpegExtractor(cfg *config.Config, cache *featurecache.Cache, logger *slog.Logger) *FFmpegExtractor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &FFmpegExtractor{
		FFmpegBinary:    cfg.FFmpegBinary(),
		FFprobeBinary:   cfg.FFprobeBinary(),
		Width:           cfg.Extraction.FrameWidth,
		Height:          cfg.Extraction.FrameHeight,
		HistogramBins:   cfg.Extraction.HistogramBins,
		AudioSampleRate: cfg.Extraction.AudioSampleRate,
		Timeout:         time.Duration(cfg.Extraction.TimeoutSeconds) * time.Second,
		Cache:           cache,
		Logger:          logging.NewComponentLogger(logger, "extraction"),
	}
}

// Probe inspects a media file.
func (e *FFmpegExtractor) Probe(ctx context.Context, path string) (ffprobe.Result, error) {
	result, err := ffprobe.Inspect(ctx, e.FFprobeBinary, path)
	if err != nil {
		return ffprobe.Result{}, fmt.Errorf("%w: %v", ErrExternalTool, err)
	}
	return result, nil
}

// Extract implements Extractor.
func (e *FFmpegExtractor) Extract(ctx context.Context, clip timeline.ClipRef, interval float64, withAudio bool) (timeline.ClipFeatures, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	path := strings.TrimSpace(clip.MediaPath)
	if path == "" {
		return timeline.ClipFeatures{}, fmt.Errorf("extract %s: clip has no media path", clip.ID)
	}
	if interval <= 0 {
		return timeline.ClipFeatures{}, fmt.Errorf("extract %s: sampling interval must be positive", clip.ID)
	}
	if e.Width <= 0 || e.Height <= 0 || e.HistogramBins <= 0 {
		return timeline.ClipFeatures{}, fmt.Errorf("extract %s: frame size and histogram bins must be positive", clip.ID)
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	logger := e.logger().With(logging.String(logging.FieldClipID, clip.ID))

	key := ""
	if e.Cache.Enabled() {
		var err error
		key, err = featurecache.KeyForFile(path, interval, e.HistogramBins, e.Width, e.Height, withAudio)
		if err != nil {
			return timeline.ClipFeatures{}, fmt.Errorf("extract %s: %w", clip.ID, err)
		}
		if cached, ok := e.Cache.Load(key); ok {
			return rebase(cached, clip), nil
		}
	}

	probe, err := e.Probe(ctx, path)
	if err != nil {
		return timeline.ClipFeatures{}, fmt.Errorf("extract %s: %w", clip.ID, err)
	}
	if len(probe.VideoStreams()) == 0 {
		return timeline.ClipFeatures{}, fmt.Errorf("extract %s: %s has no video stream", clip.ID, path)
	}

	// Features are computed relative to a zero start and rebased onto the
	// clip afterwards so cache entries stay position independent.
	local := timeline.ClipRef{ID: clip.ID}
	features := timeline.ClipFeatures{ClipID: clip.ID, Duration: probe.DurationSeconds()}

	raw, err := e.run(ctx, e.videoArgs(path, interval))
	if err != nil {
		return timeline.ClipFeatures{}, fmt.Errorf("extract %s frames: %w", clip.ID, err)
	}
	features.Frames = DecodeFrames(raw, local, interval, e.Width, e.Height, e.HistogramBins)

	if withAudio {
		selection := audio.Select(probe.Streams)
		if selection.Found() {
			pcm, err := e.run(ctx, e.audioArgs(path, selection.PrimaryIndex))
			if err != nil {
				return timeline.ClipFeatures{}, fmt.Errorf("extract %s audio: %w", clip.ID, err)
			}
			features.Audio = DecodePCM(pcm, local, e.AudioSampleRate)
			logger.Debug("extracted waveform",
				logging.String("stream", selection.PrimaryLabel()),
				logging.Int("samples", len(features.Audio.Waveform)))
		} else {
			logger.Debug("clip has no audio stream")
		}
	}
	if features.Duration <= 0 && len(features.Frames) > 0 {
		features.Duration = features.Frames[len(features.Frames)-1].Time + interval
	}

	if key != "" {
		if err := e.Cache.Store(key, features); err != nil {
			logging.WarnWithContext(logger, "failed to cache clip features", "feature_cache_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check cache_dir permissions"),
				logging.String(logging.FieldImpact, "the clip will be decoded again next time"))
		}
	}

	logger.Info("extracted clip features",
		logging.Int("frames", len(features.Frames)),
		logging.Bool("audio", features.Audio != nil),
		logging.Float64("duration", features.Duration))
	return rebase(features, clip), nil
}

func (e *FFmpegExtractor) videoArgs(path string, interval float64) []string {
	filter := fmt.Sprintf("fps=1/%s,scale=%d:%d", strconv.FormatFloat(interval, 'g', -1, 64), e.Width, e.Height)
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-map", "0:v:0",
		"-vf", filter,
		"-pix_fmt", "gray",
		"-f", "rawvideo",
		"-",
	}
}

func (e *FFmpegExtractor) audioArgs(path string, streamIndex int) []string {
	return []string{
		"-hide_banner", "-loglevel", "error",
		"-i", path,
		"-map", fmt.Sprintf("0:%d", streamIndex),
		"-ac", "1",
		"-ar", strconv.Itoa(e.AudioSampleRate),
		"-f", "s16le",
		"-",
	}
}

func (e *FFmpegExtractor) run(ctx context.Context, args []string) ([]byte, error) {
	binary := strings.TrimSpace(e.FFmpegBinary)
	if binary == "" {
		binary = "ffmpeg"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: ffmpeg: %v: %s", ErrExternalTool, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func (e *FFmpegExtractor) logger() *slog.Logger {
	if e.Logger == nil {
		return logging.NewNop()
	}
	return e.Logger
}

// rebase shifts zero-based features onto the clip's timeline position.
func rebase(features timeline.ClipFeatures, clip timeline.ClipRef) timeline.ClipFeatures {
	out := timeline.ClipFeatures{ClipID: clip.ID, Duration: features.Duration}
	out.Frames = make([]timeline.Frame, len(features.Frames))
	for i, frame := range features.Frames {
		frame.ClipID = clip.ID
		frame.Time += clip.StartTime
		out.Frames[i] = frame
	}
	if features.Audio != nil {
		track := *features.Audio
		track.ClipID = clip.ID
		track.StartTime += clip.StartTime
		track.EndTime += clip.StartTime
		out.Audio = &track
	}
	return out
}
