package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"dupsweep/internal/detector"
	"dupsweep/internal/extraction"
	"dupsweep/internal/featurecache"
	"dupsweep/internal/timeline"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var outputPath string
	var mode string
	var sequence string
	var noAudio bool
	var noCache bool

	cmd := &cobra.Command{
		Use:   "extract <media...>",
		Short: "Build a timeline manifest from media files",
		Long: `Build a timeline manifest from media files.

Files are placed end to end on a single track in the order given. Frames are
sampled at the interval implied by --mode (or [analysis].mode) and, unless
--no-audio is set, the primary programme audio is decoded for refinement.
Use "-o -" to write the manifest to stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			modeValue := cfg.Analysis.Mode
			if cmd.Flags().Changed("mode") {
				modeValue = mode
			}
			analysisMode, ok := detector.ParseMode(modeValue)
			if !ok {
				return fmt.Errorf("unsupported analysis mode %q (want speed, balanced or accuracy)", modeValue)
			}

			cacheDir := cfg.FeatureCacheDir()
			if noCache {
				cacheDir = ""
			}
			extractor := extraction.NewFFmpegExtractor(cfg, featurecache.New(cacheDir, logger), logger)

			target := strings.TrimSpace(outputPath)
			toStdout := target == "-"
			if sequence == "" && !toStdout {
				sequence = strings.TrimSuffix(filepath.Base(target), filepath.Ext(target))
			}

			errOut := cmd.ErrOrStderr()
			manifest, err := extraction.BuildManifest(commandCtx(cmd), extractor, args, extraction.BuildOptions{
				Sequence:  sequence,
				Interval:  analysisMode.Interval(),
				WithAudio: !noAudio,
				Progress: func(done, total int, clip timeline.ClipRef) {
					if !ctx.JSONMode() && !toStdout {
						fmt.Fprintf(errOut, "[%d/%d] %s (%s)\n", done, total, clip.Name, formatSeconds(clip.Duration))
					}
				},
			})
			if err != nil {
				return err
			}

			if toStdout {
				return writeJSON(cmd, manifest)
			}
			if err := timeline.WriteManifest(target, manifest); err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{
					"manifest": target,
					"clips":    len(manifest.Clips),
					"frames":   len(manifest.Frames),
					"audio":    len(manifest.Audio),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d clips, %d frames, %d audio tracks\n",
				target, len(manifest.Clips), len(manifest.Frames), len(manifest.Audio))
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "manifest.json", "Manifest destination, or - for stdout")
	cmd.Flags().StringVar(&mode, "mode", "", "Analysis mode that sets the sampling interval: speed, balanced or accuracy")
	cmd.Flags().StringVar(&sequence, "sequence", "", "Sequence name recorded in the manifest (default: output file name)")
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Skip waveform extraction")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Bypass the feature cache")
	return cmd
}
