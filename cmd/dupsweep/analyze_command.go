package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dupsweep/internal/config"
	"dupsweep/internal/detector"
	"dupsweep/internal/logging"
	"dupsweep/internal/store"
	"dupsweep/internal/timeline"
)

type analyzeFlags struct {
	threshold     int
	minDuration   float64
	noHistogram   bool
	noMotion      bool
	noAudio       bool
	includeTagged bool
	mode          string
	sortOrder     string
	noSave        bool
}

type analyzeOutput struct {
	RunID    string                      `json:"runId,omitempty"`
	Manifest string                      `json:"manifest"`
	Sequence string                      `json:"sequence,omitempty"`
	Options  detector.Options            `json:"options"`
	Stats    detector.Stats              `json:"stats"`
	Pairs    int                         `json:"pairs"`
	Segments []timeline.DuplicateSegment `json:"segments"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var flags analyzeFlags

	cmd := &cobra.Command{
		Use:   "analyze <manifest.json>",
		Short: "Detect duplicate footage in a timeline manifest",
		Long: `Detect duplicate footage in a timeline manifest.

Options default to the [analysis] section of the configuration file; flags
override individual settings for this run. Results are saved as a run unless
--no-save is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts, err := analyzeOptions(cmd, cfg, flags)
			if err != nil {
				return err
			}

			manifestPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve manifest path: %w", err)
			}
			manifest, err := timeline.LoadManifest(manifestPath)
			if err != nil {
				return err
			}
			if err := manifest.Validate(); err != nil {
				return err
			}

			var st *store.Store
			if !flags.noSave || opts.IgnoreTaggedClips {
				st, err = ctx.openStore()
				if err != nil {
					return err
				}
				defer st.Close()
			}

			var checkers []timeline.TagChecker
			checkers = append(checkers, timeline.NewManifestTags(manifest.Clips))
			if st != nil {
				checkers = append(checkers, st)
			}

			runID := uuid.NewString()
			runCtx := logging.WithRunID(commandCtx(cmd), runID)
			det := detector.Detector{
				Tags:   timeline.AnyTagChecker(checkers...),
				Logger: logging.WithContext(runCtx, logger),
			}
			result, err := det.Detect(runCtx, detector.InputFromManifest(manifest), opts)
			if err != nil {
				return err
			}

			segments, err := sortSegments(result.Segments, flags.sortOrder)
			if err != nil {
				return err
			}

			output := analyzeOutput{
				Manifest: manifestPath,
				Sequence: manifest.Sequence,
				Options:  opts,
				Stats:    result.Stats,
				Pairs:    result.Pairs(),
				Segments: segments,
			}
			if !flags.noSave {
				saved, err := st.SaveRun(runCtx, store.RunRecord{
					ID:           runID,
					ManifestPath: manifestPath,
					Sequence:     manifest.Sequence,
					Options:      opts,
					Stats:        result.Stats,
					Segments:     result.Segments,
				})
				if err != nil {
					return err
				}
				output.RunID = saved.ID
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, output)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sequence: %s\n", manifest.Sequence)
			fmt.Fprintf(out, "Threshold: %d%%  Min duration: %s  Mode: %s  Audio: %s\n",
				opts.SimilarityThreshold, formatSeconds(opts.MinDuration), opts.AnalysisMode, yesNo(opts.UseAudioAnalysis))
			if len(segments) > 0 {
				writeSegmentTable(out, segments, shouldColorize(out))
			}
			summary := pairSummary(output.Pairs)
			if output.RunID != "" {
				summary += fmt.Sprintf(" (run %s)", shortID(output.RunID))
			}
			fmt.Fprintln(out, summary)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.threshold, "threshold", detector.DefaultOptions().SimilarityThreshold, "Similarity threshold in percent (0-100)")
	f.Float64Var(&flags.minDuration, "min-duration", detector.DefaultOptions().MinDuration, "Minimum duplicate length in seconds")
	f.BoolVar(&flags.noHistogram, "no-histogram", false, "Disable color histogram comparison")
	f.BoolVar(&flags.noMotion, "no-motion", false, "Disable motion vector comparison")
	f.BoolVar(&flags.noAudio, "no-audio", false, "Skip audio cross-correlation refinement")
	f.BoolVar(&flags.includeTagged, "include-tagged", false, "Report clips tagged preserve or keep")
	f.StringVar(&flags.mode, "mode", "", "Analysis mode: speed, balanced or accuracy")
	f.StringVar(&flags.sortOrder, "sort", "detection", "Pair order: detection or start")
	f.BoolVar(&flags.noSave, "no-save", false, "Do not record this run in the state database")
	return cmd
}

// analyzeOptions starts from the configured defaults and applies only the
// flags the user set explicitly.
func analyzeOptions(cmd *cobra.Command, cfg *config.Config, flags analyzeFlags) (detector.Options, error) {
	opts := optionsFromConfig(cfg)
	changed := cmd.Flags().Changed
	if changed("threshold") {
		opts.SimilarityThreshold = flags.threshold
	}
	if changed("min-duration") {
		opts.MinDuration = flags.minDuration
	}
	if flags.noHistogram {
		opts.UseHistogramComparison = false
	}
	if flags.noMotion {
		opts.UseMotionTracking = false
	}
	if flags.noAudio {
		opts.UseAudioAnalysis = false
	}
	if flags.includeTagged {
		opts.IgnoreTaggedClips = false
	}
	if changed("mode") {
		opts.AnalysisMode = detector.AnalysisMode(strings.TrimSpace(flags.mode))
	}
	if err := opts.Validate(); err != nil {
		return detector.Options{}, err
	}
	return opts, nil
}

func optionsFromConfig(cfg *config.Config) detector.Options {
	if cfg == nil {
		return detector.DefaultOptions()
	}
	a := cfg.Analysis
	return detector.Options{
		SimilarityThreshold:    a.SimilarityThreshold,
		MinDuration:            a.MinDuration,
		UseHistogramComparison: a.UseHistogramComparison,
		UseMotionTracking:      a.UseMotionTracking,
		UseAudioAnalysis:       a.UseAudioAnalysis,
		IgnoreTaggedClips:      a.IgnoreTaggedClips,
		AnalysisMode:           detector.AnalysisMode(a.Mode),
	}
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
