package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupsweep/internal/store"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect and manage saved analysis runs",
		Long: `Inspect and manage saved analysis runs.

Run ids may be abbreviated to any unique prefix.

Commands:
  list     - List saved runs, newest first
  show     - Show the duplicate pairs of one run
  delete   - Delete a run`,
	}

	runsCmd.AddCommand(newRunsListCommand(ctx))
	runsCmd.AddCommand(newRunsShowCommand(ctx))
	runsCmd.AddCommand(newRunsDeleteCommand(ctx))
	return runsCmd
}

func newRunsListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				runs, err := st.ListRuns(commandCtx(cmd), limit)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if runs == nil {
						runs = []store.RunSummary{}
					}
					return writeJSON(cmd, runs)
				}

				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No saved runs")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						humanize.Time(run.CreatedAt),
						run.Sequence,
						strconv.Itoa(run.PairCount),
						run.ManifestPath,
					})
				}
				headers := []string{"ID", "Created", "Sequence", "Pairs", "Manifest"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}
				fmt.Fprintln(out, renderTable(headers, rows, tableOptions{aligns: aligns, colorize: shouldColorize(out)}))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func newRunsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the duplicate pairs of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				runCtx := commandCtx(cmd)
				id, err := resolveRun(cmd, st, args[0])
				if err != nil {
					return err
				}
				run, err := st.GetRun(runCtx, id)
				if err != nil {
					return err
				}
				if run == nil {
					return fmt.Errorf("run %s not found", args[0])
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, run)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:       %s\n", run.ID)
				fmt.Fprintf(out, "Created:   %s (%s)\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.CreatedAt))
				fmt.Fprintf(out, "Sequence:  %s\n", run.Sequence)
				fmt.Fprintf(out, "Manifest:  %s\n", run.ManifestPath)
				fmt.Fprintf(out, "Threshold: %d%%  Min duration: %s  Mode: %s\n",
					run.Options.SimilarityThreshold, formatSeconds(run.Options.MinDuration), run.Options.AnalysisMode)
				fmt.Fprintf(out, "Frames: %d  Matches: %d  Candidates: %d  Dropped (duration/tags): %d/%d\n",
					run.Stats.Frames, run.Stats.Matches, run.Stats.CandidatePairs, run.Stats.DroppedByDuration, run.Stats.DroppedByTags)
				if len(run.Segments) > 0 {
					writeSegmentTable(out, run.Segments, shouldColorize(out))
				}
				fmt.Fprintln(out, pairSummary(len(run.Segments)/2))
				return nil
			})
		},
	}
}

func newRunsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(st *store.Store) error {
				id, err := resolveRun(cmd, st, args[0])
				if err != nil {
					return err
				}
				deleted, err := st.DeleteRun(commandCtx(cmd), id)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("run %s not found", args[0])
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"id": id, "deleted": true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", shortID(id))
				return nil
			})
		},
	}
}

func resolveRun(cmd *cobra.Command, st *store.Store, prefix string) (string, error) {
	id, err := st.ResolveRunID(commandCtx(cmd), prefix)
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		return "", fmt.Errorf("run %s not found", prefix)
	case errors.Is(err, store.ErrAmbiguousRunID):
		return "", fmt.Errorf("run id %q matches more than one run; use a longer prefix", prefix)
	case err != nil:
		return "", err
	}
	return id, nil
}
