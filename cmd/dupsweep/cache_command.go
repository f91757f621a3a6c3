package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"dupsweep/internal/featurecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the extracted feature cache",
	}
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached feature entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			cache := featurecache.New(cfg.FeatureCacheDir(), logger)
			if !cache.Enabled() {
				fmt.Fprintln(cmd.OutOrStdout(), "Feature cache is disabled")
				return nil
			}
			removed, err := cache.Clear()
			if err != nil {
				return err
			}
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"dir": cache.Dir(), "removed": removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached entries from %s\n", removed, cache.Dir())
			return nil
		},
	})
	return cacheCmd
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove cached features older than --older-than",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			result := featurecache.New(cfg.FeatureCacheDir(), logger).Prune(olderThan)
			if ctx.JSONMode() {
				return writeJSON(cmd, map[string]any{"removed": len(result.Removed), "errors": len(result.Errors)})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d stale cache entries\n", len(result.Removed))
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d cache entries could not be removed (first: %s: %v)",
					len(result.Errors), result.Errors[0].Path, result.Errors[0].Error)
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "Age beyond which entries are removed")
	return cmd
}
