package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"dupsweep/internal/store"
	"dupsweep/internal/timeline"
)

func newTagCommand(ctx *commandContext) *cobra.Command {
	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage clip tags",
		Long: `Manage clip tags.

Clips tagged "preserve" or "keep" are left out of analysis results unless
analyze is run with --include-tagged. Tags are stored per clip id and apply
to every manifest that uses the same id.`,
	}
	tagCmd.AddCommand(newTagAddCommand(ctx))
	tagCmd.AddCommand(newTagRemoveCommand(ctx))
	tagCmd.AddCommand(newTagListCommand(ctx))
	return tagCmd
}

func newTagAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <clip-id> [tag]",
		Short: "Tag a clip (default tag: preserve)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clipID, tag := tagArgs(args)
			return ctx.withStore(func(st *store.Store) error {
				if err := st.AddTag(commandCtx(cmd), clipID, tag); err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"clipId": clipID, "tag": tag, "added": true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tagged %s with %q\n", clipID, tag)
				return nil
			})
		},
	}
}

func newTagRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <clip-id> [tag]",
		Short: "Remove a tag from a clip (default tag: preserve)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clipID, tag := tagArgs(args)
			return ctx.withStore(func(st *store.Store) error {
				removed, err := st.RemoveTag(commandCtx(cmd), clipID, tag)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"clipId": clipID, "tag": tag, "removed": removed})
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s was not tagged %q\n", clipID, tag)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %q from %s\n", tag, clipID)
				return nil
			})
		},
	}
}

func newTagListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list [clip-id]",
		Short: "List clip tags",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clipID := ""
			if len(args) == 1 {
				clipID = args[0]
			}
			return ctx.withStore(func(st *store.Store) error {
				tags, err := st.ListTags(commandCtx(cmd), clipID)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if tags == nil {
						tags = []store.Tag{}
					}
					return writeJSON(cmd, tags)
				}
				out := cmd.OutOrStdout()
				if len(tags) == 0 {
					fmt.Fprintln(out, "No clip tags")
					return nil
				}
				rows := make([][]string, 0, len(tags))
				for _, tag := range tags {
					rows = append(rows, []string{tag.ClipID, tag.Tag, yesNo(timeline.IsPreserveTag(tag.Tag)), humanize.Time(tag.CreatedAt)})
				}
				fmt.Fprintln(out, renderTable([]string{"Clip", "Tag", "Protects", "Added"}, rows, tableOptions{colorize: shouldColorize(out)}))
				return nil
			})
		},
	}
}

func tagArgs(args []string) (string, string) {
	tag := timeline.TagPreserve
	if len(args) > 1 {
		tag = args[1]
	}
	return args[0], tag
}
