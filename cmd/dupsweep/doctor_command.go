package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"dupsweep/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and external tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			results := preflight.RunAll(commandCtx(cmd), cfg)
			failed := preflight.Failed(results)

			if ctx.JSONMode() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(results))
				for _, result := range results {
					rows = append(rows, []string{result.Name, doctorStatus(result), result.Detail})
				}
				fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, tableOptions{
					colorize:    shouldColorize(out),
					colorColumn: 1,
					colorFor:    statusColors,
				}))
			}

			if len(failed) > 0 {
				return fmt.Errorf("%d required check(s) failed", len(failed))
			}
			return nil
		},
	}
}

func doctorStatus(result preflight.Result) string {
	switch {
	case result.Passed:
		return "OK"
	case result.Optional:
		return "WARN"
	default:
		return "FAIL"
	}
}
