package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"episplit/internal/staging"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var maxAge time.Duration
	var listOnly bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Reclaim intermediate files left in the staging directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if listOnly {
				files, err := staging.ListFiles(cfg.Paths.StagingDir)
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintln(out, "Staging directory is empty")
					return nil
				}
				rows := make([][]string, 0, len(files))
				for _, file := range files {
					rows = append(rows, []string{
						file.Name,
						strconv.FormatInt(file.Size, 10),
						file.ModTime.Format(time.RFC3339),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"File", "Bytes", "Modified"},
					rows,
					rightAligned{1: true},
				))
				return nil
			}

			result := staging.CleanStale(cfg.Paths.StagingDir, maxAge, nil)
			fmt.Fprintf(out, "Removed %d staging file(s)\n", len(result.Removed))
			for _, cleanErr := range result.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed to remove %s: %v\n", cleanErr.Path, cleanErr.Error)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d staging file(s) could not be removed", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&maxAge, "max-age", 24*time.Hour, "Only remove files older than this (0 removes everything)")
	cmd.Flags().BoolVar(&listOnly, "list", false, "List staging files without removing anything")
	return cmd
}
