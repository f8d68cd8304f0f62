package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"episplit/internal/config"
	"episplit/internal/media/ffprobe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "probe <file>",
		Short: "Inspect a media container with ffprobe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}

			result, err := ffprobe.Inspect(cmd.Context(), cfg.FFprobeBinary(), path)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			duration, ok := result.DurationSeconds()
			durationText := "unknown"
			if ok {
				durationText = formatClock(duration)
			}
			fmt.Fprintf(out, "File:     %s\n", path)
			fmt.Fprintf(out, "Duration: %s\n", durationText)
			fmt.Fprintf(out, "Video:    %d stream(s)\n", result.VideoStreamCount())
			fmt.Fprintf(out, "Audio:    %d stream(s)\n", result.AudioStreamCount())
			if size := result.SizeBytes(); size > 0 {
				fmt.Fprintf(out, "Size:     %d bytes\n", size)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit raw probe data as JSON")
	return cmd
}
