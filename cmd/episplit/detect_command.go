package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"episplit/internal/config"
	"episplit/internal/detect"
	"episplit/internal/logging"
	"episplit/internal/media"
)

// newDetectCommand surfaces boundary detection as a dry run: it scans a
// single file and prints every candidate transition with its score, but
// never cuts anything.
func newDetectCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "detect <file>",
		Short: "Scan one file and show candidate episode boundaries",
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

			tools := media.NewFFmpegToolset(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.ToolTimeout(), logging.NewNop())
			info, err := tools.Probe(cmd.Context(), path)
			if err != nil {
				return err
			}
			if info.DurationSeconds <= 0 {
				return fmt.Errorf("container reports no duration: %s", path)
			}

			params := detect.Params{
				TargetTime:       cfg.Split.TargetTime,
				Margin:           cfg.Split.TimeMargin,
				MinBlackDuration: cfg.Split.MinBlackDuration,
				MaxBlackDuration: cfg.Split.MaxBlackDuration,
			}
			window, usable := detect.ScanWindow(params, info.DurationSeconds)
			if !usable {
				return fmt.Errorf("target time %gs lies outside the %.1fs file", params.TargetTime, info.DurationSeconds)
			}

			runs, err := tools.DetectBlackRuns(cmd.Context(), path, window, media.BlackdetectParams{
				MinDuration:    params.MinBlackDuration,
				PixelThreshold: cfg.Split.DarknessThreshold,
			})
			if err != nil {
				return err
			}
			candidates := detect.Analyze(runs, params)

			if jsonOutput {
				return writeJSON(cmd, candidates)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Scanned %s to %s (%d black run(s), %d candidate(s))\n",
				formatClock(window.Start), formatClock(window.End()), len(runs), len(candidates))
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No usable transition found")
				return nil
			}

			rows := make([][]string, 0, len(candidates))
			for i, cand := range candidates {
				marker := ""
				if i == 0 {
					marker = "*"
				}
				rows = append(rows, []string{
					marker,
					formatClock(cand.Run.Start),
					formatScore(cand.Run.Duration),
					formatScore(cand.TimeScore),
					formatScore(cand.DurationScore),
					formatScore(cand.IsolationScore),
					formatScore(cand.Score),
					formatScore(cand.Confidence),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"", "Start", "Duration", "Time", "Band", "Isolation", "Score", "Confidence"},
				rows,
				rightAligned{2: true, 3: true, 4: true, 5: true, 6: true, 7: true},
			))
			best := candidates[0]
			fmt.Fprintf(out, "Selected cut at %s, resume at %s\n",
				formatClock(best.Run.Start), formatClock(best.Run.End))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit candidates as JSON")
	return cmd
}
