package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"episplit/internal/config"
	"episplit/internal/deps"
	"episplit/internal/logging"
	"episplit/internal/media"
	"episplit/internal/queue"
	"episplit/internal/report"
	"episplit/internal/workflow"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var reportPath string
	var noCatalog bool

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Split every recognized file in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.Check(cfg)
			if !deps.AllAvailable(statuses) {
				for _, status := range statuses {
					if !status.Available && !status.Optional {
						fmt.Fprintf(cmd.ErrOrStderr(), "missing dependency %s: %s\n", status.Name, status.Detail)
					}
				}
				return fmt.Errorf("required external tools are unavailable; run `episplit deps` for details")
			}

			signalCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			runStamp := time.Now().UTC().Format("20060102T150405Z")
			logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("episplit-%s.log", runStamp))
			logger, err := logging.New(logging.Options{
				Level:            cfg.Logging.Level,
				Format:           cfg.Logging.Format,
				OutputPaths:      []string{"stderr", logPath},
				ErrorOutputPaths: []string{"stderr", logPath},
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			cat, loaded, err := ctx.loadCatalog()
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			if !loaded {
				if !noCatalog {
					return fmt.Errorf("catalog file %s not found; create one with `episplit catalog convert` or pass --no-catalog to run on filename metadata alone",
						cfg.Paths.CatalogPath)
				}
				logger.Warn("running without a catalog; episode names come from filenames only",
					logging.String("catalog_path", cfg.Paths.CatalogPath))
			}

			return ctx.withStore(func(_ *config.Config, store *queue.Store) error {
				tools := media.NewFFmpegToolset(cfg.FFmpegBinary(), cfg.FFprobeBinary(), cfg.ToolTimeout(), logger)
				runner := workflow.NewRunner(cfg, store, tools, cat, logger)

				rep, err := runner.Run(signalCtx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if jsonOutput {
					if err := rep.WriteJSON(out); err != nil {
						return err
					}
				} else {
					printReport(out, rep)
				}
				if reportPath != "" {
					if err := writeReportFile(reportPath, rep); err != nil {
						return err
					}
					fmt.Fprintf(out, "Report written to %s\n", reportPath)
				}

				// Per-file failures stay in the report; only an
				// interrupted run is a run-level outcome.
				if rep.Pending > 0 {
					return fmt.Errorf("run stopped with %d file(s) unfinished", rep.Pending)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the run report as JSON")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also write the JSON run report to this path")
	cmd.Flags().BoolVar(&noCatalog, "no-catalog", false, "Run without an episode catalog, naming outputs from filenames alone")
	return cmd
}

func printReport(out io.Writer, rep report.Report) {
	rows := make([][]string, 0, len(rep.Entries))
	for _, entry := range rep.Entries {
		detail := ""
		switch {
		case entry.Error != "":
			detail = entry.Error
		case len(entry.Outputs) > 0:
			names := make([]string, 0, len(entry.Outputs))
			for _, output := range entry.Outputs {
				names = append(names, baseName(output))
			}
			detail = strings.Join(names, ", ")
		}
		boundary := ""
		if entry.Outcome == report.OutcomeSplit {
			boundary = formatClock(entry.Boundary)
			if entry.HardCut {
				boundary += " (hard cut)"
			}
		}
		rows = append(rows, []string{
			baseName(entry.Source),
			string(entry.Outcome),
			boundary,
			detail,
		})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"Source", "Outcome", "Boundary", "Detail"},
			rows,
			rightAligned{2: true},
		))
	}
	fmt.Fprintf(out, "Run %s: %d split, %d copied, %d no boundary, %d failed, %d pending\n",
		rep.RunID, rep.Split, rep.Copied, rep.NoBoundary, rep.Failed, rep.Pending)
}

func writeReportFile(path string, rep report.Report) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(expanded)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer file.Close()
	return rep.WriteJSON(file)
}
