package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"episplit/internal/catalog"
	"episplit/internal/config"
	"episplit/internal/matching"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Maintain the episode catalog",
	}

	catalogCmd.AddCommand(newCatalogConvertCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogMatchCommand(ctx))

	return catalogCmd
}

func newCatalogConvertCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "convert <listing.txt>",
		Short: "Convert a freeform episode listing into catalog CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			source, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(source)
			if err != nil {
				return fmt.Errorf("read listing: %w", err)
			}

			result, err := catalog.Ingest(string(raw))
			if err != nil {
				return fmt.Errorf("ingest listing: %w", err)
			}

			target := strings.TrimSpace(outputPath)
			if target == "" {
				target = cfg.Paths.CatalogPath
			} else {
				target, err = config.ExpandPath(target)
				if err != nil {
					return err
				}
			}
			if err := catalog.Save(result.Catalog, target); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recognized %q layout: %d episode(s) written to %s\n",
				result.Layout, result.Catalog.Len(), target)
			for _, dup := range result.Duplicates {
				fmt.Fprintf(out, "Duplicate entry for %s; kept the first occurrence\n", dup)
			}
			if result.Skipped > 0 {
				fmt.Fprintf(out, "Skipped %d unparseable line(s)\n", result.Skipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Destination CSV path (defaults to the configured catalog)")
	return cmd
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the episodes in the configured catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, loaded, err := ctx.loadCatalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !loaded || cat.Len() == 0 {
				fmt.Fprintln(out, "Catalog is empty")
				return nil
			}

			rows := make([][]string, 0, cat.Len())
			for _, rec := range cat.Records() {
				rows = append(rows, []string{
					strconv.Itoa(rec.Season),
					strconv.Itoa(rec.Episode),
					rec.Title,
					rec.Code,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Season", "Episode", "Title", "Code"},
				rows,
				rightAligned{0: true, 1: true},
			))
			return nil
		},
	}
}

// newCatalogMatchCommand resolves a filename or a bare title against the
// catalog, showing what the matching stage would decide.
func newCatalogMatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "match <filename or title>",
		Short: "Resolve a filename or title against the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, _, err := ctx.loadCatalog()
			if err != nil {
				return err
			}
			matcher := matching.NewMatcher(cat, cfg.Matching.FuzzyThreshold)
			out := cmd.OutOrStdout()

			if parsed, parseErr := matching.ParseFilename(args[0]); parseErr == nil {
				printMatch := func(label string, season, episode int, title string) error {
					match, err := matcher.Resolve(season, episode, title)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%s: %s (score %s, exact %s, fallback %s)\n",
						label, match.Record.Key(), formatScore(match.Score),
						yesNo(match.Exact), yesNo(match.Fallback))
					if match.Record.Title != "" {
						fmt.Fprintf(out, "  Title: %s\n", match.Record.Title)
					}
					return nil
				}
				if err := printMatch("First episode", parsed.Season, parsed.FirstEpisode, parsed.FirstTitle); err != nil {
					return err
				}
				if parsed.IsDouble() {
					return printMatch("Second episode", parsed.Season, parsed.SecondEpisode, parsed.SecondTitle)
				}
				return nil
			}

			match, ok, err := matcher.MatchTitle(args[0])
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "No catalog title within threshold %.2f\n", cfg.Matching.FuzzyThreshold)
				return nil
			}
			fmt.Fprintf(out, "Best match: %s - %s (score %s)\n",
				match.Record.Key(), match.Record.Title, formatScore(match.Score))
			return nil
		},
	}
}
