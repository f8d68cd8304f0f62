package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"episplit/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check the external tools episplit depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.Check(cfg)
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				detail := status.Detail
				if status.Available {
					detail = status.Description
				}
				rows = append(rows, []string{
					status.Name,
					status.Command,
					yesNo(status.Available),
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Dependency", "Command", "Available", "Detail"},
				rows,
				rightAligned{},
			))

			if !deps.AllAvailable(statuses) {
				return fmt.Errorf("required external tools are missing")
			}
			return nil
		},
	}
}
