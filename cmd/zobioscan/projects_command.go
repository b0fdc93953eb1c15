package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects available in the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.vaultClient()
			if err != nil {
				return err
			}
			projects, err := client.ListProjects(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, projects)
			}

			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects available")
				return nil
			}

			rows := make([][]string, 0, len(projects))
			for _, project := range projects {
				rows = append(rows, []string{strconv.FormatInt(project.ID, 10), project.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name"},
				rows,
				[]columnAlignment{alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
