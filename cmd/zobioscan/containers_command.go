package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/florisjonkman/Zobioweb/internal/catalog"
	"github.com/florisjonkman/Zobioweb/internal/config"
)

func newContainersCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "containers",
		Short: "List the configured container types",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cat, err := catalogFromConfig(cfg.Containers)
			if err != nil {
				return err
			}
			types := cat.Types()

			if jsonOutput {
				return writeJSON(cmd, types)
			}

			rows := make([][]string, 0, len(types))
			for _, t := range types {
				rows = append(rows, []string{
					t.Name,
					strconv.Itoa(t.Rows),
					strconv.Itoa(t.Columns),
					strconv.Itoa(t.Capacity()),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Rows", "Columns", "Capacity"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func catalogFromConfig(entries []config.Container) (*catalog.Catalog, error) {
	if len(entries) == 0 {
		return catalog.Default(), nil
	}
	types := make([]catalog.ContainerType, 0, len(entries))
	for _, entry := range entries {
		types = append(types, catalog.ContainerType{
			Name:    entry.Name,
			Rows:    entry.Rows,
			Columns: entry.Columns,
		})
	}
	return catalog.New(types)
}
