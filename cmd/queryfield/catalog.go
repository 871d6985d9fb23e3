package main

import (
	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the catalog of built indexes",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded tables and their indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}

			tables, err := c.List(cmd.Context())
			if err != nil {
				return err
			}

			printTables(cmd.OutOrStdout(), tables)
			return nil
		},
	}

	forgetCmd := &cobra.Command{
		Use:   "forget TABLE",
		Short: "Remove the record of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.catalog()
			if err != nil {
				return err
			}
			return c.Forget(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(listCmd, forgetCmd)

	return cmd
}
