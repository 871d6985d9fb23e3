package main

import (
	"github.com/spf13/cobra"
)

func newSyncCmd(a *app) *cobra.Command {
	var (
		manifest string
		dryRun   bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Record resolved index descriptors in the catalog and print what to build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			results, err := a.resolveManifest(ctx, manifest)
			if err != nil {
				return err
			}

			c, err := a.catalog()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			for _, r := range results {
				if r.Err != nil {
					printFailure(w, r.Name, r.Err)
					continue
				}

				plan, err := c.Plan(ctx, r.Set)
				if !dryRun {
					plan, err = c.Sync(ctx, r.Set)
				}
				if err != nil {
					return err
				}

				printPlan(w, plan, verbose)
			}

			return failed(results)
		},
	}

	cmd.Flags().StringVarP(&manifest, "file", "f", "queryfield.manifest.yaml", "manifest of declared types")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the plan without recording it")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print unchanged indexes too")

	return cmd
}
