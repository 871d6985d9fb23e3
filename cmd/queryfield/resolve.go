package main

import (
	"github.com/octohelm/queryfield/internal/catalog"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		manifest string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the index descriptors of every type in a manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.resolveManifest(cmd.Context(), manifest)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			if asJSON {
				records := make([]catalog.TableRecord, 0, len(results))
				for _, r := range results {
					if r.Err == nil {
						records = append(records, catalog.Describe(r.Set))
					}
				}
				if err := printJSON(w, records); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if r.Err != nil {
						printFailure(w, r.Name, r.Err)
						continue
					}
					printSet(w, r.Set)
				}
			}

			return failed(results)
		},
	}

	cmd.Flags().StringVarP(&manifest, "file", "f", "queryfield.manifest.yaml", "manifest of declared types")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as json")

	return cmd
}
