package main

import (
	"context"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var Version = "dev"

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "queryfield",
		Short:         "Resolve index descriptors of query fields",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default ./queryfield.yaml)")
	rootCmd.PersistentFlags().BoolVar(&color.NoColor, "no-color", color.NoColor, "disable colored output")

	rootCmd.AddCommand(
		newResolveCmd(a),
		newSyncCmd(a),
		newCatalogCmd(a),
	)

	return rootCmd
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	a := &app{}
	defer a.teardown(ctx)

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)

	return cmd.ExecuteContext(ctx)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
