package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/app"
	"github.com/libforge/libforge/internal/hcl"
)

func graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the target dependency graph in DOT format",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(os.Stderr, appConfig, hcl.NewLoader())
			if err != nil {
				return err
			}
			return a.WriteDOT(cmd.Context(), cmd.OutOrStdout())
		},
	}
}
