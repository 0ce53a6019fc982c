package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/app"
	"github.com/libforge/libforge/internal/hcl"
)

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build every target in the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(os.Stderr, appConfig, hcl.NewLoader())
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}
}
