package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/app"
	"github.com/libforge/libforge/internal/hcl"
)

func targetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the declared targets and their install locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(os.Stderr, appConfig, hcl.NewLoader())
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, t := range a.Targets() {
				if t.InstallDir != "" {
					fmt.Fprintf(w, "%s\t(install: %s)\n", t.Address(), t.InstallDir)
					continue
				}
				fmt.Fprintln(w, t.Address())
			}
			return nil
		},
	}
}
