package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/libforge/libforge/internal/app"
)

var (
	configPath string
	outputDir  string
	logFormat  string
	logLevel   string
	workers    int

	appConfig *app.Config
)

// NewRoot builds the root command and its subcommands.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:   "libforge",
		Short: "A declarative driver for native library builds",
		Long: `libforge reads HCL forge files declaring shared libraries, static
libraries, and post-processing archive targets, and drives the external
toolchain to produce them in dependency order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format := strings.ToLower(logFormat)
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid log-format: must be 'text' or 'json'")
			}

			level := strings.ToLower(logLevel)
			switch level {
			case "debug", "info", "warn", "error":
			default:
				return fmt.Errorf("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
			}

			cfg, err := app.NewConfig(app.Config{
				ConfigPath: configPath,
				OutputDir:  outputDir,
				LogFormat:  format,
				LogLevel:   level,
				Workers:    workers,
			})
			if err != nil {
				return err
			}
			appConfig = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "path to a forge .hcl file or a directory of them")
	root.PersistentFlags().StringVar(&outputDir, "output-dir", "", "override the configured output directory")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format: 'text' or 'json'")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "logging level: 'debug', 'info', 'warn', or 'error'")
	root.PersistentFlags().IntVar(&workers, "workers", 4, "number of concurrent build workers")

	root.AddCommand(buildCmd(), graphCmd(), targetsCmd())
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRoot().Execute()
}
