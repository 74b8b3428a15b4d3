package cli

import (
	"github.com/example/signal-worker/internal/config"
	"github.com/example/signal-worker/internal/detector"
	"github.com/example/signal-worker/internal/signals"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X".
var version = "dev"

// Execute builds the root command tree and runs the CLI.
func Execute() error {
	return newRootCmd(signals.DefaultRegistry).Execute()
}

func newRootCmd(registry detector.Registry) *cobra.Command {
	loader := &config.Loader{ConfigPath: config.DefaultConfigPath}
	rootOpts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "signal-worker",
		Short:         "Evaluate web pages against the signal detector catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}
	rootCmd.SetVersionTemplate("signal-worker version {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", config.DefaultConfigPath, "Path to signal-worker.config.yml (optional)")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if rootOpts.ConfigPath != "" {
			loader.ConfigPath = rootOpts.ConfigPath
		}
	}

	rootCmd.AddCommand(
		newInitCmd(loader, registry),
		newScanCmd(loader, registry),
		newDoctorCmd(loader, registry),
		newReportCmd(),
		newSignalsCmd(registry),
	)

	return rootCmd
}

type rootOptions struct {
	ConfigPath string
}
