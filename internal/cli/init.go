package cli

import (
	"fmt"

	"github.com/example/signal-worker/internal/config"
	"github.com/example/signal-worker/internal/detector"
	"github.com/example/signal-worker/internal/page"
	"github.com/spf13/cobra"
)

func newInitCmd(loader *config.Loader, registry detector.Registry) *cobra.Command {
	flags := &runtimeFlagSet{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Validate the execution environment and configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := flags.toOverrides(cmd)
			cfg, err := loader.Load(overrides)
			if err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := ensureOutputDir(cfg.OutputDir); err != nil {
				return err
			}

			dets, err := registry.BuildDetectors(cfg.Signals)
			if err != nil {
				return err
			}

			for _, target := range cfg.Targets {
				if !page.IsFixture(target) {
					continue
				}
				if _, err := page.LoadFixture(target); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Environment looks good. %d signal(s) ready; output will be stored in %s\n", len(dets), cfg.OutputDir)
			return nil
		},
	}

	bindRuntimeFlags(cmd, flags)

	return cmd
}
