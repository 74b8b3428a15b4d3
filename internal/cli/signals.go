package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/example/signal-worker/internal/detector"
	"github.com/example/signal-worker/internal/signals"
	"github.com/spf13/cobra"
)

func newSignalsCmd(registry detector.Registry) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "List the signals available for evaluation",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := signals.Catalog(registry)
			if err != nil {
				return err
			}

			if asJSON {
				data, err := json.MarshalIndent(catalog, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SIGNAL\tCATEGORY\tNAME")
			for _, id := range catalog {
				fmt.Fprintf(w, "%s\t%s\t%s\n", id.SignalID, id.Category, id.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the catalog as JSON")

	return cmd
}
