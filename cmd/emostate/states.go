package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/emostate/internal/states"
)

func newStatesCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "states",
		Short: "List the state catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			all := states.All()
			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(all)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCOLOR")
			for _, m := range all {
				fmt.Fprintf(w, "%d\t%s %s\t%s\n", m.ID, m.Icon, m.Name, m.Color)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}
