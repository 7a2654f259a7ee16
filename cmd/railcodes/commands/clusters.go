package commands

import (
	"railcodes/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(clustersCmd)
}

var clustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "List the clusters that can be collected.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		t := newTable()
		t.AppendHeader(table.Row{"Cluster", "Slug"})
		for _, name := range s.Registry.Names() {
			t.AppendRow(table.Row{name, textutil.CacheName(name)})
		}
		t.Render()
		return nil
	},
}
