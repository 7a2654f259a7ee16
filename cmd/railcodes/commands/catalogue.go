package commands

import (
	"railcodes/lib/catalogue"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(catalogueCmd)
}

var catalogueCmd = &cobra.Command{
	Use:   "catalogue [page]",
	Short: "Print the headings and links of an index page, the site's front page by default.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		page := ""
		if len(args) > 0 {
			page = args[0]
		}
		resolver := catalogue.Resolver{Fetcher: s.Fetcher, Store: s.Store, Update: update}
		cat, err := resolver.Resolve(cmd.Context(), page)
		if err != nil {
			return err
		}

		t := newTable()
		t.SetTitle(cat.Source)
		t.AppendHeader(table.Row{"Heading", "URL"})
		for _, e := range cat.Entries {
			t.AppendRow(table.Row{e.Heading, e.URL})
		}
		t.Render()
		return nil
	},
}
