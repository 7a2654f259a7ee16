package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(keysCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <cluster> <key>",
	Short: "Print the cached records of one key of a cluster.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runner, err := findRunner(s.Registry, args[0])
		if err != nil {
			return err
		}
		records, err := runner.Table(cmd.Context(), args[1])
		if err != nil {
			return fmt.Errorf("%s %q is not cached, collect it first: %w", runner.Name(), args[1], err)
		}

		t := newTable()
		header := make(table.Row, len(records.Columns))
		for i, col := range records.Columns {
			header[i] = col
		}
		t.AppendHeader(header)
		for _, cells := range records.Rows {
			row := make(table.Row, len(cells))
			for i, cell := range cells {
				row[i] = cell
			}
			t.AppendRow(row)
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d records", records.Len())})
		t.Render()
		return nil
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys <cluster>",
	Short: "List the keys a cluster is collected under.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		runner, err := findRunner(s.Registry, args[0])
		if err != nil {
			return err
		}
		keys, err := runner.Keys(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable()
		t.AppendHeader(table.Row{runner.Name()})
		for _, k := range keys {
			t.AppendRow(table.Row{k})
		}
		t.Render()
		return nil
	},
}
