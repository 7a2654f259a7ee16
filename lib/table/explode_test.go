package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExplode(t *testing.T) {
	tbl := New([]string{"Location", "CRS", "NLC", "Region"})
	tbl.Append("Abbey Wood", "ABW", "5131", "London")
	tbl.Append("Acton Main Line\nActon Main Line GBRf", "AML\nAMX\nAMY", "3070", "London")
	tbl.Append("Aber", "ABE&&&ABX", "3981\n3982", "Wales")
	tbl.Append("Achnasheen", "ACN\nACH", "5600\r\n5601\r\n5602", "Scotland")

	out, err := Explode(tbl, ExplodeOptions{
		Columns:    []string{"Location", "CRS", "NLC"},
		NameColumn: "Location",
	})
	require.NoError(t, err)
	requireRows(t, [][]string{
		{"Abbey Wood", "ABW", "5131", "London"},
		{"Acton Main Line", "AML", "3070", "London"},
		{"Acton Main Line GBRf", "AMX", "3070", "London"},
		{"Acton Main Line GBRf", "AMY", "3070", "London"},
		{"Aber", "ABE", "3981", "Wales"},
		{"Aber", "ABX", "3982", "Wales"},
		{"Achnasheen", "ACN", "5600", "Scotland"},
		{"Achnasheen", "ACH", "5601", "Scotland"},
		{"Achnasheen", "", "5602", "Scotland"},
	}, out)
}

func TestExplodeRoundTrip(t *testing.T) {
	sources := []string{
		"ABW",
		"AML\nAMX",
		"A1\nB2\nC3\nD4",
		"X&&&Y&&&Z",
	}

	for _, source := range sources {
		tbl := New([]string{"Name", "Code"})
		tbl.Append("N", source)

		m := Multiplicity(source, DefaultDelimiter)
		out, err := Explode(tbl, ExplodeOptions{Columns: []string{"Code"}})
		require.NoError(t, err)
		require.Equal(t, m, out.Len(), source)

		codes, err := out.Column("Code")
		require.NoError(t, err)
		joined := strings.Join(codes, "\n")
		require.Equal(t, DefaultDelimiter.ReplaceAllString(source, "\n"), joined)
	}
}

func TestExplodeUnknownColumn(t *testing.T) {
	tbl := New([]string{"Name"})
	_, err := Explode(tbl, ExplodeOptions{Columns: []string{"Code"}})
	require.ErrorIs(t, err, ErrNoColumn)
}

func TestEndToEndRowspanAndMultiValue(t *testing.T) {
	doc := parseFixture(t, `<table>
		<tr><th>Location</th><th>CRS</th></tr>
		<tr><td rowspan="2">Abbey Wood</td><td>ABW<br>ABX</td></tr>
		<tr><td>ABY</td></tr>
		<tr><td>Aber</td><td>ABE</td></tr>
	</table>`)

	tbl := ParseTable(doc.Find("table"), Options{LineBreak: "\n"})
	out, err := Explode(tbl, ExplodeOptions{
		Columns:    []string{"Location", "CRS"},
		NameColumn: "Location",
	})
	require.NoError(t, err)
	requireRows(t, [][]string{
		{"Abbey Wood", "ABW"},
		{"Abbey Wood", "ABX"},
		// copied down by the rowspan
		{"Abbey Wood", "ABY"},
		{"Aber", "ABE"},
	}, out)
}

func TestMarkMultiValues(t *testing.T) {
	tbl := New([]string{"ELR", "Mileage"})
	tbl.Append("ECM1 / ECM2", "12.34 / 0.10")
	require.NoError(t, tbl.MarkMultiValues([]string{"ELR", "Mileage"}, " / "))

	out, err := Explode(tbl, ExplodeOptions{Columns: []string{"ELR", "Mileage"}})
	require.NoError(t, err)
	requireRows(t, [][]string{{"ECM1", "12.34"}, {"ECM2", "0.10"}}, out)
}
