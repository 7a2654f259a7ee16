package table

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tbl := New([]string{"Location", "CRS"})
	tbl.Append("Abercynon (formerly Abercynon South)", "ACY")

	err := tbl.Split("Location", func(s string) (string, string) {
		name, note, _ := strings.Cut(s, " (")
		return name, strings.TrimSuffix(note, ")")
	}, "Location", "Location_Note")
	require.NoError(t, err)
	require.Equal(t, []string{"Location", "Location_Note", "CRS"}, tbl.Columns)
	requireRows(t, [][]string{{"Abercynon", "formerly Abercynon South", "ACY"}}, tbl)
}

func TestInsertAndRow(t *testing.T) {
	tbl := New([]string{"ELR", "Mileages"})
	tbl.Append("ECM1", "0.00-12.34")
	tbl.Append("MLN1")

	err := tbl.Insert("ELR", "Length", func(r Row) string {
		return r.Get("Mileages")
	})
	require.NoError(t, err)
	require.Equal(t, []string{"ELR", "Length", "Mileages"}, tbl.Columns)

	var got []string
	tbl.Each(func(r Row) {
		got = append(got, r.Get("Length"))
	})
	require.Equal(t, []string{"0.00-12.34", ""}, got)
}

func TestMissingColumn(t *testing.T) {
	tbl := New([]string{"A"})
	require.ErrorIs(t, tbl.Map("B", strings.ToUpper), ErrNoColumn)
	_, err := tbl.Column("B")
	require.ErrorIs(t, err, ErrNoColumn)
}

func TestIsBlank(t *testing.T) {
	require.True(t, IsBlank(""))
	require.True(t, IsBlank(Placeholder))
	require.True(t, IsBlank(" \n"))
	require.False(t, IsBlank("-"))
}

func TestCanonicalColumns(t *testing.T) {
	tbl := New([]string{"Location", "CRS", "STANOX [notes]", "Station name"})
	tbl.CanonicalColumns("STANOX", "Station", "CRS")
	require.Equal(t, []string{"Location", "CRS", "STANOX", "Station"}, tbl.Columns)
}
