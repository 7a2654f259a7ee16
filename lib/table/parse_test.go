package table

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func parseFixture(t *testing.T, body string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func requireRows(t *testing.T, expected [][]string, tbl *Table) {
	t.Helper()
	if diff := cmp.Diff(expected, tbl.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRowsRowspan(t *testing.T) {
	cases := []struct {
		name     string
		rows     string
		expected [][]string
	}{
		{
			name: "omitted cell is inserted",
			rows: `<tr><td rowspan="2">x</td><td>1</td><td>2</td></tr>
				<tr><td>3</td><td>4</td></tr>`,
			expected: [][]string{{"x", "1", "2"}, {"x", "3", "4"}},
		},
		{
			name: "blank cell in a full row is overwritten",
			rows: `<tr><td rowspan="2">x</td><td>1</td><td>2</td></tr>
				<tr><td></td><td>3</td><td>4</td></tr>`,
			expected: [][]string{{"x", "1", "2"}, {"x", "3", "4"}},
		},
		{
			name: "populated cell in a full row keeps its value second",
			rows: `<tr><td rowspan="2">x</td><td>1</td><td>2</td></tr>
				<tr><td>y</td><td>3</td><td>4</td></tr>`,
			expected: [][]string{{"x", "1", "2"}, {"x / y", "3", "4"}},
		},
		{
			name: "spans from different rows resolve to their real columns",
			rows: `<tr><td rowspan="3">A</td><td>B</td><td>C</td></tr>
				<tr><td rowspan="2">D</td><td>E</td></tr>
				<tr><td>F</td></tr>`,
			expected: [][]string{{"A", "B", "C"}, {"A", "D", "E"}, {"A", "D", "F"}},
		},
		{
			name: "middle column span",
			rows: `<tr><td>1</td><td rowspan="2">mid</td><td>2</td></tr>
				<tr><td>3</td><td>4</td></tr>`,
			expected: [][]string{{"1", "mid", "2"}, {"3", "mid", "4"}},
		},
		{
			name:     "span past the last row is ignored",
			rows:     `<tr><td rowspan="4">x</td><td>1</td><td>2</td></tr>`,
			expected: [][]string{{"x", "1", "2"}},
		},
		{
			name: "short rows are padded and header rows dropped",
			rows: `<tr><th>A</th><th>B</th><th>C</th></tr>
				<tr><td>only</td></tr>`,
			expected: [][]string{{"only", Placeholder, Placeholder}},
		},
		{
			name:     "extra cells are truncated",
			rows:     `<tr><td>1</td><td>2</td><td>3</td><td>4</td></tr>`,
			expected: [][]string{{"1", "2", "3"}},
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			doc := parseFixture(t, "<table>"+test.rows+"</table>")
			tbl := ParseRows([]string{"A", "B", "C"}, doc.Find("tr"), Options{})
			requireRows(t, test.expected, tbl)
		})
	}
}

func TestParseRowsShape(t *testing.T) {
	random := rand.New(rand.NewSource(7))

	for iteration := 0; iteration < 200; iteration++ {
		width := random.Intn(5) + 1
		rowCount := random.Intn(8) + 1

		var b strings.Builder
		b.WriteString("<table>")
		for r := 0; r < rowCount; r++ {
			b.WriteString("<tr>")
			tds := random.Intn(width+1) + 1
			for c := 0; c < tds; c++ {
				span := 1
				if random.Intn(3) == 0 {
					span = random.Intn(4) + 1
				}
				fmt.Fprintf(&b, `<td rowspan="%d">r%dc%d</td>`, span, r, c)
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")

		headers := make([]string, width)
		for i := range headers {
			headers[i] = fmt.Sprintf("h%d", i)
		}

		doc := parseFixture(t, b.String())
		tbl := ParseRows(headers, doc.Find("tr"), Options{})
		require.Equal(t, rowCount, tbl.Len(), b.String())
		for _, row := range tbl.Rows {
			require.Len(t, row, width, b.String())
		}
	}
}

func TestNormalizeWidth(t *testing.T) {
	row := normalizeWidth([]string{"a", "b", "x", "c"}, 3)
	require.Equal(t, []string{"a", "b", "x"}, row)

	row = normalizeWidth([]string{"a"}, 2)
	require.Equal(t, []string{"a", Placeholder}, row)
}

func TestParseRowsSpuriousColumn(t *testing.T) {
	doc := parseFixture(t, `<table>
		<tr><td>a</td><td>b</td><td>&nbsp;</td><td>c</td><td>d</td></tr>
		<tr><td>a</td><td>b</td><td>x</td><td>c</td><td>d</td></tr>
		<tr><td>a</td><td>b</td><td></td><td>c</td></tr>
		<tr><td rowspan="2">e</td><td>f</td><td> </td><td>g</td><td>h</td></tr>
		<tr><td>i</td><td>j</td></tr>
	</table>`)

	tbl := ParseRows([]string{"h0", "h1", "h2"}, doc.Find("tr"), Options{})
	requireRows(t, [][]string{
		{"a", "b", "c"},
		// a non blank third cell is kept and the row truncated
		{"a", "b", "x"},
		// one cell too long is only truncated
		{"a", "b", ""},
		{"e", "f", "g"},
		{"e", "i", "j"},
	}, tbl)
}

func TestParseTable(t *testing.T) {
	doc := parseFixture(t, `<table>
		<tr><th>Location</th><th>CRS <em>code</em></th></tr>
		<tr><td>Abercynon <em>formerly Abercynon South</em></td><td>ACY</td></tr>
		<tr><td><q>Aber</q></td><td>ABE<br>ABX</td></tr>
	</table>`)

	tbl := ParseTable(doc.Find("table"), Options{})
	require.Equal(t, []string{"Location", "CRS [code]"}, tbl.Columns)
	requireRows(t, [][]string{
		{"Abercynon [formerly Abercynon South]", "ACY"},
		{`"Aber"`, "ABE / ABX"},
	}, tbl)
}

func TestParseTableMissing(t *testing.T) {
	doc := parseFixture(t, `<p>no tables today</p>`)
	tbl := ParseTable(doc.Find("table"), Options{})
	require.True(t, tbl.Empty())
	require.Equal(t, 0, tbl.Len())
}

func TestParseTables(t *testing.T) {
	doc := parseFixture(t, `
		<h3>Hot axle box detectors (HABD)</h3>
		<table><tr><th>ELR</th><th>Mileage</th></tr><tr><td>ECM1</td><td>12.34</td></tr></table>
		<h3>Wheel impact load detectors (WILD)</h3>
		<table><tr><th>ELR</th><th>Mileage</th></tr><tr><td>MLN1</td><td>5.06</td></tr></table>`)

	tables := ParseTables(doc, "h3", Options{})
	require.Len(t, tables, 2)
	require.Equal(t, "Hot axle box detectors (HABD)", tables[0].Title)
	require.Equal(t, "Wheel impact load detectors (WILD)", tables[1].Title)
	requireRows(t, [][]string{{"MLN1", "5.06"}}, tables[1].Table)
}

func TestFindTable(t *testing.T) {
	doc := parseFixture(t, `<table><tr><th>Key</th></tr><tr><td>a</td></tr></table>
<table>
<tr><th>Location</th><th>CRS (see note)</th></tr>
<tr><td>Abbey Wood</td><td>ABW</td></tr>
</table>`)

	tbl, err := FindTable(doc, Options{}, "Location", "CRS")
	require.NoError(t, err)
	require.Equal(t, []string{"Location", "CRS"}, tbl.Columns)
	requireRows(t, [][]string{{"Abbey Wood", "ABW"}}, tbl)

	_, err = FindTable(doc, Options{}, "TIPLOC")
	require.ErrorIs(t, err, ErrNoTable)
}
