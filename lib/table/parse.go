package table

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"railcodes/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

type Options struct {
	// what line breaks inside a cell are turned into,
	// htmlutil.DefaultLineBreak when empty.
	LineBreak string
}

func (o Options) lineBreak() string {
	if o.LineBreak == "" {
		return htmlutil.DefaultLineBreak
	}
	return o.LineBreak
}

type cell struct {
	text string
	// index of the <td> within its <tr>, -1 for a cell copied down from
	// a rowspan above.
	raw int
}

type rowSpan struct {
	row  int
	span int
	col  int
	text string
}

func (s rowSpan) covers(row int) bool {
	return row > s.row && row < s.row+s.span
}

func rowspanOf(td *goquery.Selection) int {
	attr, ok := td.Attr("rowspan")
	if !ok {
		return 1
	}
	span, err := strconv.Atoi(strings.TrimSpace(attr))
	if err != nil || span < 1 {
		return 1
	}
	return span
}

// places a rowspanned value into a row below its origin. rows still short
// of the table width had the cell omitted by the markup, so the value is
// inserted and the following cells shift right. rows that are already
// full width keep their own cell: a blank one is overwritten, otherwise
// the spanned value is put in front of the existing one as an extra
// line-broken value.
func applySpan(cells []cell, col int, text string, width int, lineBreak string) []cell {
	if len(cells) < width {
		for len(cells) < col {
			cells = append(cells, cell{text: Placeholder, raw: -1})
		}
		cells = append(cells, cell{})
		copy(cells[col+1:], cells[col:])
		cells[col] = cell{text: text, raw: -1}
		return cells
	}
	if IsBlank(cells[col].text) {
		cells[col].text = text
		return cells
	}
	cells[col].text = text + lineBreak + cells[col].text
	return cells
}

// the cells of one <tr> as extracted, before rowspans are applied.
// rows exactly two cells too long lose their third cell when it is blank
// (a spurious column some pages carry), other long rows are truncated.
func readCells(tds *goquery.Selection, width int, lineBreak string) ([]cell, []int) {
	var cells []cell
	var spans []int
	tds.Each(func(j int, td *goquery.Selection) {
		cells = append(cells, cell{text: htmlutil.CellText(td, lineBreak), raw: j})
		spans = append(spans, rowspanOf(td))
	})
	if len(cells) == width+2 && IsBlank(cells[2].text) {
		cells = append(cells[:2:2], cells[3:]...)
		spans = append(spans[:2:2], spans[3:]...)
	}
	if len(cells) > width {
		cells = cells[:width]
		spans = spans[:width]
	}
	return cells, spans
}

// pads rows short of `width` with Placeholder.
func normalizeWidth(row []string, width int) []string {
	if len(row) > width {
		return row[:width]
	}
	for len(row) < width {
		row = append(row, Placeholder)
	}
	return row
}

// converts <tr> elements into rows of exactly len(headers) cells,
// resolving rowspans. rows without any <td> are dropped, the order of the
// remaining rows is kept.
func ParseRows(headers []string, trs *goquery.Selection, opts Options) *Table {
	width := len(headers)
	lineBreak := opts.lineBreak()
	out := New(headers)

	var active []rowSpan
	rowIdx := 0

	trs.Each(func(_ int, tr *goquery.Selection) {
		tds := tr.ChildrenFiltered("td")
		if tds.Length() == 0 || width == 0 {
			return
		}

		cells, spans := readCells(tds, width, lineBreak)
		var own []rowSpan
		for i, c := range cells {
			if spans[i] > 1 {
				own = append(own, rowSpan{row: rowIdx, span: spans[i], col: c.raw, text: c.text})
			}
		}

		var pending []rowSpan
		for _, s := range active {
			if s.covers(rowIdx) {
				pending = append(pending, s)
			}
		}
		sort.SliceStable(pending, func(a, b int) bool {
			return pending[a].col < pending[b].col
		})
		for _, s := range pending {
			cells = applySpan(cells, s.col, s.text, width, lineBreak)
		}

		// the column a rowspan of this row occupies is wherever its cell
		// ended up after the spans from above were placed.
		for _, s := range own {
			for pos, c := range cells {
				if c.raw == s.col {
					s.col = pos
					break
				}
			}
			active = append(active, s)
		}

		row := make([]string, len(cells))
		for i, c := range cells {
			row[i] = c.text
		}
		out.Rows = append(out.Rows, normalizeWidth(row, width))
		rowIdx++
	})

	return out
}

// reads the header labels off the first row that has <th> cells.
func Headers(sel *goquery.Selection) []string {
	var headers []string
	sel.Find("tr").EachWithBreak(func(_ int, tr *goquery.Selection) bool {
		ths := tr.ChildrenFiltered("th")
		if ths.Length() == 0 {
			return true
		}
		ths.Each(func(_ int, th *goquery.Selection) {
			headers = append(headers, htmlutil.NormalizeText(htmlutil.CellText(th, " ")))
		})
		return false
	})
	return headers
}

// parses a <table> into a Table headed by its <th> labels. a missing table
// or one without headers gives an empty table, deciding whether that is
// an error is up to the caller.
func ParseTable(sel *goquery.Selection, opts Options) *Table {
	if sel.Length() == 0 {
		return &Table{}
	}
	sel = sel.First()
	headers := Headers(sel)
	if len(headers) == 0 {
		return &Table{}
	}
	return ParseRows(headers, sel.Find("tr"), opts)
}

func (t *Table) Empty() bool {
	return len(t.Columns) == 0
}

type Titled struct {
	Title string
	Table *Table
}

// parses every <table> in the document, titled by the closest heading
// matched by `headings` that precedes it.
func ParseTables(doc *goquery.Document, headings string, opts Options) []Titled {
	var out []Titled
	doc.Find("table").Each(func(_ int, sel *goquery.Selection) {
		t := ParseTable(sel, opts)
		if t.Empty() {
			return
		}
		title := htmlutil.NormalizeText(sel.PrevAllFiltered(headings).First().Text())
		out = append(out, Titled{Title: title, Table: t})
	})
	return out
}

// the first <table> in the document with a column matching each of
// `columns`, parsed. ErrNoTable when there is none.
func FindTable(doc *goquery.Document, opts Options, columns ...string) (*Table, error) {
	var found *Table
	doc.Find("table").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		t := ParseTable(sel, opts)
		if t.Empty() {
			return true
		}
		t.CanonicalColumns(columns...)
		for _, col := range columns {
			if t.Index(col) < 0 {
				return true
			}
		}
		found = t
		return false
	})
	if found == nil {
		return nil, fmt.Errorf("%w with columns %s", ErrNoTable, strings.Join(columns, ", "))
	}
	return found, nil
}
