// Package table holds the rectangular string tables parsed out of the
// source site's pages and the column operations applied to them before
// they are turned into typed records.
package table

import (
	"errors"
	"fmt"
	"strings"

	"railcodes/lib/textutil"
)

// the "no data" marker short rows are padded with.
const Placeholder = "\u00a0"

var ErrNoTable = errors.New("no table found")
var ErrNoColumn = errors.New("no such column")

// true for "", whitespace and the placeholder.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

type Table struct {
	Columns []string
	Rows    [][]string
}

func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) Index(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

func (t *Table) mustIndex(col string) (int, error) {
	i := t.Index(col)
	if i < 0 {
		return -1, fmt.Errorf("%w: %q (have %s)", ErrNoColumn, col, strings.Join(t.Columns, ", "))
	}
	return i, nil
}

func (t *Table) Column(col string) ([]string, error) {
	i, err := t.mustIndex(col)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// appends a row, it is padded or truncated to the table's width.
func (t *Table) Append(cells ...string) {
	row := make([]string, len(t.Columns))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = Placeholder
		}
	}
	t.Rows = append(t.Rows, row)
}

func (t *Table) Map(col string, fn func(string) string) error {
	i, err := t.mustIndex(col)
	if err != nil {
		return err
	}
	for _, row := range t.Rows {
		row[i] = fn(row[i])
	}
	return nil
}

func (t *Table) Rename(col, name string) error {
	i, err := t.mustIndex(col)
	if err != nil {
		return err
	}
	t.Columns[i] = name
	return nil
}

// replaces every occurrence of each of `old` in `col` with `new`.
func (t *Table) Replace(col string, new string, old ...string) error {
	pairs := make([]string, 0, len(old)*2)
	for _, o := range old {
		pairs = append(pairs, o, new)
	}
	replacer := strings.NewReplacer(pairs...)
	return t.Map(col, replacer.Replace)
}

// inserts a column after `after` (or at the end when `after` is "")
// holding fn(row) for every row.
func (t *Table) Insert(after, name string, fn func(Row) string) error {
	at := len(t.Columns)
	if after != "" {
		i, err := t.mustIndex(after)
		if err != nil {
			return err
		}
		at = i + 1
	}

	values := make([]string, len(t.Rows))
	for r := range t.Rows {
		values[r] = fn(Row{table: t, cells: t.Rows[r]})
	}

	t.Columns = insertAt(t.Columns, at, name)
	for r := range t.Rows {
		t.Rows[r] = insertAt(t.Rows[r], at, values[r])
	}
	return nil
}

// replaces `col` with two columns, `valueCol` and `noteCol`, holding the
// halves returned by fn.
func (t *Table) Split(col string, fn func(string) (string, string), valueCol, noteCol string) error {
	i, err := t.mustIndex(col)
	if err != nil {
		return err
	}

	notes := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		row[i], notes[r] = fn(row[i])
	}
	t.Columns[i] = valueCol
	t.Columns = insertAt(t.Columns, i+1, noteCol)
	for r := range t.Rows {
		t.Rows[r] = insertAt(t.Rows[r], i+1, notes[r])
	}
	return nil
}

// strips surrounding whitespace from every cell.
func (t *Table) Trim() {
	for _, row := range t.Rows {
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}
	}
}

func (t *Table) Each(fn func(Row)) {
	for _, cells := range t.Rows {
		fn(Row{table: t, cells: cells})
	}
}

func (t *Table) Clone() *Table {
	out := New(t.Columns)
	out.Rows = make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}

// a read-only view of one table row.
type Row struct {
	table *Table
	cells []string
}

// returns the cell in column `col`, blank cells and unknown columns give "".
func (r Row) Get(col string) string {
	i := r.table.Index(col)
	if i < 0 || i >= len(r.cells) {
		return ""
	}
	value := r.cells[i]
	if IsBlank(value) {
		return ""
	}
	return value
}

func (r Row) Cells() []string {
	return r.cells
}

func insertAt(s []string, i int, v string) []string {
	s = append(s, "")
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

// renames every column whose header starts with one of `names`, ignoring
// case and whitespace, to that name: "STANOX [notes]" -> "STANOX". names
// are tried in order, the first match wins.
func (t *Table) CanonicalColumns(names ...string) {
	for i, col := range t.Columns {
		normalized := textutil.NormalizeName(col)
		for _, name := range names {
			if strings.HasPrefix(normalized, textutil.NormalizeName(name)) {
				t.Columns[i] = name
				break
			}
		}
	}
}
