package table

import (
	"regexp"
)

// marks a real multi-value boundary left behind by a substitution pass
// over separators that are ambiguous in the source text, like " / ".
const MultiValueMark = "&&&"

var DefaultDelimiter = regexp.MustCompile(`\r\n|\r|\n|&&&`)

type ExplodeOptions struct {
	// the columns that may hold several parallel values.
	Columns []string
	// one of Columns, padded with its last value instead of blanks when it
	// holds fewer values than the other columns.
	NameColumn string
	// DefaultDelimiter when nil.
	Delimiter *regexp.Regexp
}

func (o ExplodeOptions) delimiter() *regexp.Regexp {
	if o.Delimiter == nil {
		return DefaultDelimiter
	}
	return o.Delimiter
}

// the number of values a cell holds.
func Multiplicity(s string, delimiter *regexp.Regexp) int {
	return len(delimiter.FindAllStringIndex(s, -1)) + 1
}

func pad(values []string, count int, isName bool) []string {
	if len(values) >= count {
		return values
	}
	filler := ""
	if len(values) == 1 || isName {
		filler = values[len(values)-1]
	}
	for len(values) < count {
		values = append(values, filler)
	}
	return values
}

// expands every row whose designated columns hold several delimited values
// into one row per value position. a row with multiplicity m becomes
// exactly m rows. single valued columns are repeated on every output row,
// the name column is padded by repeating its last value and the other
// designated columns are padded with blanks. every cell is trimmed.
func Explode(t *Table, opts ExplodeOptions) (*Table, error) {
	delimiter := opts.delimiter()

	cols := make([]int, len(opts.Columns))
	for n, col := range opts.Columns {
		i, err := t.mustIndex(col)
		if err != nil {
			return nil, err
		}
		cols[n] = i
	}
	nameCol := -1
	if opts.NameColumn != "" {
		i, err := t.mustIndex(opts.NameColumn)
		if err != nil {
			return nil, err
		}
		nameCol = i
	}

	out := New(t.Columns)
	for _, row := range t.Rows {
		count := 1
		for _, i := range cols {
			m := Multiplicity(row[i], delimiter)
			if m > count {
				count = m
			}
		}

		if count == 1 {
			out.Rows = append(out.Rows, append([]string(nil), row...))
			continue
		}

		split := make(map[int][]string, len(cols))
		for _, i := range cols {
			split[i] = pad(delimiter.Split(row[i], -1), count, i == nameCol)
		}

		for k := 0; k < count; k++ {
			exploded := append([]string(nil), row...)
			for i, values := range split {
				exploded[i] = values[k]
			}
			out.Rows = append(out.Rows, exploded)
		}
	}

	out.Trim()
	return out, nil
}

// turns each of `separators` in the given columns into MultiValueMark so
// Explode splits on them.
func (t *Table) MarkMultiValues(cols []string, separators ...string) error {
	for _, col := range cols {
		err := t.Replace(col, MultiValueMark, separators...)
		if err != nil {
			return err
		}
	}
	return nil
}
