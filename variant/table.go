package variant

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Layout is the column index map of a table. It is computed once from a
// finalized column order and never changes.
type Layout struct {
	columns []string
	index   map[string]int
}

// NewLayout indexes columns. When a name repeats, the first occurrence wins.
func NewLayout(columns []string) *Layout {
	l := &Layout{
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		if _, ok := l.index[c]; !ok {
			l.index[c] = i
		}
	}
	return l
}

// Columns returns a copy of the column names in order.
func (l *Layout) Columns() []string { return slices.Clone(l.columns) }

// Len is the number of columns.
func (l *Layout) Len() int { return len(l.columns) }

// Index returns the 0-based index of the named column.
func (l *Layout) Index(name string) (int, bool) {
	i, ok := l.index[name]
	return i, ok
}

// Position returns the 1-based position of the named column, the numbering
// used by spreadsheet column letters.
func (l *Layout) Position(name string) (int, bool) {
	i, ok := l.index[name]
	if !ok {
		return 0, false
	}
	return i + 1, true
}

// Record is a single row read through its table's layout.
type Record struct {
	layout *Layout
	values []string
}

// Get returns the value of field, or "" if the field is unknown.
func (r Record) Get(field string) string {
	i, ok := r.layout.Index(field)
	if !ok {
		return ""
	}
	return r.values[i]
}

// Float parses field as a number. Empty and non-numeric values yield NaN.
func (r Record) Float(field string) float64 {
	return ParseNumber(r.Get(field))
}

// Values returns a copy of the row in column order.
func (r Record) Values() []string { return slices.Clone(r.values) }

// ParseNumber parses s as a float64, returning NaN when s is not a number.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// Table is an immutable set of rows sharing one layout. Every operation on a
// table returns a new table; rows are never edited in place.
type Table struct {
	layout *Layout
	rows   [][]string
	source string
}

// NewTable copies rows into a table with the given columns. Short rows are
// padded with empty values and long rows truncated to the column count;
// ReadTSV rejects long rows before they get here.
func NewTable(columns []string, rows [][]string) *Table {
	t := &Table{
		layout: NewLayout(columns),
		rows:   make([][]string, len(rows)),
	}
	for i, row := range rows {
		t.rows[i] = fit(row, len(columns))
	}
	return t
}

func fit(row []string, n int) []string {
	out := make([]string, n)
	copy(out, row)
	return out
}

// WithSource returns a copy of t labelled with the name of the file it came
// from. The label is used in error messages.
func (t *Table) WithSource(source string) *Table {
	c := *t
	c.source = source
	return &c
}

// Source is the file the table was loaded from, if any.
func (t *Table) Source() string { return t.source }

// Layout returns the table's column index map.
func (t *Table) Layout() *Layout { return t.layout }

// Columns returns a copy of the column names.
func (t *Table) Columns() []string { return t.layout.Columns() }

// Len is the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Record returns row i.
func (t *Table) Record(i int) Record {
	return Record{layout: t.layout, values: t.rows[i]}
}

// Records returns every row in order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.rows))
	for i := range t.rows {
		out[i] = t.Record(i)
	}
	return out
}

// Subset returns a new table holding copies of the rows at the given indices,
// in that order.
func (t *Table) Subset(indices []int) *Table {
	s := &Table{
		layout: t.layout,
		rows:   make([][]string, len(indices)),
		source: t.source,
	}
	for i, idx := range indices {
		s.rows[i] = slices.Clone(t.rows[idx])
	}
	return s
}

// Reorder returns a table whose columns are exactly fields, in that order.
// Columns of t not named in fields are dropped. A field absent from t is a
// *SchemaError.
func Reorder(t *Table, fields []string) (*Table, error) {
	src := make([]int, len(fields))
	for i, f := range fields {
		idx, ok := t.layout.Index(f)
		if !ok {
			return nil, &SchemaError{Field: f, Source: t.source}
		}
		src[i] = idx
	}

	out := &Table{
		layout: NewLayout(fields),
		rows:   make([][]string, len(t.rows)),
		source: t.source,
	}
	for r, row := range t.rows {
		vals := make([]string, len(fields))
		for i, idx := range src {
			vals[i] = row[idx]
		}
		out.rows[r] = vals
	}
	return out, nil
}

// InsertColumn returns a table with a new column named name placed
// immediately after anchor, holding value in every row. A missing anchor is a
// *SchemaError.
func InsertColumn(t *Table, anchor, name, value string) (*Table, error) {
	idx, ok := t.layout.Index(anchor)
	if !ok {
		return nil, &SchemaError{Field: anchor, Anchor: true, Source: t.source}
	}
	at := idx + 1

	out := &Table{
		layout: NewLayout(slices.Insert(t.layout.Columns(), at, name)),
		rows:   make([][]string, len(t.rows)),
		source: t.source,
	}
	for r, row := range t.rows {
		out.rows[r] = slices.Insert(slices.Clone(row), at, value)
	}
	return out, nil
}
