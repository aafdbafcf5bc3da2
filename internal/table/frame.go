// Package table holds query results as rows of values under named columns.
// Frames carry enough to render, capture into variables and write back to
// InfluxDB.
package table

import "fmt"

// Row is one record, values ordered like Frame.Columns.
type Row []any

// Frame is a tabular query result.
type Frame struct {
	Columns []string
	Rows    []Row

	index map[string]int
}

// New creates an empty frame with the given columns.
func New(columns ...string) *Frame {
	f := &Frame{Columns: append([]string(nil), columns...)}
	f.reindex()
	return f
}

func (f *Frame) reindex() {
	f.index = make(map[string]int, len(f.Columns))
	for i, c := range f.Columns {
		f.index[c] = i
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Rows)
}

// Empty reports whether the frame has no rows.
func (f *Frame) Empty() bool { return f.Len() == 0 }

// HasColumn reports whether name is one of the frame's columns.
func (f *Frame) HasColumn(name string) bool {
	if f.index == nil || len(f.index) != len(f.Columns) {
		f.reindex()
	}
	_, ok := f.index[name]
	return ok
}

// AddColumn appends a column, padding existing rows with nil. Adding an
// existing column is a no-op.
func (f *Frame) AddColumn(name string) {
	if f.HasColumn(name) {
		return
	}
	f.Columns = append(f.Columns, name)
	f.index[name] = len(f.Columns) - 1
	for i := range f.Rows {
		f.Rows[i] = append(f.Rows[i], nil)
	}
}

// Append adds a row. It fails when the row width does not match the columns.
func (f *Frame) Append(row Row) error {
	if len(row) != len(f.Columns) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(row), len(f.Columns))
	}
	f.Rows = append(f.Rows, row)
	return nil
}

// AppendRecord adds a row from a column -> value map. Unknown columns are
// added first, so the frame grows to the union of all records it has seen.
func (f *Frame) AppendRecord(columns []string, values map[string]any) {
	for _, c := range columns {
		f.AddColumn(c)
	}
	row := make(Row, len(f.Columns))
	for c, v := range values {
		if i, ok := f.index[c]; ok {
			row[i] = v
		}
	}
	f.Rows = append(f.Rows, row)
}

// Column returns the values of one column, or false if it does not exist.
func (f *Frame) Column(name string) ([]any, bool) {
	if !f.HasColumn(name) {
		return nil, false
	}
	i := f.index[name]
	out := make([]any, len(f.Rows))
	for r, row := range f.Rows {
		out[r] = row[i]
	}
	return out, true
}

// Map converts the frame into column name -> values.
func (f *Frame) Map() map[string][]any {
	out := make(map[string][]any, len(f.Columns))
	for _, c := range f.Columns {
		out[c], _ = f.Column(c)
	}
	return out
}

// Value returns the value at row r under column name.
func (f *Frame) Value(r int, name string) (any, bool) {
	if r < 0 || r >= len(f.Rows) || !f.HasColumn(name) {
		return nil, false
	}
	return f.Rows[r][f.index[name]], true
}

// String returns a short description, used where a frame is echoed as a value.
func (f *Frame) String() string {
	return fmt.Sprintf("<table %d rows x %d columns>", f.Len(), len(f.Columns))
}
