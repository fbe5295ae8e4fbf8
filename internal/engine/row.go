package engine

import "fmt"

// Row is one ordered tuple of text values. It carries a copy of the owning
// table's column names so values can be looked up by name.
//
// Invariant: len(values) == len(columns).
type Row struct {
	columns []string
	values  []string
}

// NewRow copies columns and values into a new Row.
func NewRow(columns, values []string) (Row, error) {
	if len(columns) != len(values) {
		return Row{}, fmt.Errorf("%w: got %d values for %d columns",
			ErrRowLengthMismatch, len(values), len(columns))
	}
	return Row{
		columns: append([]string(nil), columns...),
		values:  append([]string(nil), values...),
	}, nil
}

func (r Row) Len() int { return len(r.values) }

// Values returns a copy of the row data.
func (r Row) Values() []string {
	return append([]string(nil), r.values...)
}

// Value returns the value stored under column. An unknown column is an
// error, not an empty value.
func (r Row) Value(column string) (string, error) {
	i := r.index(column)
	if i < 0 {
		return "", fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	return r.values[i], nil
}

// SetValue replaces the value under column in place.
func (r *Row) SetValue(column, value string) error {
	i := r.index(column)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	r.values[i] = value
	return nil
}

func (r *Row) setValues(values []string) {
	r.values = append([]string(nil), values...)
}

func (r Row) index(column string) int {
	for i, c := range r.columns {
		if c == column {
			return i
		}
	}
	return -1
}
