package engine

import (
	"fmt"
	"regexp"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_]+$`)

// ValidTableName reports whether name is an acceptable table name
// (English letters and '_' only).
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// Table holds an ordered column set and rows in insertion order. Rows have no
// key: a row index is only valid until the next removal.
type Table struct {
	name    string
	columns []Column
	rows    []Row
}

// NewTable validates name and returns an empty table.
func NewTable(name string, columns []Column) (*Table, error) {
	if !ValidTableName(name) {
		return nil, fmt.Errorf("%w: %q (only letters and '_' are allowed)", ErrInvalidTableName, name)
	}
	return &Table{
		name:    name,
		columns: append([]Column(nil), columns...),
	}, nil
}

func (t *Table) Name() string { return t.name }

func (t *Table) Columns() []Column { return append([]Column(nil), t.columns...) }

func (t *Table) ColumnNames() []string { return ColumnNames(t.columns) }

func (t *Table) RowCount() int { return len(t.rows) }

// Rows returns a snapshot of the row slice; the rows themselves are values.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i, r := range t.rows {
		out[i] = Row{columns: r.columns, values: r.Values()}
	}
	return out
}

func (t *Table) Row(index int) (Row, error) {
	if err := t.checkIndex(index); err != nil {
		return Row{}, err
	}
	r := t.rows[index]
	return Row{columns: r.columns, values: r.Values()}, nil
}

func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of the first column called name, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.columns {
		if c.name == name {
			return i
		}
	}
	return -1
}

// AddRow appends values, which must already be in column order.
func (t *Table) AddRow(values []string) error {
	r, err := NewRow(t.ColumnNames(), values)
	if err != nil {
		return err
	}
	t.rows = append(t.rows, r)
	return nil
}

// Insert stores values given against the named columns. Values are reordered
// into the table's column order; table columns not listed get "".
func (t *Table) Insert(columns, values []string) error {
	if len(columns) != len(values) {
		return fmt.Errorf("%w: %d columns but %d values",
			ErrRowLengthMismatch, len(columns), len(values))
	}

	ordered := make([]string, len(t.columns))
	for i, c := range columns {
		idx := t.ColumnIndex(c)
		if idx < 0 {
			return fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, c, t.name)
		}
		ordered[idx] = values[i]
	}
	return t.AddRow(ordered)
}

func (t *Table) UpdateRow(index int, values []string) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d values for %d columns",
			ErrRowLengthMismatch, len(values), len(t.columns))
	}
	t.rows[index].setValues(values)
	return nil
}

func (t *Table) RemoveRow(index int) error {
	if err := t.checkIndex(index); err != nil {
		return err
	}
	t.rows = append(t.rows[:index], t.rows[index+1:]...)
	return nil
}

func (t *Table) ClearRows() { t.rows = nil }

// DeleteWhere removes every row matching all filters and returns how many
// were removed. Survivors keep their relative order.
func (t *Table) DeleteWhere(filters []Filter) int {
	kept := t.rows[:0]
	removed := 0
	for _, r := range t.rows {
		if MatchAll(filters, r) {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	// drop references held past the new length
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = Row{}
	}
	t.rows = kept
	return removed
}

// Assignment sets Column to Value on a matched row.
type Assignment struct {
	Column string
	Value  string
}

// UpdateWhere applies every assignment, in order, to each row matching all
// filters. Unknown assignment columns are rejected before any row changes.
func (t *Table) UpdateWhere(filters []Filter, changes []Assignment) (int, error) {
	for _, c := range changes {
		if !t.HasColumn(c.Column) {
			return 0, fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, c.Column, t.name)
		}
	}

	updated := 0
	for i := range t.rows {
		if !MatchAll(filters, t.rows[i]) {
			continue
		}
		for _, c := range changes {
			if err := t.rows[i].SetValue(c.Column, c.Value); err != nil {
				return updated, err
			}
		}
		updated++
	}
	return updated, nil
}

// ColumnAsTable returns a single-column copy of t holding only column name.
func (t *Table) ColumnAsTable(name string) (*Table, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, name, t.name)
	}
	out, err := NewTable(t.name, []Column{t.columns[idx]})
	if err != nil {
		return nil, err
	}
	for _, r := range t.rows {
		if err := out.AddRow([]string{r.values[idx]}); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *Table) checkIndex(index int) error {
	if index < 0 || index >= len(t.rows) {
		if len(t.rows) == 0 {
			return fmt.Errorf("%w: index %d, table %q is empty", ErrRowOutOfBounds, index, t.name)
		}
		return fmt.Errorf("%w: index %d, max index is %d", ErrRowOutOfBounds, index, len(t.rows)-1)
	}
	return nil
}
