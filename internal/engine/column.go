package engine

// Column is an immutable column name owned by a Table.
type Column struct {
	name string
}

func NewColumn(name string) Column { return Column{name: name} }

func (c Column) Name() string { return c.name }

// Columns builds a column list from names, preserving order.
func Columns(names ...string) []Column {
	cols := make([]Column, len(names))
	for i, n := range names {
		cols[i] = NewColumn(n)
	}
	return cols
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}
