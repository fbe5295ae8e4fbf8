package engine

import "fmt"

// SelectAll is the projection that keeps every source column.
const SelectAll = "*"

// JoinSpec is an inner equi-join of the FROM table with Table on
// LeftColumn (FROM side) = RightColumn (joined side).
type JoinSpec struct {
	Table       string
	LeftColumn  string
	RightColumn string
}

// SelectQuery describes a read: optional join, then filters, then either
// grouping or ordering plus projection, then DISTINCT and LIMIT.
type SelectQuery struct {
	Table   string
	Alias   string
	Columns []string
	Filters []Filter
	Join    *JoinSpec

	// Aggregates, when set, replaces Columns as the select list and makes
	// the query grouped, as does GroupBy.
	Aggregates []Aggregate
	GroupBy    []string
	Having     *Having

	Distinct bool
	// OrderBy names source columns, or output columns of a grouped query.
	OrderBy []OrderBy
	Limit   *Limit
}

func (q SelectQuery) grouped() bool {
	return len(q.Aggregates) > 0 || len(q.GroupBy) > 0
}

// Select evaluates q and returns a fresh result table. The source tables are
// not modified. The result is named after the FROM alias (or table), or
// JoinResultName when a join is present.
func (db *Database) Select(q SelectQuery) (*Table, error) {
	src, err := db.Table(q.Table)
	if err != nil {
		return nil, err
	}

	if q.Join != nil {
		right, err := db.Table(q.Join.Table)
		if err != nil {
			return nil, err
		}
		src, err = InnerJoin(src, right, q.Join.LeftColumn, q.Join.RightColumn)
		if err != nil {
			return nil, err
		}
	}

	data := make([][]string, 0, len(src.rows))
	for _, r := range src.rows {
		if MatchAll(q.Filters, r) {
			data = append(data, r.values)
		}
	}

	var cols []Column
	if q.grouped() {
		cols, data, err = selectGrouped(src, data, q)
	} else {
		cols, data, err = selectPlain(src, data, q)
	}
	if err != nil {
		return nil, err
	}
	if q.Distinct {
		data = distinctValues(data)
	}
	if q.Limit != nil {
		data = q.Limit.apply(data)
	}

	name := src.name
	if q.Join == nil && ValidTableName(q.Alias) {
		name = q.Alias
	}
	out, err := NewTable(name, cols)
	if err != nil {
		return nil, err
	}
	for _, vals := range data {
		if err := out.AddRow(vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// selectPlain orders the source rows, then projects them. The source value
// slices are only read; projection copies.
func selectPlain(src *Table, data [][]string, q SelectQuery) ([]Column, [][]string, error) {
	cols, idx, err := projection(src, q.Columns)
	if err != nil {
		return nil, nil, err
	}
	if err := sortValues(src.ColumnNames(), data, q.OrderBy); err != nil {
		return nil, nil, err
	}
	out := make([][]string, len(data))
	for n, r := range data {
		vals := make([]string, len(idx))
		for i, j := range idx {
			vals[i] = r[j]
		}
		out[n] = vals
	}
	return cols, out, nil
}

// selectGrouped evaluates the select list per group, then orders the output.
func selectGrouped(src *Table, data [][]string, q SelectQuery) ([]Column, [][]string, error) {
	items := q.Aggregates
	if len(items) == 0 {
		names := q.Columns
		if len(names) == 0 {
			names = []string{SelectAll}
		}
		for _, n := range names {
			items = append(items, Aggregate{Column: n})
		}
	}
	names, out, err := groupValues(src.ColumnNames(), data, items, q.GroupBy, q.Having)
	if err != nil {
		return nil, nil, err
	}
	if err := sortValues(names, out, q.OrderBy); err != nil {
		return nil, nil, err
	}
	return Columns(names...), out, nil
}

// projection resolves requested column names to source positions. "*" expands
// to every source column in order; a duplicated name resolves to its first
// occurrence.
func projection(src *Table, names []string) ([]Column, []int, error) {
	if len(names) == 0 {
		names = []string{SelectAll}
	}
	var (
		cols []Column
		idx  []int
	)
	for _, n := range names {
		if n == SelectAll {
			for i, c := range src.columns {
				cols = append(cols, c)
				idx = append(idx, i)
			}
			continue
		}
		i := src.ColumnIndex(n)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, n, src.name)
		}
		cols = append(cols, src.columns[i])
		idx = append(idx, i)
	}
	return cols, idx, nil
}
