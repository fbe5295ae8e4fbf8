package engine

import "fmt"

// JoinResultName names the table produced by InnerJoin.
const JoinResultName = "Result"

// InnerJoin is an unindexed nested-loop equi-join: one output row per ordered
// pair (ra, rb) with ra[colA] == rb[colB]. Output columns are a's followed by
// b's, unchanged.
func InnerJoin(a, b *Table, colA, colB string) (*Table, error) {
	ia, ib := a.ColumnIndex(colA), b.ColumnIndex(colB)
	if ia < 0 {
		return nil, fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, colA, a.name)
	}
	if ib < 0 {
		return nil, fmt.Errorf("%w: %q in table %q", ErrColumnNotFound, colB, b.name)
	}

	out, err := NewTable(JoinResultName, concatColumns(a, b))
	if err != nil {
		return nil, err
	}

	for _, ra := range a.rows {
		for _, rb := range b.rows {
			if ra.values[ia] != rb.values[ib] {
				continue
			}
			if err := out.AddRow(concatValues(ra, rb)); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// MergeTables pairs rows positionally (row i of a with row i of b) up to the
// shorter table and concatenates their columns. No predicate is involved.
func MergeTables(a, b *Table) (*Table, error) {
	out, err := NewTable(a.name, concatColumns(a, b))
	if err != nil {
		return nil, err
	}
	n := min(len(a.rows), len(b.rows))
	for i := 0; i < n; i++ {
		if err := out.AddRow(concatValues(a.rows[i], b.rows[i])); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func concatColumns(a, b *Table) []Column {
	cols := make([]Column, 0, len(a.columns)+len(b.columns))
	cols = append(cols, a.columns...)
	return append(cols, b.columns...)
}

func concatValues(ra, rb Row) []string {
	vals := make([]string, 0, len(ra.values)+len(rb.values))
	vals = append(vals, ra.values...)
	return append(vals, rb.values...)
}
