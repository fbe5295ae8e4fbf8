package engine

// Filter is a boolean test over one row, used to build WHERE selections.
// The set of filters is closed: EqualityFilter and InequalityFilter.
type Filter interface {
	Apply(row Row) bool
	String() string
	filterNode()
}

// EqualityFilter keeps rows where Column == Value (case-sensitive).
type EqualityFilter struct {
	Column string
	Value  string
}

func (EqualityFilter) filterNode() {}

func (f EqualityFilter) Apply(row Row) bool {
	v, err := row.Value(f.Column)
	if err != nil {
		return false
	}
	return v == f.Value
}

func (f EqualityFilter) String() string { return f.Column + " = " + f.Value }

// InequalityFilter keeps rows where Column != Value. A row without Column
// never matches.
type InequalityFilter struct {
	Column string
	Value  string
}

func (InequalityFilter) filterNode() {}

func (f InequalityFilter) Apply(row Row) bool {
	v, err := row.Value(f.Column)
	if err != nil {
		return false
	}
	return v != f.Value
}

func (f InequalityFilter) String() string { return f.Column + " != " + f.Value }

// MatchAll is the conjunction of filters over row. Nil entries are skipped
// and an empty filter list matches every row.
func MatchAll(filters []Filter, row Row) bool {
	for _, f := range filters {
		if f == nil {
			continue
		}
		if !f.Apply(row) {
			return false
		}
	}
	return true
}
