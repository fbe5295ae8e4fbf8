package parser

import (
	"github.com/tuannm99/elemsql/internal/engine"
)

// Statement is the root interface for all parsed statements. The set is
// closed; executors switch over the concrete types below.
type Statement interface {
	stmtNode()
}

// ----- CREATE TABLE -----
type CreateTableStmt struct {
	TableName string
	Columns   []string
}

func (*CreateTableStmt) stmtNode() {}

// ----- DROP TABLE -----
type DropTableStmt struct {
	TableName string
}

func (*DropTableStmt) stmtNode() {}

// ----- INSERT INTO -----
type InsertStmt struct {
	TableName string
	Columns   []string
	Values    []string
}

func (*InsertStmt) stmtNode() {}

// ----- SELECT -----

// ColumnRef is a possibly qualified column name. Name is "*" for the
// all-columns projection and for COUNT(*). Func is set when the reference is
// the argument of an aggregate.
type ColumnRef struct {
	Qualifier string
	Name      string
	Func      engine.AggFunc
}

func (c ColumnRef) IsStar() bool { return c.Name == "*" }

func (c ColumnRef) String() string {
	name := c.Name
	if c.Qualifier != "" {
		name = c.Qualifier + "." + c.Name
	}
	if c.Func != "" {
		return string(c.Func) + "(" + name + ")"
	}
	return name
}

// JoinClause is "JOIN Table [Alias] ON Left = Right" where Left always names
// a column of the FROM table and Right a column of the joined table.
type JoinClause struct {
	Table string
	Alias string
	Left  ColumnRef
	Right ColumnRef
}

// OrderTerm is one ORDER BY key.
type OrderTerm struct {
	Column ColumnRef
	Desc   bool
}

// HavingClause is the single "item op value" condition after GROUP BY.
type HavingClause struct {
	Column ColumnRef
	Op     string
	Value  string
}

// LimitClause is "LIMIT Count [OFFSET Offset]". Either may be negative here;
// the engine decides what that means.
type LimitClause struct {
	Count  int
	Offset int
}

type SelectStmt struct {
	Distinct bool
	Columns  []ColumnRef
	Table    string
	Alias    string
	Join     *JoinClause
	Where    *WhereClause
	GroupBy  []ColumnRef
	Having   *HavingClause
	OrderBy  []OrderTerm
	Limit    *LimitClause
}

func (*SelectStmt) stmtNode() {}

// Grouped reports whether the statement has a GROUP BY or an aggregate in
// its select list.
func (s *SelectStmt) Grouped() bool {
	if len(s.GroupBy) > 0 {
		return true
	}
	for _, c := range s.Columns {
		if c.Func != "" {
			return true
		}
	}
	return false
}

// ----- UPDATE -----
type UpdateStmt struct {
	TableName   string
	Assignments []engine.Assignment
	Where       *WhereClause
}

func (*UpdateStmt) stmtNode() {}

// ----- DELETE FROM -----
type DeleteStmt struct {
	TableName string
	Where     *WhereClause
}

func (*DeleteStmt) stmtNode() {}

// ----- SHOW TABLES -----
type ShowTablesStmt struct{}

func (*ShowTablesStmt) stmtNode() {}

// ----- WHERE -----

// Condition is one "column op value" term. Connector is the AND/OR joining it
// to the previous term, empty for the first.
type Condition struct {
	Column    ColumnRef
	Op        string
	Value     string
	Connector string
}

type WhereClause struct {
	Conditions []Condition
}

// Filters converts the clause into the engine's conjunctive filter list.
// Only = and !=/<> produce filters; other comparisons are ignored and every
// connector is treated as AND.
func (w *WhereClause) Filters() []engine.Filter {
	if w == nil {
		return nil
	}
	var out []engine.Filter
	for _, c := range w.Conditions {
		switch c.Op {
		case "=":
			out = append(out, engine.EqualityFilter{Column: c.Column.Name, Value: c.Value})
		case "!=", "<>":
			out = append(out, engine.InequalityFilter{Column: c.Column.Name, Value: c.Value})
		}
	}
	return out
}

// Ignored returns the conditions Filters drops.
func (w *WhereClause) Ignored() []Condition {
	if w == nil {
		return nil
	}
	var out []Condition
	for _, c := range w.Conditions {
		switch c.Op {
		case "=", "!=", "<>":
		default:
			out = append(out, c)
		}
	}
	return out
}

// HasOr reports whether any term is joined with OR.
func (w *WhereClause) HasOr() bool {
	if w == nil {
		return false
	}
	for _, c := range w.Conditions {
		if c.Connector == "OR" {
			return true
		}
	}
	return false
}
