package executor

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/sql/parser"
	"github.com/tuannm99/elemsql/pkg/cache"
)

// Executor runs parsed statements against one Database. It is not safe for
// concurrent use.
type Executor struct {
	db *engine.Database

	// parsed statements keyed by source text; nil when disabled
	stmts *cache.LRU[string, parser.Statement]
}

type Option func(*Executor)

// WithStatementCache keeps up to n parsed statements for ExecSQL.
func WithStatementCache(n int) Option {
	return func(e *Executor) {
		if n > 0 {
			e.stmts = cache.NewLRU[string, parser.Statement](n)
		}
	}
}

func NewExecutor(db *engine.Database, opts ...Option) *Executor {
	e := &Executor{db: db}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Executor) DB() *engine.Database { return e.db }

// SetDatabase replaces the target database (after CREATE DATABASE or import).
func (e *Executor) SetDatabase(db *engine.Database) { e.db = db }

// ExecSQL is the top-level entry: SQL string -> Result.
func (e *Executor) ExecSQL(sql string) (*Result, error) {
	stmt, err := e.parse(sql)
	if err != nil {
		return nil, err
	}
	return e.Execute(stmt)
}

func (e *Executor) parse(sql string) (parser.Statement, error) {
	if e.stmts != nil {
		if stmt, ok := e.stmts.Get(sql); ok {
			return stmt, nil
		}
	}
	stmt, err := parser.Parse(sql)
	if err != nil {
		return nil, err
	}
	if e.stmts != nil {
		e.stmts.Put(sql, stmt)
	}
	return stmt, nil
}

// Execute runs one parsed statement. A failed statement leaves the database
// unchanged.
func (e *Executor) Execute(stmt parser.Statement) (*Result, error) {
	if e.db == nil {
		return nil, fmt.Errorf("executor: no database selected")
	}

	switch s := stmt.(type) {
	case *parser.CreateTableStmt:
		return e.execCreateTable(s)
	case *parser.DropTableStmt:
		return e.execDropTable(s)
	case *parser.InsertStmt:
		return e.execInsert(s)
	case *parser.SelectStmt:
		return e.execSelect(s)
	case *parser.UpdateStmt:
		return e.execUpdate(s)
	case *parser.DeleteStmt:
		return e.execDelete(s)
	case *parser.ShowTablesStmt:
		return e.execShowTables()
	default:
		return nil, fmt.Errorf("executor: unsupported statement %T", stmt)
	}
}

func (e *Executor) execCreateTable(s *parser.CreateTableStmt) (*Result, error) {
	if _, err := e.db.CreateTable(s.TableName, engine.Columns(s.Columns...)); err != nil {
		return nil, err
	}
	slog.Debug("executor: table created", "table", s.TableName, "columns", len(s.Columns))
	return &Result{
		Statement: KindCreateTable,
		Message:   fmt.Sprintf("Table '%s' created.", s.TableName),
	}, nil
}

func (e *Executor) execDropTable(s *parser.DropTableStmt) (*Result, error) {
	if err := e.db.DropTable(s.TableName); err != nil {
		return nil, err
	}
	slog.Debug("executor: table dropped", "table", s.TableName)
	return &Result{
		Statement: KindDropTable,
		Message:   fmt.Sprintf("Table '%s' dropped.", s.TableName),
	}, nil
}

func (e *Executor) execInsert(s *parser.InsertStmt) (*Result, error) {
	if err := e.db.InsertRow(s.TableName, s.Columns, s.Values); err != nil {
		return nil, err
	}
	return &Result{Statement: KindInsert, AffectedRows: 1}, nil
}

func (e *Executor) execSelect(s *parser.SelectStmt) (*Result, error) {
	warnIgnoredConditions(s.Where)

	q := engine.SelectQuery{
		Table:    s.Table,
		Alias:    s.Alias,
		Filters:  s.Where.Filters(),
		Distinct: s.Distinct,
	}
	for _, c := range s.Columns {
		if s.Grouped() {
			q.Aggregates = append(q.Aggregates, aggregateOf(c))
		} else {
			q.Columns = append(q.Columns, c.Name)
		}
	}
	for _, c := range s.GroupBy {
		q.GroupBy = append(q.GroupBy, c.Name)
	}
	if h := s.Having; h != nil {
		q.Having = &engine.Having{Term: aggregateOf(h.Column), Op: h.Op, Value: h.Value}
	}
	for _, o := range s.OrderBy {
		q.OrderBy = append(q.OrderBy, engine.OrderBy{Column: aggregateOf(o.Column).String(), Desc: o.Desc})
	}
	if l := s.Limit; l != nil {
		q.Limit = &engine.Limit{Count: l.Count, Offset: l.Offset}
	}
	if s.Join != nil {
		q.Join = &engine.JoinSpec{
			Table:       s.Join.Table,
			LeftColumn:  s.Join.Left.Name,
			RightColumn: s.Join.Right.Name,
		}
	}

	out, err := e.db.Select(q)
	if err != nil {
		return nil, err
	}
	td := NewTableData(out)
	return &Result{Statement: KindSelect, Table: &td}, nil
}

// aggregateOf names a select item the way the engine labels its output
// column: "SUM(price)", or the bare column name.
func aggregateOf(c parser.ColumnRef) engine.Aggregate {
	return engine.Aggregate{Func: c.Func, Column: c.Name}
}

func (e *Executor) execUpdate(s *parser.UpdateStmt) (*Result, error) {
	warnIgnoredConditions(s.Where)

	n, err := e.db.Update(s.TableName, s.Where.Filters(), s.Assignments)
	if err != nil {
		return nil, err
	}
	return &Result{Statement: KindUpdate, AffectedRows: int64(n)}, nil
}

func (e *Executor) execDelete(s *parser.DeleteStmt) (*Result, error) {
	warnIgnoredConditions(s.Where)

	n, err := e.db.Delete(s.TableName, s.Where.Filters())
	if err != nil {
		return nil, err
	}
	return &Result{Statement: KindDelete, AffectedRows: int64(n)}, nil
}

func (e *Executor) execShowTables() (*Result, error) {
	res := &Result{Statement: KindShowTables}
	for _, t := range e.db.Tables() {
		res.Tables = append(res.Tables, NewTableData(t))
	}
	return res, nil
}

// warnIgnoredConditions logs WHERE terms that do not narrow the result:
// comparisons other than =/!= and OR connectors (evaluated as AND).
func warnIgnoredConditions(w *parser.WhereClause) {
	for _, c := range w.Ignored() {
		slog.Warn("executor: unsupported comparison ignored", "condition", c.Column.String()+" "+c.Op+" "+c.Value)
	}
	if w.HasOr() {
		slog.Warn("executor: OR is evaluated as AND")
	}
}
