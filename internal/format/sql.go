package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/sql/parser"
)

// SQL is the .sql format: one CREATE TABLE statement per table followed by
// one INSERT INTO statement per row. The database name is not recorded.
// Records are statements, not lines: a quoted value may hold line breaks and
// "--" comments are ignored.
type SQL struct{}

func (SQL) formatNode() {}

func (SQL) newReader(src io.Reader) recordReader { return newStatementReader(src) }

func (SQL) Name() string      { return "sql" }
func (SQL) Extension() string { return ".sql" }

func (SQL) EncodeDatabaseName(string) string { return "" }

func (SQL) EncodeTable(t *engine.Table) []string {
	return []string{fmt.Sprintf("CREATE TABLE %s (%s);", t.Name(), sqlColumnList(t.ColumnNames()))}
}

func (SQL) EncodeRow(t *engine.Table, r engine.Row) string {
	vals := r.Values()
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
		t.Name(), sqlColumnList(t.ColumnNames()), strings.Join(quoted, ", "))
}

func (SQL) DecodeDatabaseName(string) string { return "" }

func (SQL) DecodeRow(t *engine.Table, line string) error {
	stmt, err := parser.Parse(line)
	if err != nil {
		return fmt.Errorf("invalid row/table format in SQL file: %s (%v)", line, err)
	}
	ins, ok := stmt.(*parser.InsertStmt)
	if !ok {
		return fmt.Errorf("invalid row/table format in SQL file: %s", line)
	}
	if ins.TableName != t.Name() {
		return fmt.Errorf("row for table %q inside table %q", ins.TableName, t.Name())
	}
	return t.Insert(ins.Columns, ins.Values)
}

func (SQL) decodeTable(line string, _ recordReader) (*engine.Table, bool, error) {
	if !strings.HasPrefix(strings.ToUpper(line), "CREATE") {
		return nil, false, nil
	}
	stmt, err := parser.Parse(line)
	if err != nil {
		return nil, true, fmt.Errorf("invalid row/table format in SQL file: %s (%v)", line, err)
	}
	ct, ok := stmt.(*parser.CreateTableStmt)
	if !ok {
		return nil, true, fmt.Errorf("invalid row/table format in SQL file: %s", line)
	}
	t, err := engine.NewTable(ct.TableName, engine.Columns(ct.Columns...))
	if err != nil {
		return nil, true, err
	}
	return t, true, nil
}

func sqlColumnList(cols []string) string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = sqlIdent(c)
	}
	return strings.Join(out, ", ")
}

// sqlIdent backquotes names that would not lex as a bare identifier.
func sqlIdent(name string) string {
	bare := name != ""
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			bare = false
		}
	}
	if bare {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
