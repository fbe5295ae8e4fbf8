package render

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/format"
	"github.com/tuannm99/elemsql/internal/sql/executor"
	"github.com/tuannm99/elemsql/internal/sql/parser"
)

func TestResult_SelectEmpty(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Result(&executor.Result{
		Statement: executor.KindSelect,
		Table:     &executor.TableData{Name: "users", Columns: []string{"id"}},
	})
	assert.Equal(t, NoResults+"\n", buf.String())
}

func TestResult_SelectRows(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Result(&executor.Result{
		Statement: executor.KindSelect,
		Table: &executor.TableData{
			Name:    "users",
			Columns: []string{"id", "name"},
			Rows:    [][]string{{"1", "ann"}, {"2", "bob"}},
		},
	})
	out := buf.String()
	for _, s := range []string{"users", "id", "name", "ann", "bob", "(2 rows)"} {
		assert.Contains(t, out, s)
	}
}

func TestResult_ShowTables(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Result(&executor.Result{Statement: executor.KindShowTables})
	assert.Equal(t, NoTables+"\n", buf.String())

	buf.Reset()
	r.Result(&executor.Result{
		Statement: executor.KindShowTables,
		Tables: []executor.TableData{
			{Name: "orders", Columns: []string{"item"}},
			{Name: "users", Columns: []string{"id"}, Rows: [][]string{{"7"}}},
		},
	})
	out := buf.String()
	assert.Contains(t, out, "orders")
	assert.Contains(t, out, "users")
	assert.Contains(t, out, "7")
}

func TestResult_Messages(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, false)
	r.Result(&executor.Result{Statement: executor.KindDelete, AffectedRows: 3})
	r.Result(&executor.Result{Statement: executor.KindCreateTable, Message: "Table 't' created."})
	assert.Equal(t, "3 row(s) affected.\nTable 't' created.\n", buf.String())
}

func TestCategory(t *testing.T) {
	_, syntaxErr := parser.Parse("NOPE")
	cases := []struct {
		err  error
		want string
	}{
		{syntaxErr, "[SYNTAX ERROR]"},
		{fmt.Errorf("x: %w", engine.ErrTableExists), "[TABLE OPERATION FAILED]"},
		{engine.ErrTableNotFound, "[TABLE OPERATION FAILED]"},
		{engine.ErrInvalidTableName, "[INVALID TABLE NAME ERROR]"},
		{engine.ErrColumnNotFound, "[COLUMN ACCESS FAILED]"},
		{engine.ErrRowLengthMismatch, "[INSERT FAILED]"},
		{engine.ErrRowOutOfBounds, "[ROW ACCESS FAILED]"},
		{format.ErrFileOpen, "[FILE OPENING FAILED]"},
		{fmt.Errorf("%w: %w", format.ErrInvalidFormat, engine.ErrInvalidTableName), "[INVALID FORMAT ERROR]"},
		{fmt.Errorf("boom"), "[ERROR]"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Category(tc.err), "%v", tc.err)
	}
}

func TestError(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Error(engine.ErrTableNotFound)
	assert.Equal(t, "[TABLE OPERATION FAILED]\nengine: table does not exist\n", buf.String())
}

func TestHighlight(t *testing.T) {
	plain := New(&bytes.Buffer{}, false)
	assert.Equal(t, "select * from t", plain.Highlight("select * from t"))

	colored := New(&bytes.Buffer{}, true)
	out := colored.Highlight(`SELECT name FROM t WHERE name = "from"`)
	require.Contains(t, out, "name")
	// quoted text is never restyled
	assert.Contains(t, out, `"from"`)
}
