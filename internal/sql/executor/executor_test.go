package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/sql/parser"
)

func newTestExecutor(t *testing.T, stmts ...string) *Executor {
	t.Helper()
	e := NewExecutor(engine.NewDatabase("test"))
	for _, s := range stmts {
		_, err := e.ExecSQL(s)
		require.NoError(t, err, s)
	}
	return e
}

func seedShop(t *testing.T) *Executor {
	return newTestExecutor(t,
		`CREATE TABLE users (id, name, city)`,
		`INSERT INTO users (id, name, city) VALUES ("1", "ann", "oslo")`,
		`INSERT INTO users (id, name, city) VALUES ("2", "bob", "rome")`,
		`INSERT INTO users (name, id, city) VALUES ("cid", "3", "oslo")`,
		`CREATE TABLE orders (user_id, item)`,
		`INSERT INTO orders (user_id, item) VALUES ("1", "pen")`,
		`INSERT INTO orders (user_id, item) VALUES ("3", "ink")`,
	)
}

func TestExecSQL_CreateAndInsert(t *testing.T) {
	e := newTestExecutor(t)

	res, err := e.ExecSQL(`CREATE TABLE users (id, name);`)
	require.NoError(t, err)
	assert.Equal(t, KindCreateTable, res.Statement)
	assert.Equal(t, "Table 'users' created.", res.Message)

	res, err = e.ExecSQL(`INSERT INTO users (name, id) VALUES ("ann", "1");`)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.AffectedRows)

	tbl, err := e.DB().Table("users")
	require.NoError(t, err)
	r, err := tbl.Row(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "ann"}, r.Values())
}

func TestExecSQL_CreateTable_Duplicate(t *testing.T) {
	e := newTestExecutor(t, `CREATE TABLE users (id)`)

	_, err := e.ExecSQL(`CREATE TABLE users (name)`)
	require.ErrorIs(t, err, engine.ErrTableExists)

	tbl, err := e.DB().Table("users")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, tbl.ColumnNames())
}

func TestExecSQL_CreateTable_InvalidName(t *testing.T) {
	e := newTestExecutor(t)
	_, err := e.ExecSQL(`CREATE TABLE users2 (id)`)
	require.ErrorIs(t, err, engine.ErrInvalidTableName)
	assert.Empty(t, e.DB().TableNames())
}

func TestExecSQL_DropTable(t *testing.T) {
	e := seedShop(t)

	_, err := e.ExecSQL("DROP TABLE orders")
	require.NoError(t, err)
	assert.Equal(t, []string{"users"}, e.DB().TableNames())

	_, err = e.ExecSQL("DROP TABLE orders")
	require.ErrorIs(t, err, engine.ErrTableNotFound)
}

func TestExecSQL_Insert_Errors(t *testing.T) {
	e := seedShop(t)

	_, err := e.ExecSQL(`INSERT INTO users (id, age) VALUES ("4", "30")`)
	require.ErrorIs(t, err, engine.ErrColumnNotFound)

	_, err = e.ExecSQL(`INSERT INTO users (id, name) VALUES ("4")`)
	require.ErrorIs(t, err, engine.ErrRowLengthMismatch)

	_, err = e.ExecSQL(`INSERT INTO nope (id) VALUES ("4")`)
	require.ErrorIs(t, err, engine.ErrTableNotFound)

	tbl, _ := e.DB().Table("users")
	assert.Equal(t, 3, tbl.RowCount())
}

func TestExecSQL_Select(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`SELECT name, id FROM users WHERE city = "oslo"`)
	require.NoError(t, err)
	require.NotNil(t, res.Table)
	assert.Equal(t, "users", res.Table.Name)
	assert.Equal(t, []string{"name", "id"}, res.Table.Columns)
	assert.Equal(t, [][]string{{"ann", "1"}, {"cid", "3"}}, res.Table.Rows)
}

func TestExecSQL_Select_Star(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`SELECT * FROM orders`)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_id", "item"}, res.Table.Columns)
	assert.Len(t, res.Table.Rows, 2)
}

func TestExecSQL_Select_Empty(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`SELECT name FROM users WHERE city = "lima"`)
	require.NoError(t, err)
	assert.True(t, res.Table.Empty())
}

func TestExecSQL_Select_Join(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`SELECT u.name, o.item FROM users u JOIN orders o ON o.user_id = u.id WHERE u.city = oslo`)
	require.NoError(t, err)
	assert.Equal(t, engine.JoinResultName, res.Table.Name)
	assert.Equal(t, [][]string{{"ann", "pen"}, {"cid", "ink"}}, res.Table.Rows)
}

func TestExecSQL_Select_RelationalIgnored(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`SELECT id FROM users WHERE id > 1`)
	require.NoError(t, err)
	assert.Len(t, res.Table.Rows, 3)
}

func TestExecSQL_Select_OrderAndLimit(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`SELECT DISTINCT city FROM users ORDER BY city DESC`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"rome"}, {"oslo"}}, res.Table.Rows)

	res, err = e.ExecSQL(`SELECT name FROM users ORDER BY id DESC LIMIT 2 OFFSET 1`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"bob"}, {"ann"}}, res.Table.Rows)

	res, err = e.ExecSQL(`SELECT name FROM users LIMIT -1 OFFSET -2`)
	require.NoError(t, err)
	assert.Len(t, res.Table.Rows, 3)
}

func TestExecSQL_Select_Aggregates(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`SELECT city, COUNT(*), SUM(id) FROM users GROUP BY city ORDER BY COUNT(*) DESC`)
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "COUNT(*)", "SUM(id)"}, res.Table.Columns)
	assert.Equal(t, [][]string{{"oslo", "2", "4.00"}, {"rome", "1", "2.00"}}, res.Table.Rows)

	res, err = e.ExecSQL(`SELECT city FROM users GROUP BY city HAVING MAX(id) < 3`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"rome"}}, res.Table.Rows)

	res, err = e.ExecSQL(`SELECT AVG(u.id) FROM users u JOIN orders o ON u.id = o.user_id`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"2.00"}}, res.Table.Rows)

	_, err = e.ExecSQL(`SELECT SUM(age) FROM users`)
	require.ErrorIs(t, err, engine.ErrColumnNotFound)
}

func TestExecSQL_Update(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`UPDATE users SET city = "bergen", name = "x" WHERE city = "oslo"`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.AffectedRows)

	sel, err := e.ExecSQL(`SELECT name, city FROM users`)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"x", "bergen"}, {"bob", "rome"}, {"x", "bergen"}}, sel.Table.Rows)

	_, err = e.ExecSQL(`UPDATE users SET age = "3"`)
	require.ErrorIs(t, err, engine.ErrColumnNotFound)
}

func TestExecSQL_Delete(t *testing.T) {
	e := seedShop(t)

	res, err := e.ExecSQL(`DELETE FROM users WHERE name != "bob"`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.AffectedRows)

	res, err = e.ExecSQL(`DELETE FROM orders`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.AffectedRows)

	_, err = e.ExecSQL(`DELETE FROM nope`)
	require.ErrorIs(t, err, engine.ErrTableNotFound)
}

func TestExecSQL_ShowTables(t *testing.T) {
	e := newTestExecutor(t)
	res, err := e.ExecSQL("SHOW TABLES")
	require.NoError(t, err)
	assert.Equal(t, KindShowTables, res.Statement)
	assert.Empty(t, res.Tables)

	e = seedShop(t)
	res, err = e.ExecSQL("SHOW TABLES")
	require.NoError(t, err)
	require.Len(t, res.Tables, 2)
	assert.Equal(t, "orders", res.Tables[0].Name)
	assert.Equal(t, "users", res.Tables[1].Name)
	assert.Len(t, res.Tables[1].Rows, 3)
}

func TestExecSQL_SyntaxError(t *testing.T) {
	e := newTestExecutor(t)
	_, err := e.ExecSQL("SELEC * FROM users")
	require.True(t, errors.Is(err, parser.ErrSyntax))
}

func TestExecute_NoDatabase(t *testing.T) {
	e := NewExecutor(nil)
	_, err := e.Execute(&parser.ShowTablesStmt{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no database selected")
}

func TestExecSQL_StatementCache(t *testing.T) {
	e := NewExecutor(engine.NewDatabase("d"), WithStatementCache(4))
	_, err := e.ExecSQL(`CREATE TABLE t (a)`)
	require.NoError(t, err)

	const ins = `INSERT INTO t (a) VALUES ("x")`
	for i := 0; i < 3; i++ {
		_, err := e.ExecSQL(ins)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, e.stmts.Len())

	tbl, _ := e.DB().Table("t")
	assert.Equal(t, 3, tbl.RowCount())
}
