package format

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/elemsql/internal/engine"
)

func shopDB(t *testing.T) *engine.Database {
	t.Helper()
	db := engine.NewDatabase("shop")

	users, err := db.CreateTable("users", engine.Columns("id", "name"))
	require.NoError(t, err)
	require.NoError(t, users.AddRow([]string{"1", "ann"}))
	require.NoError(t, users.AddRow([]string{"2", `say "hi"`}))

	orders, err := db.CreateTable("orders", engine.Columns("user_id", "item"))
	require.NoError(t, err)
	require.NoError(t, orders.AddRow([]string{"1", "pen"}))

	_, err = db.CreateTable("empty", engine.Columns("x"))
	require.NoError(t, err)
	return db
}

func dump(db *engine.Database) map[string][][]string {
	out := make(map[string][][]string)
	for _, t := range db.Tables() {
		rows := [][]string{t.ColumnNames()}
		for _, r := range t.Rows() {
			rows = append(rows, r.Values())
		}
		out[t.Name()] = rows
	}
	return out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestEncode_Custom(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(shopDB(t), Custom{}, &buf))

	want := strings.Join([]string{
		"Database: shop",
		"Table: empty (Rows: 0)",
		"x",
		"Table: orders (Rows: 1)",
		"user_id | item",
		"1 | pen",
		"Table: users (Rows: 2)",
		"id | name",
		"1 | ann",
		`2 | say "hi"`,
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestEncode_SQL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(shopDB(t), SQL{}, &buf))

	want := strings.Join([]string{
		"CREATE TABLE empty (x);",
		"CREATE TABLE orders (user_id, item);",
		`INSERT INTO orders (user_id, item) VALUES ("1", "pen");`,
		"CREATE TABLE users (id, name);",
		`INSERT INTO users (id, name) VALUES ("1", "ann");`,
		`INSERT INTO users (id, name) VALUES ("2", "say ""hi""");`,
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestExportImport_RoundTrip(t *testing.T) {
	for _, f := range All() {
		t.Run(f.Name(), func(t *testing.T) {
			src := shopDB(t)
			path := filepath.Join(t.TempDir(), "shop"+f.Extension())
			require.NoError(t, Export(src, f, path))

			db, err := ImportFile(path)
			require.NoError(t, err)
			assert.Equal(t, dump(src), dump(db))

			if f.Name() == "custom" {
				assert.Equal(t, "shop", db.Name())
			} else {
				assert.Equal(t, engine.DefaultDatabaseName, db.Name())
			}
		})
	}
}

func TestRoundTrip_QuotedColumnNames(t *testing.T) {
	db := engine.NewDatabase("d")
	tbl, err := db.CreateTable("t", engine.Columns("home city", "id"))
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow([]string{"oslo", "1"}))

	path := filepath.Join(t.TempDir(), "d.sql")
	require.NoError(t, Export(db, SQL{}, path))

	back, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, dump(db), dump(back))
}

func TestImportFile_Custom(t *testing.T) {
	path := writeFile(t, "x.DBEXP", `
Database: school

Table: pupils (Rows: 2)
id | name
 1 |  ann
2|bob
Table: rooms
room
`)
	db, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, "school", db.Name())
	assert.Equal(t, map[string][][]string{
		"pupils": {{"id", "name"}, {"1", "ann"}, {"2", "bob"}},
		"rooms":  {{"room"}},
	}, dump(db))
}

func TestImportFile_CustomWithoutDatabaseLine(t *testing.T) {
	path := writeFile(t, "x.dbexp", "Table: t (Rows: 1)\na\nv\n")
	db, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultDatabaseName, db.Name())
	assert.True(t, db.HasTable("t"))
}

func TestImportFile_RowBeforeHeaderSkipped(t *testing.T) {
	path := writeFile(t, "x.dbexp", "Database: d\nstray | row\nTable: t\na\nv\n")
	db, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string][][]string{"t": {{"a"}, {"v"}}}, dump(db))
}

func TestImportFile_Errors(t *testing.T) {
	_, err := ImportFile(writeFile(t, "x.csv", "a,b"))
	require.ErrorIs(t, err, ErrUnsupportedExtension)

	_, err = ImportFile(filepath.Join(t.TempDir(), "missing.sql"))
	require.ErrorIs(t, err, ErrFileOpen)

	_, err = ImportFile(writeFile(t, "x.sql", "CREATE TABLE t (a);\nINSERT INTO t (a) VALUES (1);\n"))
	require.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "line 2")

	_, err = ImportFile(writeFile(t, "x.sql", "CREATE TABLE t (a);\nDROP TABLE t;\n"))
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ImportFile(writeFile(t, "x.dbexp", "Database: d\nTable: t\na | b\n1 | 2 | 3\n"))
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = ImportFile(writeFile(t, "x.dbexp", "Database: d\nTable: bad1\na\n"))
	require.ErrorIs(t, err, ErrInvalidFormat)
	require.ErrorIs(t, err, engine.ErrInvalidTableName)

	_, err = ImportFile(writeFile(t, "x.dbexp", "Table: t\na\nTable: t\nb\n"))
	require.ErrorIs(t, err, engine.ErrTableExists)
}

func TestImport_AllOrNothing(t *testing.T) {
	db := engine.NewDatabase("d")
	_, err := db.CreateTable("b", engine.Columns("x"))
	require.NoError(t, err)

	path := writeFile(t, "x.sql", "CREATE TABLE a (x);\nCREATE TABLE b (x);\n")
	err = Import(db, SQL{}, path)
	require.ErrorIs(t, err, engine.ErrTableExists)
	assert.Equal(t, []string{"b"}, db.TableNames())

	path = writeFile(t, "y.sql", "CREATE TABLE a (x);\nINSERT INTO a (x) VALUES (\"1\");\n")
	require.NoError(t, Import(db, SQL{}, path))
	assert.Equal(t, []string{"a", "b"}, db.TableNames())
}

func TestExport_ExtensionMismatch(t *testing.T) {
	err := Export(shopDB(t), SQL{}, filepath.Join(t.TempDir(), "out.dbexp"))
	require.ErrorIs(t, err, ErrUnsupportedExtension)

	err = Export(shopDB(t), Custom{}, filepath.Join(t.TempDir(), "nodir", "out.dbexp"))
	require.ErrorIs(t, err, ErrFileOpen)
}

func TestForName(t *testing.T) {
	f, err := ForName("SQL")
	require.NoError(t, err)
	assert.Equal(t, SQL{}, f)

	f, err = ForName("dbexp")
	require.NoError(t, err)
	assert.Equal(t, Custom{}, f)

	_, err = ForName("xml")
	require.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestRoundTrip_ValuesThatLookLikeSyntax(t *testing.T) {
	awkward := []string{
		"line1\nline2",
		"Database: prod",
		"Table: x (Rows: 9)",
		"",
		"a | b",
		`back\slash\n`,
		"cr\r\nlf",
		`say "hi"; -- not a comment`,
		"last",
	}

	for _, f := range All() {
		t.Run(f.Name(), func(t *testing.T) {
			db := engine.NewDatabase("shop")
			single, err := db.CreateTable("notes", engine.Columns("body"))
			require.NoError(t, err)
			pairs, err := db.CreateTable("pairs", engine.Columns("k", "v"))
			require.NoError(t, err)
			for i, v := range awkward {
				require.NoError(t, single.AddRow([]string{v}))
				require.NoError(t, pairs.AddRow([]string{v, awkward[len(awkward)-1-i]}))
			}

			path := filepath.Join(t.TempDir(), "shop"+f.Extension())
			require.NoError(t, Export(db, f, path))

			back, err := ImportFile(path)
			require.NoError(t, err)
			assert.Equal(t, dump(db), dump(back))
		})
	}
}

func TestEncode_CustomEscapes(t *testing.T) {
	db := engine.NewDatabase("d")
	tbl, err := db.CreateTable("t", engine.Columns("a|b", "c"))
	require.NoError(t, err)
	require.NoError(t, tbl.AddRow([]string{"x\ny", `p|q\`}))

	var buf bytes.Buffer
	require.NoError(t, Encode(db, Custom{}, &buf))
	assert.Equal(t, "Database: d\nTable: t (Rows: 1)\na\\|b | c\nx\\ny | p\\|q\\\\\n", buf.String())
}

func TestImportFile_CustomRowCount(t *testing.T) {
	path := writeFile(t, "x.dbexp", "Database: d\nTable: t (Rows: 2)\na\nDatabase: other\nTable: u\nTable: v\nb\n")
	db, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string][][]string{
		"t": {{"a"}, {"Database: other"}, {"Table: u"}},
		"v": {{"b"}},
	}, dump(db))

	_, err = ImportFile(writeFile(t, "y.dbexp", "Table: t (Rows: 3)\na\n1\n2\n"))
	require.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "declares 3 rows, found 2")
}

func TestImportFile_SQLStatementsAcrossLines(t *testing.T) {
	path := writeFile(t, "x.sql", `-- exported by hand
CREATE TABLE t
  (a, b);
INSERT INTO t (a, b) VALUES ("multi
line", 'x'); INSERT INTO t (b) VALUES ("y");
`)
	db, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, map[string][][]string{
		"t": {{"a", "b"}, {"multi\nline", "x"}, {"", "y"}},
	}, dump(db))

	_, err = ImportFile(writeFile(t, "y.sql", "CREATE TABLE t (a);\n\n\nINSERT INTO t (a)\nVALUES (1);\n"))
	require.ErrorIs(t, err, ErrInvalidFormat)
	assert.Contains(t, err.Error(), "line 4")
}
