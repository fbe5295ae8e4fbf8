package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuannm99/elemsql/internal/render"
	"github.com/tuannm99/elemsql/internal/session"
	"github.com/tuannm99/elemsql/internal/testutil"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer, *History) {
	t.Helper()
	testutil.UseTestLogger(t)

	var out bytes.Buffer
	h := NewHistory(filepath.Join(t.TempDir(), "history"))
	r := NewREPL(session.New(session.Options{DatabaseName: "shop"}), &out, render.New(&out, false), h, "elemsql> ")
	return r, &out, h
}

func TestREPL_MultiLineStatement(t *testing.T) {
	r, out, h := newTestREPL(t)
	ctx := context.Background()

	assert.False(t, r.HandleLine(ctx, "CREATE TABLE t"))
	assert.True(t, r.Pending())
	assert.Equal(t, "      -> ", r.Prompt())

	assert.False(t, r.HandleLine(ctx, "(a, b);"))
	assert.False(t, r.Pending())
	assert.Equal(t, "elemsql> ", r.Prompt())
	assert.Contains(t, out.String(), "Table 't' created.")

	require.Len(t, h.Lines(), 1)
	assert.Equal(t, "CREATE TABLE t (a, b);", h.Lines()[0])

	// persisted to disk
	b, err := os.ReadFile(h.path)
	require.NoError(t, err)
	assert.Equal(t, "CREATE TABLE t (a, b);\n", string(b))
}

func TestREPL_RendersResultsAndErrors(t *testing.T) {
	r, out, _ := newTestREPL(t)
	ctx := context.Background()

	r.HandleLine(ctx, `CREATE TABLE t (a); INSERT INTO t (a) VALUES ("v");`)
	out.Reset()

	r.HandleLine(ctx, `SELECT a FROM t WHERE a = "nope";`)
	assert.Equal(t, render.NoResults+"\n", out.String())
	out.Reset()

	r.HandleLine(ctx, `SELECT zz FROM t;`)
	assert.Contains(t, out.String(), "[COLUMN ACCESS FAILED]")
	out.Reset()

	r.HandleLine(ctx, `SELEKT;`)
	assert.Contains(t, out.String(), "[SYNTAX ERROR]")
	assert.Contains(t, out.String(), "Syntax error: invalid statement")
}

func TestREPL_MetaCommands(t *testing.T) {
	r, out, _ := newTestREPL(t)
	ctx := context.Background()

	r.HandleLine(ctx, `\tables`)
	assert.Contains(t, out.String(), render.NoTables)
	out.Reset()

	r.HandleLine(ctx, `CREATE TABLE t (a);`)
	path := filepath.Join(t.TempDir(), "db.dbexp")
	r.HandleLine(ctx, `\export `+path)
	assert.Contains(t, out.String(), "Exported to")
	_, err := os.Stat(path)
	require.NoError(t, err)

	r.HandleLine(ctx, `\create other`)
	out.Reset()
	r.HandleLine(ctx, `\tables`)
	assert.Contains(t, out.String(), render.NoTables)

	r.HandleLine(ctx, `\import `+path)
	out.Reset()
	r.HandleLine(ctx, `\tables`)
	assert.Contains(t, out.String(), "t")
	assert.NotContains(t, out.String(), render.NoTables)

	out.Reset()
	r.HandleLine(ctx, `\export out.txt`)
	assert.Contains(t, out.String(), "[FILE OPENING FAILED]")

	out.Reset()
	r.HandleLine(ctx, `\history`)
	assert.Contains(t, out.String(), "CREATE TABLE t (a);")

	out.Reset()
	r.HandleLine(ctx, `\bogus`)
	assert.Contains(t, out.String(), "unknown command")

	assert.True(t, r.HandleLine(ctx, `\q`))
	assert.True(t, r.HandleLine(ctx, "exit"))
}
