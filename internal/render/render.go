// Package render prints statement results and errors for terminal users.
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/format"
	"github.com/tuannm99/elemsql/internal/sql/executor"
	"github.com/tuannm99/elemsql/internal/sql/parser"
)

const (
	NoResults = "Query did not return any results."
	NoTables  = "No tables in database"
)

type styles struct {
	header  lipgloss.Style
	keyword lipgloss.Style
	notice  lipgloss.Style
}

// Renderer writes human-readable output to w. With color off it emits plain
// text only.
type Renderer struct {
	w      io.Writer
	color  bool
	styles styles
}

func New(w io.Writer, color bool) *Renderer {
	return &Renderer{
		w:     w,
		color: color,
		styles: styles{
			header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
			keyword: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			notice:  lipgloss.NewStyle().Faint(true),
		},
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// Result prints one statement result.
func (r *Renderer) Result(res *executor.Result) {
	switch res.Statement {
	case executor.KindSelect:
		if res.Table == nil || res.Table.Empty() {
			_, _ = fmt.Fprintln(r.w, r.style(r.styles.notice, NoResults))
			return
		}
		r.Table(*res.Table)
		_, _ = fmt.Fprintf(r.w, "(%d rows)\n", len(res.Table.Rows))

	case executor.KindShowTables:
		if len(res.Tables) == 0 {
			_, _ = fmt.Fprintln(r.w, r.style(r.styles.notice, NoTables))
			return
		}
		for _, td := range res.Tables {
			r.Table(td)
		}

	case executor.KindInsert, executor.KindUpdate, executor.KindDelete:
		_, _ = fmt.Fprintf(r.w, "%d row(s) affected.\n", res.AffectedRows)

	default:
		if res.Message != "" {
			_, _ = fmt.Fprintln(r.w, res.Message)
		}
	}
}

// Table prints td as a boxed grid titled with the table name.
func (r *Renderer) Table(td executor.TableData) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(td.Name)

	header := make(table.Row, len(td.Columns))
	for i, c := range td.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range td.Rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}
	t.Render()
}

// Error prints err under its category header.
func (r *Renderer) Error(err error) {
	_, _ = fmt.Fprintln(r.w, r.style(r.styles.header, Category(err)))
	_, _ = fmt.Fprintln(r.w, err.Error())
}

// categorized errors carry a category decided elsewhere, e.g. by a server.
type categorized interface {
	error
	Category() string
}

// Category names the failure class of err for display.
func Category(err error) string {
	var c categorized
	if errors.As(err, &c) && c.Category() != "" {
		return c.Category()
	}

	switch {
	case errors.Is(err, parser.ErrSyntax):
		return "[SYNTAX ERROR]"
	case errors.Is(err, format.ErrInvalidFormat):
		return "[INVALID FORMAT ERROR]"
	case errors.Is(err, format.ErrFileOpen), errors.Is(err, format.ErrUnsupportedExtension):
		return "[FILE OPENING FAILED]"
	case errors.Is(err, engine.ErrInvalidTableName):
		return "[INVALID TABLE NAME ERROR]"
	case errors.Is(err, engine.ErrTableExists), errors.Is(err, engine.ErrTableNotFound):
		return "[TABLE OPERATION FAILED]"
	case errors.Is(err, engine.ErrColumnNotFound):
		return "[COLUMN ACCESS FAILED]"
	case errors.Is(err, engine.ErrRowLengthMismatch):
		return "[INSERT FAILED]"
	case errors.Is(err, engine.ErrRowOutOfBounds):
		return "[ROW ACCESS FAILED]"
	default:
		return "[ERROR]"
	}
}

// Highlight styles the statement keywords in sql. Quoted text is left alone.
func (r *Renderer) Highlight(sql string) string {
	if !r.color {
		return sql
	}
	var b strings.Builder
	for _, l := range parser.Lex(sql) {
		if l.Keyword {
			b.WriteString(r.styles.keyword.Render(l.Text))
			continue
		}
		b.WriteString(l.Text)
	}
	return b.String()
}
