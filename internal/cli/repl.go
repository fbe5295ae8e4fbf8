package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tuannm99/elemsql/internal/format"
	"github.com/tuannm99/elemsql/internal/render"
	"github.com/tuannm99/elemsql/internal/session"
	"github.com/tuannm99/elemsql/internal/sql/parser"
)

const helpText = `meta commands:
  \q | quit | exit           quit
  \help                      show help
  \history [n]               print the last n statements
  \tables                    list tables (same as SHOW TABLES)
  \create <name>             start a new empty database
  \import <path>             replace the database with a .dbexp/.sql file
  \export <path>             save the database; format follows the extension

statements:
  end a statement with ';'
  multi-line input is kept until ';'`

// REPL is the line-oriented shell. It is driven by HandleLine so the
// terminal loop stays thin.
type REPL struct {
	backend session.Backend
	out     io.Writer
	render  *render.Renderer
	history *History

	prompt     string
	contPrompt string
	buf        strings.Builder
}

func NewREPL(backend session.Backend, out io.Writer, r *render.Renderer, h *History, prompt string) *REPL {
	cont := strings.Repeat(" ", max(len(prompt)-3, 0)) + "-> "
	return &REPL{
		backend:    backend,
		out:        out,
		render:     r,
		history:    h,
		prompt:     prompt,
		contPrompt: cont,
	}
}

// Prompt returns the prompt for the next line.
func (r *REPL) Prompt() string {
	if r.buf.Len() > 0 {
		return r.contPrompt
	}
	return r.prompt
}

// Reset drops any partial statement.
func (r *REPL) Reset() { r.buf.Reset() }

// Pending reports whether a partial statement is buffered.
func (r *REPL) Pending() bool { return r.buf.Len() > 0 }

// HandleLine consumes one input line and reports whether the user asked to
// quit.
func (r *REPL) HandleLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if r.buf.Len() == 0 && isMetaCommand(line) {
		return r.meta(ctx, line)
	}

	if r.buf.Len() > 0 {
		r.buf.WriteByte('\n')
	}
	r.buf.WriteString(line)

	stmt := r.buf.String()
	if !parser.StatementComplete(stmt) {
		return false
	}
	r.buf.Reset()

	_ = r.history.Append(stmt)
	r.run(ctx, stmt)
	return false
}

func (r *REPL) run(ctx context.Context, sql string) {
	results, err := r.backend.Execute(ctx, sql)
	for _, res := range results {
		r.render.Result(res)
	}
	if err != nil {
		r.render.Error(err)
	}
}

func (r *REPL) meta(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case `\q`, "quit", "exit":
		return true
	case `\help`:
		_, _ = fmt.Fprintln(r.out, helpText)
	case `\history`:
		n := 50
		if len(args) > 0 {
			if v, err := strconv.Atoi(args[0]); err == nil {
				n = v
			}
		}
		r.history.Print(r.out, n)
	case `\tables`:
		r.run(ctx, "SHOW TABLES")
	case `\create`:
		if len(args) != 1 {
			_, _ = fmt.Fprintln(r.out, `usage: \create <name>`)
			return false
		}
		if err := r.backend.CreateDatabase(ctx, args[0]); err != nil {
			r.render.Error(err)
			return false
		}
		_, _ = fmt.Fprintf(r.out, "Database '%s' created.\n", args[0])
	case `\import`:
		if len(args) != 1 {
			_, _ = fmt.Fprintln(r.out, `usage: \import <path>`)
			return false
		}
		if err := r.backend.Import(ctx, args[0]); err != nil {
			r.render.Error(err)
			return false
		}
		_, _ = fmt.Fprintf(r.out, "Imported %s.\n", args[0])
	case `\export`:
		if len(args) != 1 {
			_, _ = fmt.Fprintln(r.out, `usage: \export <path>`)
			return false
		}
		if err := exportByExtension(ctx, r.backend, args[0]); err != nil {
			r.render.Error(err)
			return false
		}
		_, _ = fmt.Fprintf(r.out, "Exported to %s.\n", args[0])
	default:
		_, _ = fmt.Fprintf(r.out, "unknown command: %s\n", line)
	}
	return false
}

func exportByExtension(ctx context.Context, b session.Backend, path string) error {
	f, err := format.ForPath(path)
	if err != nil {
		return err
	}
	return b.Export(ctx, f.Name(), path)
}

func isMetaCommand(line string) bool {
	return strings.HasPrefix(line, `\`) || line == "quit" || line == "exit"
}

// keywordPainter highlights keywords as the user types.
type keywordPainter struct {
	r *render.Renderer
}

func (p keywordPainter) Paint(line []rune, _ int) []rune {
	return []rune(p.r.Highlight(string(line)))
}

func runREPL(cmd *cobra.Command, addr string, timeout time.Duration) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)

	backend, err := newBackend(ctx, cfg, addr, timeout)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	histPath := cfg.REPL.History
	if histPath == "" {
		histPath = defaultHistoryPath()
	}
	h := NewHistory(histPath)
	_ = h.Load(cfg.REPL.HistoryMax)

	out := cmd.OutOrStdout()
	rdr := render.New(out, cfg.REPL.Color)
	repl := NewREPL(backend, out, rdr, h, cfg.REPL.Prompt)

	rlCfg := &readline.Config{
		Prompt:          repl.Prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	}
	if cfg.REPL.Color {
		rlCfg.Painter = keywordPainter{r: rdr}
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return fmt.Errorf("readline: %w", err)
	}
	defer func() { _ = rl.Close() }()

	// preload history so arrow keys work immediately
	for _, line := range h.Lines() {
		_ = rl.SaveHistory(line)
	}

	if addr != "" {
		_, _ = fmt.Fprintf(out, "connected to %s\n", addr)
	}
	_, _ = fmt.Fprintln(out, `type \help for help`)

	for {
		rl.SetPrompt(repl.Prompt())
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			// Ctrl+C clears the current buffer
			if repl.Pending() {
				repl.Reset()
				continue
			}
			_, _ = fmt.Fprintln(out, "^C")
			continue
		}
		if err != nil {
			// EOF
			_, _ = fmt.Fprintln(out)
			return nil
		}
		if repl.HandleLine(ctx, line) {
			return nil
		}
	}
}

func newClientCommand(rf *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Interactive shell connected to an elemsql server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr := rf.connect
			if addr == "" {
				addr = GetConfig(cmd.Context()).Server.Addr
			}
			return runREPL(cmd, addr, rf.timeout)
		},
	}
	cmd.Flags().String("history", "", "history file path")
	return cmd
}
