package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuannm99/elemsql/internal/render"
	"github.com/tuannm99/elemsql/internal/sql/parser"
)

type execFlags struct {
	command    string
	importPath string
	exportPath string
	echo       bool
}

func newExecCommand(rf *rootFlags) *cobra.Command {
	var ef execFlags

	cmd := &cobra.Command{
		Use:   "exec [file...]",
		Short: "Run statements from -c, files or stdin",
		Long: `Run statements in batch. Statements come from -c, from the given files in
order, or from stdin when neither is given. Execution stops at the first
failing statement, which is reported with its file and line.`,
		Example: `  elemsql exec -c "CREATE TABLE t (a); SHOW TABLES;"
  elemsql exec --import shop.dbexp -c "SELECT * FROM users;"
  elemsql exec schema.sql --export out.dbexp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, rf, ef, args)
		},
	}

	cmd.Flags().StringVarP(&ef.command, "command", "c", "", "statements to run")
	cmd.Flags().StringVar(&ef.importPath, "import", "", "load this .dbexp/.sql file first")
	cmd.Flags().StringVar(&ef.exportPath, "export", "", "save the database here afterwards")
	cmd.Flags().BoolVar(&ef.echo, "echo", false, "print each statement before its result")
	return cmd
}

type source struct {
	name string
	text string
}

func runExec(cmd *cobra.Command, rf *rootFlags, ef execFlags, files []string) error {
	ctx := cmd.Context()
	cfg := GetConfig(ctx)

	var sources []source
	switch {
	case ef.command != "":
		sources = append(sources, source{name: "-c", text: ef.command})
	case len(files) > 0:
		for _, f := range files {
			b, err := os.ReadFile(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", f, err)
			}
			sources = append(sources, source{name: f, text: string(b)})
		}
	case ef.importPath == "":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		sources = append(sources, source{name: "stdin", text: string(b)})
	}

	backend, err := newBackend(ctx, cfg, rf.connect, rf.timeout)
	if err != nil {
		return err
	}
	defer func() { _ = backend.Close() }()

	out := cmd.OutOrStdout()
	rdr := render.New(out, cfg.REPL.Color)

	if ef.importPath != "" {
		if err := backend.Import(ctx, ef.importPath); err != nil {
			rdr.Error(err)
			return err
		}
	}

	for _, src := range sources {
		frags := parser.SplitStatements(src.text)
		results, err := backend.Execute(ctx, src.text)
		for i, res := range results {
			if ef.echo && i < len(frags) {
				_, _ = fmt.Fprintln(out, rdr.Highlight(frags[i].Text+";"))
			}
			rdr.Result(res)
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", src.name, err)
			rdr.Error(err)
			return err
		}
	}

	if ef.exportPath != "" {
		if err := exportByExtension(ctx, backend, ef.exportPath); err != nil {
			rdr.Error(err)
			return err
		}
	}
	return nil
}
