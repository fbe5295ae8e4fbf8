package format

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/sql/parser"
	"github.com/tuannm99/elemsql/pkg/util"
)

const maxLineSize = 16 << 20

// recordReader yields the records of an interchange file together with the
// line each one starts on.
type recordReader interface {
	// next returns the next non-blank record.
	next() (string, bool)
	// nextRaw returns the next record even when it is blank.
	nextRaw() (string, bool)
	// at is the line on which the last returned record starts.
	at() int
	err() error
}

// lineReader yields trimmed lines.
type lineReader struct {
	sc   *bufio.Scanner
	n    int // lines scanned so far
	last int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &lineReader{sc: sc}
}

func (r *lineReader) next() (string, bool) {
	for {
		s, ok := r.nextRaw()
		if !ok || s != "" {
			return s, ok
		}
	}
}

func (r *lineReader) nextRaw() (string, bool) {
	if !r.sc.Scan() {
		return "", false
	}
	r.n++
	r.last = r.n
	return strings.TrimSpace(r.sc.Text()), true
}

func (r *lineReader) at() int { return r.last }

func (r *lineReader) err() error { return r.sc.Err() }

// statementReader yields the statements of an SQL script. A statement may
// span several lines, e.g. when a quoted value holds a line break.
type statementReader struct {
	frags   []parser.Fragment
	i       int
	last    int
	readErr error
}

func newStatementReader(r io.Reader) *statementReader {
	b, err := io.ReadAll(r)
	return &statementReader{frags: parser.SplitStatements(string(b)), readErr: err}
}

func (r *statementReader) next() (string, bool) {
	if r.readErr != nil || r.i >= len(r.frags) {
		return "", false
	}
	f := r.frags[r.i]
	r.i++
	r.last = f.Line
	return f.Text, true
}

func (r *statementReader) nextRaw() (string, bool) { return r.next() }

func (r *statementReader) at() int { return r.last }

func (r *statementReader) err() error { return r.readErr }

// Decode reads a whole file in format f. It returns the database name found
// on the first line (if the format records one) and the decoded tables in
// file order. Nothing is committed anywhere.
func Decode(f Format, src io.Reader) (string, []*engine.Table, error) {
	r := f.newReader(src)

	var (
		name    string
		tables  []*engine.Table
		current *engine.Table
		first   = true
	)

	for {
		line, ok := r.next()
		if !ok {
			break
		}
		if first {
			first = false
			if name = f.DecodeDatabaseName(line); name != "" {
				continue
			}
		}

		t, isHeader, err := f.decodeTable(line, r)
		switch {
		case err != nil:
			return "", nil, invalidLine(r.at(), err)
		case isHeader:
			current = t
			tables = append(tables, t)
			continue
		}

		if current == nil {
			slog.Warn("format: row outside of any table skipped", "format", f.Name(), "line", r.at())
			continue
		}
		if err := f.DecodeRow(current, line); err != nil {
			return "", nil, invalidLine(r.at(), err)
		}
	}
	if err := r.err(); err != nil {
		return "", nil, fmt.Errorf("format: read: %w", err)
	}
	return name, tables, nil
}

// Import decodes the file at path in format f and adds its tables to db.
// Either every table is added or, on any error, none is.
func Import(db *engine.Database, f Format, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileOpen, path, err)
	}
	defer util.CloseFunc(file, path)

	_, tables, err := Decode(f, file)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return commit(db, tables)
}

func commit(db *engine.Database, tables []*engine.Table) error {
	seen := make(map[string]bool, len(tables))
	for _, t := range tables {
		if db.HasTable(t.Name()) || seen[t.Name()] {
			return fmt.Errorf("%w: %q", engine.ErrTableExists, t.Name())
		}
		seen[t.Name()] = true
	}
	for _, t := range tables {
		if err := db.AddTable(t); err != nil {
			return err
		}
	}
	return nil
}

// ImportFile builds a new database from path, choosing the format by file
// extension. The database takes the name recorded in the file, or
// engine.DefaultDatabaseName when there is none.
func ImportFile(path string) (*engine.Database, error) {
	f, err := ForPath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFileOpen, path, err)
	}
	defer util.CloseFunc(file, path)

	name, tables, err := Decode(f, file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if name == "" {
		name = engine.DefaultDatabaseName
	}

	db := engine.NewDatabase(name)
	if err := commit(db, tables); err != nil {
		return nil, err
	}
	slog.Info("format: database imported", "path", path, "format", f.Name(), "database", name, "tables", len(tables))
	return db, nil
}

// Encode writes db to w in format f.
func Encode(db *engine.Database, f Format, w io.Writer) error {
	bw := bufio.NewWriter(w)
	write := func(line string) {
		_, _ = bw.WriteString(line)
		_ = bw.WriteByte('\n')
	}

	if l := f.EncodeDatabaseName(db.Name()); l != "" {
		write(l)
	}
	for _, t := range db.Tables() {
		for _, l := range f.EncodeTable(t) {
			write(l)
		}
		for _, r := range t.Rows() {
			write(f.EncodeRow(t, r))
		}
	}
	return bw.Flush()
}

// Export writes db to path in format f. The path must carry f's extension.
func Export(db *engine.Database, f Format, path string) error {
	if !strings.EqualFold(filepath.Ext(path), f.Extension()) {
		return fmt.Errorf("%w: %q (want %s for %s)", ErrUnsupportedExtension, path, f.Extension(), f.Name())
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrFileOpen, path, err)
	}
	if err := Encode(db, f, file); err != nil {
		_ = file.Close()
		return fmt.Errorf("format: write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("format: close %s: %w", path, err)
	}
	slog.Info("format: database exported", "path", path, "format", f.Name(), "tables", len(db.TableNames()))
	return nil
}
