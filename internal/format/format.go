// Package format reads and writes databases in the two textual interchange
// formats: Custom (.dbexp) and an SQL subset (.sql).
package format

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tuannm99/elemsql/internal/engine"
)

var (
	ErrFileOpen             = errors.New("format: cannot open file")
	ErrInvalidFormat        = errors.New("format: invalid format")
	ErrUnsupportedExtension = errors.New("format: unsupported file extension")
)

// Format is one interchange encoding. The set is closed: Custom and SQL.
type Format interface {
	Name() string
	Extension() string

	// EncodeDatabaseName returns the leading database line, or "" when the
	// format does not record the name.
	EncodeDatabaseName(name string) string
	// EncodeTable returns the header lines that open table t.
	EncodeTable(t *engine.Table) []string
	EncodeRow(t *engine.Table, r engine.Row) string

	// DecodeDatabaseName extracts the database name from the first line of a
	// file, or "" if the line does not carry one.
	DecodeDatabaseName(line string) string
	// DecodeRow adds the row encoded by line to t.
	DecodeRow(t *engine.Table, line string) error

	// decodeTable opens a new table if line is a table header. It may pull
	// further records from r.
	decodeTable(line string, r recordReader) (*engine.Table, bool, error)
	newReader(src io.Reader) recordReader
	formatNode()
}

// All lists every supported format.
func All() []Format { return []Format{Custom{}, SQL{}} }

// ForName returns the format called name ("custom"/"dbexp" or "sql").
func ForName(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "custom", "dbexp", ".dbexp":
		return Custom{}, nil
	case "sql", ".sql":
		return SQL{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrUnsupportedExtension, name)
	}
}

// ForPath picks the format from the file extension, case-insensitively.
func ForPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	for _, f := range All() {
		if strings.EqualFold(ext, f.Extension()) {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %q (want .dbexp or .sql)", ErrUnsupportedExtension, path)
}

func invalidLine(lineNo int, err error) error {
	return fmt.Errorf("%w: line %d: %w", ErrInvalidFormat, lineNo, err)
}
