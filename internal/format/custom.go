package format

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/tuannm99/elemsql/internal/engine"
)

const (
	customDatabasePrefix = "Database:"
	customTablePrefix    = "Table:"
	customSeparator      = " | "
)

// customHeader matches "Table: name" with an optional "(Rows: n)".
var customHeader = regexp.MustCompile(`^Table:\s*(.*?)\s*(?:\(Rows:\s*(\d+)\))?$`)

var customEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\n", `\n`, "\r", `\r`)

// Custom is the line-oriented .dbexp format:
//
//	Database: shop
//	Table: users (Rows: 2)
//	id | name
//	1 | ann
//	2 | bob
//
// The row count in a table header says how many lines after the column line
// are data, whatever they look like. Inside values '\', '|' and line breaks
// are backslash-escaped. Values are trimmed on decode.
type Custom struct{}

func (Custom) formatNode() {}

func (Custom) Name() string      { return "custom" }
func (Custom) Extension() string { return ".dbexp" }

func (Custom) newReader(src io.Reader) recordReader { return newLineReader(src) }

func (Custom) EncodeDatabaseName(name string) string {
	return customDatabasePrefix + " " + name
}

func (Custom) EncodeTable(t *engine.Table) []string {
	return []string{
		fmt.Sprintf("%s %s (Rows: %d)", customTablePrefix, t.Name(), t.RowCount()),
		joinCustom(t.ColumnNames()),
	}
}

func (Custom) EncodeRow(_ *engine.Table, r engine.Row) string {
	return joinCustom(r.Values())
}

func (Custom) DecodeDatabaseName(line string) string {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), customDatabasePrefix)
	if !ok {
		return ""
	}
	return strings.TrimSpace(rest)
}

func (Custom) DecodeRow(t *engine.Table, line string) error {
	vals := splitCustom(line)
	if len(vals) != len(t.Columns()) {
		return fmt.Errorf("row has %d values, table %q has %d columns", len(vals), t.Name(), len(t.Columns()))
	}
	return t.AddRow(vals)
}

func (c Custom) decodeTable(line string, r recordReader) (*engine.Table, bool, error) {
	m := customHeader.FindStringSubmatch(line)
	if m == nil {
		return nil, false, nil
	}
	name := m[1]
	if name == "" {
		return nil, true, fmt.Errorf("table header without a name: %q", line)
	}

	header, ok := r.next()
	if !ok {
		return nil, true, fmt.Errorf("table %q has no column header", name)
	}
	t, err := engine.NewTable(name, engine.Columns(splitCustom(header)...))
	if err != nil {
		return nil, true, err
	}
	if m[2] == "" {
		return t, true, nil
	}

	n, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, true, fmt.Errorf("bad row count in %q: %w", line, err)
	}
	// a blank line is a row only where it can be one: a lone empty value
	read := r.next
	if len(t.Columns()) == 1 {
		read = r.nextRaw
	}
	for i := 0; i < n; i++ {
		row, ok := read()
		if !ok {
			return nil, true, fmt.Errorf("table %q declares %d rows, found %d", name, n, i)
		}
		if err := c.DecodeRow(t, row); err != nil {
			return nil, true, err
		}
	}
	return t, true, nil
}

func joinCustom(vals []string) string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = customEscaper.Replace(v)
	}
	return strings.Join(out, customSeparator)
}

// splitCustom splits line on unescaped '|', trims each field and then
// resolves escapes. Unknown escapes are kept as written.
func splitCustom(line string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '\\' && i+1 < len(line):
			cur.WriteByte(c)
			cur.WriteByte(line[i+1])
			i++
		case c == '|':
			parts = append(parts, unescapeCustom(strings.TrimSpace(cur.String())))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(parts, unescapeCustom(strings.TrimSpace(cur.String())))
}

func unescapeCustom(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case '\\', '|':
			b.WriteByte(s[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
