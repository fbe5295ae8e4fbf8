package engine

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
)

// AggFunc is an aggregate over the rows of a group.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

// ParseAggFunc maps an upper-case function name to its AggFunc.
func ParseAggFunc(name string) (AggFunc, bool) {
	switch f := AggFunc(name); f {
	case AggCount, AggSum, AggAvg, AggMin, AggMax:
		return f, true
	}
	return "", false
}

// Aggregate is one output column of a grouped select: Func over Column, or
// the group's first value of Column when Func is empty. Column is "*" only
// in COUNT(*) and in the plain all-columns projection.
type Aggregate struct {
	Func   AggFunc
	Column string
}

// String is the output column name, e.g. "SUM(price)".
func (a Aggregate) String() string {
	if a.Func == "" {
		return a.Column
	}
	return string(a.Func) + "(" + a.Column + ")"
}

// eval computes a over rows; col is the position of a.Column, or -1 for
// COUNT(*). Empty values count as missing. SUM, AVG, MIN and MAX skip
// non-numeric values and print two decimals; AVG, MIN and MAX of nothing
// are empty.
func (a Aggregate) eval(rows [][]string, col int) string {
	switch a.Func {
	case "":
		if len(rows) == 0 {
			return ""
		}
		return rows[0][col]
	case AggCount:
		if col < 0 {
			return strconv.Itoa(len(rows))
		}
		n := 0
		for _, r := range rows {
			if r[col] != "" {
				n++
			}
		}
		return strconv.Itoa(n)
	}

	var (
		n, skipped  int
		sum, lo, hi float64
	)
	for _, r := range rows {
		if r[col] == "" {
			continue
		}
		f, ok := numeric(r[col])
		if !ok {
			skipped++
			continue
		}
		if n == 0 {
			lo, hi = f, f
		}
		n++
		sum += f
		lo, hi = min(lo, f), max(hi, f)
	}
	if skipped > 0 {
		slog.Warn("engine: non-numeric values skipped", "aggregate", a.String(), "skipped", skipped)
	}

	if a.Func == AggSum {
		return formatNumber(sum)
	}
	if n == 0 {
		return ""
	}
	switch a.Func {
	case AggAvg:
		return formatNumber(sum / float64(n))
	case AggMin:
		return formatNumber(lo)
	default:
		return formatNumber(hi)
	}
}

// OrderBy sorts on Column, ascending unless Desc.
type OrderBy struct {
	Column string
	Desc   bool
}

// Limit keeps at most Count rows after skipping Offset. A negative Count
// means no limit and a negative Offset means none.
type Limit struct {
	Count  int
	Offset int
}

func (l Limit) apply(data [][]string) [][]string {
	n, off := l.Count, l.Offset
	if n < 0 {
		slog.Warn("engine: negative LIMIT ignored", "limit", n)
		n = len(data)
	}
	if off < 0 {
		slog.Warn("engine: negative OFFSET ignored", "offset", off)
		off = 0
	}
	if off >= len(data) {
		if off > 0 {
			slog.Warn("engine: OFFSET is past the last row", "offset", off, "rows", len(data))
		}
		return nil
	}
	n = min(n, len(data)-off)
	return data[off : off+n]
}

// Having keeps the groups for which "Term Op Value" holds.
type Having struct {
	Term  Aggregate
	Op    string
	Value string
}

func (h Having) holds(rows [][]string, col int) bool {
	c := CompareValues(h.Term.eval(rows, col), h.Value)
	switch h.Op {
	case "=":
		return c == 0
	case "!=", "<>":
		return c != 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	default:
		return false
	}
}

// CompareValues orders two cell values: numerically when both are numbers,
// by bytes otherwise.
func CompareValues(a, b string) int {
	x, okA := numeric(a)
	y, okB := numeric(b)
	if okA && okB {
		return cmp.Compare(x, y)
	}
	return strings.Compare(a, b)
}

func numeric(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatNumber(f float64) string { return strconv.FormatFloat(f, 'f', 2, 64) }

// sortValues stably sorts data, laid out as header, by keys.
func sortValues(header []string, data [][]string, keys []OrderBy) error {
	if len(keys) == 0 {
		return nil
	}
	idx := make([]int, len(keys))
	for i, k := range keys {
		if idx[i] = slices.Index(header, k.Column); idx[i] < 0 {
			return fmt.Errorf("%w: %q in ORDER BY", ErrColumnNotFound, k.Column)
		}
	}
	slices.SortStableFunc(data, func(a, b []string) int {
		for i, k := range keys {
			c := CompareValues(a[idx[i]], b[idx[i]])
			if c == 0 {
				continue
			}
			if k.Desc {
				return -c
			}
			return c
		}
		return 0
	})
	return nil
}

// distinctValues drops repeated rows, keeping the first of each.
func distinctValues(data [][]string) [][]string {
	seen := make(map[string]bool, len(data))
	out := data[:0]
	for _, r := range data {
		k := rowKey(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, r)
	}
	return out
}

// rowKey encodes vals so that distinct tuples never share a key.
func rowKey(vals []string) string {
	var b strings.Builder
	for _, v := range vals {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

type group struct {
	rows [][]string
}

// groupValues evaluates a grouped select over data, laid out as header. It
// returns the output column names and one row per group kept by having.
// Groups appear in order of their first row; without keys all of data is a
// single group, even when empty.
func groupValues(header []string, data [][]string, items []Aggregate, keys []string, having *Having) ([]string, [][]string, error) {
	resolve := func(a Aggregate) (int, error) {
		if a.Func == AggCount && a.Column == SelectAll {
			return -1, nil
		}
		i := slices.Index(header, a.Column)
		if i < 0 {
			return 0, fmt.Errorf("%w: %q in %s", ErrColumnNotFound, a.Column, a)
		}
		return i, nil
	}

	var expanded []Aggregate
	for _, it := range items {
		if it.Func == "" && it.Column == SelectAll {
			for _, h := range header {
				expanded = append(expanded, Aggregate{Column: h})
			}
			continue
		}
		expanded = append(expanded, it)
	}

	names := make([]string, len(expanded))
	cols := make([]int, len(expanded))
	for i, it := range expanded {
		c, err := resolve(it)
		if err != nil {
			return nil, nil, err
		}
		names[i], cols[i] = it.String(), c
	}

	keyCols := make([]int, len(keys))
	for i, k := range keys {
		if keyCols[i] = slices.Index(header, k); keyCols[i] < 0 {
			return nil, nil, fmt.Errorf("%w: %q in GROUP BY", ErrColumnNotFound, k)
		}
	}

	havingCol := 0
	if having != nil {
		c, err := resolve(having.Term)
		if err != nil {
			return nil, nil, err
		}
		havingCol = c
	}

	var groups []*group
	if len(keyCols) == 0 {
		groups = []*group{{rows: data}}
	} else {
		byKey := make(map[string]*group)
		key := make([]string, len(keyCols))
		for _, r := range data {
			for i, c := range keyCols {
				key[i] = r[c]
			}
			k := rowKey(key)
			g, ok := byKey[k]
			if !ok {
				g = &group{}
				byKey[k] = g
				groups = append(groups, g)
			}
			g.rows = append(g.rows, r)
		}
	}

	var out [][]string
	for _, g := range groups {
		if having != nil && !having.holds(g.rows, havingCol) {
			continue
		}
		row := make([]string, len(expanded))
		for i, it := range expanded {
			row[i] = it.eval(g.rows, cols[i])
		}
		out = append(out, row)
	}
	return names, out, nil
}
