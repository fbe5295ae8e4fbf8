package parser

import "strings"

// Fragment is one statement cut from a script, with the 1-based line on
// which it starts.
type Fragment struct {
	Text string
	Line int
}

// SplitStatements cuts text on ';' outside quoted strings. "--" comments
// between statements are dropped. Blank fragments are skipped; a final
// statement without ';' is kept. A quote that is never closed runs to the
// end of text.
func SplitStatements(text string) []Fragment {
	toks, err := lexAll(text)
	if err != nil {
		if s := strings.TrimSpace(text); s != "" {
			return []Fragment{{Text: s, Line: 1}}
		}
		return nil
	}

	var (
		out   []Fragment
		start = -1 // offset of the first token of the current statement
		line  int
	)
	flush := func(end int) {
		if start >= 0 {
			out = append(out, Fragment{Text: strings.TrimSpace(text[start:end]), Line: line})
		}
		start = -1
	}

	for _, t := range toks {
		switch {
		case t.kind == tokEOF:
			flush(len(text))
			return out
		case t.kind == tokQuote:
			if start < 0 {
				start, line = t.pos.Offset, t.pos.Line
			}
			flush(len(text))
			return out
		case t.kind == tokPunct && t.text == ";":
			flush(t.pos.Offset)
		case t.kind == tokSpace || t.kind == tokComment:
		case start < 0:
			start, line = t.pos.Offset, t.pos.Line
		}
	}
	flush(len(text))
	return out
}

// StatementComplete reports whether buf holds a ';' outside quoted text and
// no quote is left open.
func StatementComplete(buf string) bool {
	toks, err := lexAll(buf)
	if err != nil {
		return false
	}
	done := false
	for _, t := range toks {
		switch {
		case t.kind == tokQuote:
			return false
		case t.kind == tokPunct && t.text == ";":
			done = true
		}
	}
	return done
}
