package parser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// primaryKeywords may appear at most once in a statement that matches no
// known shape before it is reported as a keyword pile-up.
var primaryKeywords = []string{"CREATE", "SELECT", "INSERT", "DROP", "UPDATE"}

// reserved words never act as an implicit alias.
var reserved = map[string]bool{
	"AS": true, "ON": true, "JOIN": true, "INNER": true, "WHERE": true,
	"AND": true, "OR": true, "SET": true, "FROM": true, "VALUES": true,
	"GROUP": true, "ORDER": true, "BY": true, "HAVING": true, "LIMIT": true,
	"OFFSET": true, "DISTINCT": true, "ASC": true, "DESC": true,
}

// Parse parses a single statement into an AST. One trailing ';' is optional.
func Parse(sql string) (Statement, error) {
	s := strings.TrimSpace(sql)
	s = strings.TrimSpace(strings.TrimSuffix(s, ";"))

	toks, err := tokenize(s)
	if err != nil {
		return nil, &SyntaxError{Kind: KindSyntax, Msg: err.Error()}
	}
	p := newParser(toks)

	switch {
	case p.peekKeywords("CREATE", "TABLE"):
		return p.parseCreateTable()
	case p.peekKeywords("DROP", "TABLE"):
		return p.parseDropTable()
	case p.peekKeywords("INSERT", "INTO"):
		return p.parseInsert()
	case p.peekKeywords("SELECT"):
		return p.parseSelect()
	case p.peekKeywords("UPDATE"):
		return p.parseUpdate()
	case p.peekKeywords("DELETE", "FROM"):
		return p.parseDelete()
	case p.peekKeywords("SHOW", "TABLES"):
		return p.parseShowTables()
	}

	if p.repeatsPrimaryKeyword() {
		return nil, syntaxErrorf(KindMultipleKeywords, p.cur().pos, "multiple keywords detected")
	}
	return nil, syntaxErrorf(KindInvalidStatement, p.cur().pos, "invalid statement")
}

type parser struct {
	toks  []token
	pos   int
	upper cases.Caser
}

func newParser(toks []token) *parser {
	// a Caser keeps state, so each parser owns one
	return &parser{toks: toks, upper: cases.Upper(language.Und)}
}

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) peekAt(n int) token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) advance() token {
	t := p.cur()
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) atEnd() bool { return p.cur().kind == tokEOF }

func (p *parser) isKeyword(t token, kw string) bool {
	return t.kind == tokIdent && p.upper.String(t.text) == kw
}

// peekKeywords reports whether the next tokens are exactly kws.
func (p *parser) peekKeywords(kws ...string) bool {
	for i, kw := range kws {
		if !p.isKeyword(p.peekAt(i), kw) {
			return false
		}
	}
	return true
}

// acceptKeyword consumes kw if it is next.
func (p *parser) acceptKeyword(kw string) bool {
	if p.isKeyword(p.cur(), kw) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) isPunct(t token, s string) bool {
	return t.kind == tokPunct && t.text == s
}

func (p *parser) acceptPunct(s string) bool {
	if p.isPunct(p.cur(), s) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) isReserved(t token) bool {
	return t.kind == tokIdent && reserved[p.upper.String(t.text)]
}

// ident consumes a bare or quoted identifier. what names the identifier in
// error messages ("table name", ...).
func (p *parser) ident(what string) (string, error) {
	t := p.cur()
	switch t.kind {
	case tokIdent:
		p.advance()
		return t.text, nil
	case tokString:
		if err := checkQuotedIdent(t, what); err != nil {
			return "", err
		}
		p.advance()
		return t.value, nil
	case tokQuote:
		return "", syntaxErrorf(KindMismatchedQuotes, t.pos, "Mismatched or mixed quotes in %s.", what)
	case tokEOF:
		return "", syntaxErrorf(KindMissingArguments, t.pos, "Missing %s.", what)
	default:
		return "", syntaxErrorf(KindInvalidArguments, t.pos, "Invalid %s %q.", what, t.text)
	}
}

// checkQuotedIdent rejects quoted identifiers that are empty or hold another
// quote character, as in 'a", "b'.
func checkQuotedIdent(t token, what string) error {
	switch {
	case strings.TrimSpace(t.value) == "":
		return syntaxErrorf(KindInvalidArguments, t.pos, "Empty %s.", what)
	case strings.ContainsAny(t.value, "'\"`"):
		return syntaxErrorf(KindMismatchedQuotes, t.pos, "Mismatched or mixed quotes in %s.", what)
	}
	return nil
}

// quoted consumes a value that must be a '...' or "..." string literal.
func (p *parser) quoted(what string) (string, error) {
	t := p.cur()
	switch {
	case t.kind == tokString && t.quote != '`':
		p.advance()
		return t.value, nil
	case t.kind == tokQuote:
		return "", syntaxErrorf(KindMismatchedQuotes, t.pos, "Mismatched or mixed quotes in %s.", what)
	case t.kind == tokEOF:
		return "", syntaxErrorf(KindIncompleteInput, t.pos, "Incomplete input in %s.", what)
	default:
		return "", syntaxErrorf(KindInvalidArguments, t.pos, "%s must be surrounded by quotes.", what)
	}
}

// columnRef consumes "*", "name" or "qualifier.name".
func (p *parser) columnRef() (ColumnRef, error) {
	if p.acceptPunct("*") {
		return ColumnRef{Name: "*"}, nil
	}
	name, err := p.ident("column name")
	if err != nil {
		return ColumnRef{}, err
	}
	if !p.acceptPunct(".") {
		return ColumnRef{Name: name}, nil
	}
	col, err := p.ident("column name")
	if err != nil {
		return ColumnRef{}, err
	}
	return ColumnRef{Qualifier: name, Name: col}, nil
}

// checkParens verifies that parentheses from the current position to the end
// are balanced.
func (p *parser) checkParens(what string) error {
	depth := 0
	for _, t := range p.toks[p.pos:] {
		switch {
		case p.isPunct(t, "("):
			depth++
		case p.isPunct(t, ")"):
			depth--
			if depth < 0 {
				return syntaxErrorf(KindUnbalancedParens, t.pos, "Mismatched parentheses in %s.", what)
			}
		}
	}
	if depth != 0 {
		return syntaxErrorf(KindUnbalancedParens, p.cur().pos, "Mismatched parentheses in %s.", what)
	}
	return nil
}

func (p *parser) repeatsPrimaryKeyword() bool {
	seen := make(map[string]int)
	for _, t := range p.toks {
		if t.kind != tokIdent {
			continue
		}
		kw := p.upper.String(t.text)
		for _, k := range primaryKeywords {
			if kw == k {
				seen[kw]++
				if seen[kw] > 1 {
					return true
				}
			}
		}
	}
	return false
}

// expectEnd fails with msg if tokens remain.
func (p *parser) expectEnd(kind ErrorKind, msg string) error {
	if p.atEnd() {
		return nil
	}
	return syntaxErrorf(kind, p.cur().pos, "%s", msg)
}

var keywords = map[string]bool{
	"CREATE": true, "TABLE": true, "DROP": true, "INSERT": true, "INTO": true,
	"VALUES": true, "SELECT": true, "FROM": true, "WHERE": true, "JOIN": true,
	"INNER": true, "ON": true, "AS": true, "AND": true, "OR": true,
	"UPDATE": true, "SET": true, "DELETE": true, "SHOW": true, "TABLES": true,
	"DISTINCT": true, "GROUP": true, "ORDER": true, "BY": true, "HAVING": true,
	"LIMIT": true, "OFFSET": true, "ASC": true, "DESC": true, "COUNT": true,
	"SUM": true, "AVG": true, "MIN": true, "MAX": true,
}

// IsKeyword reports whether word is a statement keyword, ignoring case.
func IsKeyword(word string) bool {
	return keywords[cases.Upper(language.Und).String(word)]
}
