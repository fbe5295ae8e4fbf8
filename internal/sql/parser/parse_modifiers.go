package parser

import (
	"strconv"

	"github.com/tuannm99/elemsql/internal/engine"
)

// clauseKeywords start the clauses that may follow WHERE in a SELECT.
var clauseKeywords = []string{"GROUP", "HAVING", "ORDER", "LIMIT"}

// atClause reports whether the next token opens a trailing SELECT clause.
func (p *parser) atClause() bool {
	for _, kw := range clauseKeywords {
		if p.isKeyword(p.cur(), kw) {
			return true
		}
	}
	return false
}

// selectItem consumes a column reference or an aggregate call. Only COUNT
// takes "*".
func (p *parser) selectItem() (ColumnRef, error) {
	t := p.cur()
	if t.kind != tokIdent || !p.isPunct(p.peekAt(1), "(") {
		return p.columnRef()
	}
	fn, ok := engine.ParseAggFunc(p.upper.String(t.text))
	if !ok {
		return ColumnRef{}, syntaxErrorf(KindInvalidArguments, t.pos, "Unknown function %q.", t.text)
	}
	p.advance()
	p.advance()
	if p.isPunct(p.cur(), ")") {
		return ColumnRef{}, syntaxErrorf(KindMissingArguments, p.cur().pos, "%s requires a column.", fn)
	}

	c, err := p.columnRef()
	if err != nil {
		return ColumnRef{}, err
	}
	if c.IsStar() && fn != engine.AggCount {
		return ColumnRef{}, syntaxErrorf(KindInvalidArguments, t.pos, "Only COUNT accepts *, not %s.", fn)
	}
	if !p.acceptPunct(")") {
		return ColumnRef{}, syntaxErrorf(KindUnbalancedParens, p.cur().pos, "Missing ')' after %s argument.", fn)
	}
	c.Func = fn
	return c, nil
}

// selectModifiers consumes the optional GROUP BY, HAVING, ORDER BY and LIMIT
// clauses, in that order.
func (p *parser) selectModifiers(s *SelectStmt, scope *aliasScope) error {
	var err error
	if p.isKeyword(p.cur(), "GROUP") {
		p.advance()
		if !p.acceptKeyword("BY") {
			return syntaxErrorf(KindSyntax, p.cur().pos, "GROUP must be followed by BY.")
		}
		if s.GroupBy, err = p.groupBy(scope); err != nil {
			return err
		}
	}

	if t := p.cur(); p.isKeyword(t, "HAVING") {
		p.advance()
		if len(s.GroupBy) == 0 {
			return syntaxErrorf(KindMissingClause, t.pos, "HAVING requires a GROUP BY clause.")
		}
		if s.Having, err = p.having(scope); err != nil {
			return err
		}
	}

	if p.isKeyword(p.cur(), "ORDER") {
		p.advance()
		if !p.acceptKeyword("BY") {
			return syntaxErrorf(KindSyntax, p.cur().pos, "ORDER must be followed by BY.")
		}
		if s.OrderBy, err = p.orderBy(scope); err != nil {
			return err
		}
	}

	if p.acceptKeyword("LIMIT") {
		l := &LimitClause{}
		if l.Count, err = p.integer("LIMIT"); err != nil {
			return err
		}
		if p.acceptKeyword("OFFSET") {
			if l.Offset, err = p.integer("OFFSET"); err != nil {
				return err
			}
		}
		s.Limit = l
	}
	return nil
}

func (p *parser) groupBy(scope *aliasScope) ([]ColumnRef, error) {
	var cols []ColumnRef
	for {
		start := p.cur()
		if start.kind == tokEOF {
			return nil, syntaxErrorf(KindMissingArguments, start.pos, "GROUP BY requires a column.")
		}
		c, err := p.columnRef()
		if err != nil {
			return nil, err
		}
		if c.IsStar() {
			return nil, syntaxErrorf(KindInvalidArguments, start.pos, "Cannot GROUP BY *.")
		}
		if err := scope.check(c, start); err != nil {
			return nil, err
		}
		cols = append(cols, c)
		if !p.acceptPunct(",") {
			return cols, nil
		}
	}
}

func (p *parser) orderBy(scope *aliasScope) ([]OrderTerm, error) {
	var terms []OrderTerm
	for {
		start := p.cur()
		if start.kind == tokEOF {
			return nil, syntaxErrorf(KindMissingArguments, start.pos, "ORDER BY requires a column.")
		}
		c, err := p.selectItem()
		if err != nil {
			return nil, err
		}
		if c.IsStar() && c.Func == "" {
			return nil, syntaxErrorf(KindInvalidArguments, start.pos, "Cannot ORDER BY *.")
		}
		if err := scope.check(c, start); err != nil {
			return nil, err
		}
		term := OrderTerm{Column: c}
		if p.acceptKeyword("DESC") {
			term.Desc = true
		} else {
			p.acceptKeyword("ASC")
		}
		terms = append(terms, term)
		if !p.acceptPunct(",") {
			return terms, nil
		}
	}
}

// having consumes the single condition of a HAVING clause.
func (p *parser) having(scope *aliasScope) (*HavingClause, error) {
	invalid := func() error {
		return syntaxErrorf(KindSyntax, p.cur().pos, "Invalid or improperly formatted HAVING clause.")
	}
	start := p.cur()
	if start.kind == tokEOF {
		return nil, syntaxErrorf(KindMissingArguments, start.pos, "HAVING clause requires a condition.")
	}
	c, err := p.selectItem()
	if err != nil {
		return nil, err
	}
	if c.IsStar() && c.Func == "" {
		return nil, invalid()
	}
	if err := scope.check(c, start); err != nil {
		return nil, err
	}

	op := p.cur()
	if op.kind != tokOperator {
		return nil, invalid()
	}
	p.advance()

	v := p.cur()
	switch v.kind {
	case tokString, tokIdent, tokNumber:
		p.advance()
	case tokQuote:
		return nil, syntaxErrorf(KindMismatchedQuotes, v.pos, "Mismatched or mixed quotes in HAVING clause.")
	default:
		return nil, invalid()
	}

	if t := p.cur(); p.isKeyword(t, "AND") || p.isKeyword(t, "OR") {
		return nil, syntaxErrorf(KindInvalidArguments, t.pos, "HAVING supports a single condition.")
	}
	return &HavingClause{Column: c, Op: op.text, Value: v.value}, nil
}

// integer consumes a whole number, sign included.
func (p *parser) integer(what string) (int, error) {
	t := p.cur()
	if t.kind == tokEOF {
		return 0, syntaxErrorf(KindMissingArguments, t.pos, "%s requires a number.", what)
	}
	n, err := strconv.Atoi(t.text)
	if t.kind != tokNumber || err != nil {
		return 0, syntaxErrorf(KindInvalidArguments, t.pos, "%s must be an integer, not %q.", what, t.text)
	}
	p.advance()
	return n, nil
}
