package parser

import "github.com/alecthomas/participle/v2/lexer"

type side int

const (
	sideAny side = iota // unqualified
	sideLeft
	sideRight
)

// aliasScope maps the table names and aliases visible in a statement to the
// side of the join they refer to.
type aliasScope struct {
	names map[string]side
}

func newAliasScope(table, alias string) *aliasScope {
	s := &aliasScope{names: make(map[string]side)}
	s.add(table, alias, sideLeft)
	return s
}

func (s *aliasScope) add(table, alias string, sd side) {
	s.names[alias] = sd
	if _, ok := s.names[table]; !ok {
		s.names[table] = sd
	}
}

func (s *aliasScope) side(c ColumnRef, pos lexer.Position) (side, error) {
	if c.Qualifier == "" {
		return sideAny, nil
	}
	sd, ok := s.names[c.Qualifier]
	if !ok {
		return sideAny, syntaxErrorf(KindInvalidColumnReference, pos,
			"Unknown table or alias %q in column reference %q.", c.Qualifier, c.String())
	}
	return sd, nil
}

func (s *aliasScope) check(c ColumnRef, at token) error {
	_, err := s.side(c, at.pos)
	return err
}

// whereClause consumes an optional WHERE clause. It returns nil when the
// next token is not WHERE.
func (p *parser) whereClause(scope *aliasScope) (*WhereClause, error) {
	if !p.isKeyword(p.cur(), "WHERE") {
		return nil, nil
	}
	p.advance()
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "WHERE clause requires conditions. None provided.")
	}

	invalid := func() error {
		return syntaxErrorf(KindSyntax, p.cur().pos, "Invalid or improperly formatted WHERE clause.")
	}

	w := &WhereClause{}
	connector := ""
	for {
		start := p.cur()
		col, err := p.columnRef()
		if err != nil || col.IsStar() {
			if start.kind == tokQuote {
				return nil, err
			}
			return nil, invalid()
		}
		if err := scope.check(col, start); err != nil {
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
			return nil, syntaxErrorf(KindMismatchedQuotes, v.pos, "Mismatched or mixed quotes in WHERE clause.")
		default:
			return nil, invalid()
		}

		w.Conditions = append(w.Conditions, Condition{
			Column:    col,
			Op:        op.text,
			Value:     v.value,
			Connector: connector,
		})

		switch {
		case p.acceptKeyword("AND"):
			connector = "AND"
		case p.acceptKeyword("OR"):
			connector = "OR"
		case p.atEnd(), p.atClause():
			return w, nil
		default:
			return nil, invalid()
		}
		if p.atEnd() {
			return nil, syntaxErrorf(KindIncompleteInput, p.cur().pos,
				"WHERE clause ends with an operator. It should end with a condition.")
		}
	}
}
