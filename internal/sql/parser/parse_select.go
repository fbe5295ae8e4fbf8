package parser

// SELECT [DISTINCT] items FROM table [[AS] alias]
//
//	[[INNER] JOIN table [[AS] alias] ON a.col = b.col]
//	[WHERE cond [(AND|OR) cond]*]
//	[GROUP BY col, ... [HAVING item op value]]
//	[ORDER BY item [ASC|DESC], ...]
//	[LIMIT n [OFFSET m]]
//
// An item is a column reference or an aggregate: COUNT(*), or COUNT, SUM,
// AVG, MIN or MAX of a column.
func (p *parser) parseSelect() (Statement, error) {
	p.advance()
	distinct := p.acceptKeyword("DISTINCT")
	if p.atEnd() || p.isKeyword(p.cur(), "FROM") {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "SELECT statement is missing column names.")
	}

	var cols []ColumnRef
	for {
		c, err := p.selectItem()
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
		if !p.acceptPunct(",") {
			break
		}
	}

	if !p.acceptKeyword("FROM") {
		if p.atEnd() {
			return nil, syntaxErrorf(KindMissingClause, p.cur().pos, "SELECT statement is missing FROM clause.")
		}
		return nil, syntaxErrorf(KindSyntax, p.cur().pos, "Unexpected %q in SELECT column list.", p.cur().text)
	}
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "SELECT statement is missing table name.")
	}

	stmt := &SelectStmt{Distinct: distinct, Columns: cols}
	var err error
	if stmt.Table, err = p.ident("table name"); err != nil {
		return nil, err
	}
	stmt.Alias = p.alias(stmt.Table)
	scope := newAliasScope(stmt.Table, stmt.Alias)

	if p.peekKeywords("JOIN") || p.peekKeywords("INNER", "JOIN") {
		j, err := p.joinClause(scope)
		if err != nil {
			return nil, err
		}
		stmt.Join = j
	}

	for _, c := range stmt.Columns {
		if err := scope.check(c, p.cur()); err != nil {
			return nil, err
		}
	}

	if stmt.Where, err = p.whereClause(scope); err != nil {
		return nil, err
	}
	if err := p.selectModifiers(stmt, scope); err != nil {
		return nil, err
	}
	if err := p.expectEnd(KindSyntax, "Unexpected input at the end of SELECT statement."); err != nil {
		return nil, err
	}
	return stmt, nil
}

// alias consumes an optional "[AS] alias", defaulting to table.
func (p *parser) alias(table string) string {
	if p.isKeyword(p.cur(), "AS") && p.peekAt(1).kind == tokIdent {
		p.advance()
		return p.advance().text
	}
	if t := p.cur(); t.kind == tokIdent && !p.isReserved(t) {
		p.advance()
		return t.text
	}
	return table
}

func (p *parser) joinClause(scope *aliasScope) (*JoinClause, error) {
	start := p.cur().pos
	incomplete := func() error {
		return syntaxErrorf(KindIncompleteInput, start,
			"Incomplete JOIN clause. Ensure table name, alias and join conditions are specified correctly.")
	}

	p.acceptKeyword("INNER")
	p.advance() // JOIN

	t := p.cur()
	if (t.kind != tokIdent && t.kind != tokString) || p.isReserved(t) {
		if t.kind == tokQuote {
			return nil, syntaxErrorf(KindMismatchedQuotes, t.pos, "Mismatched or mixed quotes in table name.")
		}
		return nil, incomplete()
	}
	if t.kind == tokString {
		if err := checkQuotedIdent(t, "table name"); err != nil {
			return nil, err
		}
	}
	j := &JoinClause{Table: t.value}
	p.advance()
	j.Alias = p.alias(j.Table)
	scope.add(j.Table, j.Alias, sideRight)

	if !p.acceptKeyword("ON") {
		return nil, incomplete()
	}
	left, err := p.columnRef()
	if err != nil || left.IsStar() {
		return nil, incomplete()
	}
	if op := p.cur(); op.kind != tokOperator || op.text != "=" {
		return nil, incomplete()
	}
	p.advance()
	right, err := p.columnRef()
	if err != nil || right.IsStar() {
		return nil, incomplete()
	}

	ls, err := scope.side(left, start)
	if err != nil {
		return nil, err
	}
	rs, err := scope.side(right, start)
	if err != nil {
		return nil, err
	}
	switch {
	case ls == rs && ls != sideAny:
		return nil, syntaxErrorf(KindInvalidColumnReference, start,
			"JOIN condition must compare a column of each table.")
	case ls == sideRight || rs == sideLeft:
		left, right = right, left
	}
	j.Left, j.Right = left, right
	return j, nil
}
