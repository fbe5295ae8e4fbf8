package parser

// INSERT INTO name (col[, col]*) VALUES ("v"[, "v"]*)
func (p *parser) parseInsert() (Statement, error) {
	p.advance()
	p.advance()
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos,
			"INSERT INTO is missing table name, column list and values list.")
	}

	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos,
			"INSERT INTO is missing column list and values list.")
	}
	if err := p.checkParens("column list or values list"); err != nil {
		return nil, err
	}

	cols, err := p.identList("column list")
	if err != nil {
		return nil, err
	}

	if !p.acceptKeyword("VALUES") {
		return nil, syntaxErrorf(KindMissingClause, p.cur().pos, "INSERT INTO is missing VALUES clause.")
	}
	if !p.acceptPunct("(") {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "Missing parentheses in values list.")
	}

	var vals []string
	for {
		v, err := p.quoted("Values")
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
		if p.acceptPunct(",") {
			continue
		}
		if p.acceptPunct(")") {
			break
		}
		return nil, syntaxErrorf(KindInvalidArguments, p.cur().pos, "Invalid values list.")
	}

	if err := p.expectEnd(KindSyntax, "Unexpected input after values list."); err != nil {
		return nil, err
	}
	return &InsertStmt{TableName: name, Columns: cols, Values: vals}, nil
}
