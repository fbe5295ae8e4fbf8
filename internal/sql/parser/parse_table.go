package parser

// CREATE TABLE name (col[, col]*)
func (p *parser) parseCreateTable() (Statement, error) {
	p.advance()
	p.advance()
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos,
			"CREATE TABLE is missing table name and column definitions.")
	}

	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos,
			"CREATE TABLE is missing column definitions.")
	}
	if err := p.checkParens("column definitions"); err != nil {
		return nil, err
	}

	cols, err := p.identList("column definitions")
	if err != nil {
		return nil, malformedColumns(p, err)
	}
	if err := p.expectEnd(KindInvalidArguments,
		"Invalid or improperly formatted column definitions in CREATE TABLE statement."); err != nil {
		return nil, err
	}

	return &CreateTableStmt{TableName: name, Columns: cols}, nil
}

// malformedColumns keeps quote errors and folds everything else into the
// generic column-definition error.
func malformedColumns(p *parser, err error) error {
	if se, ok := err.(*SyntaxError); ok && se.Kind == KindMismatchedQuotes {
		return err
	}
	return syntaxErrorf(KindInvalidArguments, p.cur().pos,
		"Invalid or improperly formatted column definitions in CREATE TABLE statement.")
}

// identList consumes "( ident[, ident]* )".
func (p *parser) identList(what string) ([]string, error) {
	if !p.acceptPunct("(") {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "Missing parentheses in %s.", what)
	}
	var out []string
	for {
		id, err := p.ident("column name")
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		if p.acceptPunct(",") {
			continue
		}
		if p.acceptPunct(")") {
			return out, nil
		}
		return nil, syntaxErrorf(KindInvalidArguments, p.cur().pos, "Invalid %s.", what)
	}
}

// DROP TABLE name
func (p *parser) parseDropTable() (Statement, error) {
	p.advance()
	p.advance()
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "DROP TABLE is missing table name.")
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(KindInvalidArguments, "DROP TABLE accepts a single table name."); err != nil {
		return nil, err
	}
	return &DropTableStmt{TableName: name}, nil
}

// SHOW TABLES
func (p *parser) parseShowTables() (Statement, error) {
	p.advance()
	p.advance()
	if err := p.expectEnd(KindSyntax, "Invalid syntax for SHOW TABLES statement."); err != nil {
		return nil, err
	}
	return &ShowTablesStmt{}, nil
}
