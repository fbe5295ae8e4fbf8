package parser

import "github.com/tuannm99/elemsql/internal/engine"

// UPDATE table SET col = "v"[, col = "v"]* [WHERE ...]
func (p *parser) parseUpdate() (Statement, error) {
	p.advance()
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "UPDATE is missing table name.")
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}

	if !p.acceptKeyword("SET") {
		if p.atEnd() {
			return nil, syntaxErrorf(KindMissingClause, p.cur().pos, "UPDATE statement is missing SET clause.")
		}
		return nil, syntaxErrorf(KindSyntax, p.cur().pos, "Invalid syntax in SET clause.")
	}

	var changes []engine.Assignment
	for {
		if p.atEnd() {
			return nil, syntaxErrorf(KindIncompleteInput, p.cur().pos, "Incomplete input after SET clause.")
		}
		col, err := p.ident("SET clause")
		if err != nil {
			if se, ok := err.(*SyntaxError); ok && se.Kind == KindMismatchedQuotes {
				return nil, err
			}
			return nil, syntaxErrorf(KindSyntax, p.cur().pos, "Invalid syntax in SET clause.")
		}
		if op := p.cur(); op.kind != tokOperator || op.text != "=" {
			return nil, syntaxErrorf(KindSyntax, op.pos, "Invalid syntax in SET clause.")
		}
		p.advance()
		if p.atEnd() {
			return nil, syntaxErrorf(KindIncompleteInput, p.cur().pos, "Incomplete input after SET clause.")
		}

		v, err := p.quoted("Values in SET clause")
		if err != nil {
			return nil, err
		}
		changes = append(changes, engine.Assignment{Column: col, Value: v})

		if !p.acceptPunct(",") {
			break
		}
	}

	w, err := p.whereClause(newAliasScope(name, name))
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(KindSyntax, "Invalid syntax in SET clause."); err != nil {
		return nil, err
	}
	return &UpdateStmt{TableName: name, Assignments: changes, Where: w}, nil
}

// DELETE FROM table [WHERE ...]
func (p *parser) parseDelete() (Statement, error) {
	p.advance()
	p.advance()
	if p.atEnd() {
		return nil, syntaxErrorf(KindMissingArguments, p.cur().pos, "DELETE FROM is missing table name.")
	}
	name, err := p.ident("table name")
	if err != nil {
		return nil, err
	}

	w, err := p.whereClause(newAliasScope(name, name))
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(KindSyntax, "Unexpected input at the end of DELETE FROM statement."); err != nil {
		return nil, err
	}
	return &DeleteStmt{TableName: name, Where: w}, nil
}
