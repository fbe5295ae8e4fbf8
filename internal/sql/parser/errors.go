package parser

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2/lexer"
)

// ErrSyntax matches every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("parser: syntax error")

// ErrorKind classifies a rejected statement.
type ErrorKind int

const (
	KindSyntax ErrorKind = iota
	KindMissingArguments
	KindInvalidArguments
	KindMismatchedQuotes
	KindUnbalancedParens
	KindInvalidColumnReference
	KindIncompleteInput
	KindMissingClause
	KindMultipleKeywords
	KindInvalidStatement
)

func (k ErrorKind) String() string {
	switch k {
	case KindMissingArguments:
		return "Missing arguments"
	case KindInvalidArguments:
		return "Invalid arguments"
	case KindMismatchedQuotes:
		return "Mismatched quotes"
	case KindUnbalancedParens:
		return "Unbalanced parentheses"
	case KindInvalidColumnReference:
		return "Invalid column reference"
	case KindIncompleteInput:
		return "Incomplete input"
	case KindMissingClause:
		return "Missing clause"
	default:
		// KindSyntax, KindMultipleKeywords, KindInvalidStatement
		return "Syntax error"
	}
}

// SyntaxError reports why a statement was rejected and where.
type SyntaxError struct {
	Kind ErrorKind
	Msg  string
	Pos  lexer.Position
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

func syntaxErrorf(kind ErrorKind, pos lexer.Position, format string, args ...any) *SyntaxError {
	return &SyntaxError{Kind: kind, Msg: fmt.Sprintf(format, args...), Pos: pos}
}
