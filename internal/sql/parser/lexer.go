package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokString
	tokNumber
	tokIdent
	tokOperator
	tokPunct
	tokQuote // a quote character with no matching close
	tokOther
	tokComment
	tokSpace
)

// String literals use the SQL convention of doubling the quote character to
// embed it.
var sqlLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Comment", Pattern: `--[^\n]*`},
	{Name: "String", Pattern: `'(?:[^']|'')*'|"(?:[^"]|"")*"|` + "`(?:[^`]|``)*`"},
	{Name: "Number", Pattern: `[-+]?\d+(?:\.\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Operator", Pattern: `!=|<>|<=|>=|=|<|>`},
	{Name: "Punct", Pattern: `[(),.;*]`},
	{Name: "Quote", Pattern: "['\"`]"},
	{Name: "Other", Pattern: `.`},
})

var symbolKinds = func() map[lexer.TokenType]tokenKind {
	sym := sqlLexer.Symbols()
	return map[lexer.TokenType]tokenKind{
		sym["String"]:     tokString,
		sym["Number"]:     tokNumber,
		sym["Ident"]:      tokIdent,
		sym["Operator"]:   tokOperator,
		sym["Punct"]:      tokPunct,
		sym["Quote"]:      tokQuote,
		sym["Other"]:      tokOther,
		sym["Comment"]:    tokComment,
		sym["Whitespace"]: tokSpace,
	}
}()

type token struct {
	kind  tokenKind
	text  string // as written
	value string // unquoted for strings, else text
	quote byte   // opening quote of a string, 0 otherwise
	pos   lexer.Position
}

// tokenize lexes s into tokens without whitespace or comments, terminated by
// a tokEOF.
func tokenize(s string) ([]token, error) {
	all, err := lexAll(s)
	if err != nil {
		return nil, err
	}
	toks := all[:0]
	for _, t := range all {
		if t.kind != tokSpace && t.kind != tokComment {
			toks = append(toks, t)
		}
	}
	return toks, nil
}

// lexAll lexes every byte of s, whitespace and comments included.
func lexAll(s string) ([]token, error) {
	lx, err := sqlLexer.LexString("", s)
	if err != nil {
		return nil, err
	}

	var toks []token
	for {
		t, err := lx.Next()
		if err != nil {
			return nil, err
		}
		if t.EOF() {
			toks = append(toks, token{kind: tokEOF, pos: t.Pos})
			return toks, nil
		}

		tok := token{kind: symbolKinds[t.Type], text: t.Value, value: t.Value, pos: t.Pos}
		if tok.kind == tokString {
			q := t.Value[0]
			tok.quote = q
			inner := t.Value[1 : len(t.Value)-1]
			tok.value = strings.ReplaceAll(inner, string([]byte{q, q}), string(q))
		}
		toks = append(toks, tok)
	}
}

// Lexeme is a slice of SQL source text as the statement lexer sees it.
// Concatenating the lexemes of a string gives the string back.
type Lexeme struct {
	Text    string
	Keyword bool // a statement keyword, in any case
	Quoted  bool // a complete quoted string or identifier
}

// Lex splits sql into lexemes. It never fails on unbalanced quotes: a stray
// quote character is a lexeme of its own.
func Lex(sql string) []Lexeme {
	toks, err := lexAll(sql)
	if err != nil {
		return []Lexeme{{Text: sql}}
	}
	out := make([]Lexeme, 0, len(toks))
	for _, t := range toks {
		if t.kind == tokEOF {
			break
		}
		out = append(out, Lexeme{
			Text:    t.text,
			Keyword: t.kind == tokIdent && IsKeyword(t.text),
			Quoted:  t.kind == tokString,
		})
	}
	return out
}
