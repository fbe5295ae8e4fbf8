package executor

import (
	"fmt"

	"github.com/tuannm99/elemsql/internal/sql/parser"
)

// ScriptError reports the statement that stopped a script.
type ScriptError struct {
	Line      int
	Statement string
	Err       error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ScriptError) Unwrap() error { return e.Err }

// ExecScript runs every statement in text in order and stops at the first
// failure. Statements before the failure stay applied and their results are
// returned alongside the *ScriptError.
func (e *Executor) ExecScript(text string) ([]*Result, error) {
	var results []*Result
	for _, f := range parser.SplitStatements(text) {
		res, err := e.ExecSQL(f.Text)
		if err != nil {
			return results, &ScriptError{Line: f.Line, Statement: f.Text, Err: err}
		}
		results = append(results, res)
	}
	return results, nil
}
