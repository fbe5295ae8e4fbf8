// Package elemsql is the top-level facade for the elemsql engine.
package elemsql

import (
	"github.com/tuannm99/elemsql/internal/engine"
	"github.com/tuannm99/elemsql/internal/format"
	"github.com/tuannm99/elemsql/internal/session"
	"github.com/tuannm99/elemsql/internal/sql/executor"
)

type (
	Database = engine.Database
	Table    = engine.Table
	Row      = engine.Row
	Result   = executor.Result
	Session  = session.Session
	Options  = session.Options
)

// NewSession returns an in-process session over an empty database.
func NewSession(opts Options) *Session { return session.New(opts) }

// Open loads a .dbexp or .sql file into a new database.
func Open(path string) (*Database, error) { return format.ImportFile(path) }
