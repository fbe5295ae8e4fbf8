package engine

import "errors"

// Domain errors. They are raised while executing against a structurally
// valid statement and always leave the database unchanged.
var (
	ErrTableExists       = errors.New("engine: table already exists")
	ErrTableNotFound     = errors.New("engine: table does not exist")
	ErrInvalidTableName  = errors.New("engine: invalid table name")
	ErrColumnNotFound    = errors.New("engine: column does not exist")
	ErrRowOutOfBounds    = errors.New("engine: row index out of bounds")
	ErrRowLengthMismatch = errors.New("engine: row data length does not match column count")
)
