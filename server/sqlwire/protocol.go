package sqlwire

import "github.com/tuannm99/elemsql/internal/sql/executor"

// Operations a client may request.
const (
	OpCreateDatabase = "create_database"
	OpExecute        = "execute"
	OpImport         = "import"
	OpExport         = "export"
)

// Request is a single operation. Which fields are read depends on Op:
// Name for create_database, SQL for execute, Path for import, Format and
// Path for export.
type Request struct {
	ID     uint64 `json:"id"`
	Op     string `json:"op"`
	SQL    string `json:"sql,omitempty"`
	Name   string `json:"name,omitempty"`
	Format string `json:"format,omitempty"`
	Path   string `json:"path,omitempty"`
}

// Response is the answer to the request with the same ID. On failure
// Results still carries the statements that ran before the failing one.
type Response struct {
	ID       uint64             `json:"id"`
	Results  []*executor.Result `json:"results,omitempty"`
	Error    string             `json:"error,omitempty"`
	Category string             `json:"category,omitempty"`
	Line     int                `json:"line,omitempty"`
}
