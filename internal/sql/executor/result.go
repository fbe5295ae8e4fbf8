package executor

import "github.com/tuannm99/elemsql/internal/engine"

// Statement kinds reported in Result.Statement.
const (
	KindCreateTable = "CREATE TABLE"
	KindDropTable   = "DROP TABLE"
	KindInsert      = "INSERT"
	KindSelect      = "SELECT"
	KindUpdate      = "UPDATE"
	KindDelete      = "DELETE"
	KindShowTables  = "SHOW TABLES"
)

// Result is the generic statement result returned to the caller.
type Result struct {
	Statement string `json:"statement"`

	// SELECT:
	Table *TableData `json:"table,omitempty"`

	// SHOW TABLES:
	Tables []TableData `json:"tables,omitempty"`

	// For DML:
	AffectedRows int64 `json:"affected_rows"`

	Message string `json:"message,omitempty"`
}

// TableData is a detached, serialisable copy of a table.
type TableData struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func NewTableData(t *engine.Table) TableData {
	rows := make([][]string, 0, t.RowCount())
	for _, r := range t.Rows() {
		rows = append(rows, r.Values())
	}
	return TableData{Name: t.Name(), Columns: t.ColumnNames(), Rows: rows}
}

// Empty reports whether the table has no rows.
func (t TableData) Empty() bool { return len(t.Rows) == 0 }
