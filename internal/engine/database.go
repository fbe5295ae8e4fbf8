package engine

import (
	"fmt"
	"sort"
)

// DefaultDatabaseName is used when a database is created or imported without
// a name.
const DefaultDatabaseName = "untitled"

// Database is a named collection of tables keyed by table name. It is not
// safe for concurrent use; callers serialize access (see session.Session).
type Database struct {
	name   string
	tables map[string]*Table
}

func NewDatabase(name string) *Database {
	return &Database{name: name, tables: make(map[string]*Table)}
}

func (db *Database) Name() string { return db.name }

// AddTable registers an already-built table.
func (db *Database) AddTable(t *Table) error {
	if _, ok := db.tables[t.name]; ok {
		return fmt.Errorf("%w: %q", ErrTableExists, t.name)
	}
	db.tables[t.name] = t
	return nil
}

func (db *Database) CreateTable(name string, columns []Column) (*Table, error) {
	if _, ok := db.tables[name]; ok {
		return nil, fmt.Errorf("%w: %q", ErrTableExists, name)
	}
	t, err := NewTable(name, columns)
	if err != nil {
		return nil, err
	}
	db.tables[name] = t
	return t, nil
}

func (db *Database) DropTable(name string) error {
	if _, ok := db.tables[name]; !ok {
		return fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	delete(db.tables, name)
	return nil
}

func (db *Database) Table(name string) (*Table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, name)
	}
	return t, nil
}

func (db *Database) HasTable(name string) bool {
	_, ok := db.tables[name]
	return ok
}

// TableNames returns table names in ascending order.
func (db *Database) TableNames() []string {
	names := make([]string, 0, len(db.tables))
	for n := range db.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Tables returns the tables ordered by name.
func (db *Database) Tables() []*Table {
	names := db.TableNames()
	out := make([]*Table, len(names))
	for i, n := range names {
		out[i] = db.tables[n]
	}
	return out
}

// AddRow appends values (already in column order) to table.
func (db *Database) AddRow(table string, values []string) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	return t.AddRow(values)
}

// InsertRow stores values given against the named columns of table.
func (db *Database) InsertRow(table string, columns, values []string) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	return t.Insert(columns, values)
}

func (db *Database) UpdateRow(table string, index int, values []string) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	return t.UpdateRow(index, values)
}

func (db *Database) RemoveRow(table string, index int) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	return t.RemoveRow(index)
}

func (db *Database) ClearTable(table string) error {
	t, err := db.Table(table)
	if err != nil {
		return err
	}
	t.ClearRows()
	return nil
}

// Update applies changes to rows of table matching all filters.
func (db *Database) Update(table string, filters []Filter, changes []Assignment) (int, error) {
	t, err := db.Table(table)
	if err != nil {
		return 0, err
	}
	return t.UpdateWhere(filters, changes)
}

// Delete removes rows of table matching all filters.
func (db *Database) Delete(table string, filters []Filter) (int, error) {
	t, err := db.Table(table)
	if err != nil {
		return 0, err
	}
	return t.DeleteWhere(filters), nil
}
