// Package catalog holds the named collection of tables and the
// database-level rules that span them: name uniqueness, foreign-key
// target existence, and column DDL routed through the owning database.
package catalog

import (
	"log/slog"
	"sort"
	"time"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/table"
)

// Database is a named collection of tables. Like the tables it holds, a
// Database is not safe for concurrent use.
type Database struct {
	Name   string
	Tables map[string]*table.Table

	observers []Observer
}

func NewDatabase(name string) *Database {
	return &Database{
		Name:   name,
		Tables: make(map[string]*table.Table),
	}
}

// AddObserver subscribes an observer to catalog lifecycle events.
func (db *Database) AddObserver(o Observer) {
	db.observers = append(db.observers, o)
}

func (db *Database) notify(e Event) {
	e.Timestamp = time.Now()
	for _, o := range db.observers {
		o.OnEvent(e)
	}
}

// CreateTable registers a table under its own name. The table was already
// schema-validated at construction; the catalog only enforces name
// uniqueness.
func (db *Database) CreateTable(t *table.Table) error {
	if _, exists := db.Tables[t.Name]; exists {
		return &dberr.TableExistsError{Table: t.Name}
	}
	db.Tables[t.Name] = t

	slog.Info("table created",
		slog.String("database", db.Name),
		slog.String("table", t.Name),
		slog.Int("columns", len(t.Columns)),
	)
	db.notify(Event{Type: EventTableCreated, Table: t.Name})
	return nil
}

// GetTable looks a table up by name.
func (db *Database) GetTable(name string) (*table.Table, error) {
	t, ok := db.Tables[name]
	if !ok {
		return nil, &dberr.TableNotFoundError{Table: name}
	}
	return t, nil
}

// DropTable removes a table and everything it holds.
func (db *Database) DropTable(name string) error {
	if _, ok := db.Tables[name]; !ok {
		return &dberr.TableNotFoundError{Table: name}
	}
	delete(db.Tables, name)

	slog.Info("table dropped",
		slog.String("database", db.Name),
		slog.String("table", name),
	)
	db.notify(Event{Type: EventTableDropped, Table: name})
	return nil
}

// TableNames returns the registered table names in sorted order.
func (db *Database) TableNames() []string {
	names := make([]string, 0, len(db.Tables))
	for name := range db.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AlterAddColumn routes ALTER ADD COLUMN through the catalog so the
// mutation is observed.
func (db *Database) AlterAddColumn(tableName string, col schema.Column) error {
	t, err := db.GetTable(tableName)
	if err != nil {
		return err
	}
	if err := t.AlterAddColumn(col); err != nil {
		return err
	}
	db.notify(Event{Type: EventColumnAdded, Table: tableName, Column: col.Name})
	return nil
}

// RenameColumn routes a column rename through the catalog.
func (db *Database) RenameColumn(tableName, oldName, newName string) error {
	t, err := db.GetTable(tableName)
	if err != nil {
		return err
	}
	if err := t.RenameColumn(oldName, newName); err != nil {
		return err
	}
	db.notify(Event{Type: EventColumnRenamed, Table: tableName, Column: oldName, Data: newName})
	return nil
}

// DropColumn routes a column drop through the catalog.
func (db *Database) DropColumn(tableName, column string) error {
	t, err := db.GetTable(tableName)
	if err != nil {
		return err
	}
	if err := t.DropColumn(column); err != nil {
		return err
	}
	db.notify(Event{Type: EventColumnDropped, Table: tableName, Column: column})
	return nil
}

// ValidateForeignKeys checks that every foreign-key option in the catalog
// names a table that exists. Referenced rows are not checked; the
// constraint is structural only.
func (db *Database) ValidateForeignKeys() error {
	for _, name := range db.TableNames() {
		t := db.Tables[name]
		for _, col := range t.Columns {
			target, ok := col.ForeignKeyTarget()
			if !ok {
				continue
			}
			if _, exists := db.Tables[target]; !exists {
				return &dberr.ForeignKeyError{
					Table:  name,
					Column: col.Name,
					Target: target,
				}
			}
		}
	}
	db.notify(Event{Type: EventFKValidated})
	return nil
}
