// Package table implements the core engine entity: schema-enforced rows,
// secondary indexes, the programmatic query layer, joins, set algebra and
// single-level snapshot transactions.
package table

import (
	"fmt"
	"log/slog"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/value"
)

// Row is an ordered list of values, index-aligned with the table's
// column list.
type Row = []value.Value

// Table is a named, ordered collection of schema-enforced rows with an
// optional composite primary key and a set of secondary indexes. Indexes
// are derived, rebuildable state; the rows are the source of truth.
//
// A Table is not safe for concurrent use; callers synchronize externally.
type Table struct {
	Name       string
	Columns    []schema.Column
	Rows       []Row
	PrimaryKey []string
	Indexes    map[string]*Index

	backup []Row  // transaction snapshot, nil when idle
	txID   string // uuid of the open transaction, for log correlation
}

// New constructs a table, validates its schema, and builds a hash index
// for every primary-key column.
func New(name string, columns []schema.Column, primaryKey []string) (*Table, error) {
	t := &Table{
		Name:       name,
		Columns:    columns,
		PrimaryKey: primaryKey,
		Indexes:    make(map[string]*Index),
	}

	if err := t.ValidateSchema(); err != nil {
		return nil, err
	}

	for _, col := range primaryKey {
		if err := t.CreateIndex(col, false); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// colIndex resolves a column name to its position.
func (t *Table) colIndex(name string) (int, error) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return i, nil
		}
	}
	return -1, &dberr.ColumnNotFoundError{Table: t.Name, Column: name}
}

// Insert adds one row through the validated path: length and type checks,
// default/autoincrement resolution, full row validation, append, then an
// incremental update of every index. A failed insert leaves the table
// unchanged.
func (t *Table) Insert(values Row) error {
	if len(values) != len(t.Columns) {
		return &dberr.TypeMismatchError{
			Table:    t.Name,
			Expected: fmt.Sprintf("%d values per row, got %d", len(t.Columns), len(values)),
		}
	}

	for i, v := range values {
		if !v.CompatibleWith(t.Columns[i].Type) {
			return &dberr.TypeMismatchError{
				Table:    t.Name,
				Column:   t.Columns[i].Name,
				Value:    v.String(),
				Expected: t.Columns[i].Type.String(),
			}
		}
	}

	full, err := t.ApplyDefaults(values)
	if err != nil {
		return err
	}

	if err := t.ValidateRow(full); err != nil {
		return err
	}

	pos := len(t.Rows)
	t.Rows = append(t.Rows, full)
	t.updateIndexesForRow(pos)

	slog.Debug("row inserted",
		slog.String("table", t.Name),
		slog.Int("position", pos),
	)

	return nil
}

// SelectAll returns all rows. The outer slice is a copy; the rows are
// shared.
func (t *Table) SelectAll() []Row {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	return rows
}

func cloneRow(row Row) Row {
	out := make(Row, len(row))
	copy(out, row)
	return out
}

func cloneRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, row := range rows {
		out[i] = cloneRow(row)
	}
	return out
}
