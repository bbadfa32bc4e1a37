package table

import (
	"log/slog"
	"slices"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/value"
)

// AlterAddColumn appends a column to the schema and backfills every
// existing row with the column default, or Null when none is declared. A
// NOT NULL column without a default cannot be added to a non-empty table.
func (t *Table) AlterAddColumn(col schema.Column) error {
	if _, err := t.colIndex(col.Name); err == nil {
		return &dberr.ColumnExistsError{Table: t.Name, Column: col.Name}
	}
	if err := col.Validate(t.Name); err != nil {
		return err
	}

	fill, hasDefault := col.DefaultValue()
	if !hasDefault {
		fill = value.Null()
	}
	if fill.IsNull() && col.Has(schema.OptNotNull) && len(t.Rows) > 0 {
		return dberr.NewNotNullViolation(t.Name, col.Name)
	}

	t.Columns = append(t.Columns, col)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], fill)
	}

	slog.Info("column added",
		slog.String("table", t.Name),
		slog.String("column", col.Name),
	)
	return nil
}

// RenameColumn renames a column, following the name through the primary
// key and any index on it.
func (t *Table) RenameColumn(oldName, newName string) error {
	idx, err := t.colIndex(oldName)
	if err != nil {
		return err
	}
	if _, err := t.colIndex(newName); err == nil {
		return &dberr.ColumnExistsError{Table: t.Name, Column: newName}
	}

	t.Columns[idx].Name = newName
	for i, pk := range t.PrimaryKey {
		if pk == oldName {
			t.PrimaryKey[i] = newName
		}
	}
	if ix, ok := t.Indexes[oldName]; ok {
		delete(t.Indexes, oldName)
		ix.Column = newName
		t.Indexes[newName] = ix
	}

	slog.Info("column renamed",
		slog.String("table", t.Name),
		slog.String("from", oldName),
		slog.String("to", newName),
	)
	return nil
}

// DropColumn removes a column and its stored values. Primary-key columns
// cannot be dropped; an index on the column is discarded.
func (t *Table) DropColumn(name string) error {
	idx, err := t.colIndex(name)
	if err != nil {
		return err
	}
	if slices.Contains(t.PrimaryKey, name) {
		return &dberr.SchemaError{
			Table:  t.Name,
			Column: name,
			Reason: "cannot drop a primary key column",
		}
	}

	t.Columns = slices.Delete(t.Columns, idx, idx+1)
	for i := range t.Rows {
		t.Rows[i] = slices.Delete(t.Rows[i], idx, idx+1)
	}
	delete(t.Indexes, name)

	slog.Info("column dropped",
		slog.String("table", t.Name),
		slog.String("column", name),
	)
	return nil
}
