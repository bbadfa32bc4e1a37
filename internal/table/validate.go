package table

import (
	"slices"
	"strings"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/schema"
	"github.com/njiraini/reldb/internal/value"
)

// ValidateSchema checks the table declaration: no duplicate column names,
// every primary-key column exists, and each column's own options are
// consistent.
func (t *Table) ValidateSchema() error {
	seen := make(map[string]struct{}, len(t.Columns))
	for _, col := range t.Columns {
		if _, dup := seen[col.Name]; dup {
			return &dberr.SchemaError{
				Table:  t.Name,
				Column: col.Name,
				Reason: "duplicate column name",
			}
		}
		seen[col.Name] = struct{}{}

		if err := col.Validate(t.Name); err != nil {
			return err
		}
	}

	for _, pk := range t.PrimaryKey {
		if _, ok := seen[pk]; !ok {
			return &dberr.SchemaError{
				Table:  t.Name,
				Column: pk,
				Reason: "primary key references unknown column",
			}
		}
	}

	return nil
}

// ApplyDefaults resolves the stored value for every column position. A
// supplied non-Null value wins; a Null (or absent, when the row is short)
// position falls back to the column default, then to autoincrement, then
// stays Null.
func (t *Table) ApplyDefaults(partial Row) (Row, error) {
	full := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		var v value.Value
		if i < len(partial) {
			v = partial[i]
		}
		if !v.IsNull() {
			full[i] = v
			continue
		}
		if def, ok := col.DefaultValue(); ok {
			full[i] = def
			continue
		}
		if col.Has(schema.OptAutoincrement) {
			full[i] = t.nextAutoincrement(i, col.Type)
			continue
		}
		full[i] = value.Null()
	}
	return full, nil
}

// nextAutoincrement scans the column for its current maximum and returns
// max+1, typed to the column's integer width. An empty column starts at 1.
func (t *Table) nextAutoincrement(idx int, dt value.DataType) value.Value {
	var max int64
	for _, row := range t.Rows {
		if n, ok := row[idx].IntVal(); ok && n > max {
			max = n
		}
	}
	if dt == value.TypeInt32 {
		return value.NewInt32(int32(max + 1))
	}
	return value.NewInt64(max + 1)
}

// ValidateRow checks a fully resolved row against every constraint, in
// order: length, per-column type, NOT NULL, enum/set membership, check
// expressions, unique columns, then the composite primary key.
func (t *Table) ValidateRow(row Row) error {
	return t.validateRowExcluding(row, -1)
}

// validateRowExcluding is ValidateRow with one stored position ignored by
// the uniqueness scans, so an update does not collide with the row it is
// replacing.
func (t *Table) validateRowExcluding(row Row, exclude int) error {
	if len(row) != len(t.Columns) {
		return &dberr.TypeMismatchError{
			Table:    t.Name,
			Expected: "row length equal to column count",
		}
	}

	for i, col := range t.Columns {
		v := row[i]

		if !v.CompatibleWith(col.Type) {
			return &dberr.TypeMismatchError{
				Table:    t.Name,
				Column:   col.Name,
				Value:    v.String(),
				Expected: col.Type.String(),
			}
		}

		if v.IsNull() {
			if col.Has(schema.OptNotNull) {
				return dberr.NewNotNullViolation(t.Name, col.Name)
			}
			continue
		}

		if sel, allowed, ok := v.EnumVal(); ok {
			if !slices.Contains(allowed, sel) {
				return &dberr.ConstraintError{
					Table:      t.Name,
					Column:     col.Name,
					Value:      sel,
					Constraint: "enum",
					Reason:     "value not in allowed list",
				}
			}
		}
		if sels, allowed, ok := v.SetVal(); ok {
			for _, sel := range sels {
				if !slices.Contains(allowed, sel) {
					return &dberr.ConstraintError{
						Table:      t.Name,
						Column:     col.Name,
						Value:      sel,
						Constraint: "set",
						Reason:     "value not in allowed list",
					}
				}
			}
		}

		for _, expr := range col.CheckExprs() {
			if err := t.evalCheck(col.Name, expr, v); err != nil {
				return err
			}
		}
	}

	for i, col := range t.Columns {
		if !col.Has(schema.OptUnique) || row[i].IsNull() {
			continue
		}
		for pos, stored := range t.Rows {
			if pos == exclude {
				continue
			}
			if stored[i].Equal(row[i]) {
				return dberr.NewUniqueViolation(t.Name, col.Name, row[i].String())
			}
		}
	}

	if len(t.PrimaryKey) > 0 {
		pkIdx := make([]int, len(t.PrimaryKey))
		for i, pk := range t.PrimaryKey {
			idx, err := t.colIndex(pk)
			if err != nil {
				return err
			}
			pkIdx[i] = idx
		}
		for pos, stored := range t.Rows {
			if pos == exclude {
				continue
			}
			match := true
			for _, idx := range pkIdx {
				if !stored[idx].Equal(row[idx]) {
					match = false
					break
				}
			}
			if match {
				return dberr.NewPrimaryKeyViolation(t.Name, t.PrimaryKey)
			}
		}
	}

	return nil
}

// pendingConflict reports a Unique or primary-key collision between two
// rows rewritten in the same batch. The stored-row scans cannot see these:
// each pending row excludes only its own position, so a batch setting the
// same value on several rows would pass validation individually.
func (t *Table) pendingConflict(next, other Row) error {
	for i, col := range t.Columns {
		if col.Has(schema.OptUnique) && !next[i].IsNull() && other[i].Equal(next[i]) {
			return dberr.NewUniqueViolation(t.Name, col.Name, next[i].String())
		}
	}

	if len(t.PrimaryKey) > 0 {
		match := true
		for _, pk := range t.PrimaryKey {
			idx, err := t.colIndex(pk)
			if err != nil {
				return err
			}
			if !other[idx].Equal(next[idx]) {
				match = false
				break
			}
		}
		if match {
			return dberr.NewPrimaryKeyViolation(t.Name, t.PrimaryKey)
		}
	}

	return nil
}

// evalCheck evaluates a "column = literal" check expression. Only Varchar
// values are checked; every other kind passes. Both sides are compared
// after whitespace trimming.
func (t *Table) evalCheck(column, expr string, v value.Value) error {
	left, right, found := strings.Cut(expr, "=")
	if !found {
		return nil
	}
	if strings.TrimSpace(left) != column {
		return nil
	}

	s, ok := v.Str()
	if !ok || v.Kind() != value.KindVarchar {
		return nil
	}
	if strings.TrimSpace(s) != strings.TrimSpace(right) {
		return &dberr.ConstraintError{
			Table:      t.Name,
			Column:     column,
			Value:      s,
			Constraint: "check",
			Reason:     "failed " + expr,
		}
	}
	return nil
}
