// Package dberr defines the recoverable error kinds the engine returns.
// Every failure is a typed error matched with errors.As; nothing here is
// process-fatal.
package dberr

import (
	"fmt"
	"strings"
)

// ConstraintError is a violation of a row-level constraint
// (unique, primary key, not null, enum/set membership, check).
type ConstraintError struct {
	Table      string      // table name
	Column     string      // column name (empty for table-level constraints)
	Value      interface{} // offending value (may be nil)
	Constraint string      // "unique", "primary_key", "not_null", "enum", "set", "check"
	Reason     string      // human-readable explanation (optional)
}

func (e *ConstraintError) Error() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("constraint violation in %s.%s", e.Table, e.Column))
	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("(%s)", e.Constraint))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return strings.Join(parts, " - ")
}

func NewUniqueViolation(table, column string, value interface{}) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Value:      value,
		Constraint: "unique",
		Reason:     "duplicate value",
	}
}

func NewNotNullViolation(table, column string) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     column,
		Constraint: "not_null",
		Reason:     "missing required value",
	}
}

func NewPrimaryKeyViolation(table string, columns []string) *ConstraintError {
	return &ConstraintError{
		Table:      table,
		Column:     strings.Join(columns, ","),
		Constraint: "primary_key",
		Reason:     "duplicate primary key",
	}
}

// SchemaError is a malformed schema declaration: duplicate column names,
// a primary-key reference to a missing column, an invalid default, or an
// invalid autoincrement declaration.
type SchemaError struct {
	Table  string
	Column string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("schema error in %s.%s: %s", e.Table, e.Column, e.Reason)
	}
	return fmt.Sprintf("schema error in %s: %s", e.Table, e.Reason)
}

// TypeMismatchError is a disagreement between a value and its column's
// declared type, or a row whose length differs from the column count.
type TypeMismatchError struct {
	Table    string
	Column   string
	Value    interface{}
	Expected string
}

func (e *TypeMismatchError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("type mismatch in %s: %s", e.Table, e.Expected)
	}
	return fmt.Sprintf("type mismatch in %s.%s: expected %s, got %v",
		e.Table, e.Column, e.Expected, e.Value)
}

type ColumnNotFoundError struct {
	Table  string
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found in table %q", e.Column, e.Table)
}

type ColumnExistsError struct {
	Table  string
	Column string
}

func (e *ColumnExistsError) Error() string {
	return fmt.Sprintf("column %q already exists in table %q", e.Column, e.Table)
}

type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("table %q does not exist", e.Table)
}

type TableExistsError struct {
	Table string
}

func (e *TableExistsError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Table)
}

// TransactionError is a transaction state violation: begin while active,
// or rollback/commit while idle.
type TransactionError struct {
	Table  string
	Op     string // "begin", "rollback", "commit"
	Reason string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %s on %q: %s", e.Op, e.Table, e.Reason)
}

// ParseError is a failure to read persisted text back into typed rows.
// Line is 1-based, counting data lines after the header.
type ParseError struct {
	Path   string
	Line   int
	Column string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("parse error at %s line %d, column %q: %s", e.Path, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("parse error at %s line %d: %s", e.Path, e.Line, e.Reason)
}

// ForeignKeyError is a foreign-key option referencing a table that does
// not exist in the catalog. Only table existence is checked, not rows.
type ForeignKeyError struct {
	Table  string
	Column string
	Target string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("table %q column %q has a foreign key to missing table %q",
		e.Table, e.Column, e.Target)
}
