// Package schema describes table columns and their constraint options.
package schema

import (
	"slices"

	"github.com/njiraini/reldb/internal/dberr"
	"github.com/njiraini/reldb/internal/value"
)

// OptionKind discriminates the constraint options a column may carry.
type OptionKind uint8

const (
	OptUnique OptionKind = iota
	OptNotNull
	OptForeignKey
	OptCheck
	OptDefault
	OptAutoincrement
)

// Option is one constraint on a column. Ref carries the foreign-key
// target table, Expr the check expression ("col = literal"), Value the
// default.
type Option struct {
	Kind  OptionKind
	Ref   string
	Expr  string
	Value value.Value
}

func Unique() Option  { return Option{Kind: OptUnique} }
func NotNull() Option { return Option{Kind: OptNotNull} }
func Check(expr string) Option {
	return Option{Kind: OptCheck, Expr: expr}
}

func ForeignKey(table string) Option {
	return Option{Kind: OptForeignKey, Ref: table}
}

func Default(v value.Value) Option {
	return Option{Kind: OptDefault, Value: v}
}

func Autoincrement() Option { return Option{Kind: OptAutoincrement} }

// Column is one schema column: a name, a declared type and an ordered
// option list. Names are unique within a table.
type Column struct {
	Name    string
	Type    value.DataType
	Options []Option
}

// Has reports whether the column carries an option of the given kind.
func (c Column) Has(kind OptionKind) bool {
	for _, opt := range c.Options {
		if opt.Kind == kind {
			return true
		}
	}
	return false
}

// DefaultValue returns the column's default, if one is declared.
func (c Column) DefaultValue() (value.Value, bool) {
	for _, opt := range c.Options {
		if opt.Kind == OptDefault {
			return opt.Value, true
		}
	}
	return value.Null(), false
}

// ForeignKeyTarget returns the referenced table name, if any.
func (c Column) ForeignKeyTarget() (string, bool) {
	for _, opt := range c.Options {
		if opt.Kind == OptForeignKey {
			return opt.Ref, true
		}
	}
	return "", false
}

// CheckExprs returns every check expression declared on the column.
func (c Column) CheckExprs() []string {
	var exprs []string
	for _, opt := range c.Options {
		if opt.Kind == OptCheck {
			exprs = append(exprs, opt.Expr)
		}
	}
	return exprs
}

// Validate enforces the column-level declaration rules:
//   - DEFAULT NULL and NOT NULL are mutually exclusive
//   - AUTOINCREMENT requires an integer type and NOT NULL
//   - an Enum/Set default must select from its own allowed list
func (c Column) Validate(table string) error {
	hasNotNull := c.Has(OptNotNull)

	for _, opt := range c.Options {
		if opt.Kind == OptDefault && opt.Value.IsNull() && hasNotNull {
			return &dberr.SchemaError{
				Table:  table,
				Column: c.Name,
				Reason: "cannot have both DEFAULT NULL and NOT NULL",
			}
		}
	}

	if c.Has(OptAutoincrement) {
		if c.Type != value.TypeInt32 && c.Type != value.TypeInt64 {
			return &dberr.SchemaError{
				Table:  table,
				Column: c.Name,
				Reason: "AUTOINCREMENT requires an INT or BIGINT column",
			}
		}
		if !hasNotNull {
			return &dberr.SchemaError{
				Table:  table,
				Column: c.Name,
				Reason: "AUTOINCREMENT requires NOT NULL",
			}
		}
	}

	for _, opt := range c.Options {
		if opt.Kind != OptDefault {
			continue
		}
		if sel, allowed, ok := opt.Value.EnumVal(); ok {
			if !slices.Contains(allowed, sel) {
				return &dberr.SchemaError{
					Table:  table,
					Column: c.Name,
					Reason: "default enum value " + sel + " not in allowed list",
				}
			}
		}
		if sels, allowed, ok := opt.Value.SetVal(); ok {
			for _, sel := range sels {
				if !slices.Contains(allowed, sel) {
					return &dberr.SchemaError{
						Table:  table,
						Column: c.Name,
						Reason: "default set value " + sel + " not in allowed list",
					}
				}
			}
		}
	}

	return nil
}
