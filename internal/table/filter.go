package table

import (
	"strings"

	"github.com/njiraini/reldb/internal/value"
)

// FilterOp enumerates the comparison operators a FilterExpr can apply.
type FilterOp uint8

const (
	OpEq FilterOp = iota
	OpNe
	OpGt
	OpLt
	OpGe
	OpLe
	OpLike
	OpIn
	OpBetween
	OpIsNull
	OpIsNotNull
)

// FilterExpr is a single-column predicate evaluated against rows. Ordered
// comparisons use the value total order, so mixed-kind columns filter
// deterministically.
type FilterExpr struct {
	Op     FilterOp
	Column string
	Value  value.Value   // Eq..Le, Like (pattern as Varchar)
	List   []value.Value // In
	Low    value.Value   // Between, inclusive
	High   value.Value   // Between, inclusive
}

func Eq(column string, v value.Value) FilterExpr { return FilterExpr{Op: OpEq, Column: column, Value: v} }
func Ne(column string, v value.Value) FilterExpr { return FilterExpr{Op: OpNe, Column: column, Value: v} }
func Gt(column string, v value.Value) FilterExpr { return FilterExpr{Op: OpGt, Column: column, Value: v} }
func Lt(column string, v value.Value) FilterExpr { return FilterExpr{Op: OpLt, Column: column, Value: v} }
func Ge(column string, v value.Value) FilterExpr { return FilterExpr{Op: OpGe, Column: column, Value: v} }
func Le(column string, v value.Value) FilterExpr { return FilterExpr{Op: OpLe, Column: column, Value: v} }

// Like matches textual values against a pattern where % is a multi-char
// wildcard at either end. Non-text and Null values never match.
func Like(column, pattern string) FilterExpr {
	return FilterExpr{Op: OpLike, Column: column, Value: value.NewVarchar(pattern)}
}

// In matches values equal to any member of the list.
func In(column string, vs ...value.Value) FilterExpr {
	return FilterExpr{Op: OpIn, Column: column, List: vs}
}

// Between matches values in the inclusive [low, high] range.
func Between(column string, low, high value.Value) FilterExpr {
	return FilterExpr{Op: OpBetween, Column: column, Low: low, High: high}
}

func IsNull(column string) FilterExpr    { return FilterExpr{Op: OpIsNull, Column: column} }
func IsNotNull(column string) FilterExpr { return FilterExpr{Op: OpIsNotNull, Column: column} }

// predicate compiles the expression into a row predicate bound to the
// table's column layout.
func (e FilterExpr) predicate(t *Table) (func(Row) bool, error) {
	idx, err := t.colIndex(e.Column)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpEq:
		return func(r Row) bool { return r[idx].Equal(e.Value) }, nil
	case OpNe:
		return func(r Row) bool { return !r[idx].Equal(e.Value) }, nil
	case OpGt:
		return func(r Row) bool { return r[idx].Compare(e.Value) > 0 }, nil
	case OpLt:
		return func(r Row) bool { return r[idx].Compare(e.Value) < 0 }, nil
	case OpGe:
		return func(r Row) bool { return r[idx].Compare(e.Value) >= 0 }, nil
	case OpLe:
		return func(r Row) bool { return r[idx].Compare(e.Value) <= 0 }, nil
	case OpLike:
		pattern, _ := e.Value.Str()
		return func(r Row) bool {
			s, ok := r[idx].Str()
			return ok && matchLike(s, pattern)
		}, nil
	case OpIn:
		return func(r Row) bool {
			for _, v := range e.List {
				if r[idx].Equal(v) {
					return true
				}
			}
			return false
		}, nil
	case OpBetween:
		return func(r Row) bool {
			return r[idx].Compare(e.Low) >= 0 && r[idx].Compare(e.High) <= 0
		}, nil
	case OpIsNull:
		return func(r Row) bool { return r[idx].IsNull() }, nil
	case OpIsNotNull:
		return func(r Row) bool { return !r[idx].IsNull() }, nil
	}
	return func(Row) bool { return false }, nil
}

// matchLike implements % wildcards at the pattern's edges: %x%, %x, x%
// and the exact match x. Wildcards inside the pattern are not supported.
func matchLike(s, pattern string) bool {
	leading := strings.HasPrefix(pattern, "%")
	trailing := strings.HasSuffix(pattern, "%")
	core := strings.TrimSuffix(strings.TrimPrefix(pattern, "%"), "%")

	switch {
	case leading && trailing:
		return strings.Contains(s, core)
	case leading:
		return strings.HasSuffix(s, core)
	case trailing:
		return strings.HasPrefix(s, core)
	default:
		return s == pattern
	}
}
