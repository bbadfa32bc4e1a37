// Package value implements the closed value algebra the engine stores:
// thirteen scalar kinds plus Null, with a total order and a hashable key
// encoding so values can serve as index and grouping keys.
package value

import (
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DataType is the declared type of a column.
type DataType uint8

const (
	TypeChar DataType = iota // single character
	TypeVarchar
	TypeText
	TypeEnum // one selection out of an allowed list
	TypeSet  // zero or more selections out of an allowed list
	TypeBool
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeDate     // YYYY-MM-DD
	TypeTime     // HH:MM:SS
	TypeDateTime // YYYY-MM-DD HH:MM:SS
)

func (d DataType) String() string {
	switch d {
	case TypeChar:
		return "CHAR"
	case TypeVarchar:
		return "VARCHAR"
	case TypeText:
		return "TEXT"
	case TypeEnum:
		return "ENUM"
	case TypeSet:
		return "SET"
	case TypeBool:
		return "BOOL"
	case TypeInt32:
		return "INT"
	case TypeInt64:
		return "BIGINT"
	case TypeFloat32:
		return "FLOAT"
	case TypeFloat64:
		return "DOUBLE"
	case TypeDate:
		return "DATE"
	case TypeTime:
		return "TIME"
	case TypeDateTime:
		return "DATETIME"
	default:
		return "UNKNOWN"
	}
}

// Display/parse layouts. Parse round-trips with String for every kind
// except Enum/Set, whose allowed list is not recoverable from text.
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Kind identifies the runtime variant held by a Value. Null is the zero
// kind so that the zero Value reads as Null; for cross-kind comparisons
// Null ranks after every other kind (see rank).
type Kind uint8

const (
	KindNull Kind = iota
	KindChar
	KindVarchar
	KindText
	KindEnum
	KindSet
	KindBool
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindDate
	KindTime
	KindDateTime
)

// rank is the cross-kind comparison order: Char through DateTime in
// declaration order, Null last.
func (k Kind) rank() uint8 {
	if k == KindNull {
		return uint8(KindDateTime)
	}
	return uint8(k) - 1
}

// Value is a tagged union over the engine's scalar kinds. The zero value
// is Null.
type Value struct {
	kind    Kind
	str     string   // Char, Varchar, Text, Enum selection
	items   []string // Set selection
	allowed []string // Enum/Set allowed list
	b       bool
	i       int64 // Int32 and Int64
	f32     float32
	f64     float64
	t       time.Time
}

func Null() Value                { return Value{kind: KindNull} }
func NewChar(r rune) Value       { return Value{kind: KindChar, str: string(r)} }
func NewVarchar(s string) Value  { return Value{kind: KindVarchar, str: s} }
func NewText(s string) Value     { return Value{kind: KindText, str: s} }
func NewBool(b bool) Value       { return Value{kind: KindBool, b: b} }
func NewInt32(i int32) Value     { return Value{kind: KindInt32, i: int64(i)} }
func NewInt64(i int64) Value     { return Value{kind: KindInt64, i: i} }
func NewFloat32(f float32) Value { return Value{kind: KindFloat32, f32: f} }
func NewFloat64(f float64) Value { return Value{kind: KindFloat64, f64: f} }
func NewDate(t time.Time) Value  { return Value{kind: KindDate, t: truncateDate(t)} }
func NewTime(t time.Time) Value  { return Value{kind: KindTime, t: truncateClock(t)} }

func NewDateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t.Truncate(time.Second)}
}

// NewEnum holds one selected literal together with the allowed list it was
// declared against. Membership is checked at row-validation time, not here.
func NewEnum(selected string, allowed []string) Value {
	return Value{kind: KindEnum, str: selected, allowed: slices.Clone(allowed)}
}

// NewSet holds the selected literals together with the allowed list.
func NewSet(selected, allowed []string) Value {
	return Value{kind: KindSet, items: slices.Clone(selected), allowed: slices.Clone(allowed)}
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func truncateClock(t time.Time) time.Time {
	return time.Date(0, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Str returns the textual payload of a Char/Varchar/Text value.
func (v Value) Str() (string, bool) {
	switch v.kind {
	case KindChar, KindVarchar, KindText:
		return v.str, true
	}
	return "", false
}

// EnumVal returns the selected literal and the allowed list.
func (v Value) EnumVal() (string, []string, bool) {
	if v.kind != KindEnum {
		return "", nil, false
	}
	return v.str, v.allowed, true
}

// SetVal returns the selected literals and the allowed list.
func (v Value) SetVal() ([]string, []string, bool) {
	if v.kind != KindSet {
		return nil, nil, false
	}
	return v.items, v.allowed, true
}

func (v Value) BoolVal() (bool, bool) {
	return v.b, v.kind == KindBool
}

// IntVal returns the integer payload of an Int32 or Int64 value.
func (v Value) IntVal() (int64, bool) {
	switch v.kind {
	case KindInt32, KindInt64:
		return v.i, true
	}
	return 0, false
}

// FloatVal coerces any of the four numeric kinds to float64. Used by the
// aggregation layer, which silently excludes everything non-numeric.
func (v Value) FloatVal() (float64, bool) {
	switch v.kind {
	case KindInt32, KindInt64:
		return float64(v.i), true
	case KindFloat32:
		return float64(v.f32), true
	case KindFloat64:
		return v.f64, true
	}
	return 0, false
}

func (v Value) TimeVal() (time.Time, bool) {
	switch v.kind {
	case KindDate, KindTime, KindDateTime:
		return v.t, true
	}
	return time.Time{}, false
}

// CompatibleWith reports whether the value may be stored in a column of
// the given declared type. Null is compatible with every type; nullability
// is enforced separately by the NotNull option.
func (v Value) CompatibleWith(dt DataType) bool {
	if v.kind == KindNull {
		return true
	}
	switch dt {
	case TypeChar:
		return v.kind == KindChar
	case TypeVarchar:
		return v.kind == KindVarchar
	case TypeText:
		return v.kind == KindText
	case TypeEnum:
		return v.kind == KindEnum
	case TypeSet:
		return v.kind == KindSet
	case TypeBool:
		return v.kind == KindBool
	case TypeInt32:
		return v.kind == KindInt32
	case TypeInt64:
		return v.kind == KindInt64
	case TypeFloat32:
		return v.kind == KindFloat32
	case TypeFloat64:
		return v.kind == KindFloat64
	case TypeDate:
		return v.kind == KindDate
	case TypeTime:
		return v.kind == KindTime
	case TypeDateTime:
		return v.kind == KindDateTime
	}
	return false
}

// Equal mirrors Compare == 0. Floats compare by bit pattern, so a value
// round-tripped through memory is always equal to itself even when it
// carries a NaN.
func (v Value) Equal(o Value) bool {
	return v.Compare(o) == 0
}

// Compare defines the total order over values: same-kind payload
// comparison with floats ordered by raw bit pattern, cross-kind by
// declaration rank. Null equals only Null and ranks after every kind.
func (v Value) Compare(o Value) int {
	if v.kind != o.kind {
		return cmpOrd(v.kind.rank(), o.kind.rank())
	}
	switch v.kind {
	case KindChar, KindVarchar, KindText:
		return strings.Compare(v.str, o.str)
	case KindEnum:
		if c := strings.Compare(v.str, o.str); c != 0 {
			return c
		}
		return slices.Compare(v.allowed, o.allowed)
	case KindSet:
		if c := slices.Compare(v.items, o.items); c != 0 {
			return c
		}
		return slices.Compare(v.allowed, o.allowed)
	case KindBool:
		if v.b == o.b {
			return 0
		}
		if !v.b {
			return -1
		}
		return 1
	case KindInt32, KindInt64:
		return cmpOrd(v.i, o.i)
	case KindFloat32:
		return cmpOrd(math.Float32bits(v.f32), math.Float32bits(o.f32))
	case KindFloat64:
		return cmpOrd(math.Float64bits(v.f64), math.Float64bits(o.f64))
	case KindDate, KindTime, KindDateTime:
		return v.t.Compare(o.t)
	case KindNull:
		return 0
	}
	return 0
}

func cmpOrd[T int64 | uint8 | uint32 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Key returns a string encoding that mirrors Equal exactly; two values
// produce the same key if and only if they are equal. Hash indexes and
// grouping maps are keyed by it.
func (v Value) Key() string {
	var b strings.Builder
	b.WriteByte(byte(v.kind))
	switch v.kind {
	case KindChar, KindVarchar, KindText:
		b.WriteString(v.str)
	case KindEnum:
		b.WriteString(v.str)
		b.WriteByte(0x1e)
		b.WriteString(strings.Join(v.allowed, "\x1f"))
	case KindSet:
		b.WriteString(strings.Join(v.items, "\x1f"))
		b.WriteByte(0x1e)
		b.WriteString(strings.Join(v.allowed, "\x1f"))
	case KindBool:
		if v.b {
			b.WriteByte('t')
		} else {
			b.WriteByte('f')
		}
	case KindInt32, KindInt64:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat32:
		b.WriteString(strconv.FormatUint(uint64(math.Float32bits(v.f32)), 16))
	case KindFloat64:
		b.WriteString(strconv.FormatUint(math.Float64bits(v.f64), 16))
	case KindDate:
		b.WriteString(v.t.Format(DateLayout))
	case KindTime:
		b.WriteString(v.t.Format(TimeLayout))
	case KindDateTime:
		b.WriteString(v.t.Format(DateTimeLayout))
	case KindNull:
	}
	return b.String()
}

// String renders the value for display and for view persistence. Null
// renders as the literal NULL, sets as {a,b}, enums as their selection.
func (v Value) String() string {
	switch v.kind {
	case KindChar, KindVarchar, KindText, KindEnum:
		return v.str
	case KindSet:
		return "{" + strings.Join(v.items, ",") + "}"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt32, KindInt64:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(float64(v.f32), 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f64, 'g', -1, 64)
	case KindDate:
		return v.t.Format(DateLayout)
	case KindTime:
		return v.t.Format(TimeLayout)
	case KindDateTime:
		return v.t.Format(DateTimeLayout)
	default:
		return "NULL"
	}
}
