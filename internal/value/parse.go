package value

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Parse reads a persisted textual field back into a Value of the declared
// type. The input may be surrounded by quotes, which are stripped. The
// literal NULL parses as Null for every type.
//
// Enum and Set come back with an empty allowed list, since the list is
// schema information that delimited text does not carry; callers must
// re-validate such values against the live schema before trusting them.
func Parse(s string, dt DataType) (Value, error) {
	raw := strings.Trim(strings.TrimSpace(s), `"`)
	if raw == "NULL" {
		return Null(), nil
	}

	switch dt {
	case TypeChar:
		if utf8.RuneCountInString(raw) != 1 {
			return Null(), fmt.Errorf("expected a single character, got %q", raw)
		}
		r, _ := utf8.DecodeRuneInString(raw)
		return NewChar(r), nil
	case TypeVarchar:
		return NewVarchar(raw), nil
	case TypeText:
		return NewText(raw), nil
	case TypeEnum:
		return NewEnum(raw, nil), nil
	case TypeSet:
		inner := strings.TrimSuffix(strings.TrimPrefix(raw, "{"), "}")
		if inner == "" {
			return NewSet(nil, nil), nil
		}
		items := strings.Split(inner, ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}
		return NewSet(items, nil), nil
	case TypeBool:
		switch raw {
		case "true":
			return NewBool(true), nil
		case "false":
			return NewBool(false), nil
		}
		return Null(), fmt.Errorf("invalid boolean %q", raw)
	case TypeInt32:
		i, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return Null(), fmt.Errorf("invalid int %q", raw)
		}
		return NewInt32(int32(i)), nil
	case TypeInt64:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Null(), fmt.Errorf("invalid bigint %q", raw)
		}
		return NewInt64(i), nil
	case TypeFloat32:
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return Null(), fmt.Errorf("invalid float %q", raw)
		}
		return NewFloat32(float32(f)), nil
	case TypeFloat64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Null(), fmt.Errorf("invalid double %q", raw)
		}
		return NewFloat64(f), nil
	case TypeDate:
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return Null(), fmt.Errorf("invalid date %q", raw)
		}
		return NewDate(t), nil
	case TypeTime:
		t, err := time.Parse(TimeLayout, raw)
		if err != nil {
			return Null(), fmt.Errorf("invalid time %q", raw)
		}
		return NewTime(t), nil
	case TypeDateTime:
		t, err := time.Parse(DateTimeLayout, raw)
		if err != nil {
			return Null(), fmt.Errorf("invalid datetime %q", raw)
		}
		return NewDateTime(t), nil
	}
	return Null(), fmt.Errorf("unknown data type %d", dt)
}
