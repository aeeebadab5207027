package dialogue

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a sealed interface over the scalar types a dialogue variable can
// hold. Only String, Number, and Bool implement it. Keeping the set closed
// means storage backends and command handlers never have to cope with
// arbitrary Go values.
type Value interface {
	scalar() // Sealed - only these types implement it
}

// String is a string-valued variable.
type String string

func (String) scalar() {}

// Number is a numeric variable. Stored as float64 so both integer and
// fractional values round-trip through the set command and durable storage.
type Number float64

func (Number) scalar() {}

// Bool is a boolean variable.
type Bool bool

func (Bool) scalar() {}

// Render returns the user-facing textual form of a value, used for line
// substitutions and CLI output. Numbers render without a trailing ".0" when
// they are whole.
func Render(v Value) string {
	switch v := v.(type) {
	case String:
		return string(v)
	case Number:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(v))
	case nil:
		return ""
	default:
		// Unreachable while Value stays sealed.
		return fmt.Sprintf("%v", v)
	}
}

// ParseScalar converts raw text into the most specific scalar it can:
// booleans first, then numbers, otherwise a string. Surrounding single or
// double quotes force a string and are stripped.
//
// This is the parse used by the built-in set command, so
// `set $gold 150` yields Number(150) and `set $name "Ann"` yields
// String("Ann").
func ParseScalar(raw string) Value {
	if len(raw) >= 2 {
		if (raw[0] == '"' && raw[len(raw)-1] == '"') || (raw[0] == '\'' && raw[len(raw)-1] == '\'') {
			return String(raw[1 : len(raw)-1])
		}
	}
	switch strings.ToLower(raw) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return Number(n)
	}
	return String(raw)
}

// ValueFromAny converts a decoded YAML/JSON scalar into a Value. Integers
// and floats both map to Number. Returns an error for non-scalar input.
func ValueFromAny(v any) (Value, error) {
	switch v := v.(type) {
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Number(v), nil
	case int64:
		return Number(v), nil
	case float64:
		return Number(v), nil
	default:
		return nil, fmt.Errorf("unsupported scalar type %T", v)
	}
}
