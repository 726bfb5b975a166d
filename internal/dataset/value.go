package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Value is a single cell of a dataset.
type Value struct {
	Str     string
	Num     float64
	Numeric bool
	Missing bool

	// Digits is the exact decimal text of an integer cell, set when the
	// source held an integer literal or an integer type. Num may lose
	// precision above 2^53; Digits does not.
	Digits string
}

// NullSet holds the tokens that are read as missing values.
type NullSet map[string]struct{}

// DefaultNullValues mirrors the tokens most tabular tools treat as missing.
var DefaultNullValues = []string{"NA", "N/A", "NaN", "nan", "null", "NULL", "None", "#N/A", "<NA>"}

// NewNullSet builds a NullSet from the given tokens.
func NewNullSet(tokens []string) NullSet {
	set := make(NullSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Has reports whether s is a null token. The empty string is always null.
func (n NullSet) Has(s string) bool {
	if s == "" {
		return true
	}
	_, ok := n[s]
	return ok
}

// MissingValue returns a missing cell.
func MissingValue() Value {
	return Value{Missing: true, Num: math.NaN()}
}

// NumberValue returns a numeric cell.
func NumberValue(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return MissingValue()
	}
	return Value{Str: strconv.FormatFloat(f, 'g', -1, 64), Num: f, Numeric: true}
}

func intValue(i int64) Value {
	v := NumberValue(float64(i))
	v.Str = strconv.FormatInt(i, 10)
	v.Digits = v.Str
	return v
}

// TextValue returns a non-numeric cell.
func TextValue(s string) Value {
	return Value{Str: s, Num: math.NaN()}
}

// ParseCell converts a raw text field into a Value.
func ParseCell(raw string, nulls NullSet) Value {
	if nulls.Has(raw) {
		return MissingValue()
	}
	if isNumber(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
			return Value{Str: raw, Num: f, Numeric: true, Digits: integerDigits(raw)}
		}
	}
	return TextValue(raw)
}

// FromAny converts a value scanned from a database driver into a Value.
func FromAny(v any, nulls NullSet) Value {
	switch x := v.(type) {
	case nil:
		return MissingValue()
	case int:
		return intValue(int64(x))
	case int8:
		return NumberValue(float64(x))
	case int16:
		return NumberValue(float64(x))
	case int32:
		return NumberValue(float64(x))
	case int64:
		return intValue(x)
	case uint:
		return FromAny(uint64(x), nulls)
	case uint8:
		return NumberValue(float64(x))
	case uint16:
		return NumberValue(float64(x))
	case uint32:
		return NumberValue(float64(x))
	case uint64:
		v := NumberValue(float64(x))
		v.Str = strconv.FormatUint(x, 10)
		v.Digits = v.Str
		return v
	case float32:
		return NumberValue(float64(x))
	case float64:
		return NumberValue(x)
	case bool:
		return TextValue(strconv.FormatBool(x))
	case time.Time:
		return TextValue(x.Format(time.RFC3339))
	case []byte:
		return ParseCell(string(x), nulls)
	case string:
		return ParseCell(x, nulls)
	case fmt.Stringer:
		return ParseCell(x.String(), nulls)
	default:
		return ParseCell(fmt.Sprint(x), nulls)
	}
}

// IsBool reports whether the cell holds a boolean token.
func (v Value) IsBool() bool {
	if v.Missing || v.Numeric {
		return false
	}
	switch strings.ToLower(v.Str) {
	case "true", "false":
		return true
	}
	return false
}

// IsIntegral reports whether a numeric cell holds a whole number.
func (v Value) IsIntegral() bool {
	return v.Numeric && v.Num == math.Trunc(v.Num)
}

// Key returns the identity used for distinct counting. Numeric cells
// compare by value so 1, 1.0 and -0 versus 0 collapse into one key.
// Integer cells keep their exact digits.
func (v Value) Key() string {
	if !v.Numeric {
		return v.TextKey()
	}
	if v.Digits != "" {
		return "i:" + v.Digits
	}
	if v.Num == math.Trunc(v.Num) {
		f := v.Num
		if f == 0 {
			f = 0 // drops the sign of -0
		}
		return "i:" + strconv.FormatFloat(f, 'f', -1, 64)
	}
	return "n:" + strconv.FormatFloat(v.Num, 'g', -1, 64)
}

// TextKey returns an identity based on the cell text alone, used when a
// column is treated as text.
func (v Value) TextKey() string {
	return "s:" + v.Str
}

// integerDigits normalizes an integer literal: no plus sign, no leading
// zeros and no sign on zero. It returns "" for anything else.
func integerDigits(s string) string {
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return ""
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ""
		}
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return "0"
	}
	if neg {
		return "-" + s
	}
	return s
}

// isNumber checks that s looks like a decimal number before handing it to
// strconv, which would otherwise accept "Inf", "NaN" and hex literals.
func isNumber(s string) bool {
	if len(s) == 0 {
		return false
	}

	digits := false
	hasDot := false
	hasExp := false
	i := 0

	if s[0] == '-' || s[0] == '+' {
		if len(s) == 1 {
			return false
		}
		i = 1
	}

	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.':
			if hasDot || hasExp {
				return false
			}
			hasDot = true
		case c == 'e' || c == 'E':
			if hasExp || !digits || i == len(s)-1 {
				return false
			}
			hasExp = true
			if s[i+1] == '-' || s[i+1] == '+' {
				i++
				if i == len(s)-1 {
					return false
				}
			}
		default:
			return false
		}
	}
	return digits
}
