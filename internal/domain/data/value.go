package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies what a cell currently holds
type Kind int

const (
	KindEmpty Kind = iota
	KindString
	KindNumber
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a single cell: a string, a number, or empty.
// The zero Value is empty.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Empty returns the empty cell value
func Empty() Value { return Value{} }

// Str wraps a string. The empty string is stored as Empty.
func Str(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindString, str: s}
}

// Num wraps a number
func Num(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsEmpty() bool  { return v.kind == KindEmpty }
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// Text returns the canonical string form used for display, filter
// membership and de-duplication. Empty cells yield "".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return FormatNumber(v.num)
	default:
		return ""
	}
}

func (v Value) String() string { return v.Text() }

// Float returns the numeric interpretation of the cell. Strings are
// parsed with ParseNumber; empty cells are never numeric.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		return ParseNumber(v.str)
	default:
		return 0, false
	}
}

// Coerce turns a string that fully parses as a number into a number value
func (v Value) Coerce() Value {
	if v.kind != KindString {
		return v
	}
	if f, ok := ParseNumber(v.str); ok {
		return Num(f)
	}
	return v
}

// MarshalJSON writes numbers as JSON numbers and everything else as strings
func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind == KindNumber {
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return json.Marshal(FormatNumber(v.num))
		}
		return json.Marshal(v.num)
	}
	return json.Marshal(v.Text())
}

// UnmarshalJSON accepts a string, a number or null
func (v *Value) UnmarshalJSON(b []byte) error {
	var raw interface{}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Empty()
	case string:
		*v = Str(x)
	case float64:
		*v = Num(x)
	default:
		return fmt.Errorf("cell value must be a string, number or null, got %T", raw)
	}
	return nil
}

// ParseNumber reports whether s is a complete numeric literal after
// trimming surrounding whitespace. Decimal and exponent forms, 0x/0o/0b
// integers and the words Infinity/-Infinity are accepted.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			if strings.ContainsRune(s, '_') {
				return 0, false
			}
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(n), true
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return 0, false
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// FormatNumber renders f the way a spreadsheet user expects to read it:
// integers without a fraction, no trailing zeros.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs < 1e-6 || abs >= 1e21 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
