package formula

import (
	"math"
	"strings"

	"github.com/leengari/pivotgrid/internal/domain/data"
	"github.com/leengari/pivotgrid/internal/formula/ast"
)

type valueKind int

const (
	nullValue valueKind = iota
	numberValue
	stringValue
	boolValue
)

// value is the evaluator's working type. It adds booleans and null to
// the cell kinds; an empty cell is the empty string.
type value struct {
	kind valueKind
	num  float64
	str  string
	b    bool
}

func null() value               { return value{} }
func number(f float64) value    { return value{kind: numberValue, num: f} }
func str(s string) value        { return value{kind: stringValue, str: s} }
func boolean(b bool) value      { return value{kind: boolValue, b: b} }
func (v value) isBlank() bool   { return v.kind == nullValue || (v.kind == stringValue && v.str == "") }
func (v value) isNumeric() bool { return v.kind == numberValue }

func fromCell(c data.Value) value {
	switch c.Kind() {
	case data.KindNumber:
		f, _ := c.Float()
		return number(f)
	default:
		return str(c.Text())
	}
}

func (v value) text() string {
	switch v.kind {
	case numberValue:
		return data.FormatNumber(v.num)
	case stringValue:
		return v.str
	case boolValue:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func (v value) truthy() bool {
	switch v.kind {
	case numberValue:
		return v.num != 0 && !math.IsNaN(v.num)
	case stringValue:
		return v.str != ""
	case boolValue:
		return v.b
	default:
		return false
	}
}

// toNumber converts for arithmetic. Numeric strings and booleans convert;
// blanks and other strings do not.
func (v value) toNumber() (float64, error) {
	switch v.kind {
	case numberValue:
		return v.num, nil
	case boolValue:
		if v.b {
			return 1, nil
		}
		return 0, nil
	case stringValue:
		if f, ok := data.ParseNumber(v.str); ok {
			return f, nil
		}
		if v.str == "" {
			return 0, evalErrorf(ErrNotNumber, "empty value used as a number")
		}
		return 0, evalErrorf(ErrNotNumber, "%q is not a number", v.str)
	default:
		return 0, evalErrorf(ErrNotNumber, "null used as a number")
	}
}

// asComparable returns the numeric form when v is a non-blank number or
// numeric string
func (v value) asComparable() (float64, bool) {
	switch v.kind {
	case numberValue:
		return v.num, true
	case stringValue:
		return data.ParseNumber(v.str)
	default:
		return 0, false
	}
}

// toCell applies result coercion: null becomes empty, numeric strings
// become numbers, booleans become "true"/"false".
func (v value) toCell() (data.Value, error) {
	switch v.kind {
	case nullValue:
		return data.Empty(), nil
	case numberValue:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return data.Empty(), evalErrorf(ErrNotFinite, "result is %s", data.FormatNumber(v.num))
		}
		return data.Num(v.num), nil
	default:
		return data.Str(v.text()).Coerce(), nil
	}
}

type evaluator struct {
	row data.Row
}

func (e *evaluator) eval(node ast.Expression) (value, error) {
	switch n := node.(type) {
	case *ast.NumberLiteral:
		return number(n.Value), nil
	case *ast.StringLiteral:
		return str(n.Value), nil
	case *ast.BooleanLiteral:
		return boolean(n.Value), nil
	case *ast.NullLiteral:
		return null(), nil
	case *ast.ColumnRef:
		if !e.row.Has(n.Name) {
			return null(), &EvalError{Column: n.Name, Msg: "no such column", Err: ErrUnknownColumn}
		}
		return fromCell(e.row.Get(n.Name)), nil
	case *ast.UnaryExpression:
		return e.evalUnary(n)
	case *ast.BinaryExpression:
		return e.evalBinary(n)
	case *ast.ConditionalExpression:
		cond, err := e.eval(n.Condition)
		if err != nil {
			return null(), err
		}
		if cond.truthy() {
			return e.eval(n.Consequence)
		}
		return e.eval(n.Alternative)
	case *ast.CallExpression:
		return e.evalCall(n)
	default:
		return null(), evalErrorf(ErrSyntax, "unsupported expression %T", node)
	}
}

func (e *evaluator) evalUnary(n *ast.UnaryExpression) (value, error) {
	right, err := e.eval(n.Right)
	if err != nil {
		return null(), err
	}
	if n.Operator == "!" {
		return boolean(!right.truthy()), nil
	}
	f, err := right.toNumber()
	if err != nil {
		return null(), err
	}
	if n.Operator == "-" {
		return number(-f), nil
	}
	return number(f), nil
}

func (e *evaluator) evalBinary(n *ast.BinaryExpression) (value, error) {
	// Logical operators short-circuit
	switch n.Operator {
	case "&&", "||":
		left, err := e.eval(n.Left)
		if err != nil {
			return null(), err
		}
		if n.Operator == "&&" && !left.truthy() {
			return boolean(false), nil
		}
		if n.Operator == "||" && left.truthy() {
			return boolean(true), nil
		}
		right, err := e.eval(n.Right)
		if err != nil {
			return null(), err
		}
		return boolean(right.truthy()), nil
	}

	left, err := e.eval(n.Left)
	if err != nil {
		return null(), err
	}
	right, err := e.eval(n.Right)
	if err != nil {
		return null(), err
	}

	switch n.Operator {
	case "+":
		if left.isNumeric() && right.isNumeric() {
			return finite(left.num + right.num)
		}
		return str(left.text() + right.text()), nil
	case "&":
		return str(left.text() + right.text()), nil
	case "==":
		return boolean(equal(left, right)), nil
	case "!=":
		return boolean(!equal(left, right)), nil
	case "<", "<=", ">", ">=":
		c := compare(left, right)
		switch n.Operator {
		case "<":
			return boolean(c < 0), nil
		case "<=":
			return boolean(c <= 0), nil
		case ">":
			return boolean(c > 0), nil
		default:
			return boolean(c >= 0), nil
		}
	}

	a, err := left.toNumber()
	if err != nil {
		return null(), err
	}
	b, err := right.toNumber()
	if err != nil {
		return null(), err
	}

	switch n.Operator {
	case "-":
		return finite(a - b)
	case "*":
		return finite(a * b)
	case "/":
		if b == 0 {
			return null(), evalErrorf(ErrDivisionByZero, "division by zero")
		}
		return finite(a / b)
	case "%":
		if b == 0 {
			return null(), evalErrorf(ErrDivisionByZero, "modulo by zero")
		}
		return finite(math.Mod(a, b))
	case "^":
		return finite(math.Pow(a, b))
	default:
		return null(), evalErrorf(ErrSyntax, "unknown operator %q", n.Operator)
	}
}

func finite(f float64) (value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return null(), evalErrorf(ErrNotFinite, "result is %s", data.FormatNumber(f))
	}
	return number(f), nil
}

// equal compares numerically when both sides are numeric, otherwise by
// string form. Null equals the empty string.
func equal(a, b value) bool {
	if x, ok := a.asComparable(); ok {
		if y, ok := b.asComparable(); ok {
			return x == y
		}
	}
	if a.kind == boolValue && b.kind == boolValue {
		return a.b == b.b
	}
	return a.text() == b.text()
}

// compare follows the sort rule: numeric when both sides are numeric,
// otherwise case-sensitive string order
func compare(a, b value) int {
	if x, ok := a.asComparable(); ok {
		if y, ok := b.asComparable(); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(a.text(), b.text())
}
