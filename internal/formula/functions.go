package formula

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/leengari/pivotgrid/internal/formula/ast"
)

// function is one entry in the allow-listed library. Lazy functions
// receive unevaluated arguments; the rest receive evaluated values.
// maxArgs < 0 means variadic.
type function struct {
	minArgs int
	maxArgs int
	eager   func(args []value) (value, error)
	lazy    func(e *evaluator, args []ast.Expression) (value, error)
}

var functions map[string]function

func init() {
	functions = map[string]function{
		"IF":       {minArgs: 2, maxArgs: 3, lazy: fnIf},
		"AND":      {minArgs: 1, maxArgs: -1, lazy: fnAnd},
		"OR":       {minArgs: 1, maxArgs: -1, lazy: fnOr},
		"COALESCE": {minArgs: 1, maxArgs: -1, lazy: fnCoalesce},

		"NOT":   {minArgs: 1, maxArgs: 1, eager: func(a []value) (value, error) { return boolean(!a[0].truthy()), nil }},
		"ABS":   {minArgs: 1, maxArgs: 1, eager: math1(math.Abs)},
		"FLOOR": {minArgs: 1, maxArgs: 1, eager: math1(math.Floor)},
		"CEIL":  {minArgs: 1, maxArgs: 1, eager: math1(math.Ceil)},
		"SQRT":  {minArgs: 1, maxArgs: 1, eager: math1(math.Sqrt)},
		"ROUND": {minArgs: 1, maxArgs: 2, eager: fnRound},
		"POW":   {minArgs: 2, maxArgs: 2, eager: fnPow},
		"MIN":   {minArgs: 1, maxArgs: -1, eager: aggregate(func(xs []float64) float64 { sort.Float64s(xs); return xs[0] })},
		"MAX":   {minArgs: 1, maxArgs: -1, eager: aggregate(func(xs []float64) float64 { sort.Float64s(xs); return xs[len(xs)-1] })},
		"SUM":   {minArgs: 1, maxArgs: -1, eager: fnSum},
		"AVG":   {minArgs: 1, maxArgs: -1, eager: aggregate(func(xs []float64) float64 { return sum(xs) / float64(len(xs)) })},

		"LEN":      {minArgs: 1, maxArgs: 1, eager: func(a []value) (value, error) { return number(float64(utf8.RuneCountInString(a[0].text()))), nil }},
		"UPPER":    {minArgs: 1, maxArgs: 1, eager: text1(strings.ToUpper)},
		"LOWER":    {minArgs: 1, maxArgs: 1, eager: text1(strings.ToLower)},
		"TRIM":     {minArgs: 1, maxArgs: 1, eager: text1(strings.TrimSpace)},
		"CONCAT":   {minArgs: 1, maxArgs: -1, eager: fnConcat},
		"LEFT":     {minArgs: 1, maxArgs: 2, eager: fnLeft},
		"RIGHT":    {minArgs: 1, maxArgs: 2, eager: fnRight},
		"MID":      {minArgs: 3, maxArgs: 3, eager: fnMid},
		"CONTAINS": {minArgs: 2, maxArgs: 2, eager: func(a []value) (value, error) { return boolean(strings.Contains(a[0].text(), a[1].text())), nil }},
		"ISBLANK":  {minArgs: 1, maxArgs: 1, eager: func(a []value) (value, error) { return boolean(a[0].isBlank()), nil }},
		"NUMBER":   {minArgs: 1, maxArgs: 1, eager: fnNumber},
		"TEXT":     {minArgs: 1, maxArgs: 1, eager: func(a []value) (value, error) { return str(a[0].text()), nil }},
	}
}

// Functions returns the names of the function library, sorted
func Functions() []string {
	names := make([]string, 0, len(functions))
	for name := range functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *evaluator) evalCall(n *ast.CallExpression) (value, error) {
	fn, ok := functions[n.Function]
	if !ok {
		return null(), evalErrorf(ErrUnknownFunction, "unknown function %s", n.Function)
	}
	if fn.lazy != nil {
		return fn.lazy(e, n.Arguments)
	}

	args := make([]value, len(n.Arguments))
	for i, a := range n.Arguments {
		v, err := e.eval(a)
		if err != nil {
			return null(), err
		}
		args[i] = v
	}
	return fn.eager(args)
}

func fnIf(e *evaluator, args []ast.Expression) (value, error) {
	cond, err := e.eval(args[0])
	if err != nil {
		return null(), err
	}
	if cond.truthy() {
		return e.eval(args[1])
	}
	if len(args) == 3 {
		return e.eval(args[2])
	}
	return null(), nil
}

func fnAnd(e *evaluator, args []ast.Expression) (value, error) {
	for _, a := range args {
		v, err := e.eval(a)
		if err != nil {
			return null(), err
		}
		if !v.truthy() {
			return boolean(false), nil
		}
	}
	return boolean(true), nil
}

func fnOr(e *evaluator, args []ast.Expression) (value, error) {
	for _, a := range args {
		v, err := e.eval(a)
		if err != nil {
			return null(), err
		}
		if v.truthy() {
			return boolean(true), nil
		}
	}
	return boolean(false), nil
}

// fnCoalesce returns the first non-blank argument
func fnCoalesce(e *evaluator, args []ast.Expression) (value, error) {
	for _, a := range args {
		v, err := e.eval(a)
		if err != nil {
			return null(), err
		}
		if !v.isBlank() {
			return v, nil
		}
	}
	return null(), nil
}

func math1(f func(float64) float64) func([]value) (value, error) {
	return func(a []value) (value, error) {
		x, err := a[0].toNumber()
		if err != nil {
			return null(), err
		}
		return finite(f(x))
	}
}

func text1(f func(string) string) func([]value) (value, error) {
	return func(a []value) (value, error) {
		return str(f(a[0].text())), nil
	}
}

func fnRound(a []value) (value, error) {
	x, err := a[0].toNumber()
	if err != nil {
		return null(), err
	}
	digits := 0.0
	if len(a) == 2 {
		if digits, err = a[1].toNumber(); err != nil {
			return null(), err
		}
	}
	scale := math.Pow(10, math.Trunc(digits))
	return finite(math.Round(x*scale) / scale)
}

func fnPow(a []value) (value, error) {
	x, err := a[0].toNumber()
	if err != nil {
		return null(), err
	}
	y, err := a[1].toNumber()
	if err != nil {
		return null(), err
	}
	return finite(math.Pow(x, y))
}

// numbers converts the non-blank arguments; blank arguments are skipped
func numbers(a []value) ([]float64, error) {
	xs := make([]float64, 0, len(a))
	for _, v := range a {
		if v.isBlank() {
			continue
		}
		x, err := v.toNumber()
		if err != nil {
			return nil, err
		}
		xs = append(xs, x)
	}
	return xs, nil
}

func sum(xs []float64) float64 {
	total := 0.0
	for _, x := range xs {
		total += x
	}
	return total
}

func fnSum(a []value) (value, error) {
	xs, err := numbers(a)
	if err != nil {
		return null(), err
	}
	return finite(sum(xs))
}

// aggregate wraps f so it only sees a non-empty list
func aggregate(f func([]float64) float64) func([]value) (value, error) {
	return func(a []value) (value, error) {
		xs, err := numbers(a)
		if err != nil {
			return null(), err
		}
		if len(xs) == 0 {
			return null(), nil
		}
		return finite(f(xs))
	}
}

func fnConcat(a []value) (value, error) {
	var b strings.Builder
	for _, v := range a {
		b.WriteString(v.text())
	}
	return str(b.String()), nil
}

func count(v value, fallback int) (int, error) {
	if v.kind == nullValue {
		return fallback, nil
	}
	f, err := v.toNumber()
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, evalErrorf(ErrNotNumber, "negative length %s", v.text())
	}
	return int(f), nil
}

func fnLeft(a []value) (value, error) {
	n := 1
	if len(a) == 2 {
		var err error
		if n, err = count(a[1], 1); err != nil {
			return null(), err
		}
	}
	r := []rune(a[0].text())
	return str(string(r[:min(n, len(r))])), nil
}

func fnRight(a []value) (value, error) {
	n := 1
	if len(a) == 2 {
		var err error
		if n, err = count(a[1], 1); err != nil {
			return null(), err
		}
	}
	r := []rune(a[0].text())
	return str(string(r[len(r)-min(n, len(r)):])), nil
}

// fnMid takes a 1-based start position
func fnMid(a []value) (value, error) {
	start, err := count(a[1], 1)
	if err != nil {
		return null(), err
	}
	n, err := count(a[2], 0)
	if err != nil {
		return null(), err
	}
	if start < 1 {
		start = 1
	}
	r := []rune(a[0].text())
	if start > len(r) {
		return str(""), nil
	}
	end := min(start-1+n, len(r))
	return str(string(r[start-1 : end])), nil
}

func fnNumber(a []value) (value, error) {
	x, err := a[0].toNumber()
	if err != nil {
		return null(), err
	}
	return finite(x)
}
