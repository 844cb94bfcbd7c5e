// Package formula compiles user-written column formulas into programs
// that are evaluated once per row.
//
// Formulas reference other columns with brackets ([Unit Price]) and use a
// restricted expression language: arithmetic, comparison, concatenation,
// logical operators, a ternary and a fixed function library. Nothing in
// a formula can reach outside the row it is evaluated against.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leengari/pivotgrid/internal/domain/data"
	"github.com/leengari/pivotgrid/internal/formula/ast"
	"github.com/leengari/pivotgrid/internal/formula/lexer"
)

// Program is a compiled formula, safe to evaluate against many rows
type Program struct {
	source  string
	root    ast.Expression
	columns []string
}

// Compile tokenizes, parses and checks a formula. Unknown function names
// and wrong argument counts are rejected here; unknown columns are not,
// they fail per row.
func Compile(source string) (*Program, error) {
	if strings.TrimSpace(source) == "" {
		return nil, syntaxErrorf(0, "empty formula")
	}

	tokens, err := lexer.Tokenize(source)
	if err != nil {
		var illegal *lexer.IllegalTokenError
		if errors.As(err, &illegal) {
			return nil, syntaxErrorf(illegal.Token.Column, "%s", illegal.Token.Literal)
		}
		return nil, fmt.Errorf("tokenize formula: %w", err)
	}

	root, err := NewParser(tokens).Parse()
	if err != nil {
		return nil, err
	}

	if err := check(root); err != nil {
		return nil, err
	}

	return &Program{source: source, root: root, columns: referencedColumns(root)}, nil
}

func check(root ast.Expression) error {
	var err error
	ast.Walk(root, func(node ast.Expression) {
		call, ok := node.(*ast.CallExpression)
		if !ok || err != nil {
			return
		}
		fn, known := functions[call.Function]
		if !known {
			err = &SyntaxError{Msg: fmt.Sprintf("unknown function %s", call.Function), Err: ErrUnknownFunction}
			return
		}
		n := len(call.Arguments)
		if n < fn.minArgs || (fn.maxArgs >= 0 && n > fn.maxArgs) {
			err = &SyntaxError{Msg: fmt.Sprintf("%s takes %s, got %d", call.Function, arity(fn), n), Err: ErrArity}
		}
	})
	return err
}

func arity(fn function) string {
	switch {
	case fn.maxArgs < 0:
		return fmt.Sprintf("at least %d arguments", fn.minArgs)
	case fn.minArgs == fn.maxArgs:
		return fmt.Sprintf("%d arguments", fn.minArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", fn.minArgs, fn.maxArgs)
	}
}

func referencedColumns(root ast.Expression) []string {
	seen := make(map[string]bool)
	var cols []string
	ast.Walk(root, func(node ast.Expression) {
		if ref, ok := node.(*ast.ColumnRef); ok && !seen[ref.Name] {
			seen[ref.Name] = true
			cols = append(cols, ref.Name)
		}
	})
	return cols
}

// Source returns the formula text as written
func (p *Program) Source() string { return p.source }

// Columns returns the referenced column names in first-use order
func (p *Program) Columns() []string {
	return append([]string(nil), p.columns...)
}

func (p *Program) String() string { return p.root.String() }

// Eval evaluates the program against one row and applies result
// coercion. On error the returned value is Empty.
func (p *Program) Eval(row data.Row) (result data.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = data.Empty()
			err = &EvalError{Msg: fmt.Sprintf("evaluation panic: %v", r), Err: ErrSyntax}
		}
	}()

	e := &evaluator{row: row}
	v, err := e.eval(p.root)
	if err != nil {
		return data.Empty(), err
	}
	return v.toCell()
}
