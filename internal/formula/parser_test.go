package formula

import (
	"errors"
	"testing"

	"github.com/leengari/pivotgrid/internal/formula/ast"
	"github.com/leengari/pivotgrid/internal/formula/lexer"
)

func parse(t *testing.T, input string) ast.Expression {
	t.Helper()
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		t.Fatalf("Lexer error: %v", err)
	}
	expr, err := NewParser(tokens).Parse()
	if err != nil {
		t.Fatalf("Parse error for %q: %v", input, err)
	}
	return expr
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-[a] ^ 2", "((-[a]) ^ 2)"},
		{"[a] - [b] - [c]", "(([a] - [b]) - [c])"},
		{"[a] & [b] + 1", "([a] & ([b] + 1))"},
		{"[a] < 1 = TRUE", "(([a] < 1) == TRUE)"},
		{"[a] <> 1 || [b] === 2 && !TRUE", "(([a] != 1) || (([b] == 2) && (!TRUE)))"},
		{"[a] OR [b] AND NOT [c]", "([a] || ([b] && (![c])))"},
		{"[a] > 0 ? 'pos' : [a] < 0 ? 'neg' : 'zero'", `(([a] > 0) ? "pos" : (([a] < 0) ? "neg" : "zero"))`},
		{"=[Unit Price] * [qty]", "([Unit Price] * [qty])"},
		{"round([x], 2)", "ROUND([x], 2)"},
		{"AND([a], OR([b], [c]))", "AND([a], OR([b], [c]))"},
		{"NULL", "NULL"},
	}

	for _, tt := range tests {
		got := parse(t, tt.input).String()
		if got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.input, tt.expected, got)
		}
	}
}

func TestParseCallArguments(t *testing.T) {
	expr := parse(t, "CONCAT([first], ' ', [last])")

	call, ok := expr.(*ast.CallExpression)
	if !ok {
		t.Fatalf("Expected CallExpression, got %T", expr)
	}
	if call.Function != "CONCAT" {
		t.Errorf("Expected CONCAT, got %s", call.Function)
	}
	if len(call.Arguments) != 3 {
		t.Fatalf("Expected 3 arguments, got %d", len(call.Arguments))
	}
	if ref, ok := call.Arguments[0].(*ast.ColumnRef); !ok || ref.Name != "first" {
		t.Errorf("Expected first argument [first], got %s", call.Arguments[0])
	}
	if lit, ok := call.Arguments[1].(*ast.StringLiteral); !ok || lit.Value != " " {
		t.Errorf("Expected second argument ' ', got %s", call.Arguments[1])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"=",
		"1 +",
		"(1 + 2",
		"[a] [b]",
		"price * 2",
		"IF([a], 1",
		"[a] ? 1",
		"[ ]",
		"1 2",
		")",
	}

	for _, input := range tests {
		tokens, err := lexer.Tokenize(input)
		if err != nil {
			t.Fatalf("%q: unexpected lexer error: %v", input, err)
		}
		_, err = NewParser(tokens).Parse()
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("%q: expected SyntaxError, got %v", input, err)
			continue
		}
		if !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: expected ErrSyntax, got %v", input, err)
		}
	}
}
