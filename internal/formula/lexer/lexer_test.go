package lexer

import (
	"errors"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `=[Unit Price] * 1.5e2 >= 10 && NOT [qty] <> 'it''s' ? "a\"b" : null
ROUND([x], 2) !== .5 || true & [y]`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{EQUALS, "="},
		{COLUMN, "Unit Price"},
		{ASTERISK, "*"},
		{NUMBER, "1.5e2"},
		{GTE, ">="},
		{NUMBER, "10"},
		{AND_AND, "&&"},
		{NOT, "NOT"},
		{COLUMN, "qty"},
		{NOT_EQUALS, "<>"},
		{STRING, "it"},
		{STRING, "s"},
		{QUESTION, "?"},
		{STRING, `a"b`},
		{COLON, ":"},
		{NULL, "null"},
		{IDENTIFIER, "ROUND"},
		{PAREN_OPEN, "("},
		{COLUMN, "x"},
		{COMMA, ","},
		{NUMBER, "2"},
		{PAREN_CLOSE, ")"},
		{NOT_EQUALS, "!=="},
		{NUMBER, ".5"},
		{OR_OR, "||"},
		{TRUE, "true"},
		{AMPERSAND, "&"},
		{COLUMN, "y"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q",
				i, tt.expectedType, tok.Type)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestTokenPositions(t *testing.T) {
	tokens, err := Tokenize("1 +\n  [a]")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	col := tokens[2]
	if col.Line != 2 || col.Column != 3 {
		t.Errorf("expected [a] at 2:3, got %d:%d", col.Line, col.Column)
	}
}

func TestTokenizeIllegal(t *testing.T) {
	tests := []struct {
		input   string
		literal string
	}{
		{"[open", "unterminated column reference"},
		{"'open", "unterminated string"},
		{"1 | 2", "|"},
		{"12abc", "12abc"},
		{"1e+", "1e+"},
		{"#", "#"},
	}

	for _, tt := range tests {
		_, err := Tokenize(tt.input)
		var illegal *IllegalTokenError
		if !errors.As(err, &illegal) {
			t.Fatalf("%q: expected IllegalTokenError, got %v", tt.input, err)
		}
		if illegal.Token.Literal != tt.literal {
			t.Errorf("%q: expected literal %q, got %q", tt.input, tt.literal, illegal.Token.Literal)
		}
	}
}
