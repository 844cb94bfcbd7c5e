package lexer

import (
	"fmt"
	"strings"
)

type TokenType int

const (
	// Special
	ILLEGAL TokenType = iota
	EOF

	// Literals
	IDENTIFIER // function names: IF, ROUND
	COLUMN     // [column name]
	STRING     // 'value' or "value"
	NUMBER     // 123, 1.23, 1e3

	// Keywords
	TRUE
	FALSE
	NULL
	AND
	OR
	NOT

	// Operators & Punctuation
	PLUS        // +
	MINUS       // -
	ASTERISK    // *
	SLASH       // /
	PERCENT     // %
	CARET       // ^
	AMPERSAND   // &
	EQUALS      // = == ===
	NOT_EQUALS  // != <> !==
	LT          // <
	LTE         // <=
	GT          // >
	GTE         // >=
	BANG        // !
	AND_AND     // &&
	OR_OR       // ||
	QUESTION    // ?
	COLON       // :
	COMMA       // ,
	PAREN_OPEN  // (
	PAREN_CLOSE // )
)

var tokenNames = map[TokenType]string{
	ILLEGAL:     "ILLEGAL",
	EOF:         "EOF",
	IDENTIFIER:  "IDENTIFIER",
	COLUMN:      "COLUMN",
	STRING:      "STRING",
	NUMBER:      "NUMBER",
	TRUE:        "TRUE",
	FALSE:       "FALSE",
	NULL:        "NULL",
	AND:         "AND",
	OR:          "OR",
	NOT:         "NOT",
	PLUS:        "+",
	MINUS:       "-",
	ASTERISK:    "*",
	SLASH:       "/",
	PERCENT:     "%",
	CARET:       "^",
	AMPERSAND:   "&",
	EQUALS:      "=",
	NOT_EQUALS:  "!=",
	LT:          "<",
	LTE:         "<=",
	GT:          ">",
	GTE:         ">=",
	BANG:        "!",
	AND_AND:     "&&",
	OR_OR:       "||",
	QUESTION:    "?",
	COLON:       ":",
	COMMA:       ",",
	PAREN_OPEN:  "(",
	PAREN_CLOSE: ")",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

var keywords = map[string]TokenType{
	"TRUE":  TRUE,
	"FALSE": FALSE,
	"NULL":  NULL,
	"AND":   AND,
	"OR":    OR,
	"NOT":   NOT,
}

type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s, %q)", t.Type, t.Literal)
}

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int
	column       int
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition += 1
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

func (l *Lexer) NextToken() Token {
	var tok Token

	l.skipWhitespace()

	line, col := l.line, l.column

	switch l.ch {
	case '+':
		tok = newToken(PLUS, "+", line, col)
	case '-':
		tok = newToken(MINUS, "-", line, col)
	case '*':
		tok = newToken(ASTERISK, "*", line, col)
	case '/':
		tok = newToken(SLASH, "/", line, col)
	case '%':
		tok = newToken(PERCENT, "%", line, col)
	case '^':
		tok = newToken(CARET, "^", line, col)
	case '?':
		tok = newToken(QUESTION, "?", line, col)
	case ':':
		tok = newToken(COLON, ":", line, col)
	case ',':
		tok = newToken(COMMA, ",", line, col)
	case '(':
		tok = newToken(PAREN_OPEN, "(", line, col)
	case ')':
		tok = newToken(PAREN_CLOSE, ")", line, col)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			tok = newToken(AND_AND, "&&", line, col)
		} else {
			tok = newToken(AMPERSAND, "&", line, col)
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			tok = newToken(OR_OR, "||", line, col)
		} else {
			tok = newToken(ILLEGAL, "|", line, col)
		}
	case '=':
		tok = newToken(EQUALS, l.readRun('=', 3), line, col)
		return tok
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(NOT_EQUALS, "!"+l.readRun('=', 2), line, col)
			return tok
		}
		tok = newToken(BANG, "!", line, col)
	case '<':
		switch l.peekChar() {
		case '=':
			l.readChar()
			tok = newToken(LTE, "<=", line, col)
		case '>':
			l.readChar()
			tok = newToken(NOT_EQUALS, "<>", line, col)
		default:
			tok = newToken(LT, "<", line, col)
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok = newToken(GTE, ">=", line, col)
		} else {
			tok = newToken(GT, ">", line, col)
		}
	case '[':
		name, ok := l.readColumn()
		if !ok {
			return newToken(ILLEGAL, "unterminated column reference", line, col)
		}
		return newToken(COLUMN, name, line, col)
	case '\'', '"':
		lit, ok := l.readString(l.ch)
		if !ok {
			return newToken(ILLEGAL, "unterminated string", line, col)
		}
		return newToken(STRING, lit, line, col)
	case 0:
		tok = newToken(EOF, "", line, col)
	default:
		if isLetter(l.ch) {
			lit := l.readIdentifier()
			return newToken(LookupIdent(lit), lit, line, col)
		} else if isDigit(l.ch) || (l.ch == '.' && isDigit(l.peekChar())) {
			lit, ok := l.readNumber()
			if !ok {
				return newToken(ILLEGAL, lit, line, col)
			}
			return newToken(NUMBER, lit, line, col)
		}
		tok = newToken(ILLEGAL, string(l.ch), line, col)
	}

	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
		l.readChar()
	}
}

// readRun consumes up to max consecutive copies of ch
func (l *Lexer) readRun(ch byte, max int) string {
	position := l.position
	for n := 0; n < max && l.ch == ch; n++ {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

func (l *Lexer) readNumber() (string, bool) {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		l.readChar()
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		if !isDigit(l.ch) {
			return l.input[position:l.position], false
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	// 12abc is not a number followed by a name
	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		return l.input[position:l.position], false
	}
	return l.input[position:l.position], true
}

// readColumn reads a bracketed column name. The name is taken verbatim,
// so it may contain spaces and punctuation but not ']'.
func (l *Lexer) readColumn() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == ']' || l.ch == 0 {
			break
		}
		if l.ch == '\n' {
			l.line++
			l.column = 0
		}
	}
	if l.ch == 0 {
		return "", false
	}
	name := l.input[position:l.position]
	l.readChar()
	return name, true
}

func (l *Lexer) readString(quote byte) (string, bool) {
	var out strings.Builder
	for {
		l.readChar()
		switch l.ch {
		case 0:
			return "", false
		case quote:
			l.readChar()
			return out.String(), true
		case '\\':
			l.readChar()
			switch l.ch {
			case 0:
				return "", false
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			default:
				out.WriteByte(l.ch)
			}
		default:
			out.WriteByte(l.ch)
		}
	}
}

func newToken(tokenType TokenType, literal string, line, col int) Token {
	return Token{Type: tokenType, Literal: literal, Line: line, Column: col}
}

func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[strings.ToUpper(ident)]; ok {
		return tok
	}
	return IDENTIFIER
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

// IllegalTokenError reports the first token the lexer could not read
type IllegalTokenError struct {
	Token Token
}

func (e *IllegalTokenError) Error() string {
	return fmt.Sprintf("illegal token at line %d, col %d: %s", e.Token.Line, e.Token.Column, e.Token.Literal)
}

// Tokenize reads the entire input at once. The EOF token is not included.
func Tokenize(input string) ([]Token, error) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == ILLEGAL {
			return nil, &IllegalTokenError{Token: tok}
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
