package formula

import (
	"strconv"
	"strings"

	"github.com/leengari/pivotgrid/internal/formula/ast"
	"github.com/leengari/pivotgrid/internal/formula/lexer"
)

type Parser struct {
	tokens  []lexer.Token
	curPos  int
	curTok  lexer.Token
	peekTok lexer.Token
}

func NewParser(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens, curPos: 0}
	// Read two tokens to set curTok and peekTok
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	if p.curPos < len(p.tokens) {
		p.peekTok = p.tokens[p.curPos]
		p.curPos++
	} else {
		p.peekTok = lexer.Token{Type: lexer.EOF}
	}
}

// Parse parses a whole formula. A single leading "=" is allowed.
func (p *Parser) Parse() (ast.Expression, error) {
	if p.curTok.Type == lexer.EQUALS && p.curTok.Literal == "=" {
		p.nextToken()
	}
	if p.curTok.Type == lexer.EOF {
		return nil, syntaxErrorf(0, "empty expression")
	}

	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if p.curTok.Type != lexer.EOF {
		return nil, p.unexpected("end of formula")
	}
	return expr, nil
}

func (p *Parser) unexpected(expected string) *SyntaxError {
	if p.curTok.Type == lexer.EOF {
		return syntaxErrorf(0, "unexpected end of formula, expected %s", expected)
	}
	return syntaxErrorf(p.curTok.Column, "unexpected %q, expected %s", p.curTok.Literal, expected)
}

func (p *Parser) expect(t lexer.TokenType, expected string) error {
	if p.curTok.Type != t {
		return p.unexpected(expected)
	}
	p.nextToken()
	return nil
}

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseTernary()
}

func (p *Parser) parseTernary() (ast.Expression, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.curTok.Type != lexer.QUESTION {
		return cond, nil
	}
	p.nextToken()

	consequence, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	alternative, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpression{Condition: cond, Consequence: consequence, Alternative: alternative}, nil
}

// binaryLevel parses next {op next} for the operators in ops. ops maps
// each token type to its normalized operator.
func (p *Parser) binaryLevel(next func() (ast.Expression, error), ops map[lexer.TokenType]string) (ast.Expression, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.curTok.Type]
		if !ok {
			return left, nil
		}
		p.nextToken()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Left: left, Operator: op, Right: right}
	}
}

var (
	orOps         = map[lexer.TokenType]string{lexer.OR_OR: "||", lexer.OR: "||"}
	andOps        = map[lexer.TokenType]string{lexer.AND_AND: "&&", lexer.AND: "&&"}
	equalityOps   = map[lexer.TokenType]string{lexer.EQUALS: "==", lexer.NOT_EQUALS: "!="}
	comparisonOps = map[lexer.TokenType]string{lexer.LT: "<", lexer.LTE: "<=", lexer.GT: ">", lexer.GTE: ">="}
	concatOps     = map[lexer.TokenType]string{lexer.AMPERSAND: "&"}
	additiveOps   = map[lexer.TokenType]string{lexer.PLUS: "+", lexer.MINUS: "-"}
	termOps       = map[lexer.TokenType]string{lexer.ASTERISK: "*", lexer.SLASH: "/", lexer.PERCENT: "%"}
)

func (p *Parser) parseOr() (ast.Expression, error) {
	return p.binaryLevel(p.parseAnd, orOps)
}

func (p *Parser) parseAnd() (ast.Expression, error) {
	return p.binaryLevel(p.parseEquality, andOps)
}

func (p *Parser) parseEquality() (ast.Expression, error) {
	return p.binaryLevel(p.parseComparison, equalityOps)
}

func (p *Parser) parseComparison() (ast.Expression, error) {
	return p.binaryLevel(p.parseConcat, comparisonOps)
}

func (p *Parser) parseConcat() (ast.Expression, error) {
	return p.binaryLevel(p.parseAdditive, concatOps)
}

func (p *Parser) parseAdditive() (ast.Expression, error) {
	return p.binaryLevel(p.parseTerm, additiveOps)
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	return p.binaryLevel(p.parsePower, termOps)
}

// parsePower is right associative: 2^3^2 = 2^(3^2)
func (p *Parser) parsePower() (ast.Expression, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.curTok.Type != lexer.CARET {
		return base, nil
	}
	p.nextToken()
	exp, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Left: base, Operator: "^", Right: exp}, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	var op string
	switch p.curTok.Type {
	case lexer.MINUS:
		op = "-"
	case lexer.PLUS:
		op = "+"
	case lexer.BANG, lexer.NOT:
		op = "!"
	default:
		return p.parsePrimary()
	}
	p.nextToken()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpression{Operator: op, Right: right}, nil
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.curTok
	switch tok.Type {
	case lexer.NUMBER:
		p.nextToken()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, syntaxErrorf(tok.Column, "invalid number %q", tok.Literal)
		}
		return &ast.NumberLiteral{TokenLiteralValue: tok.Literal, Value: f}, nil
	case lexer.STRING:
		p.nextToken()
		return &ast.StringLiteral{Value: tok.Literal}, nil
	case lexer.TRUE:
		p.nextToken()
		return &ast.BooleanLiteral{Value: true}, nil
	case lexer.FALSE:
		p.nextToken()
		return &ast.BooleanLiteral{Value: false}, nil
	case lexer.NULL:
		p.nextToken()
		return &ast.NullLiteral{}, nil
	case lexer.COLUMN:
		p.nextToken()
		if strings.TrimSpace(tok.Literal) == "" {
			return nil, syntaxErrorf(tok.Column, "empty column reference")
		}
		return &ast.ColumnRef{Name: tok.Literal}, nil
	case lexer.PAREN_OPEN:
		p.nextToken()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.PAREN_CLOSE, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.IDENTIFIER, lexer.AND, lexer.OR, lexer.NOT:
		// AND(...), OR(...) and NOT(...) are calls when followed by "("
		if p.peekTok.Type == lexer.PAREN_OPEN {
			return p.parseCall()
		}
		if tok.Type == lexer.IDENTIFIER {
			return nil, syntaxErrorf(tok.Column, "unexpected name %q, column references use [brackets]", tok.Literal)
		}
	}
	return nil, p.unexpected("a value")
}

func (p *Parser) parseCall() (ast.Expression, error) {
	call := &ast.CallExpression{Function: strings.ToUpper(p.curTok.Literal)}
	p.nextToken() // name
	p.nextToken() // (

	if p.curTok.Type == lexer.PAREN_CLOSE {
		p.nextToken()
		return call, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)

		if p.curTok.Type == lexer.COMMA {
			p.nextToken()
			continue
		}
		if err := p.expect(lexer.PAREN_CLOSE, "',' or ')'"); err != nil {
			return nil, err
		}
		return call, nil
	}
}
