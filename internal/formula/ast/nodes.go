package ast

import (
	"bytes"
	"fmt"
	"strconv"
)

// Node is the base interface for all AST nodes
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression represents a value or operation
type Expression interface {
	Node
	expressionNode()
}

// NumberLiteral is a numeric constant (e.g. 1.5)
type NumberLiteral struct {
	TokenLiteralValue string
	Value             float64
}

func (n *NumberLiteral) expressionNode()      {}
func (n *NumberLiteral) TokenLiteral() string { return n.TokenLiteralValue }
func (n *NumberLiteral) String() string       { return n.TokenLiteralValue }

// StringLiteral is a quoted constant
type StringLiteral struct {
	Value string
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Value }
func (s *StringLiteral) String() string       { return strconv.Quote(s.Value) }

// BooleanLiteral is TRUE or FALSE
type BooleanLiteral struct {
	Value bool
}

func (b *BooleanLiteral) expressionNode() {}
func (b *BooleanLiteral) TokenLiteral() string {
	if b.Value {
		return "TRUE"
	}
	return "FALSE"
}
func (b *BooleanLiteral) String() string { return b.TokenLiteral() }

// NullLiteral is NULL
type NullLiteral struct{}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return "NULL" }
func (n *NullLiteral) String() string       { return "NULL" }

// ColumnRef is a bracketed column reference (e.g. [Unit Price])
type ColumnRef struct {
	Name string
}

func (c *ColumnRef) expressionNode()      {}
func (c *ColumnRef) TokenLiteral() string { return c.Name }
func (c *ColumnRef) String() string       { return "[" + c.Name + "]" }

// UnaryExpression: Operator Right (e.g. -[x], !flag)
type UnaryExpression struct {
	Operator string
	Right    Expression
}

func (e *UnaryExpression) expressionNode()      {}
func (e *UnaryExpression) TokenLiteral() string { return e.Operator }
func (e *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", e.Operator, e.Right.String())
}

// BinaryExpression: Left Operator Right (e.g. [a] + 1).
// Operator is normalized: "==" for every equality spelling, "!=" for
// every inequality spelling, "&&" and "||" for the logical keywords.
type BinaryExpression struct {
	Left     Expression
	Operator string
	Right    Expression
}

func (e *BinaryExpression) expressionNode()      {}
func (e *BinaryExpression) TokenLiteral() string { return e.Operator }
func (e *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left.String(), e.Operator, e.Right.String())
}

// ConditionalExpression: Condition ? Consequence : Alternative
type ConditionalExpression struct {
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (e *ConditionalExpression) expressionNode()      {}
func (e *ConditionalExpression) TokenLiteral() string { return "?" }
func (e *ConditionalExpression) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", e.Condition.String(), e.Consequence.String(), e.Alternative.String())
}

// CallExpression: Function(Arguments...). Function is upper-cased.
type CallExpression struct {
	Function  string
	Arguments []Expression
}

func (e *CallExpression) expressionNode()      {}
func (e *CallExpression) TokenLiteral() string { return e.Function }
func (e *CallExpression) String() string {
	var out bytes.Buffer
	out.WriteString(e.Function)
	out.WriteString("(")
	for i, a := range e.Arguments {
		out.WriteString(a.String())
		if i < len(e.Arguments)-1 {
			out.WriteString(", ")
		}
	}
	out.WriteString(")")
	return out.String()
}

// Walk calls fn for node and every expression below it, depth first
func Walk(node Expression, fn func(Expression)) {
	if node == nil {
		return
	}
	fn(node)
	switch n := node.(type) {
	case *UnaryExpression:
		Walk(n.Right, fn)
	case *BinaryExpression:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *ConditionalExpression:
		Walk(n.Condition, fn)
		Walk(n.Consequence, fn)
		Walk(n.Alternative, fn)
	case *CallExpression:
		for _, a := range n.Arguments {
			Walk(a, fn)
		}
	}
}
