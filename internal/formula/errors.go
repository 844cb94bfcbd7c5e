package formula

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax marks a formula that does not match the grammar
	ErrSyntax = errors.New("syntax error")

	// ErrUnknownFunction marks a call to a name outside the function library
	ErrUnknownFunction = errors.New("unknown function")

	// ErrArity marks a call with the wrong number of arguments
	ErrArity = errors.New("wrong number of arguments")

	// ErrUnknownColumn marks a reference to a column the row does not have
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNotNumber marks an operand that must be numeric but is not
	ErrNotNumber = errors.New("not a number")

	// ErrDivisionByZero marks x/0 and x%0
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNotFinite marks a NaN or infinite result
	ErrNotFinite = errors.New("result is not finite")
)

// SyntaxError is returned by Compile. Pos is the 1-based character
// column of the offending token, 0 when the input ended early.
type SyntaxError struct {
	Pos int
	Msg string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("formula: %s at column %d", e.Msg, e.Pos)
	}
	return fmt.Sprintf("formula: %s", e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func syntaxErrorf(pos int, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: pos, Msg: fmt.Sprintf(format, args...), Err: ErrSyntax}
}

// EvalError is a per-row evaluation failure. Column names the referenced
// column involved, when there is one.
type EvalError struct {
	Column string
	Msg    string
	Err    error
}

func (e *EvalError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("formula: column [%s]: %s", e.Column, e.Msg)
	}
	return fmt.Sprintf("formula: %s", e.Msg)
}

func (e *EvalError) Unwrap() error { return e.Err }

func evalErrorf(err error, format string, args ...any) *EvalError {
	return &EvalError{Msg: fmt.Sprintf(format, args...), Err: err}
}
