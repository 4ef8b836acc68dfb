package diagnostics

import (
	"fmt"

	"github.com/roxlang/rox/internal/token"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

type Code string

// Stable diagnostic codes. The letter names the producing stage: L lexer,
// P parser, R resolver, E evaluator/runtime, I I/O.
const (
	ErrI001 Code = "I001" // unreadable source file
	ErrI002 Code = "I002" // bad source extension
	ErrI003 Code = "I003" // malformed config file

	ErrL001 Code = "L001" // unexpected character
	ErrL002 Code = "L002" // unterminated string

	ErrP001 Code = "P001" // unexpected token
	ErrP002 Code = "P002" // break/continue outside loop
	ErrP003 Code = "P003" // return outside function
	ErrP004 Code = "P004" // export not at top level
	ErrP005 Code = "P005" // invalid assignment target
	ErrP006 Code = "P006" // expression nesting too deep
	ErrP007 Code = "P007" // reserved word used as identifier

	ErrR001 Code = "R001" // read of local in its own initializer
	ErrR002 Code = "R002" // duplicate declaration in scope
	ErrR003 Code = "R003" // this outside a method
	ErrR004 Code = "R004" // super outside a subclass method
	ErrR005 Code = "R005" // return with value inside init
	ErrR006 Code = "R006" // class inherits from itself
	ErrR010 Code = "R010" // export in nested scope
)

// Diagnostic is the structured error record the pipeline stages produce.
// Rendering to text happens at the CLI edge, never in the core.
type Diagnostic struct {
	Severity Severity
	Path     string
	Line     int
	Column   int
	Code     Code
	Message  string
}

func (d *Diagnostic) Error() string {
	if d.Path != "" {
		return fmt.Sprintf("%s:%d:%d: %s[%s]: %s", d.Path, d.Line, d.Column, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%d:%d: %s[%s]: %s", d.Line, d.Column, d.Severity, d.Code, d.Message)
}

// NewError builds an error diagnostic anchored at the given token.
func NewError(code Code, tok token.Token, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Line:     tok.Line,
		Column:   tok.Column,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
}

// NewErrorAt builds an error diagnostic at an explicit position, for stages
// that have no token to point at (the lexer, the file reader).
func NewErrorAt(code Code, line, column int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Severity: SeverityError,
		Line:     line,
		Column:   column,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
	}
}
