package pipeline

import (
	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/token"
)

// Processor is a single pipeline stage transforming the shared context.
type Processor interface {
	Process(ctx *Context) *Context
}

// Context carries one source unit through the front end. Each stage reads the
// fields of the previous one and fills in its own.
type Context struct {
	// Inputs
	Path       string // origin path, "" for the REPL
	SourceCode string

	// Lexer output
	Tokens []token.Token

	// Parser output
	Program *ast.Program

	// Resolver output: expression id -> lexical hop depth.
	// Only local reads/writes, this and super have entries.
	Locals map[ast.ExprID]int

	// Diagnostics from all stages, in emission order.
	Errors []*diagnostics.Diagnostic
}

// HasErrors reports whether any stage emitted a diagnostic.
func (c *Context) HasErrors() bool {
	return len(c.Errors) > 0
}

// AddError appends a diagnostic, stamping it with the context's origin path.
func (c *Context) AddError(d *diagnostics.Diagnostic) {
	if d.Path == "" {
		d.Path = c.Path
	}
	c.Errors = append(c.Errors, d)
}
