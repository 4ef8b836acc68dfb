package parser

import (
	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/pipeline"
)

// Processor adapts the parser to the front-end pipeline. Lexer errors abort
// before parsing so syntax diagnostics never cascade from bad tokens.
type Processor struct {
	// ExprBase offsets the ExprID counter; the REPL threads the running count
	// through so ids stay unique across inputs.
	ExprBase int
}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.HasErrors() || len(ctx.Tokens) == 0 {
		return ctx
	}
	p := New(ctx.Tokens)
	if pp.ExprBase > 0 {
		p.SetExprBase(ast.ExprID(pp.ExprBase))
	}
	ctx.Program = p.ParseProgram(ctx.Path)
	for _, err := range p.Errors() {
		ctx.AddError(err)
	}
	pp.ExprBase = int(p.ExprCount())
	return ctx
}
