package lexer

import (
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/pipeline"
	"github.com/roxlang/rox/internal/token"
)

// Processor adapts the lexer to the front-end pipeline. Illegal tokens become
// diagnostics; the token stream is still produced so later stages can report
// positions, but parsing aborts when any lex error occurred.
type Processor struct{}

func (lp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	l := New(ctx.SourceCode)
	ctx.Tokens = l.Tokens()
	for _, tok := range ctx.Tokens {
		if tok.Type != token.ILLEGAL {
			continue
		}
		if len(tok.Lexeme) > 0 && tok.Lexeme[0] == '"' {
			ctx.AddError(diagnostics.NewErrorAt(diagnostics.ErrL002, tok.Line, tok.Column, "unterminated string"))
		} else {
			ctx.AddError(diagnostics.NewErrorAt(diagnostics.ErrL001, tok.Line, tok.Column, "unexpected character %q", tok.Lexeme))
		}
	}
	return ctx
}
