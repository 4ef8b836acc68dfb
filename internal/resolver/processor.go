package resolver

import (
	"github.com/roxlang/rox/internal/pipeline"
)

// Processor adapts the resolver to the front-end pipeline. It runs only on a
// clean parse; the pipeline aborts before resolution when earlier stages
// reported errors.
type Processor struct{}

func (rp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.HasErrors() || ctx.Program == nil {
		return ctx
	}
	r := New()
	ctx.Locals = r.Resolve(ctx.Program)
	for _, err := range r.Errors() {
		ctx.AddError(err)
	}
	return ctx
}
