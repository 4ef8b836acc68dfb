package evaluator

import (
	"fmt"

	"github.com/roxlang/rox/internal/ast"
)

// Function is a named function or a bound method. Bound methods are ordinary
// functions whose Env already defines "this".
type Function struct {
	Name          string
	Parameters    []*ast.Identifier
	Body          *ast.BlockStatement
	Env           *Environment // closure
	IsInitializer bool
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	if f.Name == "" {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}

// Lambda is an anonymous function. Semantically a function with no name and
// no initializer behavior.
type Lambda struct {
	Parameters []*ast.Identifier
	Body       *ast.BlockStatement
	Env        *Environment // closure
}

func (l *Lambda) Type() ObjectType { return LAMBDA_OBJ }
func (l *Lambda) Inspect() string  { return "<lambda>" }

// BuiltinFunction is the native calling convention: the evaluator handle is
// passed through so natives can call back into user code (list.map) and reach
// the module loader.
type BuiltinFunction func(e *Evaluator, args ...Object) Object

// Builtin is a native function value. Arity below zero means variadic.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<native fn %s>", b.Name) }
