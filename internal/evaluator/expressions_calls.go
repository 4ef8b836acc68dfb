package evaluator

import (
	"github.com/roxlang/rox/internal/ast"
)

func (e *Evaluator) evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	callee := e.Eval(node.Callee, env)
	if isSignal(callee) {
		return callee
	}

	args := make([]Object, 0, len(node.Arguments))
	for _, arg := range node.Arguments {
		val := e.Eval(arg, env)
		if isSignal(val) {
			return val
		}
		args = append(args, val)
	}

	result := e.ApplyFunction(callee, args)
	// Stamp position onto errors raised without one (native handlers have no
	// token to point at).
	if err, ok := result.(*Error); ok && err.Line == 0 {
		err.Line = node.Token.Line
		err.Column = node.Token.Column
	}
	return result
}

// ApplyFunction dispatches a call by callee kind. It is exported as the
// callback surface for native functions that re-enter user code.
func (e *Evaluator) ApplyFunction(fn Object, args []Object) Object {
	if e.callDepth >= e.MaxDepth {
		return newError("stack overflow: call depth exceeds %d", e.MaxDepth)
	}
	e.callDepth++
	defer func() { e.callDepth-- }()

	switch fn := fn.(type) {
	case *Function:
		if len(args) != len(fn.Parameters) {
			return newError("ArityError: %s expects %d arguments, got %d",
				callableName(fn), len(fn.Parameters), len(args))
		}
		frame := NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Parameters {
			frame.Define(param.Value, args[i])
		}
		result := e.evalStatements(fn.Body.Statements, frame)
		return e.finishCall(fn, result)
	case *Lambda:
		if len(args) != len(fn.Parameters) {
			return newError("ArityError: lambda expects %d arguments, got %d", len(fn.Parameters), len(args))
		}
		frame := NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Parameters {
			frame.Define(param.Value, args[i])
		}
		result := e.evalStatements(fn.Body.Statements, frame)
		if rv, ok := result.(*ReturnValue); ok {
			return rv.Value
		}
		if isSignal(result) {
			return result
		}
		return NilValue
	case *Builtin:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return newError("ArityError: %s expects %d arguments, got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Fn(e, args...)
	case *Class:
		return e.instantiate(fn, args)
	}
	return newError("TypeError: %s is not callable", typeName(fn))
}

// finishCall unwraps the return signal. Initializers always yield the bound
// instance, whatever the body did.
func (e *Evaluator) finishCall(fn *Function, result Object) Object {
	if fn.IsInitializer {
		switch result.(type) {
		case *ReturnValue:
			// The resolver rejects value-carrying returns in init; a bare
			// return still yields the instance.
		case *Error, *ThrowSignal:
			return result
		}
		if this, ok := fn.Env.Get("this"); ok {
			return this
		}
		return NilValue
	}
	if rv, ok := result.(*ReturnValue); ok {
		return rv.Value
	}
	if isSignal(result) {
		return result
	}
	return NilValue
}

// instantiate constructs an instance and runs init when the class defines
// one.
func (e *Evaluator) instantiate(class *Class, args []Object) Object {
	instance := NewInstance(class)
	init := class.FindMethod("init")
	if init == nil {
		if len(args) != 0 {
			return newError("ArityError: %s expects 0 arguments, got %d", class.Name, len(args))
		}
		return instance
	}
	bound := bindMethod(init, instance)
	result := e.ApplyFunction(bound, args)
	if isError(result) || result.Type() == THROW_SIGNAL_OBJ {
		return result
	}
	return instance
}

func callableName(fn *Function) string {
	if fn.Name == "" {
		return "function"
	}
	return fn.Name
}
