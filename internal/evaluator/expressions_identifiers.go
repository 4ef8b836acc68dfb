package evaluator

import (
	"github.com/roxlang/rox/internal/ast"
)

// evalIdentifier reads a variable. A side-table entry means a local at a
// fixed hop depth; no entry means the global frame.
func (e *Evaluator) evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if depth, ok := e.Locals[node.ID]; ok {
		if val, found := env.GetAt(depth, node.Value); found {
			return val
		}
		// A resolved local must exist; a miss here is an interpreter bug,
		// surfaced the same way as an undefined global.
		return errorAt(node.Token, "UndefinedVariable: %q", node.Value)
	}
	if val, ok := e.Globals.Get(node.Value); ok {
		return val
	}
	return errorAt(node.Token, "UndefinedVariable: %q", node.Value)
}

func (e *Evaluator) evalAssignExpression(node *ast.AssignExpression, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}

	switch target := node.Target.(type) {
	case *ast.Identifier:
		if depth, ok := e.Locals[target.ID]; ok {
			env.AssignAt(depth, target.Value, val)
			return val
		}
		if !e.Globals.Assign(target.Value, val) {
			return errorAt(target.Token, "UndefinedVariable: cannot assign to undeclared %q", target.Value)
		}
		return val
	case *ast.PropertyExpression:
		return e.evalPropertyAssign(target, val, env)
	case *ast.IndexExpression:
		return e.evalIndexAssign(target, val, env)
	}
	return errorAt(node.Token, "invalid assignment target")
}

func (e *Evaluator) evalThisExpression(node *ast.ThisExpression, env *Environment) Object {
	if depth, ok := e.Locals[node.ID]; ok {
		if val, found := env.GetAt(depth, "this"); found {
			return val
		}
	}
	return errorAt(node.Token, "TypeError: this is only available inside methods")
}

// evalSuperExpression reads the superclass from its fixed lexical slot and
// the receiver from the this slot one frame inward, then binds the method.
func (e *Evaluator) evalSuperExpression(node *ast.SuperExpression, env *Environment) Object {
	depth, ok := e.Locals[node.ID]
	if !ok {
		return errorAt(node.Token, "TypeError: super is only available inside subclass methods")
	}
	superVal, _ := env.GetAt(depth, "super")
	superclass, ok := superVal.(*Class)
	if !ok {
		return errorAt(node.Token, "TypeError: super is only available inside subclass methods")
	}
	thisVal, _ := env.GetAt(depth-1, "this")
	instance, ok := thisVal.(*Instance)
	if !ok {
		return errorAt(node.Token, "TypeError: super is only available inside subclass methods")
	}

	method := superclass.FindMethod(node.Method)
	if method == nil {
		return errorAt(node.Token, "TypeError: undefined method %q on %s", node.Method, superclass.Name)
	}
	return bindMethod(method, instance)
}

// bindMethod produces a function whose environment defines this exactly one
// frame above the method body scope.
func bindMethod(method *Function, instance *Instance) *Function {
	boundEnv := NewEnclosedEnvironment(method.Env)
	boundEnv.Define("this", instance)
	return &Function{
		Name:          method.Name,
		Parameters:    method.Parameters,
		Body:          method.Body,
		Env:           boundEnv,
		IsInitializer: method.IsInitializer,
	}
}
