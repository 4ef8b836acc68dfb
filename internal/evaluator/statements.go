package evaluator

import (
	"fmt"

	"github.com/roxlang/rox/internal/ast"
)

func (e *Evaluator) evalPrintStatement(node *ast.PrintStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	fmt.Fprintln(e.Out, Stringify(val))
	return NilValue
}

func (e *Evaluator) evalVarStatement(node *ast.VarStatement, env *Environment) Object {
	var val Object = NilValue
	if node.Value != nil {
		val = e.Eval(node.Value, env)
		if isSignal(val) {
			return val
		}
	}
	env.Define(node.Name.Value, val)
	return NilValue
}

// evalBlockStatement runs statements in a fresh child scope. Signals pass
// through untouched; the nearest interested frame handles them.
func (e *Evaluator) evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	blockEnv := NewEnclosedEnvironment(env)
	return e.evalStatements(block.Statements, blockEnv)
}

// evalStatements runs statements in the given scope without opening a new
// one. Call frames and catch clauses use this to share the scope that binds
// their parameters.
func (e *Evaluator) evalStatements(stmts []ast.Statement, env *Environment) Object {
	var result Object = NilValue
	for _, stmt := range stmts {
		result = e.Eval(stmt, env)
		if isSignal(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	cond := e.Eval(node.Condition, env)
	if isSignal(cond) {
		return cond
	}
	if isTruthy(cond) {
		return e.Eval(node.Then, env)
	}
	if node.Else != nil {
		return e.Eval(node.Else, env)
	}
	return NilValue
}

func (e *Evaluator) evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		cond := e.Eval(node.Condition, env)
		if isSignal(cond) {
			return cond
		}
		if !isTruthy(cond) {
			return NilValue
		}
		result := e.Eval(node.Body, env)
		switch result.Type() {
		case BREAK_SIGNAL_OBJ:
			return NilValue
		case CONTINUE_SIGNAL_OBJ:
			continue
		case RETURN_VALUE_OBJ, ERROR_OBJ, THROW_SIGNAL_OBJ:
			return result
		}
	}
}

// evalForStatement keeps the step as a per-loop action so continue still
// executes it before re-testing the condition.
func (e *Evaluator) evalForStatement(node *ast.ForStatement, env *Environment) Object {
	loopEnv := NewEnclosedEnvironment(env)

	if node.Init != nil {
		if result := e.Eval(node.Init, loopEnv); isSignal(result) {
			return result
		}
	}

	runStep := func() Object {
		if node.Step == nil {
			return NilValue
		}
		return e.Eval(node.Step, loopEnv)
	}

	for {
		if node.Condition != nil {
			cond := e.Eval(node.Condition, loopEnv)
			if isSignal(cond) {
				return cond
			}
			if !isTruthy(cond) {
				return NilValue
			}
		}

		result := e.Eval(node.Body, loopEnv)
		switch result.Type() {
		case BREAK_SIGNAL_OBJ:
			return NilValue
		case RETURN_VALUE_OBJ, ERROR_OBJ, THROW_SIGNAL_OBJ:
			return result
		}
		// Normal completion and continue both run the step.
		if stepResult := runStep(); isSignal(stepResult) {
			return stepResult
		}
	}
}

func (e *Evaluator) evalReturnStatement(node *ast.ReturnStatement, env *Environment) Object {
	if node.Value == nil {
		return &ReturnValue{Value: NilValue}
	}
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	return &ReturnValue{Value: val}
}

func (e *Evaluator) evalFunctionStatement(node *ast.FunctionStatement, env *Environment) Object {
	fn := &Function{
		Name:       node.Name.Value,
		Parameters: node.Parameters,
		Body:       node.Body,
		Env:        env,
	}
	env.Define(node.Name.Value, fn)
	return NilValue
}

func (e *Evaluator) evalClassStatement(node *ast.ClassStatement, env *Environment) Object {
	var superclass *Class
	if node.Superclass != nil {
		superVal := e.Eval(node.Superclass, env)
		if isSignal(superVal) {
			return superVal
		}
		cls, ok := superVal.(*Class)
		if !ok {
			return errorAt(node.Superclass.Token, "TypeError: superclass must be a class, got %s", typeName(superVal))
		}
		superclass = cls
	}

	// Methods close over the class-definition environment, with a super slot
	// when the class inherits. They never capture an instance.
	classEnv := env
	if superclass != nil {
		classEnv = NewEnclosedEnvironment(env)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*Function, len(node.Methods))
	for _, m := range node.Methods {
		methods[m.Name.Value] = &Function{
			Name:          m.Name.Value,
			Parameters:    m.Parameters,
			Body:          m.Body,
			Env:           classEnv,
			IsInitializer: m.Name.Value == "init",
		}
	}

	env.Define(node.Name.Value, &Class{
		Name:       node.Name.Value,
		Methods:    methods,
		Superclass: superclass,
	})
	return NilValue
}

// evalTryStatement catches throw signals only; every other signal propagates
// untouched.
func (e *Evaluator) evalTryStatement(node *ast.TryStatement, env *Environment) Object {
	result := e.Eval(node.TryBlock, env)
	sig, thrown := result.(*ThrowSignal)
	if !thrown {
		return result
	}
	catchEnv := NewEnclosedEnvironment(env)
	catchEnv.Define(node.CatchName.Value, sig.Value)
	return e.evalStatements(node.CatchBlock.Statements, catchEnv)
}

func (e *Evaluator) evalThrowStatement(node *ast.ThrowStatement, env *Environment) Object {
	val := e.Eval(node.Value, env)
	if isSignal(val) {
		return val
	}
	return &ThrowSignal{Value: val, Line: node.Token.Line}
}

func (e *Evaluator) evalExportStatement(node *ast.ExportStatement, env *Environment) Object {
	result := e.Eval(node.Decl, env)
	if isSignal(result) {
		return result
	}
	switch decl := node.Decl.(type) {
	case *ast.VarStatement:
		e.ExportNames = append(e.ExportNames, decl.Name.Value)
	case *ast.FunctionStatement:
		e.ExportNames = append(e.ExportNames, decl.Name.Value)
	case *ast.ClassStatement:
		e.ExportNames = append(e.ExportNames, decl.Name.Value)
	}
	return NilValue
}
