// Package resolver performs the static scope pass. It walks the AST exactly
// once, computes the lexical hop depth for every local variable reference,
// this and super, and enforces the context rules the parser cannot see. It
// never mutates the AST and never evaluates.
package resolver

import (
	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/token"
)

type varState int

const (
	stateDeclared varState = iota
	stateDefined
	stateUsed
)

type functionKind int

const (
	fkNone functionKind = iota
	fkFunction
	fkLambda
	fkMethod
	fkInitializer
)

type classKind int

const (
	ckNone classKind = iota
	ckClass
	ckSubclass
)

type scope map[string]varState

type Resolver struct {
	scopes []scope
	locals map[ast.ExprID]int
	errors []*diagnostics.Diagnostic

	currentFunction functionKind
	currentClass    classKind
}

func New() *Resolver {
	return &Resolver{locals: make(map[ast.ExprID]int)}
}

// Resolve walks the program and returns the side table mapping expression ids
// to lexical hop depth. Global references get no entry and fall through to
// the global environment at runtime.
func (r *Resolver) Resolve(program *ast.Program) map[ast.ExprID]int {
	for _, stmt := range program.Statements {
		r.resolveStatement(stmt)
	}
	return r.locals
}

func (r *Resolver) Errors() []*diagnostics.Diagnostic {
	return r.errors
}

func (r *Resolver) errorAt(code diagnostics.Code, node interface{ GetToken() token.Token }, format string, args ...interface{}) {
	r.errors = append(r.errors, diagnostics.NewError(code, node.GetToken(), format, args...))
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks the name as existing but not yet usable in the innermost
// scope. At global level (no scopes) names are left to the runtime.
func (r *Resolver) declare(name *ast.Identifier) {
	if len(r.scopes) == 0 {
		return
	}
	top := r.scopes[len(r.scopes)-1]
	if _, exists := top[name.Value]; exists {
		r.errorAt(diagnostics.ErrR002, name, "%q is already declared in this scope", name.Value)
		return
	}
	top[name.Value] = stateDeclared
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = stateDefined
}

// resolveLocal searches the scope stack top-down and records the hop depth on
// first hit. No hit means the name is global.
func (r *Resolver) resolveLocal(id ast.ExprID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[id] = len(r.scopes) - 1 - i
			r.scopes[i][name] = stateUsed
			return
		}
	}
}

func (r *Resolver) resolveStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		r.resolveExpression(s.Expression)
	case *ast.PrintStatement:
		r.resolveExpression(s.Value)
	case *ast.VarStatement:
		r.declare(s.Name)
		if s.Value != nil {
			r.resolveExpression(s.Value)
		}
		r.define(s.Name.Value)
	case *ast.BlockStatement:
		r.beginScope()
		r.resolveStatements(s.Statements)
		r.endScope()
	case *ast.IfStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Then)
		if s.Else != nil {
			r.resolveStatement(s.Else)
		}
	case *ast.WhileStatement:
		r.resolveExpression(s.Condition)
		r.resolveStatement(s.Body)
	case *ast.ForStatement:
		r.beginScope()
		if s.Init != nil {
			r.resolveStatement(s.Init)
		}
		if s.Condition != nil {
			r.resolveExpression(s.Condition)
		}
		if s.Step != nil {
			r.resolveExpression(s.Step)
		}
		r.resolveStatement(s.Body)
		r.endScope()
	case *ast.BreakStatement, *ast.ContinueStatement:
		// Context already checked by the parser.
	case *ast.ReturnStatement:
		if s.Value != nil {
			if r.currentFunction == fkInitializer {
				r.errorAt(diagnostics.ErrR005, s, "cannot return a value from init")
			}
			r.resolveExpression(s.Value)
		}
	case *ast.FunctionStatement:
		r.declare(s.Name)
		r.define(s.Name.Value)
		r.resolveFunction(s.Parameters, s.Body, fkFunction)
	case *ast.ClassStatement:
		r.resolveClass(s)
	case *ast.TryStatement:
		r.resolveStatement(s.TryBlock)
		r.beginScope()
		r.declare(s.CatchName)
		r.define(s.CatchName.Value)
		r.resolveStatements(s.CatchBlock.Statements)
		r.endScope()
	case *ast.ThrowStatement:
		r.resolveExpression(s.Value)
	case *ast.ExportStatement:
		if len(r.scopes) > 0 {
			r.errorAt(diagnostics.ErrR010, s, "export is only allowed at module top level")
		}
		r.resolveStatement(s.Decl)
	}
}

func (r *Resolver) resolveStatements(stmts []ast.Statement) {
	for _, stmt := range stmts {
		r.resolveStatement(stmt)
	}
}

// resolveFunction resolves a function body. Parameters live in the same scope
// the body statements execute in, mirroring the evaluator's call frames.
func (r *Resolver) resolveFunction(params []*ast.Identifier, body *ast.BlockStatement, kind functionKind) {
	enclosing := r.currentFunction
	r.currentFunction = kind
	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param.Value)
	}
	r.resolveStatements(body.Statements)
	r.endScope()
	r.currentFunction = enclosing
}

func (r *Resolver) resolveClass(s *ast.ClassStatement) {
	enclosing := r.currentClass
	r.currentClass = ckClass

	r.declare(s.Name)
	r.define(s.Name.Value)

	if s.Superclass != nil {
		if s.Superclass.Value == s.Name.Value {
			r.errorAt(diagnostics.ErrR006, s.Superclass, "a class cannot inherit from itself")
		}
		r.currentClass = ckSubclass
		r.resolveExpression(s.Superclass)
		r.beginScope()
		r.define("super")
	}

	r.beginScope()
	r.define("this")
	for _, method := range s.Methods {
		kind := fkMethod
		if method.Name.Value == "init" {
			kind = fkInitializer
		}
		r.resolveFunction(method.Parameters, method.Body, kind)
	}
	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}
	r.currentClass = enclosing
}

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if len(r.scopes) > 0 {
			if state, ok := r.scopes[len(r.scopes)-1][e.Value]; ok && state == stateDeclared {
				r.errorAt(diagnostics.ErrR001, e, "cannot read local variable %q in its own initializer", e.Value)
				return
			}
		}
		r.resolveLocal(e.ID, e.Value)
	case *ast.NumberLiteral, *ast.StringLiteral, *ast.BooleanLiteral, *ast.NilLiteral:
		// Literals bind nothing.
	case *ast.ListLiteral:
		for _, el := range e.Elements {
			r.resolveExpression(el)
		}
	case *ast.DictLiteral:
		for _, pair := range e.Pairs {
			r.resolveExpression(pair.Key)
			r.resolveExpression(pair.Value)
		}
	case *ast.TupleLiteral:
		for _, el := range e.Elements {
			r.resolveExpression(el)
		}
	case *ast.PrefixExpression:
		r.resolveExpression(e.Right)
	case *ast.InfixExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.AssignExpression:
		r.resolveExpression(e.Value)
		switch target := e.Target.(type) {
		case *ast.Identifier:
			r.resolveLocal(target.ID, target.Value)
		case *ast.PropertyExpression:
			r.resolveExpression(target.Object)
		case *ast.IndexExpression:
			r.resolveExpression(target.Object)
			r.resolveExpression(target.Index)
		}
	case *ast.CallExpression:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.PropertyExpression:
		r.resolveExpression(e.Object)
	case *ast.IndexExpression:
		r.resolveExpression(e.Object)
		r.resolveExpression(e.Index)
	case *ast.ThisExpression:
		if r.currentClass == ckNone {
			r.errorAt(diagnostics.ErrR003, e, "this is only allowed inside methods")
			return
		}
		r.resolveLocal(e.ID, "this")
	case *ast.SuperExpression:
		switch {
		case r.currentClass == ckNone:
			r.errorAt(diagnostics.ErrR004, e, "super is only allowed inside methods")
		case r.currentClass != ckSubclass:
			r.errorAt(diagnostics.ErrR004, e, "super requires a superclass")
		default:
			r.resolveLocal(e.ID, "super")
		}
	case *ast.LambdaLiteral:
		r.resolveFunction(e.Parameters, e.Body, fkLambda)
	}
}
