package evaluator

import (
	"fmt"
	"io"
	"os"

	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/config"
	"github.com/roxlang/rox/internal/token"
)

// ModuleLoader resolves and evaluates imports. The concrete loader lives in
// internal/modules; the interface keeps the dependency one-way.
type ModuleLoader interface {
	// Load resolves the import path against fromDir, evaluates the module
	// once and returns its Module value, or an Error object.
	Load(path string, fromDir string) Object
}

type Evaluator struct {
	Out io.Writer

	// Globals is the root of the environment chain for this evaluation unit.
	// Each module gets its own evaluator with a fresh globals frame.
	Globals *Environment

	// Locals is the resolver side table: expression id -> hop depth. Only
	// local reads/writes, this and super have entries; everything else falls
	// through to Globals.
	Locals map[ast.ExprID]int

	// Loader handles import(); nil disables module loading.
	Loader ModuleLoader

	// CurrentFile anchors relative import resolution.
	CurrentFile string

	// ExportNames records the declarations wrapped by export, in order. The
	// loader materialises export values from the globals after top-level
	// evaluation completes.
	ExportNames []string

	// MaxDepth bounds call nesting.
	MaxDepth  int
	callDepth int
}

func New() *Evaluator {
	e := &Evaluator{
		Out:      os.Stdout,
		Globals:  NewEnvironment(),
		Locals:   make(map[ast.ExprID]int),
		MaxDepth: config.MaxRecursionDepth,
	}
	RegisterGlobals(e.Globals)
	return e
}

// EvalProgram evaluates top-level statements against the globals and returns
// the value of the last statement, the first fatal error, or an uncaught
// throw converted into an error.
func (e *Evaluator) EvalProgram(program *ast.Program) Object {
	if program.File != "" {
		e.CurrentFile = program.File
	}
	var result Object = NilValue
	for _, stmt := range program.Statements {
		result = e.Eval(stmt, e.Globals)
		switch sig := result.(type) {
		case *Error:
			return sig
		case *ThrowSignal:
			return e.uncaught(sig)
		case *ReturnValue, *BreakSignal, *ContinueSignal:
			// The parser rejects these outside their contexts; reaching here
			// means a signal escaped a native callback. Drop it.
			result = NilValue
		}
	}
	return result
}

func (e *Evaluator) uncaught(sig *ThrowSignal) *Error {
	return &Error{
		Message: fmt.Sprintf("uncaught exception: %s", Stringify(sig.Value)),
		Line:    sig.Line,
	}
}

// Eval walks one node. Statement nodes may produce signal objects; expression
// nodes produce values or errors.
func (e *Evaluator) Eval(node ast.Node, env *Environment) Object {
	switch n := node.(type) {
	// Statements
	case *ast.Program:
		return e.EvalProgram(n)
	case *ast.ExpressionStatement:
		return e.Eval(n.Expression, env)
	case *ast.PrintStatement:
		return e.evalPrintStatement(n, env)
	case *ast.VarStatement:
		return e.evalVarStatement(n, env)
	case *ast.BlockStatement:
		return e.evalBlockStatement(n, env)
	case *ast.IfStatement:
		return e.evalIfStatement(n, env)
	case *ast.WhileStatement:
		return e.evalWhileStatement(n, env)
	case *ast.ForStatement:
		return e.evalForStatement(n, env)
	case *ast.BreakStatement:
		return &BreakSignal{}
	case *ast.ContinueStatement:
		return &ContinueSignal{}
	case *ast.ReturnStatement:
		return e.evalReturnStatement(n, env)
	case *ast.FunctionStatement:
		return e.evalFunctionStatement(n, env)
	case *ast.ClassStatement:
		return e.evalClassStatement(n, env)
	case *ast.TryStatement:
		return e.evalTryStatement(n, env)
	case *ast.ThrowStatement:
		return e.evalThrowStatement(n, env)
	case *ast.ExportStatement:
		return e.evalExportStatement(n, env)

	// Expressions
	case *ast.NumberLiteral:
		return &Number{Value: n.Value}
	case *ast.StringLiteral:
		return &String{Value: n.Value}
	case *ast.BooleanLiteral:
		return nativeBool(n.Value)
	case *ast.NilLiteral:
		return NilValue
	case *ast.ListLiteral:
		return e.evalListLiteral(n, env)
	case *ast.DictLiteral:
		return e.evalDictLiteral(n, env)
	case *ast.TupleLiteral:
		return e.evalTupleLiteral(n, env)
	case *ast.Identifier:
		return e.evalIdentifier(n, env)
	case *ast.PrefixExpression:
		return e.evalPrefixExpression(n, env)
	case *ast.InfixExpression:
		return e.evalInfixExpression(n, env)
	case *ast.AssignExpression:
		return e.evalAssignExpression(n, env)
	case *ast.CallExpression:
		return e.evalCallExpression(n, env)
	case *ast.PropertyExpression:
		return e.evalPropertyExpression(n, env)
	case *ast.IndexExpression:
		return e.evalIndexExpression(n, env)
	case *ast.ThisExpression:
		return e.evalThisExpression(n, env)
	case *ast.SuperExpression:
		return e.evalSuperExpression(n, env)
	case *ast.LambdaLiteral:
		return &Lambda{Parameters: n.Parameters, Body: n.Body, Env: env}
	}
	return newError("unknown node %T", node)
}

func isError(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.Type() == ERROR_OBJ
}

// isSignal reports whether the object aborts normal sequential execution.
func isSignal(obj Object) bool {
	if obj == nil {
		return false
	}
	switch obj.Type() {
	case ERROR_OBJ, RETURN_VALUE_OBJ, BREAK_SIGNAL_OBJ, CONTINUE_SIGNAL_OBJ, THROW_SIGNAL_OBJ:
		return true
	}
	return false
}

func isTruthy(obj Object) bool {
	switch o := obj.(type) {
	case *Nil:
		return false
	case *Boolean:
		return o.Value
	default:
		return true
	}
}

func newError(format string, args ...interface{}) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// errorAt stamps the diagnostic with the nearest known token's position.
func errorAt(tok token.Token, format string, args ...interface{}) *Error {
	return &Error{
		Message: fmt.Sprintf(format, args...),
		Line:    tok.Line,
		Column:  tok.Column,
	}
}

func typeName(obj Object) string {
	switch obj.Type() {
	case NIL_OBJ:
		return "nil"
	case BOOLEAN_OBJ:
		return "bool"
	case NUMBER_OBJ:
		return "number"
	case STRING_OBJ:
		return "string"
	case LIST_OBJ:
		return "list"
	case DICT_OBJ:
		return "dict"
	case TUPLE_OBJ:
		return "tuple"
	case FUNCTION_OBJ, LAMBDA_OBJ, BUILTIN_OBJ:
		return "function"
	case CLASS_OBJ:
		return "class"
	case INSTANCE_OBJ:
		return "instance"
	case MODULE_OBJ:
		return "module"
	case DB_CONN_OBJ:
		return "connection"
	}
	return string(obj.Type())
}
