package resolver_test

import (
	"testing"

	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/lexer"
	"github.com/roxlang/rox/internal/parser"
	"github.com/roxlang/rox/internal/pipeline"
	"github.com/roxlang/rox/internal/resolver"
)

func resolveSource(t *testing.T, input string) *pipeline.Context {
	t.Helper()
	ctx := &pipeline.Context{SourceCode: input}
	ctx = pipeline.New(&lexer.Processor{}, &parser.Processor{}, &resolver.Processor{}).Run(ctx)
	return ctx
}

func resolveClean(t *testing.T, input string) *pipeline.Context {
	t.Helper()
	ctx := resolveSource(t, input)
	if ctx.HasErrors() {
		t.Fatalf("resolution failed: %s", ctx.Errors[0].Error())
	}
	return ctx
}

func TestResolveErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  diagnostics.Code
	}{
		{"self_initialization", "{ var a = 1; { var a = a; } }", diagnostics.ErrR001},
		{"duplicate_declaration", "{ var a = 1; var a = 2; }", diagnostics.ErrR002},
		{"duplicate_parameter", "fun f(a, a) { return a; }", diagnostics.ErrR002},
		{"this_at_top_level", "print this;", diagnostics.ErrR003},
		{"this_in_free_function", "fun f() { return this; }", diagnostics.ErrR003},
		{"super_without_superclass", "class A { m() { return super.m(); } }", diagnostics.ErrR004},
		{"return_value_in_init", "class A { init() { return 1; } }", diagnostics.ErrR005},
		{"class_inherits_itself", "class A < A { }", diagnostics.ErrR006},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := resolveSource(t, tc.input)
			if !ctx.HasErrors() {
				t.Fatalf("expected a resolve error for %q", tc.input)
			}
			found := false
			for _, d := range ctx.Errors {
				if d.Code == tc.code {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected code %s, got %s (%s)", tc.code, ctx.Errors[0].Code, ctx.Errors[0].Message)
			}
		})
	}
}

func TestResolveAccepts(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{"global_self_reference", "var a = a;"}, // globals resolve at runtime
		{"duplicate_globals", "var a = 1; var a = 2;"},
		{"bare_return_in_init", "class A { init() { return; } }"},
		{"this_in_method", "class A { m() { return this; } }"},
		{"super_in_subclass", "class A { m() { return 1; } } class B < A { m() { return super.m(); } }"},
		{"shadowing_in_inner_scope", "{ var a = 1; { var a = 2; print a; } }"},
		{"this_in_lambda_inside_method", "class A { m() { return fun() { return this; }; } }"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resolveClean(t, tc.input)
		})
	}
}

// identDepths returns the side-table depth recorded for every read of the
// named identifier, in AST order, with -1 for a global read.
func identDepths(program *ast.Program, locals map[ast.ExprID]int, name string) []int {
	var depths []int
	var walkStmt func(s ast.Statement)
	var walkExpr func(e ast.Expression)

	walkExpr = func(e ast.Expression) {
		switch n := e.(type) {
		case *ast.Identifier:
			if n.Value == name {
				if d, ok := locals[n.ID]; ok {
					depths = append(depths, d)
				} else {
					depths = append(depths, -1) // global
				}
			}
		case *ast.PrefixExpression:
			walkExpr(n.Right)
		case *ast.InfixExpression:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.AssignExpression:
			walkExpr(n.Target)
			walkExpr(n.Value)
		case *ast.CallExpression:
			walkExpr(n.Callee)
			for _, a := range n.Arguments {
				walkExpr(a)
			}
		case *ast.PropertyExpression:
			walkExpr(n.Object)
		case *ast.IndexExpression:
			walkExpr(n.Object)
			walkExpr(n.Index)
		case *ast.ListLiteral:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		case *ast.LambdaLiteral:
			for _, s := range n.Body.Statements {
				walkStmt(s)
			}
		}
	}
	walkStmt = func(s ast.Statement) {
		switch n := s.(type) {
		case *ast.ExpressionStatement:
			walkExpr(n.Expression)
		case *ast.PrintStatement:
			walkExpr(n.Value)
		case *ast.VarStatement:
			if n.Value != nil {
				walkExpr(n.Value)
			}
		case *ast.BlockStatement:
			for _, inner := range n.Statements {
				walkStmt(inner)
			}
		case *ast.ReturnStatement:
			if n.Value != nil {
				walkExpr(n.Value)
			}
		case *ast.FunctionStatement:
			for _, inner := range n.Body.Statements {
				walkStmt(inner)
			}
		case *ast.WhileStatement:
			walkExpr(n.Condition)
			walkStmt(n.Body)
		case *ast.IfStatement:
			walkExpr(n.Condition)
			walkStmt(n.Then)
			if n.Else != nil {
				walkStmt(n.Else)
			}
		}
	}
	for _, s := range program.Statements {
		walkStmt(s)
	}
	return depths
}

func TestDepthsMatchScopes(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		ident    string
		expected []int
	}{
		// Same scope: depth 0.
		{"same_block", "{ var a = 1; print a; }", "a", []int{0}},
		// One block in: depth 1.
		{"one_hop", "{ var a = 1; { print a; } }", "a", []int{1}},
		// Two blocks in: depth 2.
		{"two_hops", "{ var a = 1; { { print a; } } }", "a", []int{2}},
		// Captured across a function body: params and locals live in the
		// call frame, one hop from the inner function's own frame.
		{"closure_capture", "fun outer() { var i = 0; fun inner() { return i; } }", "i", []int{1}},
		// Global reads get no entry.
		{"global_read", "var g = 1; fun f() { return g; }", "g", []int{-1}},
		// Shadowing binds to the nearest declaration.
		{"shadowing", "{ var a = 1; { var a = 2; print a; } }", "a", []int{0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := resolveClean(t, tc.input)
			depths := identDepths(ctx.Program, ctx.Locals, tc.ident)
			if len(depths) != len(tc.expected) {
				t.Fatalf("expected %d reads of %q, found %d", len(tc.expected), tc.ident, len(depths))
			}
			for i, d := range depths {
				if d != tc.expected[i] {
					t.Errorf("read %d of %q: expected depth %d, got %d", i, tc.ident, tc.expected[i], d)
				}
			}
		})
	}
}

func TestSuperAndThisDepths(t *testing.T) {
	input := "class A { m() { return 1; } } class B < A { m() { return super.m() + this.x; } }"
	ctx := resolveClean(t, input)

	var superID, thisID ast.ExprID
	classB := ctx.Program.Statements[1].(*ast.ClassStatement)
	ret := classB.Methods[0].Body.Statements[0].(*ast.ReturnStatement)
	plus := ret.Value.(*ast.InfixExpression)
	superCall := plus.Left.(*ast.CallExpression)
	superID = superCall.Callee.(*ast.SuperExpression).ExprID()
	thisID = plus.Right.(*ast.PropertyExpression).Object.(*ast.ThisExpression).ExprID()

	superDepth, ok := ctx.Locals[superID]
	if !ok {
		t.Fatalf("super has no side-table entry")
	}
	thisDepth, ok := ctx.Locals[thisID]
	if !ok {
		t.Fatalf("this has no side-table entry")
	}
	// The method body frame sits inside the this frame, which sits inside
	// the super frame: super is always one hop beyond this.
	if superDepth != thisDepth+1 {
		t.Errorf("expected super depth (%d) == this depth (%d) + 1", superDepth, thisDepth)
	}
}

// The resolver only writes the side table; it never touches the AST.
func TestResolverDoesNotMutateAST(t *testing.T) {
	input := "{ var a = 1; { print a; } }"
	ctx := &pipeline.Context{SourceCode: input}
	ctx = pipeline.New(&lexer.Processor{}, &parser.Processor{}).Run(ctx)
	if ctx.HasErrors() {
		t.Fatalf("parse failed: %s", ctx.Errors[0].Error())
	}

	first := resolver.New().Resolve(ctx.Program)
	second := resolver.New().Resolve(ctx.Program)
	if len(first) != len(second) {
		t.Fatalf("repeated resolution diverged: %d vs %d entries", len(first), len(second))
	}
	for id, depth := range first {
		if second[id] != depth {
			t.Errorf("entry %d: %d vs %d", id, depth, second[id])
		}
	}
}
