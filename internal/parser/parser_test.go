package parser_test

import (
	"testing"

	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/lexer"
	"github.com/roxlang/rox/internal/parser"
	"github.com/roxlang/rox/internal/pipeline"
)

func parseSource(t *testing.T, input string) *pipeline.Context {
	t.Helper()
	ctx := &pipeline.Context{SourceCode: input}
	return pipeline.New(&lexer.Processor{}, &parser.Processor{}).Run(ctx)
}

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	ctx := parseSource(t, input)
	if ctx.HasErrors() {
		t.Fatalf("parsing failed: %s", ctx.Errors[0].Error())
	}
	return ctx.Program
}

func TestStatementParsing(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		count int
	}{
		{"var_declaration", "var a = 5;", 1},
		{"var_no_initializer", "var a;", 1},
		{"expression_statement", "1 + 2 * 3;", 1},
		{"print_statement", `print "hi";`, 1},
		{"block", "{ var a = 1; var b = 2; }", 1},
		{"if_else", "if (a < b) { print a; } else { print b; }", 1},
		{"while", "while (true) { break; }", 1},
		{"for_full", "for (var i = 0; i < 5; i += 1) { print i; }", 1},
		{"for_empty_clauses", "for (;;) { break; }", 1},
		{"function", "fun add(x, y) { return x + y; }", 1},
		{"class", "class A { greet() { return 1; } }", 1},
		{"class_with_super", "class B < A { init(x) { this.x = x; } }", 1},
		{"try_catch", "try { throw 1; } catch (e) { print e; }", 1},
		{"export_var", "export var answer = 42;", 1},
		{"export_fun", "export fun f() { return 1; }", 1},
		{"export_class", "export class C { }", 1},
		{"lambda_expression", "var f = fun(x) { return x; };", 1},
		{"list_literal", "var xs = [1, 2, 3];", 1},
		{"dict_literal", `var d = {"a": 1, "b": 2};`, 1},
		{"tuple_literal", "var t = (1, 2, 3);", 1},
		{"empty_tuple", "var t = ();", 1},
		{"grouping_is_not_tuple", "var g = (1 + 2);", 1},
		{"index_and_property", "var v = xs[0].len();", 1},
		{"compound_assignment", "a += 1; b *= 2;", 2},
		{"bitwise_operators", "var x = a & b | c ^ d;", 1},
		{"super_call", "class B < A { m() { return super.m(); } }", 1},
		{"import_call", `var m = import("./lib.rox");`, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			program := parseProgram(t, tc.input)
			if len(program.Statements) != tc.count {
				t.Fatalf("expected %d statements, got %d", tc.count, len(program.Statements))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		code  diagnostics.Code
	}{
		{"break_outside_loop", "break;", diagnostics.ErrP002},
		{"continue_outside_loop", "continue;", diagnostics.ErrP002},
		{"return_outside_function", "return 1;", diagnostics.ErrP003},
		{"export_in_block", "{ export var a = 1; }", diagnostics.ErrP004},
		{"export_in_function", "fun f() { export var a = 1; }", diagnostics.ErrP004},
		{"reserved_word_as_identifier", "var class = 1;", diagnostics.ErrP007},
		{"invalid_assignment_target", "1 + 2 = 3;", diagnostics.ErrP005},
		{"missing_semicolon", "var a = 1", diagnostics.ErrP001},
		{"export_expression", "export 1 + 2;", diagnostics.ErrP001},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := parseSource(t, tc.input)
			if !ctx.HasErrors() {
				t.Fatalf("expected a parse error for %q", tc.input)
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

func TestLoopContextNesting(t *testing.T) {
	parseProgram(t, "while (true) { if (x) { break; } }")
	parseProgram(t, "for (;;) { while (true) { continue; } break; }")

	// Loop context does not cross a function boundary.
	ctx := parseSource(t, "while (true) { var f = fun() { break; }; }")
	if !ctx.HasErrors() {
		t.Fatalf("break inside a lambda must not bind to an outer loop")
	}
}

func TestErrorRecoveryCollectsMultiple(t *testing.T) {
	ctx := parseSource(t, "var = 1;\nvar b = 2;\nbreak;\n")
	if len(ctx.Errors) < 2 {
		t.Fatalf("expected at least 2 diagnostics, got %d", len(ctx.Errors))
	}
}

// Re-parsing the same source yields the same statement shape: parsing is a
// pure function of the token stream.
func TestReparseStability(t *testing.T) {
	input := "fun f(a) { return a * 2; } var x = f(21);"
	first := parseProgram(t, input)
	second := parseProgram(t, input)
	if len(first.Statements) != len(second.Statements) {
		t.Fatalf("statement counts differ: %d vs %d", len(first.Statements), len(second.Statements))
	}
	for i := range first.Statements {
		if first.Statements[i].TokenLiteral() != second.Statements[i].TokenLiteral() {
			t.Errorf("statement %d differs", i)
		}
	}
}

// Every expression gets a distinct id.
func TestExprIDsAreUnique(t *testing.T) {
	program := parseProgram(t, "var a = 1 + 2 * 3; var b = [a, a, a];")
	seen := map[ast.ExprID]bool{}
	var walkExpr func(e ast.Expression)
	walkExpr = func(e ast.Expression) {
		if e == nil {
			return
		}
		id := e.ExprID()
		if seen[id] {
			t.Fatalf("duplicate ExprID %d", id)
		}
		seen[id] = true
		switch n := e.(type) {
		case *ast.InfixExpression:
			walkExpr(n.Left)
			walkExpr(n.Right)
		case *ast.ListLiteral:
			for _, el := range n.Elements {
				walkExpr(el)
			}
		}
	}
	for _, stmt := range program.Statements {
		if vs, ok := stmt.(*ast.VarStatement); ok {
			walkExpr(vs.Value)
		}
	}
	if len(seen) < 8 {
		t.Fatalf("expected at least 8 expression ids, got %d", len(seen))
	}
}

func TestTupleVersusGrouping(t *testing.T) {
	program := parseProgram(t, "var t = (1, 2); var g = (1);")
	tVal := program.Statements[0].(*ast.VarStatement).Value
	if _, ok := tVal.(*ast.TupleLiteral); !ok {
		t.Errorf("expected TupleLiteral, got %T", tVal)
	}
	gVal := program.Statements[1].(*ast.VarStatement).Value
	if _, ok := gVal.(*ast.NumberLiteral); !ok {
		t.Errorf("expected grouping to unwrap to NumberLiteral, got %T", gVal)
	}
}

func TestCompoundAssignmentDesugars(t *testing.T) {
	program := parseProgram(t, "a += 2;")
	es := program.Statements[0].(*ast.ExpressionStatement)
	assign, ok := es.Expression.(*ast.AssignExpression)
	if !ok {
		t.Fatalf("expected AssignExpression, got %T", es.Expression)
	}
	infix, ok := assign.Value.(*ast.InfixExpression)
	if !ok {
		t.Fatalf("expected InfixExpression value, got %T", assign.Value)
	}
	if infix.Operator != "+" {
		t.Errorf("expected desugared operator +, got %q", infix.Operator)
	}
	if infix.Left != assign.Target {
		t.Errorf("read side should share the assignment target node")
	}
}

func TestPrecedence(t *testing.T) {
	program := parseProgram(t, "var x = 1 + 2 * 3 == 7 and true or false;")
	// or is the loosest binder: the root must be an or-expression.
	root := program.Statements[0].(*ast.VarStatement).Value.(*ast.InfixExpression)
	if root.Operator != "or" {
		t.Fatalf("expected or at root, got %q", root.Operator)
	}
	andExpr := root.Left.(*ast.InfixExpression)
	if andExpr.Operator != "and" {
		t.Fatalf("expected and below or, got %q", andExpr.Operator)
	}
	eqExpr := andExpr.Left.(*ast.InfixExpression)
	if eqExpr.Operator != "==" {
		t.Fatalf("expected == below and, got %q", eqExpr.Operator)
	}
}
