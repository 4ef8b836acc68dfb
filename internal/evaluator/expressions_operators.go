package evaluator

import (
	"math"

	"github.com/roxlang/rox/internal/ast"
)

func (e *Evaluator) evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}
	switch node.Operator {
	case "!":
		return nativeBool(!isTruthy(right))
	case "-":
		num, ok := right.(*Number)
		if !ok {
			return errorAt(node.Token, "TypeError: operand of unary - must be a number, got %s", typeName(right))
		}
		return &Number{Value: -num.Value}
	}
	return errorAt(node.Token, "unknown operator %q", node.Operator)
}

func (e *Evaluator) evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	// and/or short-circuit: the right operand is not evaluated when the left
	// decides the outcome.
	if node.Operator == "and" || node.Operator == "or" {
		left := e.Eval(node.Left, env)
		if isSignal(left) {
			return left
		}
		if node.Operator == "and" {
			if !isTruthy(left) {
				return left
			}
		} else if isTruthy(left) {
			return left
		}
		return e.Eval(node.Right, env)
	}

	left := e.Eval(node.Left, env)
	if isSignal(left) {
		return left
	}
	right := e.Eval(node.Right, env)
	if isSignal(right) {
		return right
	}

	switch node.Operator {
	case "==":
		return nativeBool(objectsEqual(left, right))
	case "!=":
		return nativeBool(!objectsEqual(left, right))
	case "+":
		return e.evalPlus(node, left, right)
	case "-", "*", "/", "%":
		return e.evalArithmetic(node, left, right)
	case "&", "|", "^":
		return e.evalBitwise(node, left, right)
	case "<", "<=", ">", ">=":
		return e.evalComparison(node, left, right)
	}
	return errorAt(node.Token, "unknown operator %q", node.Operator)
}

// evalPlus is the single overloaded operator: numbers add, strings
// concatenate, and a string on either side stringifies the other operand.
func (e *Evaluator) evalPlus(node *ast.InfixExpression, left, right Object) Object {
	if ln, ok := left.(*Number); ok {
		if rn, ok := right.(*Number); ok {
			return &Number{Value: ln.Value + rn.Value}
		}
	}
	if ls, ok := left.(*String); ok {
		if rs, ok := right.(*String); ok {
			return &String{Value: ls.Value + rs.Value}
		}
		return &String{Value: ls.Value + Stringify(right)}
	}
	if rs, ok := right.(*String); ok {
		return &String{Value: Stringify(left) + rs.Value}
	}
	return errorAt(node.Token, "TypeError: cannot add %s and %s", typeName(left), typeName(right))
}

func (e *Evaluator) evalArithmetic(node *ast.InfixExpression, left, right Object) Object {
	ln, lok := left.(*Number)
	rn, rok := right.(*Number)
	if !lok || !rok {
		return errorAt(node.Token, "TypeError: operands of %q must be numbers, got %s and %s",
			node.Operator, typeName(left), typeName(right))
	}
	switch node.Operator {
	case "-":
		return &Number{Value: ln.Value - rn.Value}
	case "*":
		return &Number{Value: ln.Value * rn.Value}
	case "/":
		if rn.Value == 0 {
			return errorAt(node.Token, "DivisionByZero: division by zero")
		}
		return &Number{Value: ln.Value / rn.Value}
	case "%":
		if rn.Value == 0 {
			return errorAt(node.Token, "DivisionByZero: modulo by zero")
		}
		return &Number{Value: math.Mod(ln.Value, rn.Value)}
	}
	return errorAt(node.Token, "unknown operator %q", node.Operator)
}

// evalBitwise operates on 64-bit two's-complement truncations of finite
// integral doubles.
func (e *Evaluator) evalBitwise(node *ast.InfixExpression, left, right Object) Object {
	ln, lok := left.(*Number)
	rn, rok := right.(*Number)
	if !lok || !rok || !isIntegral(ln.Value) || !isIntegral(rn.Value) {
		return errorAt(node.Token, "TypeError: operands of %q must be integers, got %s and %s",
			node.Operator, operandName(left), operandName(right))
	}
	li, ri := int64(ln.Value), int64(rn.Value)
	switch node.Operator {
	case "&":
		return &Number{Value: float64(li & ri)}
	case "|":
		return &Number{Value: float64(li | ri)}
	case "^":
		return &Number{Value: float64(li ^ ri)}
	}
	return errorAt(node.Token, "unknown operator %q", node.Operator)
}

func operandName(obj Object) string {
	if n, ok := obj.(*Number); ok && !isIntegral(n.Value) {
		return "non-integer number"
	}
	return typeName(obj)
}

func (e *Evaluator) evalComparison(node *ast.InfixExpression, left, right Object) Object {
	ln, lok := left.(*Number)
	rn, rok := right.(*Number)
	if !lok || !rok {
		return errorAt(node.Token, "TypeError: operands of %q must be numbers, got %s and %s",
			node.Operator, typeName(left), typeName(right))
	}
	switch node.Operator {
	case "<":
		return nativeBool(ln.Value < rn.Value)
	case "<=":
		return nativeBool(ln.Value <= rn.Value)
	case ">":
		return nativeBool(ln.Value > rn.Value)
	case ">=":
		return nativeBool(ln.Value >= rn.Value)
	}
	return errorAt(node.Token, "unknown operator %q", node.Operator)
}

// objectsEqual implements deep equality for the primitive kinds and
// reference identity for everything else. Identity short-circuits first, so
// self-referential containers compare without recursing.
func objectsEqual(left, right Object) bool {
	if left == right {
		return true
	}
	switch l := left.(type) {
	case *Nil:
		_, ok := right.(*Nil)
		return ok
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	case *Number:
		r, ok := right.(*Number)
		return ok && l.Value == r.Value
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	}
	return false
}
