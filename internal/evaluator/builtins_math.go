package evaluator

import (
	"math"
	"math/rand"
)

// MathExports is the export surface of the native math package.
func MathExports() map[string]Object {
	exports := map[string]Object{
		"PI": &Number{Value: math.Pi},
		"E":  &Number{Value: math.E},
	}
	unary := map[string]func(float64) float64{
		"sin":   math.Sin,
		"cos":   math.Cos,
		"tan":   math.Tan,
		"sqrt":  math.Sqrt,
		"abs":   math.Abs,
		"floor": math.Floor,
		"ceil":  math.Ceil,
	}
	for name, fn := range unary {
		exports[name] = mathUnary(name, fn)
	}
	binary := map[string]func(float64, float64) float64{
		"pow": math.Pow,
		"min": math.Min,
		"max": math.Max,
	}
	for name, fn := range binary {
		exports[name] = mathBinary(name, fn)
	}
	exports["random"] = &Builtin{Name: "random", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
		return &Number{Value: rand.Float64()}
	}}
	return exports
}

func mathUnary(name string, fn func(float64) float64) *Builtin {
	return &Builtin{Name: name, Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
		num, ok := args[0].(*Number)
		if !ok {
			return newError("TypeError: %s expects a number, got %s", name, typeName(args[0]))
		}
		return &Number{Value: fn(num.Value)}
	}}
}

func mathBinary(name string, fn func(float64, float64) float64) *Builtin {
	return &Builtin{Name: name, Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
		a, aok := args[0].(*Number)
		b, bok := args[1].(*Number)
		if !aok || !bok {
			return newError("TypeError: %s expects two numbers, got %s and %s",
				name, typeName(args[0]), typeName(args[1]))
		}
		return &Number{Value: fn(a.Value, b.Value)}
	}}
}
