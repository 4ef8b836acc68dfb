package evaluator

import (
	"strings"
)

// stringMethod returns the named built-in method bound to its receiver.
// Strings are immutable; every method returns a new value.
func stringMethod(recv *String, name string) *Builtin {
	switch name {
	case "len":
		return &Builtin{Name: "len", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			return &Number{Value: float64(len([]rune(recv.Value)))}
		}}
	case "upper":
		return &Builtin{Name: "upper", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			return &String{Value: strings.ToUpper(recv.Value)}
		}}
	case "lower":
		return &Builtin{Name: "lower", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			return &String{Value: strings.ToLower(recv.Value)}
		}}
	case "trim":
		return &Builtin{Name: "trim", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			return &String{Value: strings.TrimSpace(recv.Value)}
		}}
	case "split":
		return &Builtin{Name: "split", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			sep, ok := args[0].(*String)
			if !ok {
				return newError("TypeError: split separator must be a string, got %s", typeName(args[0]))
			}
			parts := strings.Split(recv.Value, sep.Value)
			elements := make([]Object, len(parts))
			for i, part := range parts {
				elements[i] = &String{Value: part}
			}
			return &List{Elements: elements}
		}}
	case "contains":
		return &Builtin{Name: "contains", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			sub, ok := args[0].(*String)
			if !ok {
				return newError("TypeError: contains expects a string, got %s", typeName(args[0]))
			}
			return nativeBool(strings.Contains(recv.Value, sub.Value))
		}}
	case "replace":
		return &Builtin{Name: "replace", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
			from, fok := args[0].(*String)
			to, tok := args[1].(*String)
			if !fok || !tok {
				return newError("TypeError: replace expects two strings")
			}
			return &String{Value: strings.ReplaceAll(recv.Value, from.Value, to.Value)}
		}}
	}
	return nil
}

// tupleMethod returns the named built-in method bound to its receiver.
func tupleMethod(recv *Tuple, name string) *Builtin {
	if name != "len" {
		return nil
	}
	return &Builtin{Name: "len", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
		return &Number{Value: float64(len(recv.Elements))}
	}}
}
