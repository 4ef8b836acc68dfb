package evaluator

import (
	"strings"
)

// listMethod returns the named built-in method bound to its receiver, or nil
// when the list type has no such method.
func listMethod(recv *List, name string) *Builtin {
	switch name {
	case "len":
		return &Builtin{Name: "len", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			return &Number{Value: float64(len(recv.Elements))}
		}}
	case "push":
		return &Builtin{Name: "push", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			recv.Elements = append(recv.Elements, args[0])
			return recv
		}}
	case "pop":
		return &Builtin{Name: "pop", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			if len(recv.Elements) == 0 {
				return newError("IndexOutOfBounds: pop from empty list")
			}
			last := recv.Elements[len(recv.Elements)-1]
			recv.Elements = recv.Elements[:len(recv.Elements)-1]
			return last
		}}
	case "map":
		return &Builtin{Name: "map", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			mapped := make([]Object, 0, len(recv.Elements))
			for _, el := range recv.Elements {
				result := e.ApplyFunction(args[0], []Object{el})
				if isSignal(result) {
					return result
				}
				mapped = append(mapped, result)
			}
			return &List{Elements: mapped}
		}}
	case "filter":
		return &Builtin{Name: "filter", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			var kept []Object
			for _, el := range recv.Elements {
				result := e.ApplyFunction(args[0], []Object{el})
				if isSignal(result) {
					return result
				}
				if isTruthy(result) {
					kept = append(kept, el)
				}
			}
			return &List{Elements: kept}
		}}
	case "join":
		return &Builtin{Name: "join", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			sep, ok := args[0].(*String)
			if !ok {
				return newError("TypeError: join separator must be a string, got %s", typeName(args[0]))
			}
			parts := make([]string, len(recv.Elements))
			for i, el := range recv.Elements {
				parts[i] = Stringify(el)
			}
			return &String{Value: strings.Join(parts, sep.Value)}
		}}
	case "contains":
		return &Builtin{Name: "contains", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			for _, el := range recv.Elements {
				if objectsEqual(el, args[0]) {
					return TrueValue
				}
			}
			return FalseValue
		}}
	case "reverse":
		return &Builtin{Name: "reverse", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			reversed := make([]Object, len(recv.Elements))
			for i, el := range recv.Elements {
				reversed[len(recv.Elements)-1-i] = el
			}
			return &List{Elements: reversed}
		}}
	case "slice":
		return &Builtin{Name: "slice", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
			from, fok := args[0].(*Number)
			to, tok := args[1].(*Number)
			if !fok || !tok || !isIntegral(from.Value) || !isIntegral(to.Value) {
				return newError("TypeError: slice bounds must be integers")
			}
			start, end := int(from.Value), int(to.Value)
			if start < 0 || end > len(recv.Elements) || start > end {
				return newError("IndexOutOfBounds: slice [%d, %d) out of range for length %d",
					start, end, len(recv.Elements))
			}
			sliced := make([]Object, end-start)
			copy(sliced, recv.Elements[start:end])
			return &List{Elements: sliced}
		}}
	}
	return nil
}
