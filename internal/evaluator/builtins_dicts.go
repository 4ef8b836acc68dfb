package evaluator

// dictMethod returns the named built-in method bound to its receiver. Methods
// shadow keys on property access; d["len"] still reads the entry.
func dictMethod(recv *Dict, name string) *Builtin {
	switch name {
	case "len":
		return &Builtin{Name: "len", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			return &Number{Value: float64(recv.Len())}
		}}
	case "keys":
		return &Builtin{Name: "keys", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			keys := make([]Object, 0, recv.Len())
			for _, key := range recv.Keys() {
				keys = append(keys, &String{Value: key})
			}
			return &List{Elements: keys}
		}}
	case "values":
		return &Builtin{Name: "values", Arity: 0, Fn: func(e *Evaluator, args ...Object) Object {
			values := make([]Object, 0, recv.Len())
			for _, key := range recv.Keys() {
				val, _ := recv.Get(key)
				values = append(values, val)
			}
			return &List{Elements: values}
		}}
	case "has":
		return &Builtin{Name: "has", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			key, ok := args[0].(*String)
			if !ok {
				return newError("TypeError: dict keys must be strings, got %s", typeName(args[0]))
			}
			_, found := recv.Get(key.Value)
			return nativeBool(found)
		}}
	case "remove":
		return &Builtin{Name: "remove", Arity: 1, Fn: func(e *Evaluator, args ...Object) Object {
			key, ok := args[0].(*String)
			if !ok {
				return newError("TypeError: dict keys must be strings, got %s", typeName(args[0]))
			}
			return nativeBool(recv.Delete(key.Value))
		}}
	case "get":
		return &Builtin{Name: "get", Arity: 2, Fn: func(e *Evaluator, args ...Object) Object {
			key, ok := args[0].(*String)
			if !ok {
				return newError("TypeError: dict keys must be strings, got %s", typeName(args[0]))
			}
			if val, found := recv.Get(key.Value); found {
				return val
			}
			return args[1]
		}}
	}
	return nil
}
