package evaluator

import (
	"github.com/roxlang/rox/internal/ast"
)

func (e *Evaluator) evalListLiteral(node *ast.ListLiteral, env *Environment) Object {
	elements := make([]Object, 0, len(node.Elements))
	for _, el := range node.Elements {
		val := e.Eval(el, env)
		if isSignal(val) {
			return val
		}
		elements = append(elements, val)
	}
	return &List{Elements: elements}
}

func (e *Evaluator) evalDictLiteral(node *ast.DictLiteral, env *Environment) Object {
	dict := NewDict()
	for _, pair := range node.Pairs {
		key := e.Eval(pair.Key, env)
		if isSignal(key) {
			return key
		}
		keyStr, ok := key.(*String)
		if !ok {
			return errorAt(pair.Key.GetToken(), "TypeError: dict keys must be strings, got %s", typeName(key))
		}
		val := e.Eval(pair.Value, env)
		if isSignal(val) {
			return val
		}
		dict.Set(keyStr.Value, val)
	}
	return dict
}

func (e *Evaluator) evalTupleLiteral(node *ast.TupleLiteral, env *Environment) Object {
	elements := make([]Object, 0, len(node.Elements))
	for _, el := range node.Elements {
		val := e.Eval(el, env)
		if isSignal(val) {
			return val
		}
		elements = append(elements, val)
	}
	return &Tuple{Elements: elements}
}

// evalPropertyExpression dispatches obj.name by receiver kind: instance
// fields and methods, module exports, dict keys, and the built-in method
// tables for the aggregate types.
func (e *Evaluator) evalPropertyExpression(node *ast.PropertyExpression, env *Environment) Object {
	obj := e.Eval(node.Object, env)
	if isSignal(obj) {
		return obj
	}

	switch recv := obj.(type) {
	case *Instance:
		if val, ok := recv.Fields[node.Name]; ok {
			return val
		}
		if method := recv.Class.FindMethod(node.Name); method != nil {
			return bindMethod(method, recv)
		}
		return errorAt(node.Token, "TypeError: undefined property %q on %s", node.Name, recv.Class.Name)
	case *Module:
		if val, ok := recv.Exports[node.Name]; ok {
			return val
		}
		return errorAt(node.Token, "TypeError: module %s does not export %q", recv.Name, node.Name)
	case *Dict:
		if method := dictMethod(recv, node.Name); method != nil {
			return method
		}
		if val, ok := recv.Get(node.Name); ok {
			return val
		}
		return NilValue
	case *List:
		if method := listMethod(recv, node.Name); method != nil {
			return method
		}
		return errorAt(node.Token, "TypeError: undefined method %q on list", node.Name)
	case *String:
		if method := stringMethod(recv, node.Name); method != nil {
			return method
		}
		return errorAt(node.Token, "TypeError: undefined method %q on string", node.Name)
	case *Tuple:
		if method := tupleMethod(recv, node.Name); method != nil {
			return method
		}
		return errorAt(node.Token, "TypeError: undefined method %q on tuple", node.Name)
	}
	return errorAt(node.Token, "TypeError: %s has no properties", typeName(obj))
}

// evalPropertyAssign writes obj.name. Only instances and dicts accept it.
func (e *Evaluator) evalPropertyAssign(target *ast.PropertyExpression, val Object, env *Environment) Object {
	obj := e.Eval(target.Object, env)
	if isSignal(obj) {
		return obj
	}
	switch recv := obj.(type) {
	case *Instance:
		recv.Fields[target.Name] = val
		return val
	case *Dict:
		recv.Set(target.Name, val)
		return val
	}
	return errorAt(target.Token, "TypeError: cannot set property on %s", typeName(obj))
}

func (e *Evaluator) evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	obj := e.Eval(node.Object, env)
	if isSignal(obj) {
		return obj
	}
	index := e.Eval(node.Index, env)
	if isSignal(index) {
		return index
	}

	switch recv := obj.(type) {
	case *List:
		i, errObj := e.indexPosition(node, index, len(recv.Elements))
		if errObj != nil {
			return errObj
		}
		return recv.Elements[i]
	case *Tuple:
		i, errObj := e.indexPosition(node, index, len(recv.Elements))
		if errObj != nil {
			return errObj
		}
		return recv.Elements[i]
	case *String:
		runes := []rune(recv.Value)
		i, errObj := e.indexPosition(node, index, len(runes))
		if errObj != nil {
			return errObj
		}
		return &String{Value: string(runes[i])}
	case *Dict:
		key, ok := index.(*String)
		if !ok {
			return errorAt(node.Token, "TypeError: dict keys must be strings, got %s", typeName(index))
		}
		if val, found := recv.Get(key.Value); found {
			return val
		}
		return NilValue
	}
	return errorAt(node.Token, "TypeError: %s is not indexable", typeName(obj))
}

func (e *Evaluator) evalIndexAssign(target *ast.IndexExpression, val Object, env *Environment) Object {
	obj := e.Eval(target.Object, env)
	if isSignal(obj) {
		return obj
	}
	index := e.Eval(target.Index, env)
	if isSignal(index) {
		return index
	}

	switch recv := obj.(type) {
	case *List:
		i, errObj := e.indexPosition(target, index, len(recv.Elements))
		if errObj != nil {
			return errObj
		}
		recv.Elements[i] = val
		return val
	case *Dict:
		key, ok := index.(*String)
		if !ok {
			return errorAt(target.Token, "TypeError: dict keys must be strings, got %s", typeName(index))
		}
		recv.Set(key.Value, val)
		return val
	}
	return errorAt(target.Token, "TypeError: cannot assign into %s", typeName(obj))
}

// indexPosition validates an integer index against the container length.
func (e *Evaluator) indexPosition(node *ast.IndexExpression, index Object, length int) (int, Object) {
	num, ok := index.(*Number)
	if !ok || !isIntegral(num.Value) {
		return 0, errorAt(node.Token, "TypeError: index must be an integer, got %s", operandName(index))
	}
	i := int(num.Value)
	if i < 0 || i >= length {
		return 0, errorAt(node.Token, "IndexOutOfBounds: index %d out of range for length %d", i, length)
	}
	return i, nil
}
