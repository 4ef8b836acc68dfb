package evaluator

import (
	"os"
)

// FsExports is the export surface of the native fs package. Every operation
// opens and closes its handle inside the call; no handle escapes to user
// code.
func FsExports() map[string]Object {
	return map[string]Object{
		"readFile":   &Builtin{Name: "readFile", Arity: 1, Fn: builtinReadFile},
		"writeFile":  &Builtin{Name: "writeFile", Arity: 2, Fn: builtinWriteFile},
		"appendFile": &Builtin{Name: "appendFile", Arity: 2, Fn: builtinAppendFile},
		"exists":     &Builtin{Name: "exists", Arity: 1, Fn: builtinExists},
		"remove":     &Builtin{Name: "remove", Arity: 1, Fn: builtinRemove},
	}
}

func fsPathArg(name string, arg Object) (string, Object) {
	path, ok := arg.(*String)
	if !ok {
		return "", newError("TypeError: %s expects a string path, got %s", name, typeName(arg))
	}
	return path.Value, nil
}

// readFile: (path) -> String
func builtinReadFile(e *Evaluator, args ...Object) Object {
	path, errObj := fsPathArg("readFile", args[0])
	if errObj != nil {
		return errObj
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return newError("IOError: %v", err)
	}
	return &String{Value: string(data)}
}

// writeFile: (path, contents) -> Nil
func builtinWriteFile(e *Evaluator, args ...Object) Object {
	path, errObj := fsPathArg("writeFile", args[0])
	if errObj != nil {
		return errObj
	}
	contents, ok := args[1].(*String)
	if !ok {
		return newError("TypeError: writeFile expects string contents, got %s", typeName(args[1]))
	}
	if err := os.WriteFile(path, []byte(contents.Value), 0o644); err != nil {
		return newError("IOError: %v", err)
	}
	return NilValue
}

// appendFile: (path, contents) -> Nil
func builtinAppendFile(e *Evaluator, args ...Object) Object {
	path, errObj := fsPathArg("appendFile", args[0])
	if errObj != nil {
		return errObj
	}
	contents, ok := args[1].(*String)
	if !ok {
		return newError("TypeError: appendFile expects string contents, got %s", typeName(args[1]))
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return newError("IOError: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(contents.Value); err != nil {
		return newError("IOError: %v", err)
	}
	return NilValue
}

// exists: (path) -> Bool
func builtinExists(e *Evaluator, args ...Object) Object {
	path, errObj := fsPathArg("exists", args[0])
	if errObj != nil {
		return errObj
	}
	_, err := os.Stat(path)
	return nativeBool(err == nil)
}

// remove: (path) -> Nil
func builtinRemove(e *Evaluator, args ...Object) Object {
	path, errObj := fsPathArg("remove", args[0])
	if errObj != nil {
		return errObj
	}
	if err := os.Remove(path); err != nil {
		return newError("IOError: %v", err)
	}
	return NilValue
}
