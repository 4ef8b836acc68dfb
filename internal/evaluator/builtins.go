package evaluator

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roxlang/rox/internal/config"
)

// stdinReader is a shared buffered reader for stdin so successive input()
// calls do not lose buffered bytes.
var (
	stdinReader     *bufio.Reader
	stdinReaderOnce sync.Once
)

func getStdinReader() *bufio.Reader {
	stdinReaderOnce.Do(func() {
		stdinReader = bufio.NewReader(os.Stdin)
	})
	return stdinReader
}

// RegisterGlobals installs the top-level native bindings. Every module-level
// environment starts from a fresh frame passed through here, so no module can
// mutate another module's globals.
func RegisterGlobals(env *Environment) {
	for name, builtin := range globalBuiltins() {
		env.Define(name, builtin)
	}
}

func globalBuiltins() map[string]*Builtin {
	return map[string]*Builtin{
		config.ClockFuncName:  {Name: config.ClockFuncName, Arity: 0, Fn: builtinClock},
		config.InputFuncName:  {Name: config.InputFuncName, Arity: -1, Fn: builtinInput},
		config.StrFuncName:    {Name: config.StrFuncName, Arity: 1, Fn: builtinStr},
		config.NumFuncName:    {Name: config.NumFuncName, Arity: 1, Fn: builtinNum},
		config.TypeFuncName:   {Name: config.TypeFuncName, Arity: 1, Fn: builtinType},
		config.LenFuncName:    {Name: config.LenFuncName, Arity: 1, Fn: builtinLen},
		config.UUIDFuncName:   {Name: config.UUIDFuncName, Arity: 0, Fn: builtinUUID},
		config.ImportFunc:     {Name: config.ImportFunc, Arity: 1, Fn: builtinImport},
	}
}

// clock: () -> Number (seconds since the Unix epoch, fractional)
func builtinClock(e *Evaluator, args ...Object) Object {
	return &Number{Value: float64(time.Now().UnixNano()) / float64(time.Second)}
}

// input: (prompt?) -> String | Nil (nil on EOF)
func builtinInput(e *Evaluator, args ...Object) Object {
	if len(args) > 1 {
		return newError("ArityError: input expects at most 1 argument, got %d", len(args))
	}
	if len(args) == 1 {
		prompt, ok := args[0].(*String)
		if !ok {
			return newError("TypeError: input prompt must be a string, got %s", typeName(args[0]))
		}
		fmt.Fprint(e.Out, prompt.Value)
	}
	line, err := getStdinReader().ReadString('\n')
	if err != nil && line == "" {
		return NilValue
	}
	return &String{Value: strings.TrimRight(line, "\r\n")}
}

// str: (value) -> String
func builtinStr(e *Evaluator, args ...Object) Object {
	return &String{Value: Stringify(args[0])}
}

// num: (string) -> Number
func builtinNum(e *Evaluator, args ...Object) Object {
	s, ok := args[0].(*String)
	if !ok {
		if n, isNum := args[0].(*Number); isNum {
			return n
		}
		return newError("TypeError: num expects a string, got %s", typeName(args[0]))
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s.Value), 64)
	if err != nil {
		return newError("TypeError: cannot parse %q as a number", s.Value)
	}
	return &Number{Value: value}
}

// type: (value) -> String
func builtinType(e *Evaluator, args ...Object) Object {
	return &String{Value: typeName(args[0])}
}

// len: (value) -> Number, for the sized kinds
func builtinLen(e *Evaluator, args ...Object) Object {
	switch arg := args[0].(type) {
	case *String:
		return &Number{Value: float64(len([]rune(arg.Value)))}
	case *List:
		return &Number{Value: float64(len(arg.Elements))}
	case *Dict:
		return &Number{Value: float64(arg.Len())}
	case *Tuple:
		return &Number{Value: float64(len(arg.Elements))}
	}
	return newError("TypeError: len expects a string, list, dict or tuple, got %s", typeName(args[0]))
}

// uuid: () -> String (RFC 4122 version 4)
func builtinUUID(e *Evaluator, args ...Object) Object {
	return &String{Value: uuid.NewString()}
}

// import: (path) -> Module. Relative paths resolve against the importing
// file's directory; bare names resolve to the native packages.
func builtinImport(e *Evaluator, args ...Object) Object {
	path, ok := args[0].(*String)
	if !ok {
		return newError("TypeError: import expects a string path, got %s", typeName(args[0]))
	}
	if e.Loader == nil {
		return newError("import is not available in this context")
	}
	fromDir := "."
	if e.CurrentFile != "" {
		fromDir = filepath.Dir(e.CurrentFile)
	}
	return e.Loader.Load(path.Value, fromDir)
}
