package config

// Version is the current rox version.
// Set at build time via -ldflags or by writing to this file.
var Version = "0.3.1"

const SourceFileExt = ".rox"

// ConfigFileName is the optional per-project interpreter configuration.
const ConfigFileName = "rox.yaml"

// MaxRecursionDepth bounds parser expression nesting and evaluator call depth.
// rox.yaml can override the evaluator's limit; the parser always uses this
// value.
const MaxRecursionDepth = 1000

// HasSourceExt returns true if the path ends with the rox source extension.
func HasSourceExt(path string) bool {
	return len(path) >= len(SourceFileExt) && path[len(path)-len(SourceFileExt):] == SourceFileExt
}

// TrimSourceExt removes the source extension from a filename.
// Returns the original string if the extension does not match.
func TrimSourceExt(name string) string {
	if HasSourceExt(name) {
		return name[:len(name)-len(SourceFileExt)]
	}
	return name
}

// Built-in function names
const (
	PrintFuncName = "print"
	ClockFuncName = "clock"
	InputFuncName = "input"
	StrFuncName   = "str"
	NumFuncName   = "num"
	TypeFuncName  = "type"
	LenFuncName   = "len"
	UUIDFuncName  = "uuid"
	ImportFunc    = "import"
)

// Native package names resolvable as bare imports
const (
	MathPackageName = "math"
	FsPackageName   = "fs"
	DbPackageName   = "db"
)
