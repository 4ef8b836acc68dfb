// Package modules implements the import protocol: path resolution, once-only
// evaluation, export filtering and cycle detection, plus the registry of
// native packages.
package modules

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/roxlang/rox/internal/config"
	"github.com/roxlang/rox/internal/evaluator"
	"github.com/roxlang/rox/internal/lexer"
	"github.com/roxlang/rox/internal/parser"
	"github.com/roxlang/rox/internal/pipeline"
	"github.com/roxlang/rox/internal/resolver"
)

// Loader handles loading modules and their dependencies. It satisfies
// evaluator.ModuleLoader.
type Loader struct {
	Out    io.Writer
	Config *config.Config

	LoadedModules map[string]*evaluator.Module // cache of loaded modules by absolute path
	Processing    map[string]bool              // cycle detection during loading
	loading       []string                     // load stack, for naming cycle participants

	natives map[string]*evaluator.Module
}

func NewLoader(out io.Writer, cfg *config.Config) *Loader {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Loader{
		Out:           out,
		Config:        cfg,
		LoadedModules: make(map[string]*evaluator.Module),
		Processing:    make(map[string]bool),
		natives:       make(map[string]*evaluator.Module),
	}
}

// Load resolves and evaluates an import. Repeated imports of the same
// normalised path return the identical module value.
func (l *Loader) Load(path string, fromDir string) evaluator.Object {
	if native := l.nativePackage(path); native != nil {
		return native
	}

	key, errObj := l.resolvePath(path, fromDir)
	if errObj != nil {
		return errObj
	}

	if mod, ok := l.LoadedModules[key]; ok {
		return mod
	}
	if l.Processing[key] {
		importer := key
		if len(l.loading) > 0 {
			importer = l.loading[len(l.loading)-1]
		}
		return &evaluator.Error{
			Message: fmt.Sprintf("CycleError: import cycle between %s and %s", importer, key),
		}
	}

	l.Processing[key] = true
	l.loading = append(l.loading, key)
	defer func() {
		delete(l.Processing, key)
		l.loading = l.loading[:len(l.loading)-1]
	}()

	mod, errObj := l.evaluateModule(key)
	if errObj != nil {
		return errObj
	}
	l.LoadedModules[key] = mod
	return mod
}

// resolvePath normalises an import path to an absolute file key. Paths
// starting with ./ or ../ resolve against the importing file's directory
// only; other relative paths try that directory, then the configured module
// paths; absolute paths are used as-is.
func (l *Loader) resolvePath(path string, fromDir string) (string, *evaluator.Error) {
	if !config.HasSourceExt(path) {
		return "", &evaluator.Error{
			Message: fmt.Sprintf("IOError: module path %q must end in %s", path, config.SourceFileExt),
		}
	}

	var candidates []string
	switch {
	case filepath.IsAbs(path):
		candidates = []string{path}
	case strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../"):
		candidates = []string{filepath.Join(fromDir, path)}
	default:
		candidates = []string{filepath.Join(fromDir, path)}
		for _, root := range l.Config.ModulePaths {
			candidates = append(candidates, filepath.Join(root, path))
		}
	}

	for _, candidate := range candidates {
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, err := os.Stat(abs); err == nil {
			return abs, nil
		}
	}
	return "", &evaluator.Error{
		Message: fmt.Sprintf("IOError: cannot resolve module %q", path),
	}
}

// evaluateModule parses, resolves and evaluates one file in a fresh
// environment rooted at its own copy of the native globals. Only the export
// map escapes.
func (l *Loader) evaluateModule(key string) (*evaluator.Module, *evaluator.Error) {
	source, err := os.ReadFile(key)
	if err != nil {
		return nil, &evaluator.Error{Message: fmt.Sprintf("IOError: %v", err)}
	}

	ctx := &pipeline.Context{Path: key, SourceCode: string(source)}
	ctx = pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
		&resolver.Processor{},
	).Run(ctx)
	if ctx.HasErrors() {
		return nil, &evaluator.Error{
			Message: fmt.Sprintf("module %s failed to load: %s", key, ctx.Errors[0].Error()),
		}
	}

	ev := evaluator.New()
	ev.Out = l.Out
	ev.Loader = l
	ev.Locals = ctx.Locals
	ev.CurrentFile = key
	ev.MaxDepth = l.Config.MaxRecursionDepth

	result := ev.EvalProgram(ctx.Program)
	if errObj, ok := result.(*evaluator.Error); ok {
		return nil, errObj
	}

	// Export values materialise after top-level evaluation completes, so a
	// later reassignment of an exported name is visible to importers.
	exports := make(map[string]evaluator.Object, len(ev.ExportNames))
	for _, name := range ev.ExportNames {
		if val, ok := ev.Globals.Get(name); ok {
			exports[name] = val
		}
	}

	return &evaluator.Module{
		Name:    config.TrimSourceExt(filepath.Base(key)),
		Path:    key,
		Exports: exports,
	}, nil
}

// nativePackage returns the built-in module for a bare name, constructing it
// on first use.
func (l *Loader) nativePackage(name string) *evaluator.Module {
	if mod, ok := l.natives[name]; ok {
		return mod
	}
	var exports map[string]evaluator.Object
	switch name {
	case config.MathPackageName:
		exports = evaluator.MathExports()
	case config.FsPackageName:
		exports = evaluator.FsExports()
	case config.DbPackageName:
		exports = evaluator.DbExports()
	default:
		return nil
	}
	mod := &evaluator.Module{Name: name, Path: "native:" + name, Exports: exports}
	l.natives[name] = mod
	return mod
}
