// Package cli hosts the interpreter entry points: script execution and the
// REPL. Diagnostic rendering lives here, at the edge; the core only produces
// structured records.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/roxlang/rox/internal/ast"
	"github.com/roxlang/rox/internal/config"
	"github.com/roxlang/rox/internal/diagnostics"
	"github.com/roxlang/rox/internal/evaluator"
	"github.com/roxlang/rox/internal/lexer"
	"github.com/roxlang/rox/internal/modules"
	"github.com/roxlang/rox/internal/parser"
	"github.com/roxlang/rox/internal/pipeline"
	"github.com/roxlang/rox/internal/resolver"
)

// Exit codes follow the sysexits convention.
const (
	ExitOK      = 0
	ExitUsage   = 65 // parse or resolve errors
	ExitRuntime = 70 // uncaught runtime error
	ExitIO      = 74 // unreadable input
)

// RunFile loads and evaluates a script and returns the process exit code.
func RunFile(path string, out, errOut io.Writer) int {
	if !config.HasSourceExt(path) {
		reportIOError(errOut, path, diagnostics.ErrI002, "source files must end in %s", config.SourceFileExt)
		return ExitIO
	}
	source, err := os.ReadFile(path)
	if err != nil {
		reportIOError(errOut, path, diagnostics.ErrI001, "%v", err)
		return ExitIO
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	cfg, err := config.Load(filepath.Dir(abs))
	if err != nil {
		reportIOError(errOut, path, diagnostics.ErrI003, "%v", err)
		return ExitIO
	}

	ctx := &pipeline.Context{Path: abs, SourceCode: string(source)}
	ctx = pipeline.New(
		&lexer.Processor{},
		&parser.Processor{},
		&resolver.Processor{},
	).Run(ctx)
	if ctx.HasErrors() {
		renderDiagnostics(errOut, ctx)
		return ExitUsage
	}

	ev := evaluator.New()
	ev.Out = out
	ev.Loader = modules.NewLoader(out, cfg)
	ev.Locals = ctx.Locals
	ev.CurrentFile = abs
	ev.MaxDepth = cfg.MaxRecursionDepth

	result := ev.EvalProgram(ctx.Program)
	if errObj, ok := result.(*evaluator.Error); ok {
		fmt.Fprintf(errOut, "runtime error: %s\n", errObj.Inspect())
		return ExitRuntime
	}
	return ExitOK
}

func renderDiagnostics(errOut io.Writer, ctx *pipeline.Context) {
	for _, d := range ctx.Errors {
		fmt.Fprintln(errOut, d.Error())
	}
}

func reportIOError(errOut io.Writer, path string, code diagnostics.Code, format string, args ...interface{}) {
	d := diagnostics.NewErrorAt(code, 0, 0, format, args...)
	d.Path = path
	fmt.Fprintln(errOut, d.Error())
}

// RunREPL reads statements from in until EOF. Bare expression statements
// print their value. Errors abort the current input, never the session.
func RunREPL(in io.Reader, out, errOut io.Writer) int {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if interactive {
		fmt.Fprintf(out, "rox %s (type ctrl-d to exit)\n", config.Version)
	}

	cfg, err := config.Load(".")
	if err != nil {
		cfg = config.Default()
	}

	ev := evaluator.New()
	ev.Out = out
	ev.Loader = modules.NewLoader(out, cfg)
	ev.MaxDepth = cfg.MaxRecursionDepth

	parserStage := &parser.Processor{}
	scanner := bufio.NewScanner(in)
	var buffer strings.Builder

	prompt := func() {
		if !interactive {
			return
		}
		if buffer.Len() > 0 {
			fmt.Fprint(out, ".. ")
		} else {
			fmt.Fprint(out, "> ")
		}
	}

	prompt()
	for scanner.Scan() {
		line := scanner.Text()
		buffer.WriteString(line)
		buffer.WriteString("\n")

		if openDelimiters(buffer.String()) > 0 {
			prompt()
			continue
		}

		source := strings.TrimSpace(buffer.String())
		buffer.Reset()
		if source == "" {
			prompt()
			continue
		}
		if !strings.HasSuffix(source, ";") && !strings.HasSuffix(source, "}") {
			source += ";"
		}

		evalREPLInput(ev, parserStage, source, out, errOut)
		prompt()
	}
	if interactive {
		fmt.Fprintln(out)
	}
	return ExitOK
}

// evalREPLInput runs one complete input through the pipeline against the
// session's persistent globals.
func evalREPLInput(ev *evaluator.Evaluator, parserStage *parser.Processor, source string, out, errOut io.Writer) {
	ctx := &pipeline.Context{Path: "", SourceCode: source}
	ctx = pipeline.New(
		&lexer.Processor{},
		parserStage,
		&resolver.Processor{},
	).Run(ctx)
	if ctx.HasErrors() {
		renderDiagnostics(errOut, ctx)
		return
	}

	// Expression ids stay unique across inputs; merge the new depths in.
	for id, depth := range ctx.Locals {
		ev.Locals[id] = depth
	}

	for _, stmt := range ctx.Program.Statements {
		result := ev.Eval(stmt, ev.Globals)
		if errObj, ok := result.(*evaluator.Error); ok {
			fmt.Fprintf(errOut, "runtime error: %s\n", errObj.Inspect())
			return
		}
		if sig, ok := result.(*evaluator.ThrowSignal); ok {
			fmt.Fprintf(errOut, "runtime error: uncaught exception: %s\n", evaluator.Stringify(sig.Value))
			return
		}
		if _, bare := stmt.(*ast.ExpressionStatement); bare {
			if result != nil && result.Type() != evaluator.NIL_OBJ {
				fmt.Fprintln(out, result.Inspect())
			}
		}
	}
}

// openDelimiters counts unclosed braces, brackets and parens outside strings
// and comments, to decide whether the REPL input is complete.
func openDelimiters(source string) int {
	depth := 0
	inString := false
	escaped := false
	inComment := false
	var prev rune
	for _, ch := range source {
		switch {
		case inComment:
			if ch == '\n' {
				inComment = false
			}
		case inString:
			if escaped {
				escaped = false
			} else if ch == '\\' {
				escaped = true
			} else if ch == '"' {
				inString = false
			}
		default:
			switch ch {
			case '"':
				inString = true
			case '/':
				if prev == '/' {
					inComment = true
				}
			case '{', '(', '[':
				depth++
			case '}', ')', ']':
				depth--
			}
		}
		prev = ch
	}
	return depth
}
