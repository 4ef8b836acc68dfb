package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/roxlang/rox/pkg/cli"
)

func writeScript(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFileExitCodes(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		code   int
	}{
		{"success", `print 1 + 1;`, cli.ExitOK},
		{"parse_error", `var = ;`, cli.ExitUsage},
		{"resolve_error", `fun f() { return this; }`, cli.ExitUsage},
		{"runtime_error", `print 1 / 0;`, cli.ExitRuntime},
		{"uncaught_throw", `throw "boom";`, cli.ExitRuntime},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeScript(t, "prog.rox", tc.source)
			var out, errOut bytes.Buffer
			code := cli.RunFile(path, &out, &errOut)
			if code != tc.code {
				t.Fatalf("expected exit %d, got %d (stderr: %s)", tc.code, code, errOut.String())
			}
		})
	}
}

func TestRunFileMissingAndBadExtension(t *testing.T) {
	var out, errOut bytes.Buffer
	if code := cli.RunFile("no/such/file.rox", &out, &errOut); code != cli.ExitIO {
		t.Errorf("missing file: expected %d, got %d", cli.ExitIO, code)
	}
	path := writeScript(t, "prog.txt", `print 1;`)
	if code := cli.RunFile(path, &out, &errOut); code != cli.ExitIO {
		t.Errorf("bad extension: expected %d, got %d", cli.ExitIO, code)
	}
}

func TestRunFileWithImports(t *testing.T) {
	dir := t.TempDir()
	lib := filepath.Join(dir, "lib.rox")
	if err := os.WriteFile(lib, []byte(`export fun triple(x) { return x * 3; }`), 0o644); err != nil {
		t.Fatal(err)
	}
	main := filepath.Join(dir, "main.rox")
	if err := os.WriteFile(main, []byte(`
var lib = import("./lib.rox");
var math = import("math");
print lib.triple(5);
print math.floor(2.9);
`), 0o644); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	if code := cli.RunFile(main, &out, &errOut); code != cli.ExitOK {
		t.Fatalf("exit %d, stderr: %s", code, errOut.String())
	}
	if out.String() != "15\n2\n" {
		t.Fatalf("output: %q", out.String())
	}
}

func TestScriptOutputSnapshot(t *testing.T) {
	source := `
class Animal {
  init(name) { this.name = name; }
  speak() { return this.name + " makes a sound"; }
}
class Dog < Animal {
  speak() { return super.speak() + ": woof"; }
}
print Dog("rex").speak();

var squares = [1, 2, 3, 4].map(fun(x) { return x * x; });
print squares;
print squares.filter(fun(x) { return x > 5; });

var d = {"lang": "rox", "year": 2024};
print d.keys().join(", ");

var total = 0;
for (var i = 0; i < 10; i += 1) {
  if (i % 2 == 0) continue;
  total += i;
}
print total;

try { throw "expected failure"; } catch (e) { print "caught: " + e; }
`
	path := writeScript(t, "snapshot.rox", source)
	var out, errOut bytes.Buffer
	if code := cli.RunFile(path, &out, &errOut); code != cli.ExitOK {
		t.Fatalf("exit %d, stderr: %s", code, errOut.String())
	}
	snaps.MatchSnapshot(t, out.String())
}

func TestREPLEvaluatesAndPrints(t *testing.T) {
	input := strings.NewReader(`var x = 20;
x + 22;
print "side effect";
var y = "quiet";
`)
	var out, errOut bytes.Buffer
	if code := cli.RunREPL(input, &out, &errOut); code != cli.ExitOK {
		t.Fatalf("repl exit %d", code)
	}
	got := out.String()
	if !strings.Contains(got, "42") {
		t.Errorf("bare expression result not printed: %q", got)
	}
	if !strings.Contains(got, "side effect") {
		t.Errorf("print output missing: %q", got)
	}
}

func TestREPLSurvivesErrors(t *testing.T) {
	input := strings.NewReader(`print missing;
var ok = 1;
ok + 1;
`)
	var out, errOut bytes.Buffer
	cli.RunREPL(input, &out, &errOut)
	if !strings.Contains(errOut.String(), "UndefinedVariable") {
		t.Errorf("expected the first error reported: %q", errOut.String())
	}
	if !strings.Contains(out.String(), "2") {
		t.Errorf("session should continue after an error: %q", out.String())
	}
}

func TestREPLMultilineInput(t *testing.T) {
	input := strings.NewReader(`fun add(a, b) {
  return a + b;
}
add(40, 2);
`)
	var out, errOut bytes.Buffer
	cli.RunREPL(input, &out, &errOut)
	if !strings.Contains(out.String(), "42") {
		t.Errorf("multiline function definition failed: out=%q err=%q", out.String(), errOut.String())
	}
}

func TestREPLStatePersistsAcrossInputs(t *testing.T) {
	input := strings.NewReader(`var counter = 0;
fun bump() { counter += 1; return counter; }
bump();
bump();
counter;
`)
	var out, errOut bytes.Buffer
	cli.RunREPL(input, &out, &errOut)
	lines := strings.Fields(out.String())
	if len(lines) == 0 || lines[len(lines)-1] != "2" {
		t.Errorf("expected final counter 2, got %q", out.String())
	}
}
