package interp

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/you-not-fish/lox/internal/resolve"
	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

// ----------------------------------------------------------------------------
// Test helpers

// newTestInterp returns an interpreter writing to a buffer.
func newTestInterp(opts ...Option) (*Interpreter, *bytes.Buffer) {
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out)}, opts...)
	return New(opts...), &out
}

// exec parses, resolves and runs src on i. Syntax and static errors fail
// the test; runtime errors are returned.
func exec(t *testing.T, i *Interpreter, src string) error {
	t.Helper()

	var errs syntax.ErrorList
	stmts := syntax.NewParser("test.lox", strings.NewReader(src), errs.Add).Parse()
	if err := errs.Err(); err != nil {
		t.Fatalf("unexpected syntax error: %v", err)
	}
	info := &resolve.Info{}
	if err := resolve.Resolve(stmts, nil, info); err != nil {
		t.Fatalf("unexpected static error: %v", err)
	}
	i.Resolve(info)
	return i.Interpret(stmts)
}

// runOutput runs src in a fresh interpreter and returns its output lines.
func runOutput(t *testing.T, src string) ([]string, error) {
	t.Helper()
	i, out := newTestInterp()
	err := exec(t, i, src)
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil, err
	}
	return strings.Split(text, "\n"), err
}

func expectOutput(t *testing.T, src string, want ...string) {
	t.Helper()
	got, err := runOutput(t, src)
	if err != nil {
		t.Fatalf("unexpected runtime error: %v", err)
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("output:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

// expectRuntimeError checks that src fails with msg on line after
// printing want.
func expectRuntimeError(t *testing.T, src, msg string, line int, want ...string) {
	t.Helper()
	got, err := runOutput(t, src)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) {
		t.Fatalf("error = %v, want a *RuntimeError", err)
	}
	if rerr.Msg != msg || rerr.Line() != line {
		t.Errorf("runtime error = %q on line %d, want %q on line %d", rerr.Msg, rerr.Line(), msg, line)
	}
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("output before error:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

// ----------------------------------------------------------------------------
// Values and operators

func TestTruthiness(t *testing.T) {
	expectOutput(t, `
print !nil;
print !false;
print !true;
print !0;
print !"";
if (0) print "zero is true";
if ("") print "empty is true";
if (nil) print "unreachable"; else print "nil is false";
`, "true", "true", "false", "false", "false", "zero is true", "empty is true", "nil is false")
}

func TestEquality(t *testing.T) {
	expectOutput(t, `
print nil == nil;
print nil == false;
print 1 == 1.0;
print 1 == "1";
print "a" == "a";
print "a" != "b";
print true == 1;
fun f() {}
print f == f;
print f == nil;
`, "true", "false", "true", "false", "true", "true", "false", "true", "false")
}

func TestArithmetic(t *testing.T) {
	expectOutput(t, `
print 1 + 2;
print 10 - 4 * 2;
print 10 / 4;
print -(3);
print 3.0;
print 2 > 1;
print 2 >= 2;
print 1 < 1;
print 1 <= 1;
print "a" + "b";
print "a" + 1;
print 1 + "a";
print "n" + nil;
print true + "!";
`, "3", "2", "2.5", "-3", "3", "true", "true", "false", "true", "ab", "a1", "1a", "nnil", "true!")
}

func TestOperatorErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"string_minus_number", `"a" - 1;`, "Operands must be numbers."},
		{"number_minus_string", `1 - "a";`, "Operands must be numbers."},
		{"compare_strings", `"a" < "b";`, "Operands must be numbers."},
		{"divide_nil", `1 / nil;`, "Operands must be numbers."},
		{"negate_string", `-"a";`, "Operand must be a number."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectRuntimeError(t, tt.src, tt.msg, 1)
		})
	}
}

func TestRuntimeErrorFormat(t *testing.T) {
	_, err := runOutput(t, "print 1;\nprint -nil;")
	if err == nil || err.Error() != "Operand must be a number.\n[line 2]" {
		t.Errorf("error = %q", err)
	}
}

func TestLogicalShortCircuit(t *testing.T) {
	// undefined is never evaluated.
	expectOutput(t, `
print nil or "b";
print "a" or undefined;
print nil and undefined;
print 1 and 2;
print false or false;
`, "b", "a", "nil", "2", "false")
}

// ----------------------------------------------------------------------------
// Variables and scope

func TestScoping(t *testing.T) {
	expectOutput(t, "var a = 1; { var a = 2; print a; } print a;", "2", "1")
}

func TestNestedScopes(t *testing.T) {
	expectOutput(t, `
var a = "global a";
var b = "global b";
{
  var a = "outer a";
  {
    var a = "inner a";
    print a;
    print b;
    b = "changed b";
  }
  print a;
}
print a;
print b;
`, "inner a", "global b", "outer a", "global a", "changed b")
}

func TestVariableDefaults(t *testing.T) {
	expectOutput(t, "var a; print a; var a = 2; print a;", "nil", "2")
}

func TestAssignmentIsExpression(t *testing.T) {
	expectOutput(t, "var a; var b; a = b = 3; print a; print b; print a = 4;", "3", "3", "4")
}

func TestUndefinedVariable(t *testing.T) {
	expectRuntimeError(t, "print 1;\nprint x;", "Undefined variable 'x'.", 2, "1")
	expectRuntimeError(t, "y = 1;", "Undefined variable 'y'.", 1)
	expectRuntimeError(t, "{ z = 1; }", "Undefined variable 'z'.", 1)
}

func TestForwardGlobalReference(t *testing.T) {
	expectOutput(t, `
fun f() { return g() + later; }
fun g() { return 1; }
var later = 2;
print f();
`, "3")
}

func TestResolvedClosureScope(t *testing.T) {
	expectOutput(t, `
var a = "global";
{
  fun showA() { print a; }
  showA();
  var a = "block";
  showA();
}
`, "global", "global")
}

// ----------------------------------------------------------------------------
// Control flow

func TestIfElse(t *testing.T) {
	expectOutput(t, `
if (true) print "then"; else print "else";
if (false) print "then"; else print "else";
if (false) print "skipped";
if (true) if (false) print "a"; else print "b";
`, "then", "else", "b")
}

func TestWhile(t *testing.T) {
	expectOutput(t, "var i = 0; while (i < 3) { print i; i = i + 1; }", "0", "1", "2")
}

func TestFor(t *testing.T) {
	expectOutput(t, "for (var i = 0; i < 3; i = i + 1) print i;", "0", "1", "2")
	expectOutput(t, "var i = 10; for (; i > 8;) i = i - 1; print i;", "8")
}

func TestForLoopVariableIsScoped(t *testing.T) {
	expectRuntimeError(t, "for (var i = 0; i < 1; i = i + 1) {} print i;", "Undefined variable 'i'.", 1)
}

// ----------------------------------------------------------------------------
// Functions

func TestFunctions(t *testing.T) {
	expectOutput(t, `
fun add(a, b) { return a + b; }
print add(1, 2);
fun noReturn() { 1; }
print noReturn();
fun bare() { return; }
print bare();
print add;
print clock;
`, "3", "nil", "nil", "<fn add>", "<native fn>")
}

func TestReturnUnwinds(t *testing.T) {
	expectOutput(t, `
fun find() {
  var i = 0;
  while (true) {
    {
      if (i == 3) return i;
    }
    i = i + 1;
  }
  print "unreachable";
}
print find();
`, "3")
}

func TestRecursion(t *testing.T) {
	expectOutput(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(15);
`, "610")
}

func TestClosures(t *testing.T) {
	expectOutput(t, `
fun makeCounter() {
  var i = 0;
  fun counter() { i = i + 1; return i; }
  return counter;
}
var c = makeCounter();
print c();
print c();
var d = makeCounter();
print d();
print c();
`, "1", "2", "1", "3")
}

func TestArityMismatch(t *testing.T) {
	expectRuntimeError(t, "fun f(a, b) {}\nf(1);", "Expected 2 arguments but got 1.", 2)
	expectRuntimeError(t, "clock(1);", "Expected 0 arguments but got 1.", 1)
}

func TestCallNonCallable(t *testing.T) {
	expectRuntimeError(t, `"a"();`, "Can only call functions and classes.", 1)
	expectRuntimeError(t, "var x; x();", "Can only call functions and classes.", 1)
}

func TestStackOverflow(t *testing.T) {
	expectRuntimeError(t, "fun f() { f(); }\nf();", "Stack overflow.", 1)

	i, _ := newTestInterp(WithMaxDepth(3))
	err := exec(t, i, `
fun down(n) { if (n > 0) down(n - 1); }
down(2);
down(3);
`)
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Msg != "Stack overflow." || rerr.Line() != 2 {
		t.Errorf("error = %v, want stack overflow in down", err)
	}
}

func TestMaxDepthIsCapped(t *testing.T) {
	i, _ := newTestInterp(WithMaxDepth(100_000_000))
	if i.maxDepth != MaxDepthLimit {
		t.Fatalf("maxDepth = %d, want %d", i.maxDepth, MaxDepthLimit)
	}
	err := exec(t, i, "fun f() { f(); }\nf();")
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Msg != "Stack overflow." {
		t.Errorf("error = %v, want stack overflow", err)
	}

	i, _ = newTestInterp(WithMaxDepth(0))
	if i.maxDepth != DefaultMaxDepth {
		t.Errorf("maxDepth = %d, want default %d", i.maxDepth, DefaultMaxDepth)
	}
}

// ----------------------------------------------------------------------------
// Classes

func TestClassesAndInstances(t *testing.T) {
	expectOutput(t, `
class A {}
print A;
var a = A();
print a;
a.x = 5;
print a.x;
a.x = "again";
print a.x;
`, "A", "A instance", "5", "again")
}

func TestUndefinedProperty(t *testing.T) {
	expectRuntimeError(t, "class A {}\nvar a = A();\nprint a.y;", "Undefined property 'y'.", 3)
}

func TestPropertyOnNonInstance(t *testing.T) {
	expectRuntimeError(t, "var x = 1;\nx.y;", "Only instances have properties.", 2)
	expectRuntimeError(t, "var x = 1;\nx.y = 2;", "Only instances have fields.", 2)
	expectRuntimeError(t, "class A {}\nA.y;", "Only instances have properties.", 2)
}

func TestInitializer(t *testing.T) {
	expectOutput(t, `
class P {
  init(x) { this.x = x; }
  get() { return this.x; }
}
print P(7).get();
var p = P(1);
print p.init(2) == p;
print p.x;
`, "7", "true", "2")
}

func TestInitializerArity(t *testing.T) {
	expectRuntimeError(t, "class P { init(x) {} }\nP();", "Expected 1 arguments but got 0.", 2)
	expectRuntimeError(t, "class E {}\nE(1);", "Expected 0 arguments but got 1.", 2)
}

func TestEarlyReturnInInitializer(t *testing.T) {
	expectOutput(t, `
class C {
  init(flag) {
    this.v = 1;
    if (flag) return;
    this.v = 2;
  }
}
print C(true).v;
print C(false).v;
`, "1", "2")
}

func TestBoundMethods(t *testing.T) {
	expectOutput(t, `
class C {
  init(n) { this.n = n; }
  get() { return this.n; }
}
var m = C(3).get;
var other = C(4);
other.m = m;
print m();
print other.m();
print m;
`, "3", "3", "<fn get>")
}

func TestThisInClosure(t *testing.T) {
	expectOutput(t, `
class Thing {
  getCallback() {
    fun localFunction() { print this.name; }
    return localFunction;
  }
}
var t = Thing();
t.name = "thing";
t.getCallback()();
`, "thing")
}

func TestClassReferencesItself(t *testing.T) {
	expectOutput(t, `
class K {
  make() { return K(); }
}
print K().make();
`, "K instance")
}

func TestFieldsShadowMethods(t *testing.T) {
	expectOutput(t, `
class A { m() { return "method"; } }
var a = A();
print a.m();
a.m = "field";
print a.m;
`, "method", "field")
}

// ----------------------------------------------------------------------------
// Embedding

func TestStatePersistsAcrossRuns(t *testing.T) {
	i, out := newTestInterp()
	if err := exec(t, i, "var n = 1; fun inc(by) { var local = by; n = n + local; return n; }"); err != nil {
		t.Fatal(err)
	}
	if err := exec(t, i, "print inc(2);"); err != nil {
		t.Fatal(err)
	}
	if err := exec(t, i, "print missing;"); err == nil {
		t.Fatal("expected a runtime error")
	}
	if err := exec(t, i, "print inc(3);"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "3\n6\n" {
		t.Errorf("output = %q", got)
	}
}

func TestScopeRestoredAfterError(t *testing.T) {
	i, out := newTestInterp()
	exec(t, i, "var a = 1;")
	if err := exec(t, i, "{ var a = 2; print nope; }"); err == nil {
		t.Fatal("expected a runtime error")
	}
	if err := exec(t, i, "print a;"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "1\n" {
		t.Errorf("output = %q, want global a", got)
	}
}

func TestDefineHostValues(t *testing.T) {
	i, out := newTestInterp(WithNatives())
	i.Define("answer", runtime.NumberValue{Val: 42})
	i.Define("twice", &runtime.Native{
		Name:   "twice",
		Params: 1,
		Impl: func(_ runtime.Caller, args []runtime.Value) (runtime.Value, error) {
			n, ok := args[0].(runtime.NumberValue)
			if !ok {
				return nil, errors.New("twice wants a number")
			}
			return runtime.NumberValue{Val: n.Val * 2}, nil
		},
	})

	if err := exec(t, i, "print twice(answer);"); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "84\n" {
		t.Errorf("output = %q", got)
	}

	err := exec(t, i, "twice(\"x\");")
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Msg != "twice wants a number" {
		t.Errorf("native error = %v", err)
	}

	if err := exec(t, i, "clock();"); err == nil {
		t.Error("clock installed despite WithNatives()")
	}
	if got := strings.Join(i.Globals().Keys(), ","); got != "answer,twice" {
		t.Errorf("globals = %s", got)
	}
}

func TestBuiltins(t *testing.T) {
	names := BuiltinNames()
	if len(names) != 1 || names[0] != "clock" {
		t.Errorf("BuiltinNames() = %v", names)
	}
	if _, ok := Builtin("nope"); ok {
		t.Error("Builtin(nope) found")
	}

	expectOutput(t, "var t = clock(); print t > 0; print clock() >= t;", "true", "true")

	i, _ := newTestInterp()
	if got := strings.Join(i.Globals().Keys(), ","); got != "clock" {
		t.Errorf("default globals = %s", got)
	}
}

func TestTraceLogging(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	i, _ := newTestInterp(WithLogger(logger))

	if err := exec(t, i, "fun f(a) { return a; } class C {} f(1); C(); clock();"); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`"msg":"Function call"`,
		`"function":"f"`,
		`"msg":"Instantiate class"`,
		`"msg":"Native call"`,
		`"msg":"push scope"`,
	} {
		if !strings.Contains(logs.String(), want) {
			t.Errorf("trace missing %s:\n%s", want, logs.String())
		}
	}
}
