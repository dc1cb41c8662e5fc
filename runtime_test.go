// runtime_test.go
package spwn

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

// run executes src against a fresh Globals, returning the residual
// stack, the Globals and everything Print wrote.
func run(t *testing.T, src string) ([]ValueKey, *Globals, string) {
	t.Helper()
	g := NewGlobals()
	var out bytes.Buffer
	g.Out = &out
	stack, err := Run(g, NewSource("test", src))
	if err != nil {
		t.Fatalf("Run error: %v\nsource:\n%s", err, src)
	}
	return stack, g, out.String()
}

func runFails(t *testing.T, src string) error {
	t.Helper()
	g := NewGlobals()
	var out bytes.Buffer
	g.Out = &out
	_, err := Run(g, NewSource("test", src))
	if err == nil {
		t.Fatalf("want error, got none\nsource:\n%s", src)
	}
	return err
}

func topInt(t *testing.T, stack []ValueKey, g *Globals, n int64) {
	t.Helper()
	if len(stack) == 0 {
		t.Fatal("stack is empty")
	}
	keyInt(t, g, stack[len(stack)-1], n)
}

func Test_Run_Arithmetic(t *testing.T) {
	stack, g, out := run(t, `1 + 2 * 3;`)
	if out != "" {
		t.Fatalf("unexpected output %q", out)
	}
	if len(stack) != 1 {
		t.Fatalf("stack size %d, want 1", len(stack))
	}
	topInt(t, stack, g, 7)
}

// Unary minus swallows the power, so the result is -(2^2).
func Test_Run_NegatedPower(t *testing.T) {
	stack, g, _ := run(t, `-2 ^ 2;`)
	topInt(t, stack, g, -4)
}

func Test_Run_Variables(t *testing.T) {
	stack, g, _ := run(t, `let x = 10; x + 5;`)
	if len(stack) != 1 {
		t.Fatalf("stack size %d, want 1", len(stack))
	}
	topInt(t, stack, g, 15)
}

func Test_Run_IfElsePrint(t *testing.T) {
	_, _, out := run(t, `if true { print(1); } else { print(2); }`)
	if out != "1\n" {
		t.Fatalf("output %q, want \"1\\n\"", out)
	}
}

func Test_Run_ElseIfChain(t *testing.T) {
	src := `
		let n = 2;
		if n == 1 { print("one"); }
		else if n == 2 { print("two"); }
		else { print("many"); }
	`
	_, _, out := run(t, src)
	if out != "two\n" {
		t.Fatalf("output %q", out)
	}
}

func Test_Run_IndexArray(t *testing.T) {
	stack, g, _ := run(t, `[1, 2, 3][1];`)
	topInt(t, stack, g, 2)
}

func Test_Run_WhileFalse(t *testing.T) {
	stack, _, _ := run(t, `while false { }`)
	if len(stack) != 0 {
		t.Fatalf("stack size %d, want 0", len(stack))
	}
}

func Test_Run_StringOps(t *testing.T) {
	stack, g, _ := run(t, `"ab" * 2 + "c";`)
	v := g.Get(stack[0]).Value
	if v.Tag != VTString || v.Data.(string) != "ababc" {
		t.Fatalf("got %#v", v)
	}
}

func Test_Run_FloatPromotion(t *testing.T) {
	stack, g, _ := run(t, `2.5 * 2;`)
	v := g.Get(stack[0]).Value
	if v.Tag != VTFloat || v.Data.(float64) != 5.0 {
		t.Fatalf("got %#v", v)
	}
}

func Test_Run_ComparisonChain(t *testing.T) {
	stack, g, _ := run(t, `1 < 2 == true;`)
	v := g.Get(stack[0]).Value
	if v.Tag != VTBool || !v.Data.(bool) {
		t.Fatalf("got %#v", v)
	}
}

func Test_Run_PrintArray(t *testing.T) {
	_, _, out := run(t, `print([1, 2] + [3]);`)
	if out != "[1, 2, 3]\n" {
		t.Fatalf("output %q", out)
	}
}

func Test_Run_ShadowingPicksInnermost(t *testing.T) {
	stack, g, _ := run(t, `let x = 1; let x = x + 1; x;`)
	topInt(t, stack, g, 2)
}

func Test_Run_DivisionByZero(t *testing.T) {
	err := runFails(t, `1 / 0;`)
	var dz *DivisionByZeroError
	if !errors.As(err, &dz) {
		t.Fatalf("want DivisionByZeroError, got %T: %v", err, err)
	}
}

func Test_Run_TypeMismatch(t *testing.T) {
	err := runFails(t, `1 + "a";`)
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("want TypeMismatchError, got %T: %v", err, err)
	}
}

func Test_Run_IndexOutOfBounds(t *testing.T) {
	err := runFails(t, `[1][3];`)
	var ie *IndexError
	if !errors.As(err, &ie) {
		t.Fatalf("want IndexError, got %T: %v", err, err)
	}
}

func Test_Run_ForIsReserved(t *testing.T) {
	err := runFails(t, `for i in [1] { i; }`)
	var un *UnimplementedError
	if !errors.As(err, &un) {
		t.Fatalf("want UnimplementedError, got %T: %v", err, err)
	}
	if un.Instruction != "ToIter" {
		t.Fatalf("Instruction: %q", un.Instruction)
	}
}

// --- diagnostics -----------------------------------------------------------

func Test_Run_SyntaxErrorRendering(t *testing.T) {
	src := "let x = 1;\nlet y = ;\nlet z = 3;"
	_, err := CompileSource(NewSource("demo.spwn", src))
	if err == nil {
		t.Fatal("want parse error")
	}
	r := FormatErrorWithSource(err)
	for _, want := range []string{
		"SYNTAX ERROR",
		"demo.spwn",
		"2:9",
		"let y = ;",
		"^",
	} {
		if !strings.Contains(r, want) {
			t.Fatalf("rendering missing %q:\n%s", want, r)
		}
	}
}

func Test_Run_RuntimeErrorHasArea(t *testing.T) {
	err := runFails(t, `let a = 1;
a + "x";`)
	area, ok := ErrorArea(err)
	if !ok {
		t.Fatalf("no area on %T", err)
	}
	if area.Snippet() != `a + "x"` {
		t.Fatalf("area snippet %q", area.Snippet())
	}
	r := FormatErrorWithSource(err)
	if !strings.Contains(r, "RUNTIME ERROR") {
		t.Fatalf("rendering:\n%s", r)
	}
}

func Test_Run_CompileErrorRendering(t *testing.T) {
	err := runFails(t, `missing;`)
	r := FormatErrorWithSource(err)
	if !strings.Contains(r, "COMPILE ERROR") || !strings.Contains(r, "missing") {
		t.Fatalf("rendering:\n%s", r)
	}
}
