package interp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/glox/lexer"
	"github.com/sdecook/glox/parser"
	"github.com/sdecook/glox/resolver"
)

// runSource drives the full scan/parse/resolve/evaluate pipeline for one
// source string against a fresh interpreter, returning whatever was
// written to stdout.
func runSource(t *testing.T, src string) (string, error) {
	t.Helper()
	toks, scanErrs := lexer.New([]byte(src)).Scan()
	require.Empty(t, scanErrs)

	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)

	locals, resolveErrs := resolver.New().Resolve(stmts)
	require.Empty(t, resolveErrs)

	var out bytes.Buffer
	it := NewWithOutput(&out)
	it.SetLocals(locals)
	err := it.Run(stmts)
	return out.String(), err
}

func TestEndToEndArithmeticPrint(t *testing.T) {
	out, err := runSource(t, "print 1 + 2;")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestEndToEndStringConcatenation(t *testing.T) {
	out, err := runSource(t, `var a = "hello"; var b = "world"; print a + " " + b;`)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", out)
}

func TestEndToEndClosureCounter(t *testing.T) {
	out, err := runSource(t, `
		fun makeCounter() {
			var i = 0;
			fun c() { i = i + 1; return i; }
			return c;
		}
		var c = makeCounter();
		print c();
		print c();
		print c();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestEndToEndMethodCall(t *testing.T) {
	out, err := runSource(t, `
		class Bacon {
			eat() { print "Crunch crunch crunch!"; }
		}
		Bacon().eat();
	`)
	require.NoError(t, err)
	assert.Equal(t, "Crunch crunch crunch!\n", out)
}

func TestEndToEndSuperDispatch(t *testing.T) {
	out, err := runSource(t, `
		class A { method() { print "A"; } }
		class B < A {
			method() { print "B"; }
			test() { super.method(); }
		}
		B().test();
	`)
	require.NoError(t, err)
	assert.Equal(t, "A\n", out)
}

func TestEndToEndForLoop(t *testing.T) {
	out, err := runSource(t, "for (var i = 0; i < 3; i = i + 1) print i;")
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestIndependentClosuresDoNotShareState(t *testing.T) {
	out, err := runSource(t, `
		fun makeCounter() {
			var i = 0;
			fun c() { i = i + 1; return i; }
			return c;
		}
		var a = makeCounter();
		var b = makeCounter();
		print a();
		print a();
		print b();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n1\n", out)
}

func TestClassInitializerImplicitlyReturnsThis(t *testing.T) {
	out, err := runSource(t, `
		class Point {
			init(x, y) { this.x = x; this.y = y; }
		}
		var p = Point(1, 2);
		print p.x;
		print p.y;
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n", out)
}

func TestFibonacciRecursion(t *testing.T) {
	out, err := runSource(t, `
		fun fib(n) {
			if (n < 2) return n;
			return fib(n - 1) + fib(n - 2);
		}
		print fib(10);
	`)
	require.NoError(t, err)
	assert.Equal(t, "55\n", out)
}

func TestBreakExitsNearestLoopOnly(t *testing.T) {
	out, err := runSource(t, `
		for (var i = 0; i < 3; i = i + 1) {
			for (var j = 0; j < 3; j = j + 1) {
				if (j == 1) break;
				print j;
			}
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n0\n0\n1\n0\n2\n", out)
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	_, err := runSource(t, "print undefined_name;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable 'undefined_name'.")
}

func TestCallingNonCallableIsRuntimeError(t *testing.T) {
	_, err := runSource(t, `var x = 1; x();`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes.")
}

func TestWrongArityIsRuntimeError(t *testing.T) {
	_, err := runSource(t, `fun f(a, b) { return a + b; } f(1);`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestFieldAccessOnNonInstanceIsRuntimeError(t *testing.T) {
	_, err := runSource(t, `var x = 1; print x.y;`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only instances have properties.")
}

func TestReassignmentChaining(t *testing.T) {
	out, err := runSource(t, `
		var a = 0;
		var b = 0;
		a = b = 1;
		print a;
		print b;
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n1\n", out)
}

func TestNumberPrintingOmitsTrailingZero(t *testing.T) {
	out, err := runSource(t, `print 3.0; print 3.5;`)
	require.NoError(t, err)
	assert.Equal(t, "3\n3.5\n", out)
}

func TestClockNativeIsCallableWithZeroArgs(t *testing.T) {
	out, err := runSource(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}
