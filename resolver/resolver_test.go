package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdecook/glox/ast"
	"github.com/sdecook/glox/lexer"
	"github.com/sdecook/glox/parser"
)

func resolve(t *testing.T, src string) (map[ast.Expr]int, []error) {
	t.Helper()
	toks, scanErrs := lexer.New([]byte(src)).Scan()
	require.Empty(t, scanErrs)
	stmts, parseErrs := parser.New(toks).Parse()
	require.Empty(t, parseErrs)
	locals, resolveErrs := New().Resolve(stmts)
	errs := make([]error, len(resolveErrs))
	for i, e := range resolveErrs {
		errs[i] = e
	}
	return locals, errs
}

func TestReadOwnInitializerIsResolveError(t *testing.T) {
	_, errs := resolve(t, "{ var x = x; }")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't read local variable in its own initializer.")
}

func TestDuplicateLocalDeclarationIsResolveError(t *testing.T) {
	_, errs := resolve(t, "{ var x = 1; var x = 2; }")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Already a variable with this name in this scope.")
}

func TestGlobalRedeclarationIsAllowed(t *testing.T) {
	_, errs := resolve(t, "var x = 1; var x = 2;")
	assert.Empty(t, errs)
}

func TestReturnAtTopLevelIsResolveError(t *testing.T) {
	_, errs := resolve(t, "return 1;")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't return from top-level code.")
}

func TestReturnValueFromInitializerIsResolveError(t *testing.T) {
	_, errs := resolve(t, `class A { init() { return 1; } }`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't return a value from an initializer.")
}

func TestBareReturnFromInitializerIsAllowed(t *testing.T) {
	_, errs := resolve(t, `class A { init() { return; } }`)
	assert.Empty(t, errs)
}

func TestBreakOutsideLoopIsResolveError(t *testing.T) {
	_, errs := resolve(t, "break;")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't use 'break' outside of a loop.")
}

func TestBreakInsideWhileIsAllowed(t *testing.T) {
	_, errs := resolve(t, "while (true) { break; }")
	assert.Empty(t, errs)
}

func TestThisOutsideClassIsResolveError(t *testing.T) {
	_, errs := resolve(t, "print this;")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't use 'this' outside of a class.")
}

func TestSuperOutsideClassIsResolveError(t *testing.T) {
	_, errs := resolve(t, "print super.x;")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't use 'super' outside of a class.")
}

func TestSuperInClassWithNoSuperclassIsResolveError(t *testing.T) {
	_, errs := resolve(t, `class A { m() { super.m(); } }`)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "Can't use 'super' in a class with no superclass.")
}

func TestSelfInheritanceIsResolveError(t *testing.T) {
	_, errs := resolve(t, "class A < A {}")
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "A class can't inherit from itself.")
}

func TestLocalVariableResolvedAtCorrectDepth(t *testing.T) {
	locals, errs := resolve(t, "{ var x = 1; { print x; } }")
	require.Empty(t, errs)
	require.Len(t, locals, 1)
	for _, depth := range locals {
		assert.Equal(t, 1, depth)
	}
}

func TestGlobalVariableIsNotInLocalsMap(t *testing.T) {
	locals, errs := resolve(t, "var x = 1; print x;")
	require.Empty(t, errs)
	assert.Empty(t, locals, "global references are left unannotated and resolved via Globals")
}
