// Package resolver implements the static variable-resolution pass: a
// single AST walk that annotates every local variable/this/super
// reference with the number of enclosing scopes to walk at evaluation
// time, and that diagnoses the compile-time errors spec.md §4.3
// requires (read-before-define, return/this/super/break misuse,
// duplicate local declarations).
//
// Grounded on sam-decook-lox/codecrafters/cmd/resolver.go; the scopes
// stack, FunctionType/ClassType context enums, and the
// map[ast.Expr]int locals table are carried over directly. The
// teacher's version calls os.Exit(65) from inside resolve methods; this
// version accumulates *loxerr.Signal values instead and lets the driver
// decide, matching spec.md §4.3's "errors accumulate... resolution may
// continue" requirement (and the parser's matching panic-mode design).
package resolver

import (
	"github.com/sdecook/glox/ast"
	"github.com/sdecook/glox/loxerr"
	"github.com/sdecook/glox/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnInitializer
	fnMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Resolver walks a parsed program once, before evaluation.
type Resolver struct {
	locals  map[ast.Expr]int
	scopes  []map[string]bool
	fnType  functionType
	clsType classType
	inLoop  bool
	errors  []*loxerr.Signal
}

// New creates a Resolver ready to walk a program.
func New() *Resolver {
	return &Resolver{locals: make(map[ast.Expr]int)}
}

// Resolve walks every statement in program, returning the scope-depth
// map (keyed on ast.Expr pointer identity, per spec.md §9) and any
// accumulated resolve errors.
func (r *Resolver) Resolve(program []ast.Stmt) (map[ast.Expr]int, []*loxerr.Signal) {
	for _, stmt := range program {
		r.resolveStmt(stmt)
	}
	return r.locals, r.errors
}

func (r *Resolver) errAt(tok token.Token, msg string) {
	r.errors = append(r.errors, loxerr.NewResolveError(tok, msg))
}

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, make(map[string]bool)) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *Resolver) declare(tok token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[tok.Lexeme]; ok {
		r.errAt(tok, "Already a variable with this name in this scope.")
	}
	scope[tok.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
	// Not found in any local scope: it's a global, left unannotated.
}

func (r *Resolver) resolveFunction(fn *ast.Function, typ functionType) {
	enclosingFn := r.fnType
	r.fnType = typ

	r.beginScope()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param.Lexeme)
	}
	for _, stmt := range fn.Body {
		r.resolveStmt(stmt)
	}
	r.endScope()

	r.fnType = enclosingFn
}

// ---- Statements ----

func (r *Resolver) resolveStmt(s ast.Stmt) { _ = s.Accept(r) }

func (r *Resolver) VisitExpression(s *ast.Expression) error {
	r.resolveExpr(s.Expression)
	return nil
}

func (r *Resolver) VisitPrint(s *ast.Print) error {
	r.resolveExpr(s.Expression)
	return nil
}

func (r *Resolver) VisitVar(s *ast.Var) error {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name.Lexeme)
	return nil
}

func (r *Resolver) VisitBlock(s *ast.Block) error {
	r.beginScope()
	for _, stmt := range s.Statements {
		r.resolveStmt(stmt)
	}
	r.endScope()
	return nil
}

func (r *Resolver) VisitIf(s *ast.If) error {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Then)
	if s.Else != nil {
		r.resolveStmt(s.Else)
	}
	return nil
}

func (r *Resolver) VisitWhile(s *ast.While) error {
	r.resolveExpr(s.Condition)
	enclosingLoop := r.inLoop
	r.inLoop = true
	r.resolveStmt(s.Body)
	r.inLoop = enclosingLoop
	return nil
}

func (r *Resolver) VisitBreak(s *ast.Break) error {
	if !r.inLoop {
		r.errAt(s.Keyword, "Can't use 'break' outside of a loop.")
	}
	return nil
}

func (r *Resolver) VisitFunction(s *ast.Function) error {
	r.declare(s.Name)
	r.define(s.Name.Lexeme)
	r.resolveFunction(s, fnFunction)
	return nil
}

func (r *Resolver) VisitReturn(s *ast.Return) error {
	if r.fnType == fnNone {
		r.errAt(s.Keyword, "Can't return from top-level code.")
	}
	if s.Value != nil {
		if r.fnType == fnInitializer {
			r.errAt(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
	return nil
}

func (r *Resolver) VisitClass(s *ast.Class) error {
	enclosingClass := r.clsType
	r.clsType = classClass

	r.declare(s.Name)
	r.define(s.Name.Lexeme)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.errAt(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.clsType = classSubclass
		r.resolveExpr(s.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true

	for _, method := range s.Methods {
		typ := fnMethod
		if method.Name.Lexeme == "init" {
			typ = fnInitializer
		}
		r.resolveFunction(method, typ)
	}

	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	r.clsType = enclosingClass
	return nil
}

// ---- Expressions ----

func (r *Resolver) resolveExpr(e ast.Expr) { _, _ = e.Accept(r) }

func (r *Resolver) VisitLiteral(e *ast.Literal) (any, error) { return nil, nil }

func (r *Resolver) VisitGrouping(e *ast.Grouping) (any, error) {
	r.resolveExpr(e.Expression)
	return nil, nil
}

func (r *Resolver) VisitUnary(e *ast.Unary) (any, error) {
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitBinary(e *ast.Binary) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitLogical(e *ast.Logical) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitVariable(e *ast.Variable) (any, error) {
	if len(r.scopes) > 0 {
		if defined, declared := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; declared && !defined {
			r.errAt(e.Name, "Can't read local variable in its own initializer.")
		}
	}
	r.resolveLocal(e, e.Name.Lexeme)
	return nil, nil
}

func (r *Resolver) VisitAssign(e *ast.Assign) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveLocal(e, e.Name.Lexeme)
	return nil, nil
}

func (r *Resolver) VisitCall(e *ast.Call) (any, error) {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Args {
		r.resolveExpr(arg)
	}
	return nil, nil
}

func (r *Resolver) VisitGet(e *ast.Get) (any, error) {
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSet(e *ast.Set) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitThis(e *ast.This) (any, error) {
	if r.clsType == classNone {
		r.errAt(e.Keyword, "Can't use 'this' outside of a class.")
		return nil, nil
	}
	r.resolveLocal(e, "this")
	return nil, nil
}

func (r *Resolver) VisitSuper(e *ast.Super) (any, error) {
	if r.clsType == classNone {
		r.errAt(e.Keyword, "Can't use 'super' outside of a class.")
	} else if r.clsType != classSubclass {
		r.errAt(e.Keyword, "Can't use 'super' in a class with no superclass.")
	}
	r.resolveLocal(e, "super")
	return nil, nil
}
