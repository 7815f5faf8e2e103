// Package object implements the Lox runtime value domain — the tagged
// union of Nil/Bool/Number/String/Function/Class/Instance/Native — plus
// the Environment chain and the Callable capability shared by the three
// callable variants. Grounded on sam-decook-lox/codecrafters/cmd/object.go,
// environment.go, and callable.go, generalized to a consistent,
// compiling design (the teacher snapshot mixed incompatible method
// signatures across files; this package resolves that into one scheme).
package object

import (
	"strconv"
)

// Type tags a Value's variant.
type Type int

const (
	TNil Type = iota
	TBool
	TNumber
	TString
	TFunction
	TClass
	TInstance
	TNative
)

// Value is any Lox runtime value.
type Value interface {
	Type() Type
	String() string
}

// Nil is the singleton representation of `nil`.
type Nil struct{}

func (Nil) Type() Type     { return TNil }
func (Nil) String() string { return "nil" }

// NilValue is the shared Nil instance; Lox has no per-allocation identity
// for nil, so every site reuses it.
var NilValue Value = Nil{}

type Bool struct{ Value bool }

func (b Bool) Type() Type     { return TBool }
func (b Bool) String() string { return strconv.FormatBool(b.Value) }

var (
	True  Value = Bool{true}
	False Value = Bool{false}
)

// BoolOf returns the shared True/False value for b.
func BoolOf(b bool) Value {
	if b {
		return True
	}
	return False
}

type Number struct{ Value float64 }

func (n Number) Type() Type { return TNumber }

// String formats with no trailing ".0" for integral values, per
// SPEC_FULL.md's "Open Questions — Decisions": values that fit an int64
// exactly are printed with strconv.FormatInt, all others with
// strconv.FormatFloat(v, 'f', -1, 64).
func (n Number) String() string {
	if n.Value == float64(int64(n.Value)) {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

type String struct{ Value string }

func (s String) Type() Type     { return TString }
func (s String) String() string { return s.Value }

// Callable is the capability shared by Function, Class, and Native
// (spec.md §9 "Polymorphic values"): the call site checks callability
// and arity through it; the call itself is dispatched per variant by the
// evaluator.
type Callable interface {
	Value
	Arity() int
}

// Truthy implements Lox's truthiness rule: only nil and false are falsy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Nil:
		return false
	case Bool:
		return val.Value
	default:
		return true
	}
}

// Equal implements Lox's == semantics: structural for primitives,
// identity for functions/classes/instances (spec.md §9), NaN != NaN
// preserved from IEEE-754 (Go's == on float64 already does this).
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av.Value == bv.Value
	case Number:
		bv, ok := b.(Number)
		return ok && av.Value == bv.Value
	case String:
		bv, ok := b.(String)
		return ok && av.Value == bv.Value
	default:
		// Function/Class/Instance/Native are always held by pointer, so
		// Go's interface equality (same concrete pointer type and value)
		// already gives identity comparison, per spec.md §9.
		return a == b
	}
}
