package object

import (
	"fmt"

	"github.com/sdecook/glox/ast"
)

// Function is a user-defined Lox function or method: its declaration
// (params + body), the environment in force when it was declared (its
// closure), and whether it is a class initializer (an initializer
// implicitly returns `this` rather than nil/its return value). Grounded
// on sam-decook-lox's LoxFunction / callable.go Call + bind.
type Function struct {
	Name          string
	Params        []string
	Declaration   *ast.Function
	Closure       *Environment
	IsInitializer bool
}

func (f *Function) Type() Type     { return TFunction }
func (f *Function) String() string { return fmt.Sprintf("<fn %s>", f.Name) }
func (f *Function) Arity() int     { return len(f.Params) }

// Bind produces a new function whose closure is a fresh frame enclosing
// f's original closure and defining `this` as instance — used for both
// plain method lookup and super-method lookup.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{
		Name:          f.Name,
		Params:        f.Params,
		Declaration:   f.Declaration,
		Closure:       env,
		IsInitializer: f.IsInitializer,
	}
}

// Class is a Lox class: its name, optional superclass, and its own
// (non-inherited) methods.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) Type() Type     { return TClass }
func (c *Class) String() string { return c.Name }

// Arity returns the arity of `init`, or 0 if the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// FindMethod searches the class chain (self then superclass chain).
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Instance is a live object of a Class: mutable fields, with methods
// resolved through the class chain on miss.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (i *Instance) Type() Type     { return TInstance }
func (i *Instance) String() string { return i.Class.Name + " instance" }

// Get looks up name first in the instance's own fields, then the class
// method chain, binding a found method to this instance. Returns ok=false
// if nothing is found (the caller raises the runtime error, since it
// needs the offending token for line info).
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), true
	}
	return nil, false
}

// Set always writes a field, never a method — spec.md §4.4.
func (i *Instance) Set(name string, value Value) {
	i.Fields[name] = value
}

// NativeFn is the Go function body backing a Native value.
type NativeFn func(args []Value) (Value, error)

// Native is a built-in function exposed directly to the call-expression
// evaluator, replacing the teacher's WIP special-case of `clock` inside
// CallExpr.Evaluate (see SPEC_FULL.md "Supplemented Features").
type Native struct {
	Name   string
	NArity int
	Fn     NativeFn
}

func (n *Native) Type() Type     { return TNative }
func (n *Native) String() string { return "<native fn>" }
func (n *Native) Arity() int     { return n.NArity }
func (n *Native) Call(args []Value) (Value, error) {
	return n.Fn(args)
}
