package object

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sdecook/glox/ast"
)

func TestFunctionArityAndString(t *testing.T) {
	fn := &Function{Name: "add", Params: []string{"a", "b"}, Declaration: &ast.Function{}}
	assert.Equal(t, 2, fn.Arity())
	assert.Equal(t, "<fn add>", fn.String())
}

func TestBindCreatesFreshClosureDefiningThis(t *testing.T) {
	closure := NewEnvironment(nil)
	fn := &Function{Name: "speak", Declaration: &ast.Function{}, Closure: closure}
	class := &Class{Name: "Dog", Methods: map[string]*Function{"speak": fn}}
	instance := NewInstance(class)

	bound := fn.Bind(instance)
	assert.NotSame(t, fn, bound, "Bind must return a new Function, not mutate the shared one")

	this, ok := bound.Closure.Get("this")
	assert.True(t, ok)
	assert.Same(t, instance, this)

	// The original method's closure is untouched by binding.
	_, ok = closure.Get("this")
	assert.False(t, ok)
}

func TestClassFindMethodWalksSuperclassChain(t *testing.T) {
	base := &Function{Name: "greet", Declaration: &ast.Function{}}
	animal := &Class{Name: "Animal", Methods: map[string]*Function{"greet": base}}
	dog := &Class{Name: "Dog", Superclass: animal, Methods: map[string]*Function{}}

	assert.Same(t, base, dog.FindMethod("greet"))
	assert.Nil(t, dog.FindMethod("bark"))
}

func TestClassArityDelegatesToInit(t *testing.T) {
	noInit := &Class{Name: "Empty", Methods: map[string]*Function{}}
	assert.Equal(t, 0, noInit.Arity())

	init := &Function{Name: "init", Params: []string{"x", "y"}, Declaration: &ast.Function{}}
	withInit := &Class{Name: "Point", Methods: map[string]*Function{"init": init}}
	assert.Equal(t, 2, withInit.Arity())
}

func TestInstanceGetSetFields(t *testing.T) {
	class := &Class{Name: "Box", Methods: map[string]*Function{}}
	inst := NewInstance(class)

	_, ok := inst.Get("value")
	assert.False(t, ok)

	inst.Set("value", Number{Value: 10})
	v, ok := inst.Get("value")
	assert.True(t, ok)
	assert.Equal(t, Number{Value: 10}, v)
	assert.Equal(t, "Box instance", inst.String())
}

func TestInstanceGetBindsMethodsFromClass(t *testing.T) {
	method := &Function{Name: "bark", Declaration: &ast.Function{}, Closure: NewEnvironment(nil)}
	class := &Class{Name: "Dog", Methods: map[string]*Function{"bark": method}}
	inst := NewInstance(class)

	v, ok := inst.Get("bark")
	assert.True(t, ok)
	bound, ok := v.(*Function)
	assert.True(t, ok)
	this, _ := bound.Closure.Get("this")
	assert.Same(t, inst, this)
}

func TestNativeCall(t *testing.T) {
	n := &Native{Name: "double", NArity: 1, Fn: func(args []Value) (Value, error) {
		return Number{Value: args[0].(Number).Value * 2}, nil
	}}
	assert.Equal(t, 1, n.Arity())
	assert.Equal(t, "<native fn>", n.String())

	v, err := n.Call([]Value{Number{Value: 21}})
	assert.NoError(t, err)
	assert.Equal(t, Number{Value: 42}, v)
}
