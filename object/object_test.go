package object

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(NilValue))
	assert.False(t, Truthy(False))
	assert.True(t, Truthy(True))
	assert.True(t, Truthy(Number{Value: 0}))
	assert.True(t, Truthy(String{Value: ""}))
}

func TestNumberStringOmitsTrailingZero(t *testing.T) {
	assert.Equal(t, "3", Number{Value: 3}.String())
	assert.Equal(t, "3.5", Number{Value: 3.5}.String())
	assert.Equal(t, "-2", Number{Value: -2}.String())
}

func TestEqualityLaws(t *testing.T) {
	assert.True(t, Equal(NilValue, NilValue))
	assert.False(t, Equal(NilValue, Number{Value: 0}))
	assert.True(t, Equal(Number{Value: 1}, Number{Value: 1}))
	assert.False(t, Equal(Number{Value: 1}, Number{Value: 2}))
	assert.True(t, Equal(String{Value: "a"}, String{Value: "a"}))
	assert.False(t, Equal(String{Value: "a"}, String{Value: "b"}))
	assert.True(t, Equal(True, True))
	assert.False(t, Equal(True, False))

	for _, v := range []Value{NilValue, True, Number{Value: 5}, String{Value: "x"}} {
		assert.True(t, Equal(v, v))
	}
}

func TestNaNNotEqualToItself(t *testing.T) {
	nan := Number{Value: math.NaN()}
	assert.False(t, Equal(nan, nan))
}

func TestIdentityEqualityOnInstances(t *testing.T) {
	class := &Class{Name: "Box", Methods: map[string]*Function{}}
	a := NewInstance(class)
	b := NewInstance(class)
	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b), "distinct instances of the same class are not ==")
}

func TestBoolOf(t *testing.T) {
	assert.Equal(t, True, BoolOf(true))
	assert.Equal(t, False, BoolOf(false))
}
