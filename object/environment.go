package object

import "github.com/sdecook/glox/loxerr"

// Environment is one frame in the lexical-scope chain: a name→Value
// mapping plus an optional link to the enclosing frame. A function value
// retains the frame active at its declaration (its closure); later
// mutation of that frame through Assign is observable through every
// closure that shares it — this is the intended semantics (spec.md §5).
//
// Grounded on sam-decook-lox/codecrafters/cmd/environment.go, generalized
// with the resolver-driven GetAt/AssignAt used by the evaluator for
// statically-resolved local references (spec.md §4.4).
type Environment struct {
	Enclosing *Environment
	values    map[string]Value
}

// NewEnvironment creates a frame enclosed by parent (nil for the global
// frame).
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{Enclosing: parent, values: make(map[string]Value)}
}

// Define binds name to value in this frame, overwriting any existing
// binding — redeclaration in the same scope is handled by the resolver,
// not here (the global scope and the REPL both rely on re-definition
// being silently permitted at the environment level).
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get walks the chain outward from e looking for name.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.Enclosing {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Assign walks the chain outward from e and updates the first frame that
// already has name bound; it does not create a new binding.
func (e *Environment) Assign(name string, value Value) bool {
	for env := e; env != nil; env = env.Enclosing {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return true
		}
	}
	return false
}

// ancestor walks exactly distance links outward.
func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.Enclosing
	}
	return env
}

// GetAt reads name from exactly the frame distance links out, as
// directed by the resolver's static depth annotation — this is what
// makes closures resolve correctly regardless of what else shares the
// name further out in the chain.
func (e *Environment) GetAt(distance int, name string) Value {
	v, ok := e.ancestor(distance).values[name]
	if !ok {
		// The resolver guarantees this binding exists; a miss here is an
		// interpreter bug, not a user-facing error.
		panic(&loxerr.Signal{Kind: loxerr.System, Message: "resolved variable '" + name + "' missing at depth"})
	}
	return v
}

// AssignAt writes value into exactly the frame distance links out.
func (e *Environment) AssignAt(distance int, name string, value Value) {
	e.ancestor(distance).values[name] = value
}
