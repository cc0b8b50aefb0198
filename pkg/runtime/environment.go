package runtime

import "fmt"

// Environment provides lexical scoping for Caesar runtime values.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Define inserts or shadows a binding in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding, searching outward through the scope chain.
func (e *Environment) Get(name string) (Value, error) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, nil
		}
	}
	return nil, fmt.Errorf("undefined variable '%s'", name)
}

// Lookup reads a binding from this scope only.
func (e *Environment) Lookup(name string) (Value, bool) {
	v, ok := e.values[name]
	return v, ok
}
