package runtime

import (
	"fmt"
	"sort"
)

// Environment provides lexical scoping for Lox runtime values.
// It is not safe for concurrent use.
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

// Parent exposes the lexical parent (nil when global).
func (e *Environment) Parent() *Environment {
	return e.parent
}

// Define inserts or overwrites a binding in the current scope.
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
	return nil, &UndefinedError{Name: name}
}

// Assign updates an existing binding in the first scope where it appears.
// It never creates a binding.
func (e *Environment) Assign(name string, value Value) error {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}
	return &UndefinedError{Name: name}
}

// Ancestor returns the environment depth parent links out, or nil if the
// chain is shorter than that.
func (e *Environment) Ancestor(depth int) *Environment {
	env := e
	for i := 0; i < depth && env != nil; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from the environment exactly depth links out.
func (e *Environment) GetAt(depth int, name string) (Value, error) {
	env := e.Ancestor(depth)
	if env == nil {
		return nil, fmt.Errorf("no scope %d levels out for %q", depth, name)
	}
	v, ok := env.values[name]
	if !ok {
		return nil, fmt.Errorf("%q not bound %d scopes out", name, depth)
	}
	return v, nil
}

// AssignAt writes name in the environment exactly depth links out.
func (e *Environment) AssignAt(depth int, name string, value Value) error {
	env := e.Ancestor(depth)
	if env == nil {
		return fmt.Errorf("no scope %d levels out for %q", depth, name)
	}
	env.values[name] = value
	return nil
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	keys := make([]string, 0, len(e.values))
	for k := range e.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
