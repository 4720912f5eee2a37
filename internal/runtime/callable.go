package runtime

import (
	"fmt"

	"github.com/you-not-fish/lox/internal/syntax"
)

// Caller runs function bodies on behalf of callables. The evaluator
// implements it.
type Caller interface {
	// ExecBody executes body in env and returns the value carried by a
	// return statement, or Nil if the body completes without one.
	ExecBody(body []syntax.Stmt, env *Environment) (Value, error)
}

// Callable is a value that can appear as the callee of a call expression.
type Callable interface {
	Value
	Arity() int
	Call(c Caller, args []Value) (Value, error)
}

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// Function is a user-declared function or method together with the
// environment that was active where it was declared.
type Function struct {
	Decl    *syntax.FuncDecl
	Closure *Environment
	IsInit  bool // class initializer; calls yield the bound instance
}

func (f *Function) Kind() Kind { return KindFunction }

// Name returns the declared name.
func (f *Function) Name() string { return f.Decl.Name.Lexeme }

func (f *Function) Arity() int { return len(f.Decl.Params) }

// Call binds args to the parameters in a fresh environment enclosed by
// the closure, not by the caller, and executes the body.
func (f *Function) Call(c Caller, args []Value) (Value, error) {
	env := NewEnvironment(f.Closure)
	for i, p := range f.Decl.Params {
		env.Define(p.Lexeme, args[i])
	}

	result, err := c.ExecBody(f.Decl.Body, env)
	if err != nil {
		return nil, err
	}
	if f.IsInit {
		return f.Closure.GetAt(0, "this")
	}
	return result, nil
}

// Bind returns a copy of f whose closure binds this to inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := NewEnvironment(f.Closure)
	env.Define("this", inst)
	return &Function{Decl: f.Decl, Closure: env, IsInit: f.IsInit}
}

// NativeFunc implements a host-provided function.
type NativeFunc func(c Caller, args []Value) (Value, error)

// Native is a function provided by the host rather than declared in Lox.
type Native struct {
	Name   string
	Params int
	Impl   NativeFunc
}

func (n *Native) Kind() Kind { return KindNative }

func (n *Native) Arity() int { return n.Params }

func (n *Native) Call(c Caller, args []Value) (Value, error) {
	return n.Impl(c, args)
}

//-----------------------------------------------------------------------------
// Classes & instances
//-----------------------------------------------------------------------------

// Class is a class value. Calling it constructs an instance.
type Class struct {
	Name    string
	Methods map[string]*Function
}

func (c *Class) Kind() Kind { return KindClass }

// FindMethod returns the method declared under name, or nil.
func (c *Class) FindMethod(name string) *Function {
	return c.Methods[name]
}

// Arity is the arity of init, or zero if the class has none.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call creates an instance and runs init on it, if declared.
func (c *Class) Call(caller Caller, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(caller, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// Instance is an object created by calling a class. Fields are created
// on first assignment.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance returns an instance of c with no fields.
func NewInstance(c *Class) *Instance {
	return &Instance{Class: c, Fields: make(map[string]Value)}
}

func (i *Instance) Kind() Kind { return KindInstance }

// Get returns the field called name, or else the class method of that
// name bound to i.
func (i *Instance) Get(name string) (Value, error) {
	if v, ok := i.Fields[name]; ok {
		return v, nil
	}
	if m := i.Class.FindMethod(name); m != nil {
		return m.Bind(i), nil
	}
	return nil, &UndefinedError{Name: name, Property: true}
}

// Set writes the field called name, creating it if needed.
func (i *Instance) Set(name string, v Value) {
	i.Fields[name] = v
}

// UndefinedError reports a lookup of a name with no binding.
type UndefinedError struct {
	Name     string
	Property bool
}

func (e *UndefinedError) Error() string {
	if e.Property {
		return fmt.Sprintf("Undefined property '%s'.", e.Name)
	}
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}
