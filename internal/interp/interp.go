// Package interp evaluates resolved Lox programs by walking their syntax
// trees.
package interp

import (
	"io"
	"log/slog"
	"os"

	"github.com/you-not-fish/lox/internal/resolve"
	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

// Limits on nested calls. MaxDepthLimit keeps the Go stack well below
// the runtime's fatal limit.
const (
	DefaultMaxDepth = 256
	MaxDepthLimit   = 10000
)

// Interpreter walks the AST and executes it.
//
// Globals, declared functions and classes persist across calls to
// Interpret, so one Interpreter can serve an interactive session.
// An Interpreter is not safe for concurrent use.
type Interpreter struct {
	globals *runtime.Environment
	env     *runtime.Environment // current scope

	// Hop counts from the resolver, accumulated across programs.
	locals map[syntax.NodeID]int

	out io.Writer
	log *slog.Logger

	natives []string // builtins to install; nil means all

	maxDepth   int
	depth      int // active calls
	scopeDepth int // nested scopes below globals, for tracing
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithOutput sets the writer print statements write to. The default is
// os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(i *Interpreter) { i.out = w }
}

// WithLogger sets the logger used for execution tracing.
func WithLogger(l *slog.Logger) Option {
	return func(i *Interpreter) { i.log = l }
}

// WithMaxDepth sets the maximum number of nested calls. Exceeding it is
// a runtime error. n is capped at MaxDepthLimit; n <= 0 is ignored.
func WithMaxDepth(n int) Option {
	return func(i *Interpreter) {
		if n > 0 {
			i.maxDepth = min(n, MaxDepthLimit)
		}
	}
}

// WithNatives installs the named builtins instead of all of them.
// Unknown names are ignored; see Builtin.
func WithNatives(names ...string) Option {
	return func(i *Interpreter) {
		i.natives = append([]string{}, names...)
	}
}

// New creates an interpreter. Unless WithNatives says otherwise, every
// builtin is installed in its global scope.
func New(opts ...Option) *Interpreter {
	globals := runtime.NewEnvironment(nil)
	i := &Interpreter{
		globals:  globals,
		env:      globals,
		locals:   make(map[syntax.NodeID]int),
		out:      os.Stdout,
		log:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(i)
	}

	if i.natives == nil {
		i.natives = BuiltinNames()
	}
	for _, name := range i.natives {
		if n, ok := Builtin(name); ok {
			globals.Define(name, n)
		}
	}
	return i
}

// Globals returns the global scope.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// Define binds name in the global scope. Hosts use it to install values
// before a run.
func (i *Interpreter) Define(name string, v runtime.Value) {
	i.globals.Define(name, v)
}

// Resolve records the hop counts in info for use by later runs.
func (i *Interpreter) Resolve(info *resolve.Info) {
	for id, depth := range info.Locals {
		i.locals[id] = depth
	}
}

// Interpret executes stmts in the global scope. It stops at the first
// runtime error and returns it as a *RuntimeError.
func (i *Interpreter) Interpret(stmts []syntax.Stmt) error {
	// A previous failed run may have been unwinding from any depth.
	i.env = i.globals
	i.depth = 0
	i.scopeDepth = 0

	for _, s := range stmts {
		if _, err := i.exec(s); err != nil {
			return err
		}
	}
	return nil
}

// ExecBody implements runtime.Caller.
func (i *Interpreter) ExecBody(body []syntax.Stmt, env *runtime.Environment) (runtime.Value, error) {
	result, err := i.execBlock(body, env)
	if err != nil {
		return nil, err
	}
	if result.signal == sigReturn {
		return result.value, nil
	}
	return runtime.Nil, nil
}
