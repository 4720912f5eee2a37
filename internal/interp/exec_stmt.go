package interp

import (
	"fmt"
	"log/slog"

	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

// signal is the control-flow outcome of executing a statement.
type signal int

const (
	sigNone   signal = iota
	sigReturn        // return from the enclosing function
)

// execResult carries a statement's completion and, for a return, its value.
type execResult struct {
	signal signal
	value  runtime.Value
}

var resultNone = execResult{signal: sigNone}

func (i *Interpreter) exec(s syntax.Stmt) (execResult, error) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		_, err := i.eval(s.X)
		return resultNone, err

	case *syntax.PrintStmt:
		v, err := i.eval(s.X)
		if err != nil {
			return resultNone, err
		}
		fmt.Fprintln(i.out, runtime.Stringify(v))
		return resultNone, nil

	case *syntax.VarDecl:
		var v runtime.Value = runtime.Nil
		if s.Init != nil {
			init, err := i.eval(s.Init)
			if err != nil {
				return resultNone, err
			}
			v = init
		}
		i.env.Define(s.Name.Lexeme, v)
		return resultNone, nil

	case *syntax.BlockStmt:
		return i.execBlock(s.Stmts, runtime.NewEnvironment(i.env))

	case *syntax.IfStmt:
		cond, err := i.eval(s.Cond)
		if err != nil {
			return resultNone, err
		}
		if runtime.IsTruthy(cond) {
			return i.exec(s.Then)
		}
		if s.Else != nil {
			return i.exec(s.Else)
		}
		return resultNone, nil

	case *syntax.WhileStmt:
		return i.execWhile(s)

	case *syntax.FuncDecl:
		fn := &runtime.Function{Decl: s, Closure: i.env}
		i.env.Define(s.Name.Lexeme, fn)
		return resultNone, nil

	case *syntax.ReturnStmt:
		var v runtime.Value = runtime.Nil
		if s.Value != nil {
			rv, err := i.eval(s.Value)
			if err != nil {
				return resultNone, err
			}
			v = rv
		}
		return execResult{signal: sigReturn, value: v}, nil

	case *syntax.ClassDecl:
		return i.execClass(s)

	default:
		return resultNone, fmt.Errorf("interp: unexpected statement %T", s)
	}
}

// execBlock runs stmts with env as the current scope, restoring the
// previous scope on every exit path.
func (i *Interpreter) execBlock(stmts []syntax.Stmt, env *runtime.Environment) (execResult, error) {
	prevEnv := i.env
	i.env = env
	i.scopeDepth++
	i.log.Debug("push scope", slog.Int("depth", i.scopeDepth))
	defer func() {
		i.log.Debug("pop scope", slog.Int("depth", i.scopeDepth))
		i.scopeDepth--
		i.env = prevEnv
	}()

	for _, s := range stmts {
		result, err := i.exec(s)
		if err != nil {
			return resultNone, err
		}
		if result.signal != sigNone {
			return result, nil // propagate signal
		}
	}
	return resultNone, nil
}

func (i *Interpreter) execWhile(s *syntax.WhileStmt) (execResult, error) {
	for {
		cond, err := i.eval(s.Cond)
		if err != nil {
			return resultNone, err
		}
		if !runtime.IsTruthy(cond) {
			return resultNone, nil
		}
		result, err := i.exec(s.Body)
		if err != nil {
			return resultNone, err
		}
		if result.signal != sigNone {
			return result, nil
		}
	}
}

// execClass binds the class name to nil before building the class, then
// assigns the finished value, so methods may refer to the class by name.
func (i *Interpreter) execClass(s *syntax.ClassDecl) (execResult, error) {
	name := s.Name.Lexeme
	i.env.Define(name, runtime.Nil)

	methods := make(map[string]*runtime.Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &runtime.Function{
			Decl:    m,
			Closure: i.env,
			IsInit:  m.Name.Lexeme == "init",
		}
	}
	class := &runtime.Class{Name: name, Methods: methods}

	if err := i.env.Assign(name, class); err != nil {
		return resultNone, runtimeErr(s.Name, "%s", err)
	}
	return resultNone, nil
}
