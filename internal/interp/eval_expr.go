package interp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/you-not-fish/lox/internal/runtime"
	"github.com/you-not-fish/lox/internal/syntax"
)

func (i *Interpreter) eval(x syntax.Expr) (runtime.Value, error) {
	switch x := x.(type) {
	case *syntax.LiteralExpr:
		return runtime.FromLiteral(x.Value), nil

	case *syntax.GroupingExpr:
		return i.eval(x.X)

	case *syntax.UnaryExpr:
		return i.evalUnary(x)

	case *syntax.BinaryExpr:
		return i.evalBinary(x)

	case *syntax.LogicalExpr:
		left, err := i.eval(x.X)
		if err != nil {
			return nil, err
		}
		if x.Op.Kind == syntax.Or {
			if runtime.IsTruthy(left) {
				return left, nil
			}
		} else if !runtime.IsTruthy(left) {
			return left, nil
		}
		return i.eval(x.Y)

	case *syntax.VariableExpr:
		return i.lookUp(x.Name, x.ID)

	case *syntax.AssignExpr:
		v, err := i.eval(x.Value)
		if err != nil {
			return nil, err
		}
		if depth, ok := i.locals[x.ID]; ok {
			err = i.env.AssignAt(depth, x.Name.Lexeme, v)
		} else {
			err = i.globals.Assign(x.Name.Lexeme, v)
		}
		if err != nil {
			return nil, runtimeErr(x.Name, "%s", err)
		}
		return v, nil

	case *syntax.CallExpr:
		return i.evalCall(x)

	case *syntax.GetExpr:
		obj, err := i.eval(x.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*runtime.Instance)
		if !ok {
			return nil, runtimeErr(x.Name, "Only instances have properties.")
		}
		v, err := inst.Get(x.Name.Lexeme)
		if err != nil {
			return nil, runtimeErr(x.Name, "%s", err)
		}
		return v, nil

	case *syntax.SetExpr:
		obj, err := i.eval(x.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*runtime.Instance)
		if !ok {
			return nil, runtimeErr(x.Name, "Only instances have fields.")
		}
		v, err := i.eval(x.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(x.Name.Lexeme, v)
		return v, nil

	case *syntax.ThisExpr:
		return i.lookUp(x.Keyword, x.ID)

	default:
		return nil, fmt.Errorf("interp: unexpected expression %T", x)
	}
}

// lookUp reads a variable through its resolved hop count, or from the
// globals by name when the resolver left it unrecorded.
func (i *Interpreter) lookUp(name syntax.Token, id syntax.NodeID) (runtime.Value, error) {
	var (
		v   runtime.Value
		err error
	)
	if depth, ok := i.locals[id]; ok {
		v, err = i.env.GetAt(depth, name.Lexeme)
	} else {
		v, err = i.globals.Get(name.Lexeme)
	}
	if err != nil {
		return nil, runtimeErr(name, "%s", err)
	}
	return v, nil
}

func (i *Interpreter) evalUnary(x *syntax.UnaryExpr) (runtime.Value, error) {
	operand, err := i.eval(x.X)
	if err != nil {
		return nil, err
	}

	switch x.Op.Kind {
	case syntax.Minus:
		n, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtimeErr(x.Op, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -n.Val}, nil
	case syntax.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(operand)}, nil
	}
	return nil, runtimeErr(x.Op, "Unknown unary operator '%s'.", x.Op.Lexeme)
}

func (i *Interpreter) evalBinary(x *syntax.BinaryExpr) (runtime.Value, error) {
	left, err := i.eval(x.X)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(x.Y)
	if err != nil {
		return nil, err
	}

	switch x.Op.Kind {
	case syntax.EqualEqual:
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case syntax.BangEqual:
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	case syntax.Plus:
		l, lok := left.(runtime.NumberValue)
		r, rok := right.(runtime.NumberValue)
		if lok && rok {
			return runtime.NumberValue{Val: l.Val + r.Val}, nil
		}
		// Anything else concatenates display text.
		return runtime.StringValue{Val: runtime.Stringify(left) + runtime.Stringify(right)}, nil
	}

	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return nil, runtimeErr(x.Op, "Operands must be numbers.")
	}

	switch x.Op.Kind {
	case syntax.Minus:
		return runtime.NumberValue{Val: l.Val - r.Val}, nil
	case syntax.Star:
		return runtime.NumberValue{Val: l.Val * r.Val}, nil
	case syntax.Slash:
		return runtime.NumberValue{Val: l.Val / r.Val}, nil
	case syntax.Greater:
		return runtime.BoolValue{Val: l.Val > r.Val}, nil
	case syntax.GreaterEqual:
		return runtime.BoolValue{Val: l.Val >= r.Val}, nil
	case syntax.Less:
		return runtime.BoolValue{Val: l.Val < r.Val}, nil
	case syntax.LessEqual:
		return runtime.BoolValue{Val: l.Val <= r.Val}, nil
	}
	return nil, runtimeErr(x.Op, "Unknown binary operator '%s'.", x.Op.Lexeme)
}

func (i *Interpreter) evalCall(x *syntax.CallExpr) (runtime.Value, error) {
	callee, err := i.eval(x.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]runtime.Value, 0, len(x.Args))
	for _, a := range x.Args {
		v, err := i.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	fn, ok := callee.(runtime.Callable)
	if !ok {
		return nil, runtimeErr(x.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, runtimeErr(x.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}

	if i.depth >= i.maxDepth {
		return nil, runtimeErr(x.Paren, "Stack overflow.")
	}
	i.depth++
	defer func() { i.depth-- }()

	switch fn := fn.(type) {
	case *runtime.Function:
		i.log.Debug("Function call",
			slog.String("function", fn.Name()),
			slog.Int("argument-count", len(args)),
			slog.Int("depth", i.depth))
	case *runtime.Class:
		i.log.Debug("Instantiate class",
			slog.String("class", fn.Name),
			slog.Int("argument-count", len(args)))
	case *runtime.Native:
		i.log.Debug("Native call",
			slog.String("function", fn.Name),
			slog.Int("argument-count", len(args)))
	}

	v, err := fn.Call(i, args)
	if err != nil {
		var rerr *RuntimeError
		if errors.As(err, &rerr) {
			return nil, err
		}
		// Natives report plain errors; attribute them to the call site.
		return nil, runtimeErr(x.Paren, "%s", err)
	}
	return v, nil
}
