// Package runtime defines the values manipulated by the Lox evaluator and
// the environment chain that binds names to them.
package runtime

import (
	"fmt"
	"strconv"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindFunction
	KindNative
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNative:
		return "native_function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

// NilValue is the type of nil. Use the Nil variable rather than
// constructing one.
type NilValue struct{}

// Kind implements Value.
func (NilValue) Kind() Kind { return KindNil }

// Nil is the single nil value.
var Nil Value = NilValue{}

// BoolValue is true or false.
type BoolValue struct {
	Val bool
}

// Kind implements Value.
func (v BoolValue) Kind() Kind { return KindBool }

// NumberValue is a Lox number. All numbers are float64.
type NumberValue struct {
	Val float64
}

// Kind implements Value.
func (v NumberValue) Kind() Kind { return KindNumber }

// StringValue is an immutable string. Strings compare by content.
type StringValue struct {
	Val string
}

// Kind implements Value.
func (v StringValue) Kind() Kind { return KindString }

// FromLiteral converts a token literal payload to a Value.
func FromLiteral(lit interface{}) Value {
	switch v := lit.(type) {
	case bool:
		return BoolValue{Val: v}
	case float64:
		return NumberValue{Val: v}
	case string:
		return StringValue{Val: v}
	}
	return Nil
}

//-----------------------------------------------------------------------------
// Predicates
//-----------------------------------------------------------------------------

// IsTruthy reports whether v counts as true in a condition.
// Only nil and false are falsy.
func IsTruthy(v Value) bool {
	switch v := v.(type) {
	case nil, NilValue:
		return false
	case BoolValue:
		return v.Val
	}
	return true
}

// Equal reports whether a and b are the same value. Values of different
// kinds are never equal; reference values compare by identity.
func Equal(a, b Value) bool {
	if a == nil {
		a = Nil
	}
	if b == nil {
		b = Nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case NilValue:
		return true
	case BoolValue:
		return a.Val == b.(BoolValue).Val
	case NumberValue:
		return a.Val == b.(NumberValue).Val
	case StringValue:
		return a.Val == b.(StringValue).Val
	}
	return a == b
}

// Stringify returns the display text of v, as written by print.
func Stringify(v Value) string {
	switch v := v.(type) {
	case nil, NilValue:
		return "nil"
	case BoolValue:
		return strconv.FormatBool(v.Val)
	case NumberValue:
		return strconv.FormatFloat(v.Val, 'f', -1, 64)
	case StringValue:
		return v.Val
	case *Function:
		return "<fn " + v.Name() + ">"
	case *Native:
		return "<native fn>"
	case *Class:
		return v.Name
	case *Instance:
		return v.Class.Name + " instance"
	}
	return fmt.Sprintf("<%s>", v.Kind())
}
