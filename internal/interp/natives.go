package interp

import (
	"sort"
	"time"

	"github.com/you-not-fish/lox/internal/runtime"
)

// builtins maps each native function name to its constructor.
var builtins = map[string]func() *runtime.Native{
	"clock": clockNative,
}

// Builtin returns a fresh instance of the named native function.
func Builtin(name string) (*runtime.Native, bool) {
	mk, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return mk(), true
}

// BuiltinNames returns the names of all native functions, sorted.
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// clock returns the seconds elapsed since the Unix epoch.
func clockNative() *runtime.Native {
	return &runtime.Native{
		Name:   "clock",
		Params: 0,
		Impl: func(runtime.Caller, []runtime.Value) (runtime.Value, error) {
			return runtime.NumberValue{Val: float64(time.Now().UnixNano()) / 1e9}, nil
		},
	}
}
