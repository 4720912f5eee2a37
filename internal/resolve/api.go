// Package resolve implements the static resolution pass for Lox programs.
//
// The resolver walks a parsed program once before evaluation and records,
// for every variable reference that refers to a local binding, how many
// scopes out from the reference the binding lives. References it leaves
// unrecorded are globals and are looked up by name at run time.
package resolve

import "github.com/you-not-fish/lox/internal/syntax"

// Config specifies the configuration for resolution.
type Config struct {
	// Error is called for each static error.
	// If nil, errors are silently ignored.
	Error syntax.ErrorHandler
}

// Info holds the results of resolution.
type Info struct {
	// Locals maps Variable, Assign and This expressions to the number of
	// scopes between the reference and the scope that binds it.
	// Global references have no entry.
	Locals map[syntax.NodeID]int
}

// Depth returns the recorded hop count for id.
func (info *Info) Depth(id syntax.NodeID) (int, bool) {
	d, ok := info.Locals[id]
	return d, ok
}

// Resolve resolves stmts, adding entries to info.Locals. Existing entries
// are kept, so one Info may accumulate results for successive programs
// sharing a global scope.
// It returns the first error encountered, if any.
func Resolve(stmts []syntax.Stmt, conf *Config, info *Info) error {
	if conf == nil {
		conf = &Config{}
	}
	if info == nil {
		info = &Info{}
	}
	if info.Locals == nil {
		info.Locals = make(map[syntax.NodeID]int)
	}

	r := &resolver{
		conf: conf,
		info: info,
	}
	r.stmts(stmts)

	if r.errors > 0 {
		return r.first
	}
	return nil
}
