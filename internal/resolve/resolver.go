package resolve

import "github.com/you-not-fish/lox/internal/syntax"

// funcKind describes the function body being resolved.
type funcKind uint8

const (
	noFunc funcKind = iota
	function
	method
	initializer
)

// classKind describes the class body being resolved.
type classKind uint8

const (
	noClass classKind = iota
	inClass
)

// resolver is the state of one resolution pass.
type resolver struct {
	conf *Config
	info *Info

	// Local scopes, innermost last. Each maps a name to whether its
	// initializer has finished. The global scope is not tracked.
	scopes []map[string]bool

	fn    funcKind
	class classKind

	errors int
	first  *syntax.Error
}

// ----------------------------------------------------------------------------
// Scopes

func (r *resolver) openScope() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *resolver) closeScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare adds name to the innermost scope as not yet ready.
func (r *resolver) declare(name syntax.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = false
}

// define marks name ready in the innermost scope.
func (r *resolver) define(name syntax.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// local records the distance to the innermost scope binding name.
// Names not found in any local scope are left for global lookup.
func (r *resolver) local(id syntax.NodeID, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.info.Locals[id] = len(r.scopes) - 1 - i
			return
		}
	}
}

// ----------------------------------------------------------------------------
// Statements

func (r *resolver) stmts(list []syntax.Stmt) {
	for _, s := range list {
		r.stmt(s)
	}
}

func (r *resolver) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.ExprStmt:
		r.expr(s.X)

	case *syntax.PrintStmt:
		r.expr(s.X)

	case *syntax.VarDecl:
		r.declare(s.Name)
		if s.Init != nil {
			r.expr(s.Init)
		}
		r.define(s.Name)

	case *syntax.BlockStmt:
		r.openScope()
		r.stmts(s.Stmts)
		r.closeScope()

	case *syntax.IfStmt:
		r.expr(s.Cond)
		r.stmt(s.Then)
		if s.Else != nil {
			r.stmt(s.Else)
		}

	case *syntax.WhileStmt:
		r.expr(s.Cond)
		r.stmt(s.Body)

	case *syntax.FuncDecl:
		// Defined before the body so the function can recurse.
		r.declare(s.Name)
		r.define(s.Name)
		r.funcBody(s, function)

	case *syntax.ReturnStmt:
		r.returnStmt(s)

	case *syntax.ClassDecl:
		r.classDecl(s)
	}
}

func (r *resolver) returnStmt(s *syntax.ReturnStmt) {
	if r.fn == noFunc {
		r.errorAt(s.Keyword, "Can't return from top-level code.")
	}
	if s.Value == nil {
		return
	}
	if r.fn == initializer {
		r.errorAt(s.Keyword, "Can't return a value from an initializer.")
	}
	r.expr(s.Value)
}

func (r *resolver) classDecl(s *syntax.ClassDecl) {
	enclosing := r.class
	r.class = inClass
	defer func() { r.class = enclosing }()

	r.declare(s.Name)
	r.define(s.Name)

	// Methods close over a scope that binds this.
	r.openScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, m := range s.Methods {
		kind := method
		if m.Name.Lexeme == "init" {
			kind = initializer
		}
		r.funcBody(m, kind)
	}
	r.closeScope()
}

// funcBody resolves the parameters and body of fn in a new scope.
func (r *resolver) funcBody(fn *syntax.FuncDecl, kind funcKind) {
	enclosing := r.fn
	r.fn = kind
	defer func() { r.fn = enclosing }()

	r.openScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.stmts(fn.Body)
	r.closeScope()
}

// ----------------------------------------------------------------------------
// Expressions

func (r *resolver) expr(x syntax.Expr) {
	switch x := x.(type) {
	case *syntax.LiteralExpr:
		// nothing to do

	case *syntax.GroupingExpr:
		r.expr(x.X)

	case *syntax.UnaryExpr:
		r.expr(x.X)

	case *syntax.BinaryExpr:
		r.expr(x.X)
		r.expr(x.Y)

	case *syntax.LogicalExpr:
		r.expr(x.X)
		r.expr(x.Y)

	case *syntax.VariableExpr:
		if n := len(r.scopes); n > 0 {
			if ready, ok := r.scopes[n-1][x.Name.Lexeme]; ok && !ready {
				r.errorAt(x.Name, "Can't read local variable in its own initializer.")
			}
		}
		r.local(x.ID, x.Name.Lexeme)

	case *syntax.AssignExpr:
		r.expr(x.Value)
		r.local(x.ID, x.Name.Lexeme)

	case *syntax.CallExpr:
		r.expr(x.Callee)
		for _, a := range x.Args {
			r.expr(a)
		}

	case *syntax.GetExpr:
		// Properties are looked up dynamically; only the object resolves.
		r.expr(x.Object)

	case *syntax.SetExpr:
		r.expr(x.Value)
		r.expr(x.Object)

	case *syntax.ThisExpr:
		if r.class == noClass {
			r.errorAt(x.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.local(x.ID, "this")
	}
}
