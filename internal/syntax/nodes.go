package syntax

import "sync/atomic"

// ----------------------------------------------------------------------------
// Interfaces
//
// There are 2 classes of nodes: expressions and statements. The sets are
// closed: the unexported marker methods keep implementations inside this
// package, and consumers dispatch with exhaustive type switches.

// Node is the interface implemented by all AST nodes.
type Node interface {
	Pos() Pos // position of the first token belonging to the node
	aNode()
}

// Expr is the interface for all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is the interface for all statement nodes.
type Stmt interface {
	Node
	aStmt()
}

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Node identity

// NodeID identifies a name-referencing expression (variable, assignment,
// this). The resolver keys its table by NodeID rather than by pointer.
type NodeID uint64

var lastID atomic.Uint64

// newID returns an ID unique within the process, so trees parsed by
// separate parsers (one per REPL line) never collide in a shared table.
func newID() NodeID {
	return NodeID(lastID.Add(1))
}

// ----------------------------------------------------------------------------
// Expressions

// LiteralExpr is a literal value: number, string, true, false or nil.
type LiteralExpr struct {
	expr
	Value interface{} // float64, string, bool, or nil
}

// GroupingExpr is a parenthesized expression: (X)
type GroupingExpr struct {
	expr
	X Expr
}

// UnaryExpr is a prefix operation: -X or !X
type UnaryExpr struct {
	expr
	Op Token
	X  Expr
}

// BinaryExpr is an arithmetic, comparison or equality operation.
type BinaryExpr struct {
	expr
	Op   Token
	X, Y Expr
}

// LogicalExpr is a short-circuiting "and" or "or".
type LogicalExpr struct {
	expr
	Op   Token
	X, Y Expr
}

// VariableExpr reads a variable.
type VariableExpr struct {
	expr
	ID   NodeID
	Name Token
}

// AssignExpr assigns to an existing variable: Name = Value
type AssignExpr struct {
	expr
	ID    NodeID
	Name  Token
	Value Expr
}

// CallExpr is a call: Callee(Args...)
type CallExpr struct {
	expr
	Callee Expr
	Paren  Token // closing parenthesis, used for error positions
	Args   []Expr
}

// GetExpr reads a property: Object.Name
type GetExpr struct {
	expr
	Object Expr
	Name   Token
}

// SetExpr writes a field: Object.Name = Value
type SetExpr struct {
	expr
	Object Expr
	Name   Token
	Value  Expr
}

// ThisExpr is the receiver inside a method body.
type ThisExpr struct {
	expr
	ID      NodeID
	Keyword Token
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	stmt
	X Expr
}

// PrintStmt prints the display text of X.
type PrintStmt struct {
	stmt
	X Expr
}

// VarDecl declares a variable: var Name [= Init];
type VarDecl struct {
	stmt
	Name Token
	Init Expr // nil when absent
}

// BlockStmt is a braced statement list with its own scope.
type BlockStmt struct {
	stmt
	Stmts []Stmt
}

// IfStmt is: if (Cond) Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

// WhileStmt is: while (Cond) Body
// for loops are desugared into WhileStmt by the parser.
type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

// FuncDecl declares a function or, inside a class body, a method.
type FuncDecl struct {
	stmt
	Name   Token
	Params []Token
	Body   []Stmt
}

// ReturnStmt is: return [Value];
type ReturnStmt struct {
	stmt
	Keyword Token
	Value   Expr // nil for a bare return
}

// ClassDecl declares a class and its methods.
type ClassDecl struct {
	stmt
	Name    Token
	Methods []*FuncDecl
}
