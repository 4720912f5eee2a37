package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses an AST in depth-first order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *GroupingExpr:
		Walk(n.X, v)

	case *UnaryExpr:
		Walk(n.X, v)

	case *BinaryExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *LogicalExpr:
		Walk(n.X, v)
		Walk(n.Y, v)

	case *AssignExpr:
		Walk(n.Value, v)

	case *CallExpr:
		Walk(n.Callee, v)
		for _, a := range n.Args {
			Walk(a, v)
		}

	case *GetExpr:
		Walk(n.Object, v)

	case *SetExpr:
		Walk(n.Object, v)
		Walk(n.Value, v)

	case *ExprStmt:
		Walk(n.X, v)

	case *PrintStmt:
		Walk(n.X, v)

	case *VarDecl:
		if n.Init != nil {
			Walk(n.Init, v)
		}

	case *BlockStmt:
		walkList(n.Stmts, v)

	case *IfStmt:
		Walk(n.Cond, v)
		Walk(n.Then, v)
		if n.Else != nil {
			Walk(n.Else, v)
		}

	case *WhileStmt:
		Walk(n.Cond, v)
		Walk(n.Body, v)

	case *FuncDecl:
		walkList(n.Body, v)

	case *ReturnStmt:
		if n.Value != nil {
			Walk(n.Value, v)
		}

	case *ClassDecl:
		for _, m := range n.Methods {
			Walk(m, v)
		}

	// Leaf nodes: LiteralExpr, VariableExpr, ThisExpr
	}
}

func walkList(stmts []Stmt, v Visitor) {
	for _, s := range stmts {
		Walk(s, v)
	}
}

// Inspect traverses every statement in stmts and calls f for each node.
func Inspect(stmts []Stmt, f func(Node) bool) {
	walkList(stmts, Visitor(f))
}
