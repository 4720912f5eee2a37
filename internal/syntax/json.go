package syntax

import (
	"encoding/json"
	"io"
)

// FprintJSON writes a JSON representation of stmts to w.
func FprintJSON(w io.Writer, stmts []Stmt) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(listJSON(stmts))
}

func toJSON(n Node) interface{} {
	if n == nil {
		return nil
	}

	m := map[string]interface{}{"pos": n.Pos().String()}
	switch n := n.(type) {
	case *ExprStmt:
		m["type"] = "ExprStmt"
		m["expr"] = toJSON(n.X)

	case *PrintStmt:
		m["type"] = "PrintStmt"
		m["expr"] = toJSON(n.X)

	case *VarDecl:
		m["type"] = "VarDecl"
		m["name"] = n.Name.Lexeme
		if n.Init != nil {
			m["init"] = toJSON(n.Init)
		}

	case *BlockStmt:
		m["type"] = "BlockStmt"
		m["stmts"] = listJSON(n.Stmts)

	case *IfStmt:
		m["type"] = "IfStmt"
		m["cond"] = toJSON(n.Cond)
		m["then"] = toJSON(n.Then)
		if n.Else != nil {
			m["else"] = toJSON(n.Else)
		}

	case *WhileStmt:
		m["type"] = "WhileStmt"
		m["cond"] = toJSON(n.Cond)
		m["body"] = toJSON(n.Body)

	case *FuncDecl:
		m["type"] = "FuncDecl"
		m["name"] = n.Name.Lexeme
		m["params"] = mapSlice(n.Params, func(t Token) interface{} { return t.Lexeme })
		m["body"] = listJSON(n.Body)

	case *ReturnStmt:
		m["type"] = "ReturnStmt"
		if n.Value != nil {
			m["value"] = toJSON(n.Value)
		}

	case *ClassDecl:
		m["type"] = "ClassDecl"
		m["name"] = n.Name.Lexeme
		m["methods"] = listJSON(n.Methods)

	case *LiteralExpr:
		m["type"] = "Literal"
		m["value"] = n.Value

	case *GroupingExpr:
		m["type"] = "Grouping"
		m["expr"] = toJSON(n.X)

	case *UnaryExpr:
		m["type"] = "Unary"
		m["op"] = n.Op.Lexeme
		m["x"] = toJSON(n.X)

	case *BinaryExpr:
		m["type"] = "Binary"
		m["op"] = n.Op.Lexeme
		m["x"] = toJSON(n.X)
		m["y"] = toJSON(n.Y)

	case *LogicalExpr:
		m["type"] = "Logical"
		m["op"] = n.Op.Lexeme
		m["x"] = toJSON(n.X)
		m["y"] = toJSON(n.Y)

	case *VariableExpr:
		m["type"] = "Variable"
		m["id"] = n.ID
		m["name"] = n.Name.Lexeme

	case *AssignExpr:
		m["type"] = "Assign"
		m["id"] = n.ID
		m["name"] = n.Name.Lexeme
		m["value"] = toJSON(n.Value)

	case *CallExpr:
		m["type"] = "Call"
		m["callee"] = toJSON(n.Callee)
		m["args"] = listJSON(n.Args)

	case *GetExpr:
		m["type"] = "Get"
		m["object"] = toJSON(n.Object)
		m["name"] = n.Name.Lexeme

	case *SetExpr:
		m["type"] = "Set"
		m["object"] = toJSON(n.Object)
		m["name"] = n.Name.Lexeme
		m["value"] = toJSON(n.Value)

	case *ThisExpr:
		m["type"] = "This"
		m["id"] = n.ID

	default:
		m["type"] = "Unknown"
	}
	return m
}

func listJSON[T Node](s []T) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = toJSON(v)
	}
	return result
}

func mapSlice[T any](s []T, f func(T) interface{}) []interface{} {
	result := make([]interface{}, len(s))
	for i, v := range s {
		result[i] = f(v)
	}
	return result
}
