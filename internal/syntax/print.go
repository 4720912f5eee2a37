package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes an indented tree representation of stmts to w.
func Fprint(w io.Writer, stmts []Stmt) {
	p := &printer{w: w}
	for _, s := range stmts {
		p.print(s)
	}
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s%s", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

// child prints a labelled sub-node one level deeper.
func (p *printer) child(label string, n Node) {
	p.printf("%s:\n", label)
	p.indent++
	p.print(n)
	p.indent--
}

func (p *printer) print(node Node) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *ExprStmt:
		p.printf("ExprStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *PrintStmt:
		p.printf("PrintStmt %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *VarDecl:
		p.printf("VarDecl %s %s\n", n.pos, n.Name.Lexeme)
		if n.Init != nil {
			p.indent++
			p.child("Init", n.Init)
			p.indent--
		}

	case *BlockStmt:
		p.printf("BlockStmt %s\n", n.pos)
		p.indent++
		for _, s := range n.Stmts {
			p.print(s)
		}
		p.indent--

	case *IfStmt:
		p.printf("IfStmt %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Then", n.Then)
		if n.Else != nil {
			p.child("Else", n.Else)
		}
		p.indent--

	case *WhileStmt:
		p.printf("WhileStmt %s\n", n.pos)
		p.indent++
		p.child("Cond", n.Cond)
		p.child("Body", n.Body)
		p.indent--

	case *FuncDecl:
		p.printf("FuncDecl %s %s(%s)\n", n.pos, n.Name.Lexeme, joinLexemes(n.Params, ", "))
		p.indent++
		for _, s := range n.Body {
			p.print(s)
		}
		p.indent--

	case *ReturnStmt:
		p.printf("ReturnStmt %s\n", n.pos)
		if n.Value != nil {
			p.indent++
			p.print(n.Value)
			p.indent--
		}

	case *ClassDecl:
		p.printf("ClassDecl %s %s\n", n.pos, n.Name.Lexeme)
		p.indent++
		for _, m := range n.Methods {
			p.print(m)
		}
		p.indent--

	case *LiteralExpr:
		p.printf("Literal %s %s\n", n.pos, literalString(n.Value))

	case *GroupingExpr:
		p.printf("Grouping %s\n", n.pos)
		p.indent++
		p.print(n.X)
		p.indent--

	case *UnaryExpr:
		p.printf("Unary %s %s\n", n.pos, n.Op.Lexeme)
		p.indent++
		p.print(n.X)
		p.indent--

	case *BinaryExpr:
		p.printf("Binary %s %s\n", n.pos, n.Op.Lexeme)
		p.indent++
		p.child("X", n.X)
		p.child("Y", n.Y)
		p.indent--

	case *LogicalExpr:
		p.printf("Logical %s %s\n", n.pos, n.Op.Lexeme)
		p.indent++
		p.child("X", n.X)
		p.child("Y", n.Y)
		p.indent--

	case *VariableExpr:
		p.printf("Variable %s %q\n", n.pos, n.Name.Lexeme)

	case *AssignExpr:
		p.printf("Assign %s %q\n", n.pos, n.Name.Lexeme)
		p.indent++
		p.print(n.Value)
		p.indent--

	case *CallExpr:
		p.printf("Call %s\n", n.pos)
		p.indent++
		p.child("Callee", n.Callee)
		if len(n.Args) > 0 {
			p.printf("Args:\n")
			p.indent++
			for _, a := range n.Args {
				p.print(a)
			}
			p.indent--
		}
		p.indent--

	case *GetExpr:
		p.printf("Get %s .%s\n", n.pos, n.Name.Lexeme)
		p.indent++
		p.print(n.Object)
		p.indent--

	case *SetExpr:
		p.printf("Set %s .%s\n", n.pos, n.Name.Lexeme)
		p.indent++
		p.child("Object", n.Object)
		p.child("Value", n.Value)
		p.indent--

	case *ThisExpr:
		p.printf("This %s\n", n.pos)

	default:
		p.printf("<%T>\n", node)
	}
}

// Sprint returns the parenthesized prefix form of a node, e.g.
// (* (- 123) (group 45.67)) for -123 * (45.67).
func Sprint(node Node) string {
	var b strings.Builder
	sexpr(&b, node)
	return b.String()
}

func sexpr(b *strings.Builder, node Node) {
	paren := func(name string, parts ...Node) {
		b.WriteString("(")
		b.WriteString(name)
		for _, n := range parts {
			b.WriteString(" ")
			sexpr(b, n)
		}
		b.WriteString(")")
	}
	block := func(name string, stmts []Stmt) {
		parts := make([]Node, len(stmts))
		for i, s := range stmts {
			parts[i] = s
		}
		paren(name, parts...)
	}

	switch n := node.(type) {
	case *LiteralExpr:
		b.WriteString(literalString(n.Value))
	case *GroupingExpr:
		paren("group", n.X)
	case *UnaryExpr:
		paren(n.Op.Lexeme, n.X)
	case *BinaryExpr:
		paren(n.Op.Lexeme, n.X, n.Y)
	case *LogicalExpr:
		paren(n.Op.Lexeme, n.X, n.Y)
	case *VariableExpr:
		b.WriteString(n.Name.Lexeme)
	case *AssignExpr:
		paren("= "+n.Name.Lexeme, n.Value)
	case *CallExpr:
		parts := append([]Node{n.Callee}, exprNodes(n.Args)...)
		paren("call", parts...)
	case *GetExpr:
		b.WriteString("(. ")
		sexpr(b, n.Object)
		b.WriteString(" " + n.Name.Lexeme + ")")
	case *SetExpr:
		b.WriteString("(set ")
		sexpr(b, n.Object)
		b.WriteString(" " + n.Name.Lexeme + " ")
		sexpr(b, n.Value)
		b.WriteString(")")
	case *ThisExpr:
		b.WriteString("this")

	case *ExprStmt:
		paren(";", n.X)
	case *PrintStmt:
		paren("print", n.X)
	case *VarDecl:
		if n.Init == nil {
			paren("var " + n.Name.Lexeme)
		} else {
			paren("var "+n.Name.Lexeme, n.Init)
		}
	case *BlockStmt:
		block("block", n.Stmts)
	case *IfStmt:
		if n.Else == nil {
			paren("if", n.Cond, n.Then)
		} else {
			paren("if", n.Cond, n.Then, n.Else)
		}
	case *WhileStmt:
		paren("while", n.Cond, n.Body)
	case *FuncDecl:
		block("fun "+n.Name.Lexeme+" ("+joinLexemes(n.Params, " ")+")", n.Body)
	case *ReturnStmt:
		if n.Value == nil {
			paren("return")
		} else {
			paren("return", n.Value)
		}
	case *ClassDecl:
		parts := make([]Node, len(n.Methods))
		for i, m := range n.Methods {
			parts[i] = m
		}
		paren("class "+n.Name.Lexeme, parts...)
	default:
		fmt.Fprintf(b, "<%T>", node)
	}
}

func exprNodes(xs []Expr) []Node {
	nodes := make([]Node, len(xs))
	for i, x := range xs {
		nodes[i] = x
	}
	return nodes
}

func joinLexemes(toks []Token, sep string) string {
	names := make([]string, len(toks))
	for i, t := range toks {
		names[i] = t.Lexeme
	}
	return strings.Join(names, sep)
}

// literalString formats a literal payload. Numbers use the shortest
// decimal text, so 45.0 prints as 45.
func literalString(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
