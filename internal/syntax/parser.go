package syntax

import "io"

// Maximum number of errors before aborting parse.
const maxErrors = 10

// Maximum number of parameters or call arguments.
const maxArgs = 255

// Parser performs syntax analysis on Lox source code.
//
// Each production is a method; precedence from lowest to highest is
// assignment, or, and, equality, comparison, term, factor, unary, call,
// primary. After an error the parser synchronizes at the next statement
// boundary so a single run reports independent errors in separate
// statements.
type Parser struct {
	scanner *Scanner

	tok  Token // current token
	prev Token // most recently consumed token

	errh   ErrorHandler
	errcnt int
	first  *Error
	abort  bool

	// After a syntax error the token stream is frozen at EOF until the
	// enclosing declaration resynchronizes; stalled holds the real token.
	bad     bool
	stalled Token
}

// NewParser creates a Parser for src. errh receives scanner and parser
// diagnostics and may be nil.
func NewParser(filename string, src io.Reader, errh ErrorHandler) *Parser {
	p := &Parser{errh: errh}
	p.scanner = NewScanner(filename, src, p.report)
	p.next()
	return p
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	if p.bad {
		return
	}
	p.prev = p.tok
	p.tok = p.scanner.Next()
}

// got consumes the current token if it has kind k.
func (p *Parser) got(k Kind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}
	return false
}

// want consumes a token of kind k, or reports msg and returns the
// offending token.
func (p *Parser) want(k Kind, msg string) Token {
	if p.tok.Kind != k {
		tok := p.tok
		p.syntaxError(msg)
		return tok
	}
	p.next()
	return p.prev
}

// ----------------------------------------------------------------------------
// Error handling

func (p *Parser) report(err *Error) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = err
	}
	p.errcnt++
	if p.errh != nil {
		p.errh(err)
	}
	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(&Error{Pos: err.Pos, Msg: "too many errors; aborting parse"})
		}
	}
}

// errorAt reports an error at tok. Parsing carries on normally.
func (p *Parser) errorAt(tok Token, msg string) {
	p.report(ErrorAt(tok, msg))
}

// syntaxError reports an error at the current token and freezes the
// parser until the current declaration ends. Only the first error in a
// declaration is reported.
func (p *Parser) syntaxError(msg string) {
	if p.bad {
		return
	}
	p.errorAt(p.tok, msg)
	p.bad = true
	p.stalled = p.tok
	p.tok = Token{Kind: EOF, Pos: p.tok.Pos}
}

// synchronize discards tokens until a probable statement boundary:
// just past a semicolon, or before a keyword that starts a statement.
func (p *Parser) synchronize() {
	p.bad = false
	p.tok = p.stalled
	p.next()
	for p.tok.Kind != EOF {
		if p.prev.Kind == Semicolon || p.tok.Kind.startsStatement() {
			return
		}
		p.next()
	}
}

// Errors returns the number of diagnostics reported, lexical ones included.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first diagnostic, or nil if none.
func (p *Parser) FirstError() error {
	if p.first == nil {
		return nil
	}
	return p.first
}

// ----------------------------------------------------------------------------
// Parsing entry point

// Parse parses the whole input. Statements that failed to parse are
// omitted; callers must check Errors before using the result.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.abort && p.tok.Kind != EOF {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// ----------------------------------------------------------------------------
// Declarations

// declaration parses one declaration or statement. It is the recovery
// point: after a syntax error inside it the parser resynchronizes and
// the partial statement is dropped.
func (p *Parser) declaration() Stmt {
	var s Stmt
	switch {
	case p.got(Class):
		s = p.classDecl()
	case p.got(Fun):
		s = p.funcDecl("function")
	case p.got(Var):
		s = p.varDecl()
	default:
		s = p.statement()
	}

	if p.bad {
		p.synchronize()
		return nil
	}
	return s
}

// classDecl parses: class Name { methods... }
func (p *Parser) classDecl() Stmt {
	d := &ClassDecl{}
	d.pos = p.prev.Pos
	d.Name = p.want(Identifier, "Expect class name.")

	if p.tok.Kind == Less {
		p.syntaxError("Inheritance is not supported.")
	}

	p.want(LeftBrace, "Expect '{' before class body.")
	for p.tok.Kind != RightBrace && p.tok.Kind != EOF {
		d.Methods = append(d.Methods, p.funcDecl("method"))
	}
	p.want(RightBrace, "Expect '}' after class body.")
	return d
}

// funcDecl parses: Name(params) { body }
// The fun keyword, if any, has already been consumed.
func (p *Parser) funcDecl(kind string) *FuncDecl {
	d := &FuncDecl{}
	d.Name = p.want(Identifier, "Expect "+kind+" name.")
	d.pos = d.Name.Pos

	p.want(LeftParen, "Expect '(' after "+kind+" name.")
	if p.tok.Kind != RightParen {
		for {
			if len(d.Params) >= maxArgs {
				p.errorAt(p.tok, "Can't have more than 255 parameters.")
			}
			d.Params = append(d.Params, p.want(Identifier, "Expect parameter name."))
			if !p.got(Comma) {
				break
			}
		}
	}
	p.want(RightParen, "Expect ')' after parameters.")

	p.want(LeftBrace, "Expect '{' before "+kind+" body.")
	d.Body = p.blockBody()
	return d
}

// varDecl parses: var Name [= Init];
func (p *Parser) varDecl() Stmt {
	d := &VarDecl{}
	d.pos = p.prev.Pos
	d.Name = p.want(Identifier, "Expect variable name.")
	if p.got(Equal) {
		d.Init = p.expr()
	}
	p.want(Semicolon, "Expect ';' after variable declaration.")
	return d
}

// ----------------------------------------------------------------------------
// Statements

func (p *Parser) statement() Stmt {
	switch {
	case p.got(For):
		return p.forStmt()
	case p.got(If):
		return p.ifStmt()
	case p.got(Print):
		return p.printStmt()
	case p.got(Return):
		return p.returnStmt()
	case p.got(While):
		return p.whileStmt()
	case p.got(LeftBrace):
		b := &BlockStmt{}
		b.pos = p.prev.Pos
		b.Stmts = p.blockBody()
		return b
	}
	return p.exprStmt()
}

// blockBody parses declarations up to the closing brace.
// The opening brace has already been consumed.
func (p *Parser) blockBody() []Stmt {
	var stmts []Stmt
	for p.tok.Kind != RightBrace && p.tok.Kind != EOF {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.want(RightBrace, "Expect '}' after block.")
	return stmts
}

// forStmt parses for (init; cond; incr) body and desugars it into
//
//	{ init; while (cond) { body; incr; } }
func (p *Parser) forStmt() Stmt {
	pos := p.prev.Pos
	p.want(LeftParen, "Expect '(' after 'for'.")

	var init Stmt
	switch {
	case p.got(Semicolon):
	case p.got(Var):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr
	if p.tok.Kind != Semicolon {
		cond = p.expr()
	}
	p.want(Semicolon, "Expect ';' after loop condition.")

	var incr Expr
	if p.tok.Kind != RightParen {
		incr = p.expr()
	}
	p.want(RightParen, "Expect ')' after for clauses.")

	body := p.statement()

	if incr != nil {
		inc := &ExprStmt{X: incr}
		inc.pos = incr.Pos()
		blk := &BlockStmt{Stmts: []Stmt{body, inc}}
		blk.pos = body.Pos()
		body = blk
	}
	if cond == nil {
		lit := &LiteralExpr{Value: true}
		lit.pos = pos
		cond = lit
	}
	loop := &WhileStmt{Cond: cond, Body: body}
	loop.pos = pos

	if init == nil {
		return loop
	}
	outer := &BlockStmt{Stmts: []Stmt{init, loop}}
	outer.pos = pos
	return outer
}

// ifStmt parses: if (Cond) Then [else Else]
// A dangling else binds to the nearest if.
func (p *Parser) ifStmt() Stmt {
	s := &IfStmt{}
	s.pos = p.prev.Pos
	p.want(LeftParen, "Expect '(' after 'if'.")
	s.Cond = p.expr()
	p.want(RightParen, "Expect ')' after if condition.")
	s.Then = p.statement()
	if p.got(Else) {
		s.Else = p.statement()
	}
	return s
}

func (p *Parser) printStmt() Stmt {
	s := &PrintStmt{}
	s.pos = p.prev.Pos
	s.X = p.expr()
	p.want(Semicolon, "Expect ';' after value.")
	return s
}

func (p *Parser) returnStmt() Stmt {
	s := &ReturnStmt{Keyword: p.prev}
	s.pos = p.prev.Pos
	if p.tok.Kind != Semicolon {
		s.Value = p.expr()
	}
	p.want(Semicolon, "Expect ';' after return value.")
	return s
}

func (p *Parser) whileStmt() Stmt {
	s := &WhileStmt{}
	s.pos = p.prev.Pos
	p.want(LeftParen, "Expect '(' after 'while'.")
	s.Cond = p.expr()
	p.want(RightParen, "Expect ')' after condition.")
	s.Body = p.statement()
	return s
}

func (p *Parser) exprStmt() Stmt {
	s := &ExprStmt{}
	s.pos = p.tok.Pos
	s.X = p.expr()
	p.want(Semicolon, "Expect ';' after expression.")
	return s
}

// ----------------------------------------------------------------------------
// Expressions

func (p *Parser) expr() Expr {
	return p.assignment()
}

// assignment parses the right-associative assignment level. The target is
// parsed as an ordinary expression first and then converted; only
// variables and property gets are valid targets.
func (p *Parser) assignment() Expr {
	x := p.or()

	if p.tok.Kind != Equal {
		return x
	}
	eq := p.tok
	p.next()
	value := p.assignment()

	switch t := x.(type) {
	case *VariableExpr:
		a := &AssignExpr{ID: newID(), Name: t.Name, Value: value}
		a.pos = t.pos
		return a
	case *GetExpr:
		s := &SetExpr{Object: t.Object, Name: t.Name, Value: value}
		s.pos = t.pos
		return s
	}

	// Reported without unwinding: the parser is not confused.
	p.errorAt(eq, "Invalid assignment target.")
	return x
}

func (p *Parser) or() Expr {
	x := p.and()
	for p.tok.Kind == Or {
		x = p.logical(x, p.and)
	}
	return x
}

func (p *Parser) and() Expr {
	x := p.equality()
	for p.tok.Kind == And {
		x = p.logical(x, p.equality)
	}
	return x
}

// logical builds a LogicalExpr from x, the current operator, and an
// operand parsed by rhs.
func (p *Parser) logical(x Expr, rhs func() Expr) Expr {
	op := &LogicalExpr{Op: p.tok, X: x}
	op.pos = x.Pos()
	p.next()
	op.Y = rhs()
	return op
}

func (p *Parser) equality() Expr {
	return p.binary(p.comparison, BangEqual, EqualEqual)
}

func (p *Parser) comparison() Expr {
	return p.binary(p.term, Greater, GreaterEqual, Less, LessEqual)
}

func (p *Parser) term() Expr {
	return p.binary(p.factor, Minus, Plus)
}

func (p *Parser) factor() Expr {
	return p.binary(p.unary, Slash, Star)
}

// binary parses a left-associative chain of operands produced by
// operand, joined by any of ops.
func (p *Parser) binary(operand func() Expr, ops ...Kind) Expr {
	x := operand()
	for p.atAny(ops) {
		op := &BinaryExpr{Op: p.tok, X: x}
		op.pos = x.Pos()
		p.next()
		op.Y = operand()
		x = op
	}
	return x
}

func (p *Parser) atAny(kinds []Kind) bool {
	for _, k := range kinds {
		if p.tok.Kind == k {
			return true
		}
	}
	return false
}

func (p *Parser) unary() Expr {
	if p.tok.Kind == Bang || p.tok.Kind == Minus {
		op := &UnaryExpr{Op: p.tok}
		op.pos = p.tok.Pos
		p.next()
		op.X = p.unary()
		return op
	}
	return p.call()
}

// call parses a primary followed by any chain of calls and property gets.
func (p *Parser) call() Expr {
	x := p.primary()
	for {
		switch {
		case p.got(LeftParen):
			x = p.finishCall(x)
		case p.got(Dot):
			g := &GetExpr{Object: x}
			g.pos = x.Pos()
			g.Name = p.want(Identifier, "Expect property name after '.'.")
			x = g
		default:
			return x
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	c := &CallExpr{Callee: callee}
	c.pos = callee.Pos()
	if p.tok.Kind != RightParen {
		for {
			if len(c.Args) >= maxArgs {
				p.errorAt(p.tok, "Can't have more than 255 arguments.")
			}
			c.Args = append(c.Args, p.expr())
			if !p.got(Comma) {
				break
			}
		}
	}
	c.Paren = p.want(RightParen, "Expect ')' after arguments.")
	return c
}

func (p *Parser) primary() Expr {
	tok := p.tok
	switch tok.Kind {
	case False, True, Nil, Number, String:
		p.next()
		lit := &LiteralExpr{}
		lit.pos = tok.Pos
		switch tok.Kind {
		case False:
			lit.Value = false
		case True:
			lit.Value = true
		case Number, String:
			lit.Value = tok.Literal
		}
		return lit

	case This:
		p.next()
		t := &ThisExpr{ID: newID(), Keyword: tok}
		t.pos = tok.Pos
		return t

	case Identifier:
		p.next()
		v := &VariableExpr{ID: newID(), Name: tok}
		v.pos = tok.Pos
		return v

	case LeftParen:
		p.next()
		g := &GroupingExpr{}
		g.pos = tok.Pos
		g.X = p.expr()
		p.want(RightParen, "Expect ')' after expression.")
		return g
	}

	p.syntaxError("Expect expression.")
	bad := &LiteralExpr{} // placeholder; the declaration is dropped
	bad.pos = tok.Pos
	return bad
}
